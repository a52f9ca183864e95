// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes32JSON(t *testing.T) {
	original := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var b Bytes32
	require.NoError(t, json.Unmarshal([]byte(original), &b))
	assert.Equal(t, "0x00000000…73746572", b.AbbrevString())

	byValue, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, original, string(byValue))

	byPtr, err := json.Marshal(&b)
	require.NoError(t, err)
	assert.Equal(t, original, string(byPtr))
}

func TestParseBytes32(t *testing.T) {
	hex := "00000000000000000000000000000000000000000000000000006d6173746572"

	withPrefix, err := ParseBytes32("0X" + hex)
	require.NoError(t, err)
	bare, err := ParseBytes32(hex)
	require.NoError(t, err)
	assert.Equal(t, withPrefix, bare)
	assert.False(t, bare.IsZero())

	_, err = ParseBytes32("0x1234")
	assert.EqualError(t, err, "invalid length")
	_, err = ParseBytes32("zz" + hex)
	assert.EqualError(t, err, "invalid length")
	_, err = ParseBytes32(hex[:62] + "zz")
	assert.Error(t, err)
}

func TestBlake2b(t *testing.T) {
	data := []byte("elector")

	single := Blake2b(data)
	split := Blake2b(data[:3], data[3:])
	assert.Equal(t, single, split, "split input should hash the same")
	assert.NotEqual(t, single, Blake2b([]byte("elect0r")))
	assert.True(t, Bytes32{}.IsZero())
}
