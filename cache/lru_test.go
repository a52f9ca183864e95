// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/elector/cache"
)

func TestLRUMark(t *testing.T) {
	c, err := cache.NewLRU(2)
	require.NoError(t, err)

	assert.False(t, c.Mark("a"))
	assert.True(t, c.Mark("a"))
	assert.False(t, c.Mark("b"))
	// "a" was refreshed by the second mark, so "b" is the one evicted
	assert.True(t, c.Mark("a"))
	assert.False(t, c.Mark("c"))
	assert.False(t, c.Mark("b"))

	hit, miss := c.Stats()
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(4), miss)
}

func TestNewLRUInvalidSize(t *testing.T) {
	_, err := cache.NewLRU(0)
	assert.Error(t, err)
}
