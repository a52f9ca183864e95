// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rejection

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestRejection(t *testing.T) {
	err := Errorf(InvalidRound, "solution round %d, live round %d", 1, 2)
	assert.Equal(t, "InvalidRound: solution round 1, live round 2", err.Error())
	assert.Equal(t, "solution round 1, live round 2", err.Message())
	assert.True(t, Is(err, InvalidRound))
	assert.False(t, Is(err, OutOfRange))

	wrapped := pkgerrors.WithMessage(err, "submit signed")
	kind, ok := KindOf(wrapped)
	assert.True(t, ok)
	assert.Equal(t, InvalidRound, kind)
	assert.True(t, IsRejection(wrapped))

	assert.False(t, IsRejection(errors.New("disk full")))
	assert.False(t, IsRejection(nil))
}

func TestKindString(t *testing.T) {
	for kind := InvalidRound; kind <= Known; kind++ {
		assert.NotContains(t, kind.String(), "Kind(")
	}
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
