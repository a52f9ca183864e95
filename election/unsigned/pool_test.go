// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unsigned

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/test/datagen"
)

func newCandidate(round uint32, minimal uint64) *Candidate {
	return &Candidate{
		Solution:    &solution.Solution{Round: round},
		Score:       score.New(minimal, 10, 10),
		Fingerprint: datagen.RandBytes32(),
	}
}

func newPool(t *testing.T, capacity int) *Pool {
	p, err := NewPool(capacity, 64)
	require.NoError(t, err)
	return p
}

func TestPoolClosed(t *testing.T) {
	p := newPool(t, 2)
	err := p.Add(newCandidate(1, 1))
	assert.True(t, rejection.Is(err, rejection.DeadlineExceeded))

	p.Open(1, nil)
	require.NoError(t, p.Add(newCandidate(1, 1)))
	p.Close()
	assert.Zero(t, p.Len())
	_, open := p.Round()
	assert.False(t, open)
}

func TestPoolRules(t *testing.T) {
	p := newPool(t, 2)
	p.Open(3, nil)

	err := p.Add(newCandidate(2, 5))
	assert.True(t, rejection.Is(err, rejection.InvalidRound))

	c := newCandidate(3, 5)
	require.NoError(t, p.Add(c))
	dup := *c
	err = p.Add(&dup)
	assert.True(t, rejection.Is(err, rejection.Known))

	require.NoError(t, p.Add(newCandidate(3, 7)))
	// full: equal to the worst is not enough
	err = p.Add(newCandidate(3, 5))
	assert.True(t, rejection.Is(err, rejection.Outranked))
	require.NoError(t, p.Add(newCandidate(3, 6)))
	assert.Equal(t, 2, p.Len())

	best := p.Pop()
	assert.Equal(t, uint64(7), best.Score.MinimalStake.Uint64())
	p.Accepted(best.Score)
	assert.Zero(t, p.Len(), "pending candidates worse than the accepted one are dropped")

	err = p.Add(newCandidate(3, 7))
	assert.True(t, rejection.Is(err, rejection.Outranked))
	require.NoError(t, p.Add(newCandidate(3, 8)))
	assert.Nil(t, newPool(t, 1).Pop())
}

func TestPoolOpenResets(t *testing.T) {
	p := newPool(t, 4)
	p.Open(1, nil)
	c := newCandidate(1, 3)
	require.NoError(t, p.Add(c))

	s := score.New(4, 10, 10)
	p.Open(2, &s)
	assert.Zero(t, p.Len())
	round, open := p.Round()
	assert.Equal(t, uint32(2), round)
	assert.True(t, open)

	err := p.Add(newCandidate(2, 4))
	assert.True(t, rejection.Is(err, rejection.Outranked))

	// the same fingerprint is new in another round
	again := *c
	again.Solution = &solution.Solution{Round: 2}
	again.Score = score.New(9, 10, 10)
	require.NoError(t, p.Add(&again))
}

func TestPoolConcurrent(t *testing.T) {
	p := newPool(t, 8)
	p.Open(1, nil)

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Add(newCandidate(1, uint64(i)))
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, p.Len())

	prev := p.Pop()
	for c := p.Pop(); c != nil; c = p.Pop() {
		assert.False(t, c.Score.Better(&prev.Score))
		prev = c
	}
	assert.Equal(t, uint64(56), prev.Score.MinimalStake.Uint64())
}
