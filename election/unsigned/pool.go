// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package unsigned buffers unsigned solutions submitted off the sequential path
// until the next block drains them.
package unsigned

import (
	"slices"
	"sync"

	"github.com/vechain/elector/cache"
	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/log"
	"github.com/vechain/elector/thor"
)

var logger = log.WithContext("pkg", "unsigned")

// Candidate is a feasibility-checked unsigned solution waiting for inclusion.
type Candidate struct {
	Solution    *solution.Solution
	Score       score.Score
	Fingerprint thor.Bytes32
}

type seenKey struct {
	round       uint32
	fingerprint thor.Bytes32
}

// Pool holds pending candidates of one round ordered best first.
// It is safe for concurrent use.
type Pool struct {
	lock     sync.Mutex
	capacity int
	round    uint32
	open     bool
	pending  []*Candidate
	best     *score.Score
	seen     *cache.LRU
}

// NewPool creates a pool holding at most capacity pending candidates and
// remembering seenSize fingerprints.
func NewPool(capacity, seenSize int) (*Pool, error) {
	seen, err := cache.NewLRU(seenSize)
	if err != nil {
		return nil, err
	}
	return &Pool{capacity: capacity, seen: seen}, nil
}

// Open starts accepting candidates for round, dropping anything pending.
// best is the best unsigned score already accepted for the round, if any.
func (p *Pool) Open(round uint32, best *score.Score) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.round = round
	p.open = true
	p.pending = nil
	p.best = best
}

// Close stops accepting candidates and drops anything pending.
func (p *Pool) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.open {
		dup, fresh := p.seen.Stats()
		logger.Debug("unsigned pool closed", "round", p.round, "pending", len(p.pending), "duplicates", dup, "fresh", fresh)
	}
	p.open = false
	p.pending = nil
	p.best = nil
}

// Round returns the round the pool accepts and whether it is open.
func (p *Pool) Round() (uint32, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.round, p.open
}

// Add queues a candidate. It must be strictly better than the best accepted solution
// of the round, and when the pool is full, than the worst pending one.
func (p *Pool) Add(c *Candidate) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.open {
		return rejection.New(rejection.DeadlineExceeded, "unsigned phase is not open")
	}
	if c.Solution.Round != p.round {
		return rejection.Errorf(rejection.InvalidRound, "solution round %d, live round %d", c.Solution.Round, p.round)
	}
	if p.seen.Mark(seenKey{p.round, c.Fingerprint}) {
		return rejection.Errorf(rejection.Known, "solution %v already seen", c.Fingerprint.AbbrevString())
	}
	if p.best != nil && !c.Score.Better(p.best) {
		return rejection.Errorf(rejection.Outranked, "score %v does not beat the accepted %v", c.Score, *p.best)
	}
	if len(p.pending) >= p.capacity {
		worst := p.pending[len(p.pending)-1]
		if !c.Score.Better(&worst.Score) {
			return rejection.Errorf(rejection.Outranked, "score %v does not beat the worst pending %v", c.Score, worst.Score)
		}
		p.pending = p.pending[:len(p.pending)-1]
		logger.Debug("pending candidate preempted", "fingerprint", worst.Fingerprint, "score", worst.Score)
	}

	pos := len(p.pending)
	for i, e := range p.pending {
		if c.Score.Better(&e.Score) {
			pos = i
			break
		}
	}
	p.pending = slices.Insert(p.pending, pos, c)
	return nil
}

// Pop removes and returns the best pending candidate, or nil.
func (p *Pool) Pop() *Candidate {
	p.lock.Lock()
	defer p.lock.Unlock()

	if len(p.pending) == 0 {
		return nil
	}
	c := p.pending[0]
	p.pending = p.pending[1:]
	return c
}

// Accepted records the score of a candidate taken by the sequential path.
// Pending candidates that no longer beat it are dropped.
func (p *Pool) Accepted(s score.Score) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.best = &s
	p.pending = slices.DeleteFunc(p.pending, func(c *Candidate) bool {
		return !c.Score.Better(&s)
	})
}

// Len returns the number of pending candidates.
func (p *Pool) Len() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.pending)
}
