// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package signed holds the deposit backed submissions of the signed phase.
package signed

import (
	"slices"

	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/thor"
)

// Submission is a solution queued with its submitter's locked deposit.
type Submission struct {
	Who      thor.Address       `json:"who"`
	Deposit  uint64             `json:"deposit"`
	Score    score.Score        `json:"score"`
	Seq      uint64             `json:"seq"`
	Solution *solution.Solution `json:"solution"`
}

// Queue is a bounded list of submissions ordered best first.
// Submissions of equal score keep their arrival order.
type Queue struct {
	capacity int
	entries  []*Submission
	seq      uint64
}

// NewQueue creates an empty queue holding at most capacity submissions.
func NewQueue(capacity int) *Queue {
	return &Queue{
		capacity: capacity,
		entries:  make([]*Submission, 0, capacity),
	}
}

// Restore recreates a queue from persisted entries, already ordered best first.
func Restore(capacity int, entries []*Submission) *Queue {
	q := NewQueue(capacity)
	for _, e := range entries {
		q.entries = append(q.entries, e)
		if e.Seq >= q.seq {
			q.seq = e.Seq + 1
		}
	}
	return q
}

// Len returns the number of queued submissions.
func (q *Queue) Len() int { return len(q.entries) }

// Cap returns the capacity.
func (q *Queue) Cap() int { return q.capacity }

// Full reports whether the queue is at capacity.
func (q *Queue) Full() bool { return len(q.entries) >= q.capacity }

// Entries returns the submissions best first.
func (q *Queue) Entries() []*Submission {
	return slices.Clone(q.entries)
}

// Best returns the highest ranked submission, or nil.
func (q *Queue) Best() *Submission {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// Worst returns the lowest ranked submission, or nil.
func (q *Queue) Worst() *Submission {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[len(q.entries)-1]
}

// TotalDeposits sums the deposits held by the queue.
func (q *Queue) TotalDeposits() uint64 {
	var total uint64
	for _, e := range q.entries {
		total += e.Deposit
	}
	return total
}

// Insert ranks sub into the queue. When the queue is full sub must strictly beat the
// worst resident, which is then evicted and returned for a full refund.
// A rejected insert leaves the queue untouched.
func (q *Queue) Insert(sub *Submission) (evicted *Submission, err error) {
	if q.capacity <= 0 {
		return nil, rejection.New(rejection.Outranked, "signed queue disabled")
	}
	if q.Full() {
		worst := q.entries[len(q.entries)-1]
		if !sub.Score.Better(&worst.Score) {
			return nil, rejection.Errorf(rejection.Outranked, "score %v does not beat the worst queued %v", sub.Score, worst.Score)
		}
		evicted = worst
		q.entries = q.entries[:len(q.entries)-1]
	}

	pos := len(q.entries)
	for i, e := range q.entries {
		if sub.Score.Better(&e.Score) {
			pos = i
			break
		}
	}
	sub.Seq = q.seq
	q.seq++
	q.entries = slices.Insert(q.entries, pos, sub)
	return evicted, nil
}

// Clear drops every submission.
func (q *Queue) Clear() {
	q.entries = q.entries[:0]
}
