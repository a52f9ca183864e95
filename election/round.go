// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/signed"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
)

// Accepted is the best unsigned solution taken into the round.
type Accepted struct {
	Solution *solution.Solution `json:"solution"`
	Score    score.Score        `json:"score"`
}

// Round is one election cycle, from snapshot to commitment.
// It is only touched from the sequential path.
type Round struct {
	ID       uint32
	Opened   uint32 // height the round was opened at
	Machine  phase.Machine
	Snapshot *snapshot.Snapshot // nil when the electorate had no candidates
	Queue    *signed.Queue
	Signed   *signed.Submission // signed phase winner, set after validation
	Unsigned *Accepted
	Pending  *Outcome // resolved, waiting for a successful commit
}

// Phase returns the current phase.
func (r *Round) Phase() phase.Phase {
	return r.Machine.Phase
}

// best returns the better of the signed winner and the accepted unsigned solution.
// Ties go to the signed winner.
func (r *Round) best() (*solution.Solution, *score.Score, OutcomeKind) {
	switch {
	case r.Signed != nil && r.Unsigned != nil:
		if r.Unsigned.Score.Better(&r.Signed.Score) {
			return r.Unsigned.Solution, &r.Unsigned.Score, FromUnsigned
		}
		return r.Signed.Solution, &r.Signed.Score, FromSigned
	case r.Signed != nil:
		return r.Signed.Solution, &r.Signed.Score, FromSigned
	case r.Unsigned != nil:
		return r.Unsigned.Solution, &r.Unsigned.Score, FromUnsigned
	}
	return nil, nil, 0
}
