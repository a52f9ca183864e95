// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package feasibility decides whether a solution is a valid assignment for a snapshot.
package feasibility

import (
	"math/bits"

	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
)

// Check validates sol against snap and returns its dense form when accepted.
//
// The checks run in a fixed order and the first failure is returned:
// the round, the index ranges and edge bound, the edge shape, the nominations,
// the per-voter stake sums and finally the number of distinct winners.
// Neither argument is modified.
func Check(snap *snapshot.Snapshot, sol *solution.Solution, maxEdges int) (*solution.Dense, error) {
	if sol.Round != snap.Round() {
		return nil, rejection.Errorf(rejection.InvalidRound, "solution round %d, live round %d", sol.Round, snap.Round())
	}

	dense, err := solution.Expand(sol, solution.Bounds{
		Voters:   snap.VoterCount(),
		Targets:  snap.TargetCount(),
		MaxEdges: maxEdges,
	})
	if err != nil {
		return nil, err
	}

	for v, row := range dense.Rows {
		for _, e := range row {
			if !snap.Nominated(v, e.Target) {
				return nil, rejection.Errorf(rejection.InfeasibleAssignment, "voter %d did not nominate target %d", v, e.Target)
			}
		}
	}

	for v, row := range dense.Rows {
		if len(row) == 0 {
			continue
		}
		var sum uint64
		for _, e := range row {
			var carry uint64
			sum, carry = bits.Add64(sum, e.Weight, 0)
			if carry != 0 {
				return nil, rejection.Errorf(rejection.InfeasibleAssignment, "voter %d weights overflow", v)
			}
		}
		if stake := snap.Voter(v).Stake; sum != stake {
			return nil, rejection.Errorf(rejection.InfeasibleAssignment, "voter %d assigns %d, stake is %d", v, sum, stake)
		}
	}

	winners := make(map[uint16]struct{})
	for _, row := range dense.Rows {
		for _, e := range row {
			winners[e.Target] = struct{}{}
		}
	}
	if uint64(len(winners)) != uint64(snap.DesiredWinners()) {
		return nil, rejection.Errorf(rejection.InfeasibleAssignment, "%d winners, %d desired", len(winners), snap.DesiredWinners())
	}
	return dense, nil
}
