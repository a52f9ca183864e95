// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"math"

	"github.com/vechain/elector/election/fallback"
	"github.com/vechain/elector/election/snapshot"
)

// phragmen picks n winners by sequential Phragmén: each round elects the target whose
// supporters would carry the lowest load, then raises their loads to it.
func phragmen(snap *snapshot.Snapshot, n int) []uint16 {
	var (
		approvals = fallback.Approvals(snap)
		supports  = snap.Supporters()
		loads     = make([]float64, snap.VoterCount())
		elected   = make([]bool, snap.TargetCount())
		winners   = make([]uint16, 0, n)
	)
	for len(winners) < n {
		best, bestScore := -1, math.Inf(1)
		for t, approval := range approvals {
			if elected[t] || approval == 0 {
				continue
			}
			score := 1.0
			for _, v := range supports[t] {
				score += float64(snap.Voter(v).Stake) * loads[v]
			}
			score /= float64(approval)
			if score < bestScore {
				best, bestScore = t, score
			}
		}
		if best < 0 {
			break
		}
		elected[best] = true
		winners = append(winners, uint16(best))
		for _, v := range supports[best] {
			loads[v] = bestScore
		}
	}
	return winners
}
