// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
)

// balance moves each voter's stake from its most backed winner towards its least backed
// nominated winner, for at most rounds passes or until nothing moves.
// A move never takes more than half of the gap, so no winner drops to zero.
func balance(snap *snapshot.Snapshot, d *solution.Dense, winners []uint16, rounds int) {
	isWinner := make(map[uint16]bool, len(winners))
	for _, w := range winners {
		isWinner[w] = true
	}
	backing := d.Backings(snap.TargetCount())

	for range rounds {
		moved := false
		for v, row := range d.Rows {
			if len(row) == 0 {
				continue
			}
			hi := row[0].Target
			for _, e := range row[1:] {
				if backing[e.Target] > backing[hi] {
					hi = e.Target
				}
			}
			lo, found := uint16(0), false
			for _, t := range snap.Nominations(v) {
				if isWinner[t] && (!found || backing[t] < backing[lo]) {
					lo, found = t, true
				}
			}
			if !found || backing[hi]-backing[lo] < 2 {
				continue
			}
			amount := min((backing[hi]-backing[lo])/2, d.Weight(v, hi))
			d.Sub(v, hi, amount)
			d.Add(v, lo, amount)
			backing[hi] -= amount
			backing[lo] += amount
			moved = true
		}
		if !moved {
			return
		}
	}
}
