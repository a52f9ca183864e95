// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fallback computes a feasible assignment on-chain when no submission arrives in time.
// Everything here is deterministic integer arithmetic over the snapshot.
package fallback

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
)

// ErrInsufficientBacking is returned when fewer targets than desired can be backed.
var ErrInsufficientBacking = errors.New("insufficient backing for desired winners")

// Approvals returns, per target, the total stake of the voters nominating it.
func Approvals(snap *snapshot.Snapshot) []uint64 {
	approvals := make([]uint64, snap.TargetCount())
	for v := range snap.VoterCount() {
		stake := snap.Voter(v).Stake
		for _, t := range snap.Nominations(v) {
			approvals[t] += stake
		}
	}
	return approvals
}

// TopApproved returns up to n targets with a non-zero approval, highest first.
// Ties go to the lower index.
func TopApproved(snap *snapshot.Snapshot, n int) []uint16 {
	approvals := Approvals(snap)
	ranked := make([]uint16, 0, len(approvals))
	for t, a := range approvals {
		if a > 0 {
			ranked = append(ranked, uint16(t))
		}
	}
	slices.SortStableFunc(ranked, func(a, b uint16) int {
		switch {
		case approvals[a] > approvals[b]:
			return -1
		case approvals[a] < approvals[b]:
			return 1
		}
		return int(a) - int(b)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Elect picks the desired number of targets by approval stake and assigns stake to them.
func Elect(snap *snapshot.Snapshot) (*solution.Dense, error) {
	desired := int(snap.DesiredWinners())
	winners := TopApproved(snap, desired)
	if len(winners) < desired {
		return nil, errors.Wrapf(ErrInsufficientBacking, "%d approved targets, %d desired", len(winners), desired)
	}
	return Assign(snap, winners)
}

// Assign distributes voter stake over the given winners so that every winner is backed and
// every voter nominating a winner spends its whole stake on winners.
//
// Each winner is first given one unit of nominator stake, see seed.
// Voters then, in snapshot order, pour their remaining stake into their least backed winners.
func Assign(snap *snapshot.Snapshot, winners []uint16) (*solution.Dense, error) {
	isWinner := make(map[uint16]bool, len(winners))
	for _, w := range winners {
		isWinner[w] = true
	}

	var (
		dense     = solution.NewDense(snap.Round(), snap.VoterCount())
		remaining = make([]uint64, snap.VoterCount())
		backing   = make(map[uint16]uint64, len(winners))
	)
	for v := range remaining {
		remaining[v] = snap.Voter(v).Stake
	}

	owners, err := seed(snap, winners)
	if err != nil {
		return nil, err
	}
	for i, w := range winners {
		v := owners[i]
		remaining[v]--
		backing[w]++
		dense.Add(v, w, 1)
	}

	for v := range remaining {
		if remaining[v] == 0 {
			continue
		}
		var targets []uint16
		for _, t := range snap.Nominations(v) {
			if isWinner[t] {
				targets = append(targets, t)
			}
		}
		if len(targets) == 0 {
			continue
		}
		for t, amount := range pour(remaining[v], targets, backing) {
			dense.Add(v, t, amount)
			backing[t] += amount
		}
		remaining[v] = 0
	}
	return dense, nil
}

// seed picks for every winner a nominator spending one unit of stake on it, with no voter
// spending more units than its stake. It returns the chosen voter per winner position.
//
// A winner takes the supporter with the most unspent stake. When all its supporters are
// spent, the units they gave to earlier winners are moved along augmenting paths, so seed
// only fails when no such choice exists at all.
func seed(snap *snapshot.Snapshot, winners []uint16) ([]int, error) {
	var (
		supports = snap.Supporters()
		owners   = make([]int, len(winners))
		units    = make([][]int, snap.VoterCount()) // winner positions seeded by each voter
	)
	unspent := func(v int) uint64 {
		return snap.Voter(v).Stake - uint64(len(units[v]))
	}

	var augment func(i int, seen []bool) bool
	augment = func(i int, seen []bool) bool {
		best := -1
		for _, v := range supports[winners[i]] {
			if !seen[v] && unspent(v) > 0 && (best < 0 || unspent(v) > unspent(best)) {
				best = v
			}
		}
		if best >= 0 {
			seen[best] = true
			units[best] = append(units[best], i)
			owners[i] = best
			return true
		}
		for _, v := range supports[winners[i]] {
			if seen[v] {
				continue
			}
			seen[v] = true
			for k, j := range units[v] {
				if augment(j, seen) {
					units[v][k] = i
					owners[i] = v
					return true
				}
			}
		}
		return false
	}

	for i, w := range winners {
		if !augment(i, make([]bool, snap.VoterCount())) {
			return nil, errors.Wrapf(ErrInsufficientBacking, "target %d cannot be given a unit of stake", w)
		}
	}
	return owners, nil
}

// pour splits amount over targets raising the lowest backings first.
func pour(amount uint64, targets []uint16, backing map[uint16]uint64) map[uint16]uint64 {
	order := slices.Clone(targets)
	slices.SortStableFunc(order, func(a, b uint16) int {
		switch {
		case backing[a] < backing[b]:
			return -1
		case backing[a] > backing[b]:
			return 1
		}
		return int(a) - int(b)
	})

	out := make(map[uint16]uint64, len(order))
	level := backing[order[0]]
	k := 1
	for amount > 0 {
		for k < len(order) && backing[order[k]] <= level {
			k++
		}
		if k < len(order) {
			gap := backing[order[k]] - level
			if need, hi := mul(gap, uint64(k)); !hi && need <= amount {
				for _, t := range order[:k] {
					out[t] += backing[order[k]] - backing[t] - out[t]
				}
				amount -= need
				level = backing[order[k]]
				continue
			}
		}
		each, rest := amount/uint64(k), amount%uint64(k)
		for i, t := range order[:k] {
			out[t] += each
			if uint64(i) < rest {
				out[t]++
			}
		}
		amount = 0
	}
	for t, v := range out {
		if v == 0 {
			delete(out, t)
		}
	}
	return out
}

func mul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, false
	}
	c := a * b
	return c, c/b != a
}
