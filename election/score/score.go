// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package score

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/elector/election/solution"
)

// Score ranks solutions. Higher MinimalStake is better, then higher SumStake,
// then lower SumStakeSquared.
type Score struct {
	MinimalStake    uint256.Int
	SumStake        uint256.Int
	SumStakeSquared uint256.Int
}

// New builds a score from plain values.
func New(minimal, sum, sumSquared uint64) Score {
	var s Score
	s.MinimalStake.SetUint64(minimal)
	s.SumStake.SetUint64(sum)
	s.SumStakeSquared.SetUint64(sumSquared)
	return s
}

// Compute scores an accepted assignment. Only targets with a non-zero backing count as winners.
func Compute(d *solution.Dense, targets int) Score {
	var (
		s       Score
		winners int
		b, sq   uint256.Int
	)
	for _, backing := range d.Backings(targets) {
		if backing == 0 {
			continue
		}
		b.SetUint64(backing)
		if winners == 0 || b.Lt(&s.MinimalStake) {
			s.MinimalStake.Set(&b)
		}
		winners++
		s.SumStake.Add(&s.SumStake, &b)
		sq.Mul(&b, &b)
		s.SumStakeSquared.Add(&s.SumStakeSquared, &sq)
	}
	return s
}

// Compare returns 1 if s is better than other, -1 if worse, and 0 when equal.
func (s *Score) Compare(other *Score) int {
	if c := s.MinimalStake.Cmp(&other.MinimalStake); c != 0 {
		return c
	}
	if c := s.SumStake.Cmp(&other.SumStake); c != 0 {
		return c
	}
	return other.SumStakeSquared.Cmp(&s.SumStakeSquared)
}

// Better reports whether s strictly beats other.
func (s *Score) Better(other *Score) bool {
	return s.Compare(other) > 0
}

// IsZero reports whether no winner is backed.
func (s *Score) IsZero() bool {
	return s.MinimalStake.IsZero() && s.SumStake.IsZero() && s.SumStakeSquared.IsZero()
}

func (s Score) String() string {
	return fmt.Sprintf("(%s, %s, %s)", s.MinimalStake.Dec(), s.SumStake.Dec(), s.SumStakeSquared.Dec())
}
