// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solution

import (
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/thor"
)

// Bounds limit the shape of a decodable solution.
type Bounds struct {
	Voters   int // voters in the snapshot
	Targets  int // targets in the snapshot
	MaxEdges int // edges allowed per voter
}

// CheckRange verifies every index and edge count against the bounds.
func CheckRange(sol *Solution, b Bounds) error {
	for _, a := range sol.Assignments {
		if int64(a.Voter) >= int64(b.Voters) {
			return rejection.Errorf(rejection.OutOfRange, "voter index %d out of range [0, %d)", a.Voter, b.Voters)
		}
		if len(a.Edges) > b.MaxEdges {
			return rejection.Errorf(rejection.OutOfRange, "voter %d has %d edges, bound is %d", a.Voter, len(a.Edges), b.MaxEdges)
		}
		for _, e := range a.Edges {
			if int(e.Target) >= b.Targets {
				return rejection.Errorf(rejection.OutOfRange, "target index %d out of range [0, %d)", e.Target, b.Targets)
			}
		}
	}
	return nil
}

// Expand converts the wire form into the dense form.
// Out of range indices and edge counts fail with OutOfRange; duplicate voters, duplicate
// targets within a voter and zero weights fail with InfeasibleAssignment.
func Expand(sol *Solution, b Bounds) (*Dense, error) {
	if err := CheckRange(sol, b); err != nil {
		return nil, err
	}
	d := NewDense(sol.Round, b.Voters)
	seen := make([]bool, b.Voters)
	for _, a := range sol.Assignments {
		if seen[a.Voter] {
			return nil, rejection.Errorf(rejection.InfeasibleAssignment, "voter %d assigned twice", a.Voter)
		}
		seen[a.Voter] = true

		row := make([]Edge, 0, len(a.Edges))
		for _, e := range a.Edges {
			if e.Weight == 0 {
				return nil, rejection.Errorf(rejection.InfeasibleAssignment, "voter %d has a zero weight edge to %d", a.Voter, e.Target)
			}
			row = append(row, e)
		}
		slices.SortFunc(row, func(x, y Edge) int { return int(x.Target) - int(y.Target) })
		for i := 1; i < len(row); i++ {
			if row[i].Target == row[i-1].Target {
				return nil, rejection.Errorf(rejection.InfeasibleAssignment, "voter %d backs target %d twice", a.Voter, row[i].Target)
			}
		}
		if len(row) > 0 {
			d.Rows[a.Voter] = row
		}
	}
	return d, nil
}

// Encode returns the RLP encoding of the solution.
func Encode(sol *Solution) ([]byte, error) {
	return rlp.EncodeToBytes(sol)
}

// Decode parses an RLP encoded solution.
func Decode(data []byte) (*Solution, error) {
	var sol Solution
	if err := rlp.DecodeBytes(data, &sol); err != nil {
		return nil, err
	}
	return &sol, nil
}

// EncodedSize returns the size in bytes of the RLP encoding.
func EncodedSize(sol *Solution) int {
	data, err := Encode(sol)
	if err != nil {
		return 0
	}
	return len(data)
}

// Fingerprint identifies a solution by the hash of its encoding.
func Fingerprint(sol *Solution) thor.Bytes32 {
	data, err := Encode(sol)
	if err != nil {
		return thor.Bytes32{}
	}
	return thor.Blake2b(data)
}
