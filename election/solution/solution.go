// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solution defines the voter to target assignment submitted for an election round.
//
// A Solution is the compact edge-list form carried by submissions. Dense is the expanded
// per-voter form, one row per snapshot voter, used by the feasibility and scoring math.
package solution

import (
	"slices"
)

// Edge assigns part of a voter's stake to a target.
type Edge struct {
	Target uint16 `json:"target"`
	Weight uint64 `json:"weight"`
}

// Assignment is the distribution of one voter's stake.
type Assignment struct {
	Voter uint32 `json:"voter"`
	Edges []Edge `json:"edges"`
}

// Solution is the wire form of an assignment for the snapshot of Round.
type Solution struct {
	Round       uint32       `json:"round"`
	Assignments []Assignment `json:"assignments"`
}

// Winners returns the sorted distinct targets receiving a non-zero weight.
func (s *Solution) Winners() []uint16 {
	var winners []uint16
	for _, a := range s.Assignments {
		for _, e := range a.Edges {
			if e.Weight > 0 {
				winners = append(winners, e.Target)
			}
		}
	}
	slices.Sort(winners)
	return slices.Compact(winners)
}

// EdgeCount returns the total number of edges.
func (s *Solution) EdgeCount() int {
	n := 0
	for _, a := range s.Assignments {
		n += len(a.Edges)
	}
	return n
}

// Dense is the expanded assignment: Rows[v] holds the edges of voter v sorted by target.
type Dense struct {
	Round uint32
	Rows  [][]Edge
}

// NewDense creates an empty assignment for the given voter count.
func NewDense(round uint32, voters int) *Dense {
	return &Dense{Round: round, Rows: make([][]Edge, voters)}
}

// Add adds weight to the edge voter->target.
func (d *Dense) Add(voter int, target uint16, weight uint64) {
	row := d.Rows[voter]
	i, found := slices.BinarySearchFunc(row, target, func(e Edge, t uint16) int { return int(e.Target) - int(t) })
	if found {
		row[i].Weight += weight
		return
	}
	d.Rows[voter] = slices.Insert(row, i, Edge{Target: target, Weight: weight})
}

// Sub removes weight from the edge voter->target, dropping the edge once it reaches zero.
// It panics if the edge holds less than weight.
func (d *Dense) Sub(voter int, target uint16, weight uint64) {
	row := d.Rows[voter]
	i, found := slices.BinarySearchFunc(row, target, func(e Edge, t uint16) int { return int(e.Target) - int(t) })
	if !found || row[i].Weight < weight {
		panic("solution: weight underflow")
	}
	row[i].Weight -= weight
	if row[i].Weight == 0 {
		d.Rows[voter] = slices.Delete(row, i, i+1)
	}
}

// Weight returns the weight on the edge voter->target.
func (d *Dense) Weight(voter int, target uint16) uint64 {
	row := d.Rows[voter]
	i, found := slices.BinarySearchFunc(row, target, func(e Edge, t uint16) int { return int(e.Target) - int(t) })
	if !found {
		return 0
	}
	return row[i].Weight
}

// Clear removes every edge of a voter.
func (d *Dense) Clear(voter int) {
	d.Rows[voter] = nil
}

// Copy returns a deep copy.
func (d *Dense) Copy() *Dense {
	cpy := &Dense{Round: d.Round, Rows: make([][]Edge, len(d.Rows))}
	for i, row := range d.Rows {
		cpy.Rows[i] = slices.Clone(row)
	}
	return cpy
}

// Backings returns the sum of incoming weights per target.
func (d *Dense) Backings(targets int) []uint64 {
	backings := make([]uint64, targets)
	for _, row := range d.Rows {
		for _, e := range row {
			backings[e.Target] += e.Weight
		}
	}
	return backings
}

// Compact converts the dense form into the wire form. Voters without edges are omitted.
func Compact(d *Dense) *Solution {
	sol := &Solution{Round: d.Round}
	for v, row := range d.Rows {
		edges := make([]Edge, 0, len(row))
		for _, e := range row {
			if e.Weight > 0 {
				edges = append(edges, e)
			}
		}
		if len(edges) == 0 {
			continue
		}
		sol.Assignments = append(sol.Assignments, Assignment{Voter: uint32(v), Edges: edges})
	}
	return sol
}
