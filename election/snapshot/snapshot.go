// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"slices"

	"github.com/vechain/elector/thor"
)

// Voter is a stake-weighted participant nominating one or more targets.
type Voter struct {
	ID      thor.Address
	Stake   uint64         // in VET
	Targets []thor.Address // nominations, in the order given by the ledger
}

// Target is a candidate eligible to be elected.
type Target struct {
	ID        thor.Address
	SelfStake uint64 // in VET
}

// Snapshot is the frozen electorate of one election round.
// It must not be modified once created, it is shared with off-path miners.
type Snapshot struct {
	round   uint32
	desired uint32
	voters  []Voter
	targets []Target

	targetIndex map[thor.Address]uint16
	nominations [][]uint16 // per voter, sorted target indices
	totalStake  uint64
}

// New creates a snapshot from already bounded voters and targets.
// Nominations of targets unknown to the snapshot are ignored.
func New(round, desired uint32, voters []Voter, targets []Target) *Snapshot {
	s := &Snapshot{
		round:       round,
		desired:     desired,
		voters:      voters,
		targets:     targets,
		targetIndex: make(map[thor.Address]uint16, len(targets)),
		nominations: make([][]uint16, len(voters)),
	}
	for i, t := range targets {
		s.targetIndex[t.ID] = uint16(i)
	}
	for i, v := range voters {
		s.totalStake += v.Stake
		noms := make([]uint16, 0, len(v.Targets))
		for _, id := range v.Targets {
			if idx, ok := s.targetIndex[id]; ok {
				noms = append(noms, idx)
			}
		}
		slices.Sort(noms)
		s.nominations[i] = slices.Compact(noms)
	}
	return s
}

// Round returns the round identifier the snapshot was taken for.
func (s *Snapshot) Round() uint32 { return s.round }

// DesiredWinners returns how many winners a solution must elect.
func (s *Snapshot) DesiredWinners() uint32 { return s.desired }

// VoterCount returns the number of voters.
func (s *Snapshot) VoterCount() int { return len(s.voters) }

// TargetCount returns the number of targets.
func (s *Snapshot) TargetCount() int { return len(s.targets) }

// TotalStake returns the sum of all voter stakes.
func (s *Snapshot) TotalStake() uint64 { return s.totalStake }

// Voter returns the voter at index i.
func (s *Snapshot) Voter(i int) Voter { return s.voters[i] }

// Target returns the target at index i.
func (s *Snapshot) Target(i int) Target { return s.targets[i] }

// Voters returns a copy of the voter list.
func (s *Snapshot) Voters() []Voter { return slices.Clone(s.voters) }

// Targets returns a copy of the target list.
func (s *Snapshot) Targets() []Target { return slices.Clone(s.targets) }

// TargetIndex looks up the index of a target.
func (s *Snapshot) TargetIndex(id thor.Address) (uint16, bool) {
	idx, ok := s.targetIndex[id]
	return idx, ok
}

// Nominations returns the sorted target indices nominated by voter i.
// The returned slice must not be modified.
func (s *Snapshot) Nominations(i int) []uint16 {
	return s.nominations[i]
}

// Nominated reports whether voter i nominated target t.
func (s *Snapshot) Nominated(i int, t uint16) bool {
	_, found := slices.BinarySearch(s.nominations[i], t)
	return found
}

// Supporters returns, per target, the indices of voters nominating it.
func (s *Snapshot) Supporters() [][]int {
	out := make([][]int, len(s.targets))
	for v, noms := range s.nominations {
		for _, t := range noms {
			out[t] = append(out[t], v)
		}
	}
	return out
}
