// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/signed"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/thor"
)

type Voter struct {
	ID      thor.Address   `json:"id"`
	Stake   uint64         `json:"stake"`
	Targets []thor.Address `json:"targets"`
}

type Target struct {
	ID        thor.Address `json:"id"`
	SelfStake uint64       `json:"selfStake"`
}

// Snapshot is the frozen electorate of the live round. Solutions refer to
// voters and targets by their position in these lists.
type Snapshot struct {
	Round          uint32   `json:"round"`
	DesiredWinners uint32   `json:"desiredWinners"`
	TotalStake     uint64   `json:"totalStake"`
	Voters         []Voter  `json:"voters"`
	Targets        []Target `json:"targets"`
}

func convertSnapshot(snap *snapshot.Snapshot) *Snapshot {
	s := &Snapshot{
		Round:          snap.Round(),
		DesiredWinners: snap.DesiredWinners(),
		TotalStake:     snap.TotalStake(),
		Voters:         make([]Voter, 0, snap.VoterCount()),
		Targets:        make([]Target, 0, snap.TargetCount()),
	}
	for _, v := range snap.Voters() {
		s.Voters = append(s.Voters, Voter{ID: v.ID, Stake: v.Stake, Targets: v.Targets})
	}
	for _, t := range snap.Targets() {
		s.Targets = append(s.Targets, Target{ID: t.ID, SelfStake: t.SelfStake})
	}
	return s
}

// Submission is a queued signed submission without its assignments.
type Submission struct {
	Who         thor.Address `json:"who"`
	Deposit     uint64       `json:"deposit"`
	Score       score.Score  `json:"score"`
	Seq         uint64       `json:"seq"`
	Assignments int          `json:"assignments"`
	Fingerprint thor.Bytes32 `json:"fingerprint"`
}

func convertQueue(entries []*signed.Submission) []*Submission {
	subs := make([]*Submission, 0, len(entries))
	for _, e := range entries {
		subs = append(subs, &Submission{
			Who:         e.Who,
			Deposit:     e.Deposit,
			Score:       e.Score,
			Seq:         e.Seq,
			Assignments: len(e.Solution.Assignments),
			Fingerprint: solution.Fingerprint(e.Solution),
		})
	}
	return subs
}

// SignedRequest submits a solution through the signed channel.
type SignedRequest struct {
	Who      *thor.Address      `json:"who"`
	Deposit  uint64             `json:"deposit"`
	Solution *solution.Solution `json:"solution"`
}

// UnsignedRequest submits a solution through the unsigned channel.
type UnsignedRequest struct {
	Solution *solution.Solution `json:"solution"`
}

// SubmitResult is responded for an accepted submission.
type SubmitResult struct {
	Round       uint32       `json:"round"`
	Fingerprint thor.Bytes32 `json:"fingerprint"`
}

// Deposit is the deposit a signed submission must lock.
type Deposit struct {
	Assignments int    `json:"assignments"`
	Required    uint64 `json:"required"`
}
