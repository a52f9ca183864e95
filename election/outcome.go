// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/thor"
)

// OutcomeKind tells where a committed validator set came from.
type OutcomeKind uint8

const (
	FromSigned OutcomeKind = iota + 1
	FromUnsigned
	FromFallback
	FromPrevious
)

var outcomeNames = map[OutcomeKind]string{
	FromSigned:   "signed",
	FromUnsigned: "unsigned",
	FromFallback: "fallback",
	FromPrevious: "previous",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for kind, name := range outcomeNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return errors.Errorf("unknown outcome kind %q", text)
}

// Outcome is a validator set committed for a round.
type Outcome struct {
	Round     uint32         `json:"round"`
	Height    uint32         `json:"height"`
	Kind      OutcomeKind    `json:"kind"`
	Score     *score.Score   `json:"score" rlp:"nil"`
	Winners   []thor.Address `json:"winners"`
	Exposures []Exposure     `json:"exposures"`
}

// exposures derives the winners and their backing from an accepted assignment.
// Winners are listed in snapshot target order.
func exposures(snap *snapshot.Snapshot, d *solution.Dense) ([]thor.Address, []Exposure) {
	byTarget := make(map[uint16]*Exposure)
	for v, row := range d.Rows {
		voter := snap.Voter(v)
		for _, e := range row {
			exp, ok := byTarget[e.Target]
			if !ok {
				exp = &Exposure{Validator: snap.Target(int(e.Target)).ID}
				byTarget[e.Target] = exp
			}
			exp.Total += e.Weight
			if voter.ID == exp.Validator {
				exp.Own += e.Weight
			} else {
				exp.Others = append(exp.Others, Other{Who: voter.ID, Value: e.Weight})
			}
		}
	}

	targets := make([]uint16, 0, len(byTarget))
	for t := range byTarget {
		targets = append(targets, t)
	}
	slices.Sort(targets)

	winners := make([]thor.Address, 0, len(targets))
	exps := make([]Exposure, 0, len(targets))
	for _, t := range targets {
		winners = append(winners, byTarget[t].Validator)
		exps = append(exps, *byTarget[t])
	}
	return winners, exps
}
