// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"math"
	"math/bits"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/elector/election/rejection"
	"github.com/vechain/elector/log"
	"github.com/vechain/elector/thor"
)

var logger = log.WithContext("pkg", "snapshot")

// Provider is the staking ledger side of a snapshot.
type Provider interface {
	// Electorate returns the voters and targets of the ledger. The bounds are hints,
	// the builder truncates regardless.
	Electorate(maxVoters, maxTargets int) ([]Voter, []Target, error)
	// DesiredWinners returns the number of winners the next validator set needs.
	DesiredWinners() (uint32, error)
}

// Limits bound the size of a snapshot.
type Limits struct {
	MaxVoters      int
	MaxTargets     int
	MaxNominations int
}

// Build captures the electorate of the provider for the given round.
//
// Targets are ranked by self-stake and voters by stake, ties broken by identity, and the
// highest ranked are retained. Nominations of dropped targets are removed, remaining nominations
// are deduplicated and capped in ledger order; voters left with no stake or no nominations
// are dropped before voters are ranked.
func Build(round uint32, provider Provider, limits Limits) (*Snapshot, error) {
	if limits.MaxTargets > math.MaxUint16+1 {
		limits.MaxTargets = math.MaxUint16 + 1
	}

	desired, err := provider.DesiredWinners()
	if err != nil {
		return nil, errors.WithMessage(err, "desired winners")
	}
	voters, targets, err := provider.Electorate(limits.MaxVoters, limits.MaxTargets)
	if err != nil {
		return nil, errors.WithMessage(err, "electorate")
	}

	targets = truncateTargets(targets, limits.MaxTargets)
	if len(targets) == 0 {
		return nil, rejection.New(rejection.InsufficientCandidates, "no electable targets")
	}
	if desired == 0 {
		return nil, rejection.New(rejection.InsufficientCandidates, "zero desired winners")
	}

	retained := make(map[thor.Address]struct{}, len(targets))
	for _, t := range targets {
		retained[t.ID] = struct{}{}
	}
	voters = truncateVoters(voters, retained, limits.MaxVoters, limits.MaxNominations)

	var total uint64
	for _, v := range voters {
		var carry uint64
		total, carry = bits.Add64(total, v.Stake, 0)
		if carry != 0 {
			return nil, errors.New("total voter stake overflows")
		}
	}

	logger.Debug("snapshot built", "round", round, "voters", len(voters), "targets", len(targets), "desired", desired)
	return New(round, desired, voters, targets), nil
}

func truncateTargets(targets []Target, max int) []Target {
	sorted := make([]Target, 0, len(targets))
	seen := make(map[thor.Address]struct{}, len(targets))
	for _, t := range targets {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		sorted = append(sorted, t)
	}
	slices.SortStableFunc(sorted, func(a, b Target) int {
		if a.SelfStake != b.SelfStake {
			if a.SelfStake > b.SelfStake {
				return -1
			}
			return 1
		}
		return a.ID.Compare(b.ID)
	})
	if max >= 0 && len(sorted) > max {
		sorted = sorted[:max]
	}
	return sorted
}

func truncateVoters(voters []Voter, retained map[thor.Address]struct{}, max, maxNominations int) []Voter {
	kept := make([]Voter, 0, len(voters))
	seenVoter := make(map[thor.Address]struct{}, len(voters))
	for _, v := range voters {
		if v.Stake == 0 {
			continue
		}
		if _, dup := seenVoter[v.ID]; dup {
			continue
		}
		noms := make([]thor.Address, 0, len(v.Targets))
		seen := make(map[thor.Address]struct{}, len(v.Targets))
		for _, t := range v.Targets {
			if _, ok := retained[t]; !ok {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			noms = append(noms, t)
			if maxNominations > 0 && len(noms) == maxNominations {
				break
			}
		}
		if len(noms) == 0 {
			continue
		}
		seenVoter[v.ID] = struct{}{}
		kept = append(kept, Voter{ID: v.ID, Stake: v.Stake, Targets: noms})
	}

	slices.SortStableFunc(kept, func(a, b Voter) int {
		if a.Stake != b.Stake {
			if a.Stake > b.Stake {
				return -1
			}
			return 1
		}
		return a.ID.Compare(b.ID)
	})
	if max >= 0 && len(kept) > max {
		kept = kept[:max]
	}
	return kept
}
