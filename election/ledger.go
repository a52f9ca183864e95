// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/thor"
)

// Other is the stake of one nominator behind a validator.
type Other struct {
	Who   thor.Address `json:"who"`
	Value uint64       `json:"value"`
}

// Exposure is the stake backing one elected validator.
type Exposure struct {
	Validator thor.Address `json:"validator"`
	Total     uint64       `json:"total"`
	Own       uint64       `json:"own"`
	Others    []Other      `json:"others"`
}

// Electorate is the read side of the staking ledger.
type Electorate interface {
	snapshot.Provider
	// NextElection returns the height the next validator set must be in place at.
	NextElection(now uint32) uint32
	// Electable reports whether the target may still be elected under current ledger state.
	Electable(target thor.Address) bool
}

// Sink receives the validator set of a round.
type Sink interface {
	// CommitValidatorSet installs the winners of a round. An empty winner list keeps the current set.
	CommitValidatorSet(round uint32, winners []thor.Address, exposures []Exposure) error
}

// Currency locks and moves submitter deposits.
type Currency interface {
	// Reserve locks amount of who's free balance.
	Reserve(who thor.Address, amount uint64) error
	// Unreserve returns up to amount of who's reserved balance.
	Unreserve(who thor.Address, amount uint64)
	// Slash burns up to amount of who's reserved balance and returns what was taken.
	Slash(who thor.Address, amount uint64) uint64
	// Reward credits amount to who's free balance.
	Reward(who thor.Address, amount uint64)
	// Treasury credits amount to the treasury.
	Treasury(amount uint64)
}

// Ledger is everything the engine needs from the staking ledger.
type Ledger interface {
	Electorate
	Sink
	Currency
}
