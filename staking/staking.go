// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking is an in-memory staking ledger: balances, validator candidates,
// nominations and the active validator set.
package staking

import (
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/log"
	"github.com/vechain/elector/thor"
)

var logger = log.WithContext("pkg", "staking")

var _ election.Ledger = (*Staking)(nil)

var (
	errUnknownValidator = errors.New("unknown validator")
	errInsufficient     = errors.New("insufficient balance")
)

type validator struct {
	selfStake uint64
	chilled   bool
}

type nominator struct {
	stake   uint64
	targets []thor.Address
}

// Staking holds the ledger state. It is safe for concurrent use.
type Staking struct {
	lock sync.Mutex

	eraLength uint32
	desired   uint32

	balances   map[thor.Address]uint64
	reserved   map[thor.Address]uint64
	treasury   uint64
	validators map[thor.Address]*validator
	nominators map[thor.Address]*nominator

	upcoming   uint32 // era boundary last reported by NextElection
	electedFor uint32 // era boundary the active set was elected for
	round      uint32
	active     []thor.Address
	exposures  []election.Exposure
}

// New creates an empty ledger rotating validators every eraLength blocks.
func New(eraLength, desired uint32) *Staking {
	return &Staking{
		eraLength:  eraLength,
		desired:    desired,
		balances:   make(map[thor.Address]uint64),
		reserved:   make(map[thor.Address]uint64),
		validators: make(map[thor.Address]*validator),
		nominators: make(map[thor.Address]*nominator),
	}
}

// SetBalance sets the free balance of an account.
func (s *Staking) SetBalance(who thor.Address, amount uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.balances[who] = amount
}

// Balance returns the free and reserved balance of an account.
func (s *Staking) Balance(who thor.Address) (free, reserved uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.balances[who], s.reserved[who]
}

// TreasuryBalance returns the amount credited to the treasury.
func (s *Staking) TreasuryBalance() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.treasury
}

// SetDesired changes the number of validators elected from the next round on.
func (s *Staking) SetDesired(desired uint32) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.desired = desired
}

// Validate registers who as a validator candidate with its self stake.
// A chilled validator becomes electable again.
func (s *Staking) Validate(who thor.Address, selfStake uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.validators[who] = &validator{selfStake: selfStake}
}

// Chill withdraws a validator from future elections.
func (s *Staking) Chill(who thor.Address) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	v, ok := s.validators[who]
	if !ok {
		return errUnknownValidator
	}
	v.chilled = true
	return nil
}

// Nominate sets the stake and nominations of who, replacing previous ones.
func (s *Staking) Nominate(who thor.Address, stake uint64, targets []thor.Address) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.nominators[who] = &nominator{stake: stake, targets: slices.Clone(targets)}
}

// Active returns the active validator set and its exposures.
func (s *Staking) Active() (uint32, []thor.Address, []election.Exposure) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.round, slices.Clone(s.active), slices.Clone(s.exposures)
}

// Electorate returns the nominators and the self votes of validators as voters,
// and the electable validators as targets, in identity order.
func (s *Staking) Electorate(_, _ int) ([]snapshot.Voter, []snapshot.Target, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var (
		voters  []snapshot.Voter
		targets []snapshot.Target
	)
	for id, v := range s.validators {
		if v.chilled {
			continue
		}
		targets = append(targets, snapshot.Target{ID: id, SelfStake: v.selfStake})
		if v.selfStake > 0 {
			voters = append(voters, snapshot.Voter{ID: id, Stake: v.selfStake, Targets: []thor.Address{id}})
		}
	}
	for id, n := range s.nominators {
		if _, isValidator := s.validators[id]; isValidator {
			continue
		}
		voters = append(voters, snapshot.Voter{ID: id, Stake: n.stake, Targets: slices.Clone(n.targets)})
	}
	slices.SortFunc(targets, func(a, b snapshot.Target) int { return a.ID.Compare(b.ID) })
	slices.SortFunc(voters, func(a, b snapshot.Voter) int { return a.ID.Compare(b.ID) })
	return voters, targets, nil
}

// DesiredWinners returns the size of the validator set.
func (s *Staking) DesiredWinners() (uint32, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.desired, nil
}

// NextElection returns the era boundary the next validator set is due at.
func (s *Staking) NextElection(now uint32) uint32 {
	s.lock.Lock()
	defer s.lock.Unlock()

	next := (now/s.eraLength + 1) * s.eraLength
	if next <= s.electedFor {
		next = s.electedFor + s.eraLength
	}
	s.upcoming = next
	return next
}

// Electable reports whether target is a validator that has not been chilled.
func (s *Staking) Electable(target thor.Address) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	v, ok := s.validators[target]
	return ok && !v.chilled
}

// CommitValidatorSet installs the winners for the upcoming era.
func (s *Staking) CommitValidatorSet(round uint32, winners []thor.Address, exposures []election.Exposure) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.round = round
	s.electedFor = s.upcoming
	if len(winners) == 0 {
		logger.Warn("empty validator set committed, keeping the active one", "round", round, "active", len(s.active))
		return nil
	}
	s.active = slices.Clone(winners)
	s.exposures = slices.Clone(exposures)
	logger.Info("validator set installed", "round", round, "validators", len(winners), "era", s.electedFor)
	return nil
}

// Reserve moves amount from who's free to reserved balance.
func (s *Staking) Reserve(who thor.Address, amount uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.balances[who] < amount {
		return errors.Wrapf(errInsufficient, "%v has %d, needs %d", who, s.balances[who], amount)
	}
	s.balances[who] -= amount
	s.reserved[who] += amount
	return nil
}

// Unreserve moves up to amount back from reserved to free balance.
func (s *Staking) Unreserve(who thor.Address, amount uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	amount = min(amount, s.reserved[who])
	s.reserved[who] -= amount
	s.balances[who] += amount
}

// Slash removes up to amount of who's reserved balance.
func (s *Staking) Slash(who thor.Address, amount uint64) uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	amount = min(amount, s.reserved[who])
	s.reserved[who] -= amount
	return amount
}

// Reward credits who's free balance.
func (s *Staking) Reward(who thor.Address, amount uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.balances[who] += amount
}

// Treasury credits the treasury.
func (s *Staking) Treasury(amount uint64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.treasury += amount
}
