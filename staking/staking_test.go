// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/test/datagen"
	"github.com/vechain/elector/thor"
)

func TestElectorate(t *testing.T) {
	s := New(100, 2)
	v1, v2, v3, n := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	s.Validate(v1, 10)
	s.Validate(v2, 0)
	s.Validate(v3, 5)
	s.Nominate(n, 50, []thor.Address{v1, v2})
	require.NoError(t, s.Chill(v3))
	assert.ErrorIs(t, s.Chill(n), errUnknownValidator)

	voters, targets, err := s.Electorate(10, 10)
	require.NoError(t, err)
	assert.Len(t, targets, 2)
	assert.ElementsMatch(t, []snapshot.Voter{
		{ID: v1, Stake: 10, Targets: []thor.Address{v1}},
		{ID: n, Stake: 50, Targets: []thor.Address{v1, v2}},
	}, voters)

	assert.True(t, s.Electable(v1))
	assert.False(t, s.Electable(v3))
	assert.False(t, s.Electable(n))

	desired, err := s.DesiredWinners()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), desired)
}

func TestNextElection(t *testing.T) {
	s := New(100, 1)
	assert.Equal(t, uint32(100), s.NextElection(0))
	assert.Equal(t, uint32(100), s.NextElection(60))

	v := datagen.RandAddress()
	require.NoError(t, s.CommitValidatorSet(1, []thor.Address{v}, []election.Exposure{{Validator: v, Total: 1, Own: 1}}))
	// elected for 100, the next one is due at 200
	assert.Equal(t, uint32(200), s.NextElection(61))
	assert.Equal(t, uint32(200), s.NextElection(120))

	round, active, exposures := s.Active()
	assert.Equal(t, uint32(1), round)
	assert.Equal(t, []thor.Address{v}, active)
	assert.Len(t, exposures, 1)

	require.NoError(t, s.CommitValidatorSet(2, nil, nil))
	round, active, _ = s.Active()
	assert.Equal(t, uint32(2), round)
	assert.Equal(t, []thor.Address{v}, active, "an empty commit keeps the active set")
}

func TestCurrency(t *testing.T) {
	s := New(100, 1)
	who := datagen.RandAddress()
	s.SetBalance(who, 100)

	assert.Error(t, s.Reserve(who, 101))
	require.NoError(t, s.Reserve(who, 60))
	free, reserved := s.Balance(who)
	assert.Equal(t, uint64(40), free)
	assert.Equal(t, uint64(60), reserved)

	assert.Equal(t, uint64(20), s.Slash(who, 20))
	s.Unreserve(who, 100)
	free, reserved = s.Balance(who)
	assert.Equal(t, uint64(80), free)
	assert.Zero(t, reserved)
	assert.Zero(t, s.Slash(who, 5))

	s.Reward(who, 5)
	s.Treasury(7)
	free, _ = s.Balance(who)
	assert.Equal(t, uint64(85), free)
	assert.Equal(t, uint64(7), s.TreasuryBalance())
}
