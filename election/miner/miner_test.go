// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/elector/election/fallback"
	"github.com/vechain/elector/election/feasibility"
	"github.com/vechain/elector/election/score"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/test/datagen"
	"github.com/vechain/elector/thor"
)

var testConfig = Config{Iterations: 10, MaxSize: 512 * 1024, MaxEdges: 16}

func randomSnapshot(voters, targets int, desired uint32) *snapshot.Snapshot {
	ts := make([]snapshot.Target, targets)
	for i := range ts {
		ts[i] = snapshot.Target{ID: datagen.RandAddress()}
	}
	vs := make([]snapshot.Voter, voters)
	for i := range vs {
		vs[i] = snapshot.Voter{ID: datagen.RandAddress(), Stake: datagen.RandStake(1, 1000)}
		for range 1 + datagen.RandIntN(5) {
			vs[i].Targets = append(vs[i].Targets, ts[datagen.RandIntN(targets)].ID)
		}
	}
	return snapshot.New(4, desired, vs, ts)
}

func TestMineFeasible(t *testing.T) {
	for range 10 {
		snap := randomSnapshot(300, 20, 6)
		res, err := Mine(context.Background(), snap, testConfig)
		if err != nil {
			require.ErrorIs(t, err, ErrNoSolution)
			continue
		}
		dense, err := feasibility.Check(snap, res.Solution, testConfig.MaxEdges)
		require.NoError(t, err)
		assert.Equal(t, score.Compute(dense, snap.TargetCount()), res.Score)
		assert.Equal(t, uint32(4), res.Solution.Round)
	}
}

func TestMineScenario(t *testing.T) {
	a, b, c := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	snap := snapshot.New(1, 2,
		[]snapshot.Voter{
			{ID: datagen.RandAddress(), Stake: 10, Targets: []thor.Address{a, b}},
			{ID: datagen.RandAddress(), Stake: 10, Targets: []thor.Address{a, b}},
			{ID: datagen.RandAddress(), Stake: 5, Targets: []thor.Address{a}},
			{ID: datagen.RandAddress(), Stake: 5, Targets: []thor.Address{b, c}},
		},
		[]snapshot.Target{{ID: a}, {ID: b}, {ID: c}},
	)
	res, err := Mine(context.Background(), snap, testConfig)
	require.NoError(t, err)
	assert.Equal(t, score.New(15, 30, 450), res.Score)
	assert.Equal(t, []uint16{0, 1}, res.Solution.Winners())
}

func TestMineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Mine(ctx, randomSnapshot(200, 10, 3), testConfig)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMineNoSolution(t *testing.T) {
	a, b := datagen.RandAddress(), datagen.RandAddress()
	snap := snapshot.New(1, 2,
		[]snapshot.Voter{{ID: datagen.RandAddress(), Stake: 5, Targets: []thor.Address{a}}},
		[]snapshot.Target{{ID: a}, {ID: b}},
	)
	_, err := Mine(context.Background(), snap, testConfig)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestTrim(t *testing.T) {
	a, b := datagen.RandAddress(), datagen.RandAddress()
	voters := []snapshot.Voter{
		{ID: datagen.RandAddress(), Stake: 1000, Targets: []thor.Address{a}},
		{ID: datagen.RandAddress(), Stake: 1000, Targets: []thor.Address{b}},
	}
	for range 50 {
		voters = append(voters, snapshot.Voter{ID: datagen.RandAddress(), Stake: 1, Targets: []thor.Address{a, b}})
	}
	snap := snapshot.New(1, 2, voters, []snapshot.Target{{ID: a}, {ID: b}})

	full, err := Mine(context.Background(), snap, testConfig)
	require.NoError(t, err)
	require.Greater(t, solution.EncodedSize(full.Solution), 64)

	cfg := testConfig
	cfg.MaxSize = 64
	res, err := Mine(context.Background(), snap, cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, solution.EncodedSize(res.Solution), 64)
	_, err = feasibility.Check(snap, res.Solution, cfg.MaxEdges)
	require.NoError(t, err)

	cfg.MaxSize = 8
	_, err = Mine(context.Background(), snap, cfg)
	assert.ErrorIs(t, err, ErrNoSolution)
}

func TestPhragmen(t *testing.T) {
	a, b, c := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	snap := snapshot.New(1, 2,
		[]snapshot.Voter{
			{ID: datagen.RandAddress(), Stake: 30, Targets: []thor.Address{a, b}},
			{ID: datagen.RandAddress(), Stake: 20, Targets: []thor.Address{c}},
		},
		[]snapshot.Target{{ID: a}, {ID: b}, {ID: c}},
	)
	// approval alone would elect a and b, phragmen spreads the load to c
	assert.Equal(t, []uint16{0, 1}, fallback.TopApproved(snap, 2))
	assert.Equal(t, []uint16{0, 2}, phragmen(snap, 2))
	assert.Len(t, phragmen(snap, 5), 3)
}

func TestBalance(t *testing.T) {
	a, b := datagen.RandAddress(), datagen.RandAddress()
	snap := snapshot.New(1, 2,
		[]snapshot.Voter{
			{ID: datagen.RandAddress(), Stake: 10, Targets: []thor.Address{a, b}},
			{ID: datagen.RandAddress(), Stake: 4, Targets: []thor.Address{b}},
		},
		[]snapshot.Target{{ID: a}, {ID: b}},
	)
	d := solution.NewDense(1, 2)
	d.Add(0, 0, 10)
	d.Add(1, 1, 4)
	balance(snap, d, []uint16{0, 1}, 10)
	assert.Equal(t, []uint64{7, 7}, d.Backings(2))
}
