// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "github.com/vechain/elector/api/election"
	"github.com/vechain/elector/api/utils"
	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/phase"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/election/solution"
	"github.com/vechain/elector/lvldb"
	"github.com/vechain/elector/staking"
	"github.com/vechain/elector/thor"
)

var (
	v1, v2, v3, v4 = addr(1), addr(2), addr(3), addr(4)
	tA, tB, tC     = addr(0xa), addr(0xb), addr(0xc)
	s1             = addr(0x51)
)

func addr(b byte) thor.Address {
	return thor.BytesToAddress([]byte{b})
}

func initServer(t *testing.T) (*httptest.Server, *election.Engine) {
	ledger := staking.New(100, 2)
	for _, target := range []thor.Address{tA, tB, tC} {
		ledger.Validate(target, 0)
	}
	ledger.Nominate(v1, 10, []thor.Address{tA, tB})
	ledger.Nominate(v2, 10, []thor.Address{tA, tB})
	ledger.Nominate(v3, 5, []thor.Address{tA, tB, tC})
	ledger.Nominate(v4, 5, []thor.Address{tA, tB, tC})
	ledger.SetBalance(s1, 1000)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := election.DefaultConfig()
	cfg.SignedDuration = 3
	cfg.UnsignedDuration = 2
	engine, err := election.New(cfg, ledger, db)
	require.NoError(t, err)
	t.Cleanup(engine.Close)

	router := mux.NewRouter()
	api.New(engine).Mount(router, "/election")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, engine
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func evenSolution(t *testing.T, snap *snapshot.Snapshot) *solution.Solution {
	edges := map[thor.Address]struct {
		target thor.Address
		weight uint64
	}{
		v1: {tA, 10}, v2: {tB, 10}, v3: {tA, 5}, v4: {tB, 5},
	}
	d := solution.NewDense(snap.Round(), snap.VoterCount())
	for i, v := range snap.Voters() {
		idx, ok := snap.TargetIndex(edges[v.ID].target)
		require.True(t, ok)
		d.Add(i, idx, edges[v.ID].weight)
	}
	return solution.Compact(d)
}

func TestElection(t *testing.T) {
	ts, engine := initServer(t)

	for name, tt := range map[string]func(*testing.T){
		"idle": func(t *testing.T) {
			body, code := httpGet(t, ts.URL+"/election/status")
			require.Equal(t, http.StatusOK, code)
			var status election.Status
			require.NoError(t, json.Unmarshal(body, &status))
			assert.Equal(t, phase.Off, status.Phase)
			assert.Equal(t, uint32(1), status.NextRound)

			_, code = httpGet(t, ts.URL+"/election/snapshot")
			assert.Equal(t, http.StatusNotFound, code)
			_, code = httpGet(t, ts.URL+"/election/outcome")
			assert.Equal(t, http.StatusNotFound, code)

			body, code = httpGet(t, ts.URL+"/election/queue")
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, "[]", string(body))

			body, code = httpGet(t, ts.URL+"/election/outcomes")
			assert.Equal(t, http.StatusOK, code)
			assert.JSONEq(t, "[]", string(body))
		},
		"deposit": func(t *testing.T) {
			body, code := httpGet(t, ts.URL+"/election/deposit?assignments=4")
			require.Equal(t, http.StatusOK, code)
			var dep api.Deposit
			require.NoError(t, json.Unmarshal(body, &dep))
			assert.Equal(t, uint64(104), dep.Required)

			_, code = httpGet(t, ts.URL+"/election/deposit?assignments=-1")
			assert.Equal(t, http.StatusBadRequest, code)
		},
	} {
		t.Run(name, tt)
	}

	require.NoError(t, engine.OnBlock(94))

	t.Run("snapshot", func(t *testing.T) {
		body, code := httpGet(t, ts.URL+"/election/snapshot")
		require.Equal(t, http.StatusOK, code)
		var snap api.Snapshot
		require.NoError(t, json.Unmarshal(body, &snap))
		assert.Equal(t, uint32(1), snap.Round)
		assert.Equal(t, uint32(2), snap.DesiredWinners)
		assert.Equal(t, uint64(30), snap.TotalStake)
		assert.Len(t, snap.Voters, 4)
		assert.Len(t, snap.Targets, 3)
	})

	sol := evenSolution(t, engine.Snapshot())

	t.Run("rejections", func(t *testing.T) {
		body, code := httpPost(t, ts.URL+"/election/unsigned", &api.UnsignedRequest{Solution: sol})
		assert.Equal(t, http.StatusForbidden, code)
		var msg utils.RejectionMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		assert.Equal(t, "DeadlineExceeded", msg.Kind)

		body, code = httpPost(t, ts.URL+"/election/signed", &api.SignedRequest{Who: &s1, Deposit: 1, Solution: sol})
		assert.Equal(t, http.StatusPaymentRequired, code)
		require.NoError(t, json.Unmarshal(body, &msg))
		assert.Equal(t, "InsufficientDeposit", msg.Kind)

		stale := *sol
		stale.Round = 7
		body, code = httpPost(t, ts.URL+"/election/signed", &api.SignedRequest{Who: &s1, Deposit: 104, Solution: &stale})
		assert.Equal(t, http.StatusBadRequest, code)
		require.NoError(t, json.Unmarshal(body, &msg))
		assert.Equal(t, "InvalidRound", msg.Kind)

		_, code = httpPost(t, ts.URL+"/election/signed", &api.SignedRequest{Deposit: 104, Solution: sol})
		assert.Equal(t, http.StatusBadRequest, code)
		_, code = httpPost(t, ts.URL+"/election/signed", map[string]any{"unknown": 1})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("signed", func(t *testing.T) {
		body, code := httpPost(t, ts.URL+"/election/signed", &api.SignedRequest{Who: &s1, Deposit: 104, Solution: sol})
		require.Equal(t, http.StatusOK, code, string(body))
		var res api.SubmitResult
		require.NoError(t, json.Unmarshal(body, &res))
		assert.Equal(t, uint32(1), res.Round)
		assert.Equal(t, solution.Fingerprint(sol), res.Fingerprint)

		body, code = httpGet(t, ts.URL+"/election/queue")
		require.Equal(t, http.StatusOK, code)
		var queue []api.Submission
		require.NoError(t, json.Unmarshal(body, &queue))
		require.Len(t, queue, 1)
		assert.Equal(t, s1, queue[0].Who)
		assert.Equal(t, uint64(104), queue[0].Deposit)
		assert.Equal(t, 4, queue[0].Assignments)
	})

	for h := uint32(95); h <= 110; h++ {
		require.NoError(t, engine.OnBlock(h))
	}

	t.Run("outcome", func(t *testing.T) {
		body, code := httpGet(t, ts.URL+"/election/outcome")
		require.Equal(t, http.StatusOK, code)
		var out election.Outcome
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, uint32(1), out.Round)
		assert.Equal(t, []thor.Address{tA, tB}, out.Winners)

		body, code = httpGet(t, ts.URL+"/election/outcome/1")
		require.Equal(t, http.StatusOK, code)
		var past election.Outcome
		require.NoError(t, json.Unmarshal(body, &past))
		assert.Equal(t, out.Winners, past.Winners)

		_, code = httpGet(t, ts.URL+"/election/outcome/9")
		assert.Equal(t, http.StatusNotFound, code)
		_, code = httpGet(t, ts.URL+"/election/outcome/x")
		assert.Equal(t, http.StatusBadRequest, code)

		body, code = httpGet(t, ts.URL+"/election/outcomes?limit=5")
		require.Equal(t, http.StatusOK, code)
		var outs []election.Outcome
		require.NoError(t, json.Unmarshal(body, &outs))
		require.Len(t, outs, 1)
		assert.Equal(t, out.Winners, outs[0].Winners)

		for _, q := range []string{"0", "101", "many"} {
			_, code = httpGet(t, ts.URL+"/election/outcomes?limit="+q)
			assert.Equal(t, http.StatusBadRequest, code, q)
		}
	})
}
