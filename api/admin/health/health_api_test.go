// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/elector/election/phase"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestHealth() (*Health, *clock) {
	c := &clock{now: time.Unix(1700000000, 0)}
	h := New()
	h.now = c.Now
	return h, c
}

func TestHealthStatus(t *testing.T) {
	h, c := newTestHealth()

	st := h.Status(time.Minute)
	assert.False(t, st.Healthy)
	assert.Nil(t, st.BlockIngestion)

	h.NewBlock(10, phase.Signed)
	st = h.Status(time.Minute)
	assert.True(t, st.Healthy)
	assert.Equal(t, uint32(10), st.BlockIngestion.Height)
	assert.Equal(t, phase.Signed, st.Phase)

	c.now = c.now.Add(2 * time.Minute)
	assert.False(t, h.Status(time.Minute).Healthy)
	assert.True(t, h.Status(3*time.Minute).Healthy)

	h.NewBlock(11, phase.Emergency)
	assert.False(t, h.Status(time.Minute).Healthy)
}

func TestHealthAPI(t *testing.T) {
	h, c := newTestHealth()
	router := mux.NewRouter()
	NewAPI(h, 15*time.Second).Mount(router, "/health")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var status Status
	body, code := httpGet(t, ts.URL+"/health")
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, status.Healthy)

	h.NewBlock(5, phase.Unsigned)
	body, code = httpGet(t, ts.URL+"/health")
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, status.Healthy)
	assert.Equal(t, phase.Unsigned, status.Phase)

	c.now = c.now.Add(time.Minute)
	_, code = httpGet(t, ts.URL+"/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	_, code = httpGet(t, ts.URL+"/health?maxTimeBetweenBlocks=2m")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/health?maxTimeBetweenBlocks=soon")
	assert.Equal(t, http.StatusBadRequest, code)
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()

	r, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return r, res.StatusCode
}
