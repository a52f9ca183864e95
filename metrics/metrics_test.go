// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
	} {
		require.IsType(t, noop{}, a)
	}

	rr := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPromMetrics(t *testing.T) {
	lazyCounter := LazyLoadCounter("lazy_submissions")
	metrics = defaultNoopMetrics()
	InitializePrometheusMetrics()

	count := Counter("submissions")
	countVec := CounterVec("rejections", []string{"kind"})
	gauge := Gauge("queue_len")
	gaugeVec := GaugeVec("phase", []string{"name"})
	hist := Histogram("mine_ms", Bucket10s)

	count.Add(2)
	Counter("submissions").Add(1)
	lazyCounter().Add(5)
	for i := range 4 {
		countVec.AddWithLabel(1, map[string]string{"kind": strconv.Itoa(i % 2)})
	}
	gauge.Set(7)
	gauge.Add(-2)
	gaugeVec.SetWithLabel(1, map[string]string{"name": "signed"})
	gaugeVec.AddWithLabel(3, map[string]string{"name": "signed"})
	hist.Observe(600)
	hist.Observe(1500)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	require.Equal(t, float64(3), byName["elector_submissions"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(5), byName["elector_lazy_submissions"].Metric[0].GetCounter().GetValue())
	require.Len(t, byName["elector_rejections"].Metric, 2)
	require.Equal(t, float64(5), byName["elector_queue_len"].Metric[0].GetGauge().GetValue())
	require.Equal(t, float64(4), byName["elector_phase"].Metric[0].GetGauge().GetValue())
	require.Equal(t, uint64(2), byName["elector_mine_ms"].Metric[0].GetHistogram().GetSampleCount())

	require.IsType(t, &promCountMeter{}, count)
	require.NotNil(t, HTTPHandler())
}
