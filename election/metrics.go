// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import "github.com/vechain/elector/metrics"

var (
	metricSubmissions  = metrics.LazyLoadCounterVec("election_submissions_count", []string{"channel", "result"})
	metricQueueLength  = metrics.LazyLoadGauge("election_signed_queue_length")
	metricPhase        = metrics.LazyLoadGauge("election_phase")
	metricOutcomes     = metrics.LazyLoadCounterVec("election_outcomes_count", []string{"kind"})
	metricFallbackRuns = metrics.LazyLoadCounterVec("election_emergency_count", []string{"policy"})
)
