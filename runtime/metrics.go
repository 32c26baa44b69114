// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
)

var (
	metricCallsCount   = metrics.LazyLoadCounterVec("calls_count", []string{"op", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("call_duration_ms", []string{"op"}, metrics.BucketCallDuration)
	metricBestBlock    = metrics.LazyLoadGauge("best_block")
	metricBlockEvents  = metrics.LazyLoadHistogram("block_events", []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500})
)
