// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
)

var (
	metricWriteDuration = metrics.LazyLoadHistogram("logdb_write_duration_ms", metrics.BucketCallDuration)
	metricQueryOrder    = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order"})
	metricCriteriaCount = metrics.LazyLoadHistogram("logdb_criteria_length", []int64{0, 1, 2, 5, 10, 25, 100})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	order := "asc"
	if filter.Order == DESC {
		order = "desc"
	}
	metricQueryOrder().AddWithLabel(1, map[string]string{"order": order})
	metricCriteriaCount().Observe(int64(len(filter.CriteriaSet)))
}
