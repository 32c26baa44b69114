// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/middleware"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/test/testchain"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func newServer(t *testing.T, opts Options) *httptest.Server {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(chain.Close)

	handler, closeSubs := New(chain.Runtime(), opts)
	t.Cleanup(closeSubs)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	mux.Handle("/", handler)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func httpGet(t *testing.T, url string, header ...string) ([]byte, *http.Response) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "pools", routeLabel("GET /pools"))
	assert.Equal(t, "pools_pid_emergency_withdraw", routeLabel("POST /pools/{pid}/emergency-withdraw"))
	assert.Equal(t, "tokens_assets_asset_balances_address", routeLabel("GET /tokens/assets/{asset}/balances/{address}"))
}

func TestMetricsMiddleware(t *testing.T) {
	ts := newServer(t, Options{AllowedOrigins: "*", EnableMetrics: true, LogsLimit: 100})

	_, res := httpGet(t, ts.URL+"/pools")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_, res = httpGet(t, ts.URL+"/pools/0")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	_, res = httpGet(t, ts.URL+"/pools/9")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	// unmatched routes are not recorded
	_, res = httpGet(t, ts.URL+"/nowhere")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	family, ok := families["farm_api_request_count"]
	require.True(t, ok)
	counts := make(map[string]float64)
	for _, m := range family.GetMetric() {
		labels := m.GetLabel()
		require.Len(t, labels, 3)
		assert.Equal(t, "code", labels[0].GetName())
		assert.Equal(t, "method", labels[1].GetName())
		assert.Equal(t, "name", labels[2].GetName())
		counts[labels[2].GetValue()+"/"+labels[0].GetValue()] += m.GetCounter().GetValue()
	}
	assert.Equal(t, float64(1), counts["pools/200"])
	assert.Equal(t, float64(1), counts["pools_pid/200"])
	assert.Equal(t, float64(1), counts["pools_pid/404"])
	assert.Len(t, counts, 3)

	_, ok = families["farm_api_duration_ms"]
	assert.True(t, ok)
}

func TestRouting(t *testing.T) {
	ts := newServer(t, Options{AllowedOrigins: "https://farm.example", LogsLimit: 100})

	for _, path := range []string{"/pools", "/emission", "/tokens/reward"} {
		_, res := httpGet(t, ts.URL+path)
		assert.Equal(t, http.StatusOK, res.StatusCode, path)
	}
	_, res := httpGet(t, ts.URL+"/admin/config")
	assert.Equal(t, http.StatusNotFound, res.StatusCode, "admin disabled")

	res, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestOptions(t *testing.T) {
	ts := newServer(t, Options{AllowedOrigins: "https://farm.example", SkipLogs: true, EnableAdmin: true})

	_, res := httpGet(t, ts.URL+"/admin/config")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader))

	res, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode, "logs skipped")

	_, res = httpGet(t, ts.URL+"/pools", "Origin", "https://farm.example")
	assert.Equal(t, "https://farm.example", res.Header.Get("Access-Control-Allow-Origin"))
	_, res = httpGet(t, ts.URL+"/pools", "Origin", "https://other.example")
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}
