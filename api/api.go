// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/admin"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/events"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/middleware"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/pools"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/subscriptions"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/tokens"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint32
	LogsLimit            uint64
	PprofOn              bool
	SkipLogs             bool
	EnableAdmin          bool
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
}

// New returns the api handler and a function closing the live subscriptions.
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pools.New(rt).
		Mount(router, "/pools")
	emission.New(rt).
		Mount(router, "/emission")
	tokens.New(rt).
		Mount(router, "/tokens")
	if !opts.SkipLogs {
		events.New(rt.LogDB(), opts.LogsLimit).
			Mount(router, "/events")
	}
	if opts.EnableAdmin {
		admin.New(rt).
			Mount(router, "/admin")
	}
	subs := subscriptions.New(rt, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut}),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(middleware.RequestIDHeader)}),
		handlers.ExposedHeaders([]string{strings.ToLower(middleware.RequestIDHeader)}),
	)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	return handler.ServeHTTP, subs.Close
}
