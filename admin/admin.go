// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints of a node: log verbosity, API request
// logging and health. It listens apart from the public API.
package admin

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/co"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/health"
)

func HTTPHandler(logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").
		Methods(http.MethodGet).
		HandlerFunc(getLogLevelHandler(logLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		HandlerFunc(postLogLevelHandler(logLevel))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		HandlerFunc(getAPILogsHandler(apiLogs))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		HandlerFunc(postAPILogsHandler(apiLogs))
	sub.Path("/health").
		Methods(http.MethodGet).
		HandlerFunc(healthHandler(h))
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.MethodNotAllowedHandler = notAllowed
	sub.MethodNotAllowedHandler = notAllowed
	return handlers.CompressHandler(router)
}

// StartServer serves the admin endpoints on addr. It returns the base url and a
// function stopping the server.
func StartServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, h *health.Health) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{
		Handler:           HTTPHandler(logLevel, apiLogs, h),
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
