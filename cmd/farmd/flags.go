// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the state and event databases",
		EnvVar: "FARMD_DATA_DIR",
	}
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Value:  "devnet",
		Usage:  "path to a genesis yaml file, or 'devnet'",
		EnvVar: "FARMD_GENESIS",
	}
	persistFlag = cli.BoolFlag{
		Name:   "persist",
		Usage:  "keep the databases in data-dir, in-memory otherwise",
		EnvVar: "FARMD_PERSIST",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
		EnvVar: "FARMD_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "FARMD_API_CORS",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:   "api-timeout",
		Value:  10000,
		Usage:  "API request timeout value in milliseconds",
		EnvVar: "FARMD_API_TIMEOUT",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:   "api-backtrace-limit",
		Value:  1000,
		Usage:  "limit the distance between 'position' and best block for subscriptions",
		EnvVar: "FARMD_API_BACKTRACE_LIMIT",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:   "api-logs-limit",
		Value:  1000,
		Usage:  "limit the number of logs returned by /events API",
		EnvVar: "FARMD_API_LOGS_LIMIT",
	}
	apiEnableAdminFlag = cli.BoolFlag{
		Name:   "api-enable-admin",
		Usage:  "enable the owner administration endpoints (/admin)",
		EnvVar: "FARMD_API_ENABLE_ADMIN",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:   "api-slow-queries-threshold",
		Usage:  "all queries with duration (ms) above the threshold will be logged",
		EnvVar: "FARMD_API_SLOW_QUERIES_THRESHOLD",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: "FARMD_ENABLE_API_LOGS",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	blockIntervalFlag = cli.Uint64Flag{
		Name:   "block-interval",
		Value:  3,
		Usage:  "seconds between two sealed blocks",
		EnvVar: "FARMD_BLOCK_INTERVAL",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		Value:  log.LegacyLevelInfo,
		Usage:  "log verbosity (0-9)",
		EnvVar: "FARMD_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		Usage:  "output logs in JSON format",
		EnvVar: "FARMD_JSON_LOGS",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "FARMD_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "FARMD_METRICS_ADDR",
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		Usage:  "operator admin service listening address, disabled if empty",
		EnvVar: "FARMD_ADMIN_ADDR",
	}
	disableNTPFlag = cli.BoolFlag{
		Name:  "disable-ntp",
		Usage: "skip the clock offset check against pool.ntp.org",
	}

	// replay flags
	scriptFlag = cli.StringFlag{
		Name:  "script",
		Usage: "path to the yaml replay script",
	}
	noProgressFlag = cli.BoolFlag{
		Name:  "no-progress",
		Usage: "do not draw the progress bar",
	}

	// status flags
	nodeFlag = cli.StringFlag{
		Name:  "node",
		Value: "http://localhost:8669",
		Usage: "url of the farm node api",
	}
	userFlag = cli.StringFlag{
		Name:  "user",
		Usage: "address of the user whose positions are printed",
	}
)
