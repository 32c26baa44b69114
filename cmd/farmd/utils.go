// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/genesis"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/logdb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/lvldb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
	farmrt "github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
)

// initLogger installs the root handler. The returned level can be changed at runtime.
func initLogger(ctx *cli.Context, w io.Writer) *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))
	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandler(w, lvl)
	} else {
		handler = log.TerminalHandler(w, useColor(w), lvl)
	}
	log.SetDefault(handler)
	return lvl
}

func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.cfn.farmd")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.cfn.farmd")
		default:
			return filepath.Join(home, ".org.cfn.farmd")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func loadGenesis(ctx *cli.Context) (*genesis.Config, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" || path == "devnet" {
		return genesis.NewDevnet(), nil
	}
	gen, err := genesis.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load genesis %v", path)
	}
	return gen, nil
}

func makeInstanceDir(ctx *cli.Context, gen *genesis.Config) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	id := gen.ID()
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

// databases holds the state and event stores of a node.
type databases struct {
	main  *lvldb.LevelDB
	logs  *logdb.LogDB
	where string
}

func openDatabases(ctx *cli.Context, gen *genesis.Config) (*databases, error) {
	if !ctx.Bool(persistFlag.Name) {
		return openMemDatabases()
	}
	instanceDir, err := makeInstanceDir(ctx, gen)
	if err != nil {
		return nil, err
	}
	mainDB, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	logDB, err := logdb.New(filepath.Join(instanceDir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.Wrap(err, "open log database")
	}
	return &databases{mainDB, logDB, instanceDir}, nil
}

func openMemDatabases() (*databases, error) {
	mainDB, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		mainDB.Close()
		return nil, err
	}
	return &databases{mainDB, logDB, "Memory"}, nil
}

func (d *databases) Close() {
	logger.Info("closing log database...")
	if err := d.logs.Close(); err != nil {
		logger.Warn("failed to close log database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func newAPIServer(ctx *cli.Context, rt *farmrt.Runtime, reqLogger *atomic.Bool) (*http.Server, net.Listener, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	handler, closeSubs := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       uint32(ctx.Uint64(apiBacktraceLimitFlag.Name)),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableAdmin:          ctx.Bool(apiEnableAdminFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	})

	var h http.Handler = handler
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		h = handleAPITimeout(h, time.Duration(timeout)*time.Millisecond)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	return srv, listener, closeSubs, nil
}

// handleAPITimeout bounds the request context, websocket upgrades excluded.
func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			h.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newMetricsServer(addr string) (*http.Server, net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	return &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}, listener, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// checkClockOffset warns when the local clock drifts more than half a block interval.
func checkClockOffset(blockInterval time.Duration) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	if resp.ClockOffset > blockInterval/2 || resp.ClockOffset < -blockInterval/2 {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func printStartupMessage(gen *genesis.Config, rt *farmrt.Runtime, dataDir, apiURL, metricsURL, adminURL string) {
	best := rt.BestBlock()
	fmt.Printf(`Starting farmd
    Farm         [ %v ]
    Reward token [ %v ]
    Pools        [ %d ]
    Best block   [ #%d %v ]
    Data dir     [ %v ]
    Event log    [ sqlite %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		gen.Farm.Address,
		gen.RewardToken.Address,
		len(gen.Pools),
		best.Number, time.Unix(int64(best.Time), 0).UTC().Format(time.RFC3339),
		dataDir,
		rt.LogDB().DriverVersion(),
		apiURL,
		metricsURL,
		adminURL,
	)
}
