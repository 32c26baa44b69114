// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/admin"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/health"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "farmd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "farmd",
		Usage:     "Node of the multi-pool staking farm",
		Copyright: "2025 The VeChainThor developers",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			apiEnableAdminFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			pprofFlag,
			blockIntervalFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			adminAddrFlag,
			disableNTPFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "replay",
				Usage: "replay a script of calls on an in-memory farm and print the final positions",
				Flags: []cli.Flag{
					genesisFlag,
					scriptFlag,
					noProgressFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: replayAction,
			},
			{
				Name:  "status",
				Usage: "print the emission, the pools and optionally the positions of a user of a running node",
				Flags: []cli.Flag{
					nodeFlag,
					userFlag,
				},
				Action: statusAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx, os.Stderr)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gen, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	dbs, err := openDatabases(ctx, gen)
	if err != nil {
		return err
	}
	defer dbs.Close()

	rt, err := runtime.New(dbs.main, dbs.logs, gen)
	if err != nil {
		return err
	}

	blockInterval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
	if blockInterval <= 0 {
		return errors.New("block-interval must be positive")
	}
	if !ctx.Bool(disableNTPFlag.Name) {
		go checkClockOffset(blockInterval)
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	apiSrv, apiListener, closeSubs, err := newAPIServer(ctx, rt, apiLogs)
	if err != nil {
		return err
	}
	defer closeSubs()

	nodeHealth := health.New(blockInterval)
	adminURL := "disabled"
	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		url, stop, err := admin.StartServer(addr, logLevel, apiLogs, nodeHealth)
		if err != nil {
			apiSrv.Close()
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	group, groupCtx := errgroup.WithContext(exitSignal)
	servers := []*http.Server{apiSrv}
	group.Go(func() error {
		return serve(apiSrv, apiListener)
	})

	metricsURL := "disabled"
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsSrv, metricsListener, err := newMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			apiSrv.Close()
			return err
		}
		servers = append(servers, metricsSrv)
		metricsURL = "http://" + metricsListener.Addr().String() + "/metrics"
		group.Go(func() error {
			return serve(metricsSrv, metricsListener)
		})
	}

	group.Go(func() error {
		return newSealer(rt, blockInterval).Run(groupCtx)
	})
	group.Go(func() error {
		nodeHealth.Watch(groupCtx, rt)
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		for _, srv := range servers {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("server shutdown", "err", err)
			}
			cancel()
		}
		return nil
	})

	printStartupMessage(gen, rt, dbs.where, "http://"+apiListener.Addr().String()+"/", metricsURL, adminURL)
	return group.Wait()
}

// serve runs srv on listener until it is shut down.
func serve(srv *http.Server, listener net.Listener) error {
	if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func replayAction(ctx *cli.Context) error {
	initLogger(ctx, os.Stderr)

	path := ctx.String(scriptFlag.Name)
	if path == "" {
		return errors.New("--script required")
	}
	script, err := loadScript(path)
	if err != nil {
		return err
	}
	gen, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	dbs, err := openMemDatabases()
	if err != nil {
		return err
	}
	defer dbs.Close()

	rt, err := runtime.New(dbs.main, dbs.logs, gen)
	if err != nil {
		return err
	}
	callers, err := replay(rt, script, !ctx.Bool(noProgressFlag.Name))
	if err != nil {
		return err
	}

	best := rt.BestBlock()
	fmt.Printf("replayed %d steps, best block #%d\n\n", len(script.Steps), best.Number)
	if err := printPositions(os.Stdout, rt, callers); err != nil {
		return err
	}
	total, err := sumPending(rt, callers)
	if err != nil {
		return err
	}
	fmt.Printf("\ntotal pending: %v\n", total)
	return nil
}
