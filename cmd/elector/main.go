// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/elector/api"
	"github.com/vechain/elector/api/admin"
	"github.com/vechain/elector/api/admin/health"
	"github.com/vechain/elector/co"
	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/miner"
	"github.com/vechain/elector/election/snapshot"
	"github.com/vechain/elector/log"
	"github.com/vechain/elector/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "elector")
)

const shutdownTimeout = 10 * time.Second

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("elector %s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "elector",
		Usage:     "Validator election provider for VeChain",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: append([]cli.Flag{
			genesisFlag,
			dataDirFlag,
			inMemoryFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			blockIntervalFlag,
			startHeightFlag,
			mineFlag,
			minerIterationsFlag,
		}, electionFlags...),
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "mine",
				Usage: "mine a solution for the genesis electorate and print it",
				Flags: append([]cli.Flag{
					genesisFlag,
					verbosityFlag,
					jsonLogsFlag,
					minerIterationsFlag,
					outputFlag,
				}, electionFlags...),
				Action: mineAction,
			},
			{
				Name:  "inspect",
				Usage: "dump the persisted election state",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}

func minerConfig(ctx *cli.Context, cfg election.Config) miner.Config {
	return miner.Config{
		Iterations: ctx.Int(minerIterationsFlag.Name),
		MaxSize:    cfg.MaxSolutionSize,
		MaxEdges:   cfg.MaxNominations,
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	gene, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	cfg, err := electionConfig(ctx, gene)
	if err != nil {
		return errors.WithMessage(err, "election config")
	}
	interval := time.Duration(ctx.Uint64(blockIntervalFlag.Name)) * time.Second
	if interval <= 0 {
		return errors.New("block interval must be positive")
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeMetrics, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeMetrics() }()
		metricsURL = url
	}

	db, dbPath, err := openDB(ctx)
	if err != nil {
		return errors.WithMessage(err, "open database")
	}
	defer func() { logger.Info("closing database..."); db.Close() }()

	engine, err := election.New(cfg, gene.Ledger(), db)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing election engine..."); engine.Close() }()

	enableAPILogs := &atomic.Bool{}
	enableAPILogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	handler, closeSubs := api.New(engine, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      enableAPILogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	apiURL, closeAPI, err := startAPIServer(ctx, handler, cfg.MaxSolutionSize)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); closeAPI() }()

	start := engine.Status().Height + 1
	if ctx.IsSet(startHeightFlag.Name) {
		start = uint32(ctx.Uint64(startHeightFlag.Name))
	}

	hl := health.New()
	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeAdmin, err := startAdminServer(
			ctx.String(adminAddrFlag.Name),
			admin.New(logLevel, enableAPILogs, hl, interval+healthDelayBuffer),
		)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeAdmin() }()
		adminURL = url
	}

	printStartupMessage(gene, dbPath, apiURL, metricsURL, adminURL, ctx.Bool(mineFlag.Name))

	var goes co.Goes
	runCtx, cancel := context.WithCancel(exitSignal)
	defer func() {
		cancel()
		select {
		case <-goes.Done():
		case <-time.After(shutdownTimeout):
			logger.Warn("timed out waiting for the block loop and miner to stop")
		}
	}()

	if ctx.Bool(mineFlag.Name) {
		svc := miner.NewService(engine, minerConfig(ctx, cfg))
		goes.Go(func() { svc.Run(runCtx) })
	}
	goes.Go(func() { newBlockTicker(&healthTracker{engine, hl}, interval, start).Run(runCtx) })

	<-runCtx.Done()
	return nil
}

func mineAction(ctx *cli.Context) error {
	initLogger(ctx)
	gene, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	cfg, err := electionConfig(ctx, gene)
	if err != nil {
		return errors.WithMessage(err, "election config")
	}

	snap, err := snapshot.Build(1, gene.Ledger(), cfg.Limits())
	if err != nil {
		return errors.WithMessage(err, "build snapshot")
	}
	res, err := miner.Mine(handleExitSignal(), snap, minerConfig(ctx, cfg))
	if err != nil {
		return err
	}
	logger.Info("mined solution", "score", res.Score, "winners", len(res.Solution.Winners()), "edges", res.Solution.EdgeCount())

	return writeOutput(ctx.String(outputFlag.Name), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	})
}

func inspectAction(ctx *cli.Context) error {
	initLogger(ctx)
	gene, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	db, _, err := openDB(ctx)
	if err != nil {
		return errors.WithMessage(err, "open database")
	}
	defer db.Close()

	engine, err := election.New(*gene.Election, gene.Ledger(), db)
	if err != nil {
		return err
	}
	defer engine.Close()

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
	fmt.Println("Status:")
	cfg.Dump(engine.Status())
	if snap := engine.Snapshot(); snap != nil {
		fmt.Printf("Snapshot: round %d, %d voters, %d targets, desired %d, stake %d\n",
			snap.Round(), snap.VoterCount(), snap.TargetCount(), snap.DesiredWinners(), snap.TotalStake())
	}
	if queue := engine.Queue(); len(queue) > 0 {
		fmt.Println("Queue:")
		for _, sub := range queue {
			fmt.Printf("  #%d %v deposit %d score %v\n", sub.Seq, sub.Who, sub.Deposit, sub.Score)
		}
	}
	if out := engine.Outcome(); out != nil {
		fmt.Println("Last outcome:")
		cfg.Dump(out)
	}
	return nil
}
