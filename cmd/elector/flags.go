// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/elector/log"
	"github.com/vechain/elector/thor"
)

var (
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the YAML file carrying the genesis electorate and election options",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the election database",
	}
	inMemoryFlag = cli.BoolFlag{
		Name:  "in-memory",
		Usage: "keep the election state in memory, nothing survives a restart",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8670",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:  "api-slow-queries-threshold",
		Usage: "all queries with duration (in milliseconds) greater than this threshold will be logged",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:  "api-log-5xx-errors",
		Usage: "log all requests responded with a 5xx status",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}

	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}

	blockIntervalFlag = cli.Uint64Flag{
		Name:  "block-interval",
		Value: thor.BlockInterval,
		Usage: "seconds between two blocks of the local block ticker",
	}
	startHeightFlag = cli.Uint64Flag{
		Name:  "start-height",
		Usage: "height of the first block, defaults to the height after the persisted one",
	}
	mineFlag = cli.BoolFlag{
		Name:  "mine",
		Usage: "run the off-chain miner and submit its solutions unsigned",
	}
	minerIterationsFlag = cli.IntFlag{
		Name:  "miner-iterations",
		Value: thor.MinerIterations,
		Usage: "local search and balancing passes per mining run",
	}
	outputFlag = cli.StringFlag{
		Name:  "output",
		Usage: "write the mined solution to this file instead of stdout",
	}

	// election options, override the genesis file
	signedDurationFlag = cli.Uint64Flag{
		Name:  "signed-duration",
		Value: uint64(thor.SignedPhaseDuration),
		Usage: "blocks the signed submission channel stays open",
	}
	unsignedDurationFlag = cli.Uint64Flag{
		Name:  "unsigned-duration",
		Value: uint64(thor.UnsignedPhaseDuration),
		Usage: "blocks the unsigned submission channel stays open",
	}
	maxSignedSubmissionsFlag = cli.IntFlag{
		Name:  "max-signed-submissions",
		Value: thor.MaxSignedSubmissions,
		Usage: "capacity of the signed submission queue",
	}
	maxVotersFlag = cli.IntFlag{
		Name:  "max-voters",
		Value: thor.MaxElectingVoters,
		Usage: "max voters captured by a snapshot",
	}
	maxTargetsFlag = cli.IntFlag{
		Name:  "max-targets",
		Value: thor.MaxElectableTargets,
		Usage: "max targets captured by a snapshot",
	}
	maxNominationsFlag = cli.IntFlag{
		Name:  "max-nominations",
		Value: thor.MaxNominations,
		Usage: "max targets one voter may back",
	}
	maxSolutionSizeFlag = cli.IntFlag{
		Name:  "max-solution-size",
		Value: thor.MaxSolutionSize,
		Usage: "max encoded size of a submitted solution in bytes",
	}
	unsignedPoolSizeFlag = cli.IntFlag{
		Name:  "unsigned-pool-size",
		Value: thor.MaxSignedSubmissions,
		Usage: "max pending unsigned solutions",
	}
	fallbackFlag = cli.StringFlag{
		Name:  "fallback",
		Value: "compute",
		Usage: "what to commit when a round ends without a solution (compute|previous)",
	}
	depositBaseFlag = cli.Uint64Flag{
		Name:  "deposit-base",
		Value: thor.SignedDepositBase,
		Usage: "fixed part of the signed submission deposit",
	}
	depositPerVoterFlag = cli.Uint64Flag{
		Name:  "deposit-per-voter",
		Value: thor.SignedDepositPerVoter,
		Usage: "signed submission deposit per assignment",
	}
	forfeitPercentFlag = cli.UintFlag{
		Name:  "forfeit-percent",
		Value: uint(thor.SignedForfeitPercent),
		Usage: "percentage of the deposit forfeited by a failing signed submission",
	}
	chargeRejectedFlag = cli.BoolFlag{
		Name:  "charge-rejected",
		Usage: "forfeit the deposit of signed submissions rejected at admission",
	}
	historyLimitFlag = cli.Uint64Flag{
		Name:  "history-limit",
		Value: uint64(thor.OutcomeHistoryLimit),
		Usage: "rounds of committed outcomes kept in the database, 0 keeps all",
	}
)

var electionFlags = []cli.Flag{
	signedDurationFlag,
	unsignedDurationFlag,
	maxSignedSubmissionsFlag,
	maxVotersFlag,
	maxTargetsFlag,
	maxNominationsFlag,
	maxSolutionSizeFlag,
	unsignedPoolSizeFlag,
	fallbackFlag,
	depositBaseFlag,
	depositPerVoterFlag,
	forfeitPercentFlag,
	chargeRejectedFlag,
	historyLimitFlag,
}
