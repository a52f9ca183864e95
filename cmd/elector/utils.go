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
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/elector/co"
	"github.com/vechain/elector/log"
	"github.com/vechain/elector/lvldb"
	"github.com/vechain/elector/metrics"
)

// initLogger installs the root logger. The returned level can be changed at runtime.
func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	var handler = log.NewJSONHandlerWithLevel(os.Stderr, lvl)
	if !ctx.Bool(jsonLogsFlag.Name) {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl
}

func openDB(ctx *cli.Context) (*lvldb.LevelDB, string, error) {
	if ctx.Bool(inMemoryFlag.Name) {
		db, err := lvldb.NewMem()
		return db, "memory", err
	}
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return nil, "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", errors.Wrap(err, "create data dir")
	}
	path := filepath.Join(dir, "election.db")
	db, err := lvldb.New(path, lvldb.Options{CacheSize: 16, OpenFilesCacheCapacity: 64})
	return db, path, err
}

func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestBodyLimit caps request bodies a bit above the largest acceptable solution,
// which is encoded more verbosely in JSON than in RLP.
func requestBodyLimit(h http.Handler, limit int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		h.ServeHTTP(w, r)
	})
}

func startAPIServer(ctx *cli.Context, handler http.Handler, maxSolutionSize int) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler, int64(maxSolutionSize)*8)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 30 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/metrics", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startAdminServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
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

func writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.elector")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.elector")
		default:
			return filepath.Join(home, ".org.vechain.elector")
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

func printStartupMessage(gene *Genesis, dbPath, apiURL, metricsURL, adminURL string, mining bool) {
	orDisabled := func(url string) string {
		if url == "" {
			return "disabled"
		}
		return url
	}
	fmt.Printf(`Starting %v
    Era length   [ %v blocks ]
    Validators   [ %v, desired %v ]
    Nominators   [ %v ]
    Database     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
    Miner        [ %v ]
`,
		fullVersion(),
		gene.EraLength,
		len(gene.Validators), gene.DesiredWinners,
		len(gene.Nominators),
		dbPath,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL),
		func() string {
			if mining {
				return "on"
			}
			return "off"
		}())
}
