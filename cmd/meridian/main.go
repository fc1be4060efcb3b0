// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/lvldb"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/state"
)

var (
	version   = "1.0.0"
	gitCommit string

	logger = log.New("pkg", "main")
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path of the scenario config file (yaml)",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory for the chain database, in-memory when empty",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Usage: "prometheus metrics listen address, disabled when empty",
	}
)

func fullVersion() string {
	if gitCommit == "" {
		return version
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "meridian",
		Usage:     "runs a staking election and rewards scenario",
		Copyright: "2026 The Meridian developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			verbosityFlag,
			metricsAddrFlag,
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	initLogger(ctx.Int(verbosityFlag.Name))

	if addr := ctx.String(metricsAddrFlag.Name); addr != "" {
		metrics.InitializePrometheusMetrics()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.HTTPHandler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		logger.Info("metrics enabled", "addr", addr)
	}

	scenarioPath := ctx.String(configFlag.Name)
	if scenarioPath == "" {
		return cli.NewExitError("--config is required", 1)
	}
	scenario, err := loadScenario(scenarioPath)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	db, err := openDB(ctx.String(dataDirFlag.Name))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer db.Close()

	// All engine data lives under one namespace of the store.
	st := state.New(kv.Bucket("meridian/").NewStore(db))
	if err := runScenario(scenario, st); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func initLogger(verbosity int) {
	level := log.FromLegacyLevel(verbosity)
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, level, false)
	log.SetDefault(log.NewLogger(handler))
}

func openDB(dataDir string) (*lvldb.LevelDB, error) {
	if dataDir == "" {
		logger.Info("using in-memory database")
		return lvldb.NewMem()
	}
	logger.Info("opening database", "dir", dataDir)
	return lvldb.New(dataDir, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 512,
	})
}
