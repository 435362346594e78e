// Copyright (c) 2026 The Dzap developers
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
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	isatty "github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vishalmathuri/dzap/api"
	"github.com/vishalmathuri/dzap/kv"
	"github.com/vishalmathuri/dzap/log"
	"github.com/vishalmathuri/dzap/lvldb"
	"github.com/vishalmathuri/dzap/metrics"
	"github.com/vishalmathuri/dzap/staking"
	"github.com/vishalmathuri/dzap/state"
)

var (
	version   string
	gitCommit string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "dzap",
		Usage:   "NFT staking engine",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsFlag,
			verbosityFlag,
			enableMetricsFlag,
			jsonLogsFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gen, err := loadGenesis(ctx.String(genesisFlag.Name))
	if err != nil {
		return err
	}
	admin, err := gen.admin()
	if err != nil {
		return err
	}
	custodian, err := gen.custodian()
	if err != nil {
		return err
	}

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	engine := staking.New(
		state.New(db),
		staking.Config{Admin: admin, Custodian: custodian},
		soloTokenTransfer{},
		soloCustodyTransfer{},
	)
	if err := engine.Bootstrap(gen.rewardRate(), gen.ClaimDelay); err != nil {
		return err
	}

	handler := api.New(engine, api.Options{
		AllowedOrigins:   ctx.String(apiCorsFlag.Name),
		EnableMetrics:    ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogging: ctx.Bool(apiLogsFlag.Name),
	})
	listener, err := net.Listen("tcp", ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	logger.Info("api started", "addr", listener.Addr(), "version", fullVersion())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func openDB(ctx *cli.Context) (kv.GetPutCloser, error) {
	if ctx.Bool(memFlag.Name) {
		return lvldb.NewMem()
	}
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return nil, fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return lvldb.New(filepath.Join(dir, "staking.db"), lvldb.Options{})
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	if !ctx.Bool(jsonLogsFlag.Name) && isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetHandler(log.NewTextHandler(os.Stderr, level))
	} else {
		log.SetHandler(log.NewJSONHandler(os.Stderr, level))
	}
}
