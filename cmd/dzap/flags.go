// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the staking database",
	}
	memFlag = cli.BoolFlag{
		Name:  "mem",
		Usage: "keep the staking database in memory (for test & dev)",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a genesis YAML file (admin, custodian, initial parameters)",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 2,
		Usage: "log verbosity (0-3)",
	}
	apiLogsFlag = cli.BoolFlag{
		Name:  "api-logs",
		Usage: "log all API requests",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "expose prometheus metrics at /metrics",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "force JSON log output even on a terminal",
	}
)
