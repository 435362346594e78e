// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vishalmathuri/dzap/dzap"
)

// genesis describes the engine's initial configuration.
type genesis struct {
	Admin      string `yaml:"admin"`
	Custodian  string `yaml:"custodian"`
	RewardRate uint64 `yaml:"rewardRate"`
	ClaimDelay uint64 `yaml:"claimDelay"`
}

// well-known dev accounts, used when no genesis file is given
const (
	devAdmin     = "0xf077b491b355e64048ce21e3a6fc4751eeea77fa"
	devCustodian = "0x435933c8064b4ae76be665428e0307ef2ccfbd68"
)

func defaultGenesis() *genesis {
	return &genesis{
		Admin:      devAdmin,
		Custodian:  devCustodian,
		RewardRate: 1,
		ClaimDelay: 0,
	}
}

func loadGenesis(path string) (*genesis, error) {
	if path == "" {
		return defaultGenesis(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	var gen genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "parse genesis")
	}
	return &gen, nil
}

func (g *genesis) admin() (dzap.Address, error) {
	addr, err := dzap.ParseAddress(g.Admin)
	return addr, errors.WithMessage(err, "genesis admin")
}

func (g *genesis) custodian() (dzap.Address, error) {
	addr, err := dzap.ParseAddress(g.Custodian)
	return addr, errors.WithMessage(err, "genesis custodian")
}

func (g *genesis) rewardRate() *big.Int {
	return new(big.Int).SetUint64(g.RewardRate)
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".dzap")
	}
	return ""
}
