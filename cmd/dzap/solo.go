// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"

	"github.com/vishalmathuri/dzap/dzap"
)

// Solo-mode collaborators. Without a chain to call out to, transfers are
// acknowledged and logged; the engine's bookkeeping is the source of truth.

type soloTokenTransfer struct{}

func (soloTokenTransfer) Transfer(to dzap.Address, amount *big.Int) error {
	logger.Debug("reward transfer", "to", to, "amount", amount)
	return nil
}

type soloCustodyTransfer struct{}

func (soloCustodyTransfer) TransferFrom(from, to dzap.Address, id dzap.TokenID) error {
	logger.Debug("custody transfer", "from", from, "to", to, "token", id)
	return nil
}
