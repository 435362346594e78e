// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/vishalmathuri/dzap/dzap"
)

// Depositor is the per-address staking record.
//
// Pending and LastBlock together mean: all reward earned up to LastBlock has
// been folded into Pending, nothing earned after LastBlock has. Every
// mutation of Tokens must be preceded by a settle at the current block so
// reward is never priced on a post-mutation count.
type Depositor struct {
	Tokens    []dzap.TokenID // asset ids currently held in custody for this depositor
	Pending   *big.Int       // accrued-but-unclaimed reward
	LastBlock uint64         // accrual checkpoint
}

// IsEmpty returns whether the record holds nothing.
func (d *Depositor) IsEmpty() bool {
	return len(d.Tokens) == 0 && d.Pending.Sign() == 0 && d.LastBlock == 0
}

// StakeCount returns the number of assets currently staked.
func (d *Depositor) StakeCount() uint64 {
	return uint64(len(d.Tokens))
}
