// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	// ErrOverflow means the reward product exceeded 256 bits.
	ErrOverflow = errors.New("reward accrual overflow")

	// ErrTimeReversed means now is behind the last checkpoint. The time
	// source is monotonic, so this indicates corrupted bookkeeping rather
	// than bad user input.
	ErrTimeReversed = errors.New("accrual time went backwards")
)

// Accrue computes the reward earned by stakeCount assets at the given rate
// over the interval (lastCheckpoint, now].
//
// The arithmetic domain is 256 bits; any overflow is reported, never wrapped.
func Accrue(stakeCount uint64, rate *big.Int, lastCheckpoint, now uint64) (*big.Int, error) {
	if now < lastCheckpoint {
		return nil, errors.WithMessagef(ErrTimeReversed, "checkpoint=%d now=%d", lastCheckpoint, now)
	}

	r, overflow := uint256.FromBig(rate)
	if overflow {
		return nil, ErrOverflow
	}

	reward, overflow := new(uint256.Int).MulOverflow(
		uint256.NewInt(stakeCount), r,
	)
	if overflow {
		return nil, ErrOverflow
	}
	reward, overflow = reward.MulOverflow(reward, uint256.NewInt(now-lastCheckpoint))
	if overflow {
		return nil, ErrOverflow
	}
	return reward.ToBig(), nil
}

// Add sums an already-settled pending balance with newly accrued reward,
// failing on 256-bit overflow.
func Add(pending, accrued *big.Int) (*big.Int, error) {
	a, overflow := uint256.FromBig(pending)
	if overflow {
		return nil, ErrOverflow
	}
	b, overflow := uint256.FromBig(accrued)
	if overflow {
		return nil, ErrOverflow
	}
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return sum.ToBig(), nil
}
