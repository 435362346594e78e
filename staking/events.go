// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"

	"github.com/vishalmathuri/dzap/dzap"
)

// Event names, stable identifiers for external indexers.
const (
	EventStaked         = "Staked"
	EventUnstaked       = "Unstaked"
	EventRewardsClaimed = "RewardsClaimed"
)

// Event is an immutable fact recorded once an operation has fully succeeded.
type Event struct {
	Name      string
	Depositor dzap.Address
	Tokens    []dzap.TokenID // Staked / Unstaked
	Amount    *big.Int       // RewardsClaimed
	Time      uint64
}

// feed is a bounded in-memory event ring. Operations append under the engine
// lock; readers may come from API goroutines.
type feed struct {
	mu  sync.Mutex
	buf []Event
	max int
}

func newFeed(max int) *feed {
	return &feed{max: max}
}

func (f *feed) append(ev Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf = append(f.buf, ev)
	if len(f.buf) > f.max {
		f.buf = f.buf[len(f.buf)-f.max:]
	}
}

// recent returns up to limit most recent events, oldest first.
func (f *feed) recent(limit int) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.buf) {
		limit = len(f.buf)
	}
	out := make([]Event, limit)
	copy(out, f.buf[len(f.buf)-limit:])
	return out
}
