// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/staking"
	"github.com/vishalmathuri/dzap/staking/ledger"
)

// Depositor is the JSON presentation of a depositor record.
type Depositor struct {
	Tokens        []dzap.TokenID        `json:"tokens"`
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
	LastBlock     uint64                `json:"lastBlock"`
}

func convertDepositor(rec *ledger.Depositor) *Depositor {
	pending := math.HexOrDecimal256(*rec.Pending)
	tokens := rec.Tokens
	if tokens == nil {
		tokens = []dzap.TokenID{}
	}
	return &Depositor{
		Tokens:        tokens,
		PendingReward: &pending,
		LastBlock:     rec.LastBlock,
	}
}

// Owner is the JSON presentation of a custody entry.
type Owner struct {
	Owner *dzap.Address `json:"owner"` // nil if not in custody
}

// Unbonding is the JSON presentation of an unbonding mark.
type Unbonding struct {
	StartedAt *uint64 `json:"startedAt"` // nil if never initiated
}

// Params is the JSON presentation of the global parameters.
type Params struct {
	RewardRate *math.HexOrDecimal256 `json:"rewardRate"`
	ClaimDelay uint64                `json:"claimDelay"`
	Paused     bool                  `json:"paused"`
}

// Stats is the JSON presentation of the global totals.
type Stats struct {
	CustodyCount uint64                `json:"custodyCount"`
	TotalClaimed *math.HexOrDecimal256 `json:"totalClaimed"`
}

// Event is the JSON presentation of a recorded operation event.
type Event struct {
	Name      string                `json:"name"`
	Depositor dzap.Address          `json:"depositor"`
	Tokens    []dzap.TokenID        `json:"tokens,omitempty"`
	Amount    *math.HexOrDecimal256 `json:"amount,omitempty"`
	Time      uint64                `json:"time"`
}

func convertEvent(ev *staking.Event) *Event {
	out := &Event{
		Name:      ev.Name,
		Depositor: ev.Depositor,
		Tokens:    ev.Tokens,
		Time:      ev.Time,
	}
	if ev.Amount != nil {
		amount := math.HexOrDecimal256(*ev.Amount)
		out.Amount = &amount
	}
	return out
}
