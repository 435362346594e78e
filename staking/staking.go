// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/log"
	"github.com/vishalmathuri/dzap/metrics"
	"github.com/vishalmathuri/dzap/staking/custody"
	"github.com/vishalmathuri/dzap/staking/ledger"
	"github.com/vishalmathuri/dzap/staking/stats"
	"github.com/vishalmathuri/dzap/state"
	"github.com/vishalmathuri/dzap/storage"
)

var logger = log.WithContext("pkg", "staking")

var (
	metricOpCount      = metrics.LazyLoadCounterVec("staking_operation_count", []string{"op", "outcome"})
	metricOpDuration   = metrics.LazyLoadHistogram("staking_operation_duration_ms", metrics.Bucket10s)
	metricCustodyGauge = metrics.LazyLoadGauge("staking_custody_size")
)

const eventFeedSize = 512

// TokenTransfer is the fungible reward payout collaborator.
// A non-nil error fails the enclosing operation.
type TokenTransfer interface {
	Transfer(to dzap.Address, amount *big.Int) error
}

// CustodyTransfer is the asset custody collaborator.
// A non-nil error fails the enclosing operation.
type CustodyTransfer interface {
	TransferFrom(from, to dzap.Address, id dzap.TokenID) error
}

// Config carries the capabilities held by the engine: who administers it and
// where custodied assets are parked.
type Config struct {
	Admin     dzap.Address
	Custodian dzap.Address
}

// Staking orchestrates stake, unstake and claim over the ledgers.
//
// Every public operation runs start-to-finish under one lock, checkpoints
// state on entry and reverts it wholesale on any failure, so a failed
// operation has no effect at all.
type Staking struct {
	mu    sync.Mutex
	state *state.State
	cfg   Config

	ledgerService  *ledger.Service
	custodyService *custody.Service
	statsService   *stats.Service

	rewardRate  *storage.BigInt
	claimDelay  *storage.Uint64
	paused      *storage.Uint64
	initialized *storage.Uint64

	token TokenTransfer
	nft   CustodyTransfer

	feed *feed
}

// New create a new instance.
func New(st *state.State, cfg Config, token TokenTransfer, nft CustodyTransfer) *Staking {
	return &Staking{
		state: st,
		cfg:   cfg,

		ledgerService:  ledger.New(st),
		custodyService: custody.New(st),
		statsService:   stats.New(st),

		rewardRate:  storage.NewBigInt(st, slotRewardRate),
		claimDelay:  storage.NewUint64(st, slotClaimDelay),
		paused:      storage.NewUint64(st, slotPaused),
		initialized: storage.NewUint64(st, slotInitialized),

		token: token,
		nft:   nft,

		feed: newFeed(eventFeedSize),
	}
}

//
// Getters - no state change
//

// Depositor returns the record of the address, empty if it never staked.
func (s *Staking) Depositor(addr dzap.Address) (*ledger.Depositor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledgerService.Get(addr)
}

// OwnerOf returns the depositor an asset is custodied for.
func (s *Staking) OwnerOf(id dzap.TokenID) (dzap.Address, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.custodyService.Owner(id)
}

// UnbondingStartedAt returns the last recorded unbonding initiation time.
func (s *Staking) UnbondingStartedAt(id dzap.TokenID) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.custodyService.UnbondingStartedAt(id)
}

// CustodyCount returns the number of assets currently in custody.
func (s *Staking) CustodyCount() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsService.CustodyCount()
}

// TotalClaimed returns the cumulative reward paid out.
func (s *Staking) TotalClaimed() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsService.TotalClaimed()
}

// Events returns up to limit most recent events, oldest first.
func (s *Staking) Events(limit int) []Event {
	return s.feed.recent(limit)
}

//
// Setters - state change
//

// Stake settles pending rewards, then moves each asset into custody:
// external transfer first, bookkeeping right after, so a failed transfer can
// never leave a phantom custody record.
func (s *Staking) Stake(depositor dzap.Address, ids []dzap.TokenID, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug("staking", "depositor", depositor, "tokens", len(ids))

	if err := s.run("stake", func() error { return s.stake(depositor, ids, now) }); err != nil {
		logger.Info("stake failed", "depositor", depositor, "error", err)
		return err
	}

	s.feed.append(Event{Name: EventStaked, Depositor: depositor, Tokens: ids, Time: now})
	metricCustodyGauge().Add(int64(len(ids)))
	logger.Info("staked", "depositor", depositor, "tokens", len(ids))
	return nil
}

func (s *Staking) stake(depositor dzap.Address, ids []dzap.TokenID, now uint64) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return ErrEmptyInput
	}

	rate, err := s.rewardRate.Get()
	if err != nil {
		return err
	}
	// price the existing stake before the set grows
	if err := s.ledgerService.Settle(depositor, rate, now); err != nil {
		return err
	}

	for _, id := range ids {
		if err := s.nft.TransferFrom(depositor, s.cfg.Custodian, id); err != nil {
			return errors.WithMessagef(ErrTransferFailed, "deposit token %v: %s", id, err)
		}
		if err := s.custodyService.RecordDeposit(id, depositor); err != nil {
			return err
		}
		if err := s.ledgerService.AddTokens(depositor, []dzap.TokenID{id}); err != nil {
			return err
		}
	}
	return s.statsService.AddCustody(uint64(len(ids)))
}

// Unstake settles pending rewards at the pre-withdrawal stake count, then
// releases each asset: ownership checked and bookkeeping cleared before the
// asset's external transfer back to the depositor.
func (s *Staking) Unstake(depositor dzap.Address, ids []dzap.TokenID, now uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug("unstaking", "depositor", depositor, "tokens", len(ids))

	if err := s.run("unstake", func() error { return s.unstake(depositor, ids, now) }); err != nil {
		logger.Info("unstake failed", "depositor", depositor, "error", err)
		return err
	}

	s.feed.append(Event{Name: EventUnstaked, Depositor: depositor, Tokens: ids, Time: now})
	metricCustodyGauge().Add(-int64(len(ids)))
	logger.Info("unstaked", "depositor", depositor, "tokens", len(ids))
	return nil
}

func (s *Staking) unstake(depositor dzap.Address, ids []dzap.TokenID, now uint64) error {
	if err := s.requireActive(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return ErrEmptyInput
	}

	rate, err := s.rewardRate.Get()
	if err != nil {
		return err
	}
	// the whole batch is priced once, at the pre-withdrawal count
	if err := s.ledgerService.Settle(depositor, rate, now); err != nil {
		return err
	}

	for _, id := range ids {
		released, err := s.custodyService.ReleaseIfOwner(id, depositor)
		if err != nil {
			return err
		}
		if !released {
			return errors.WithMessagef(ErrNotOwner, "token %v", id)
		}
		if err := s.custodyService.MarkUnbonding(id, now); err != nil {
			return err
		}
		if err := s.ledgerService.RemoveToken(depositor, id); err != nil {
			return err
		}
		if err := s.nft.TransferFrom(s.cfg.Custodian, depositor, id); err != nil {
			return errors.WithMessagef(ErrTransferFailed, "withdraw token %v: %s", id, err)
		}
	}
	return s.statsService.SubCustody(uint64(len(ids)))
}

// ClaimRewards settles and drains the pending reward, then pays it out.
// A failed payout restores the drained amount; reward is never burned.
func (s *Staking) ClaimRewards(depositor dzap.Address, now uint64) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug("claiming rewards", "depositor", depositor)

	var amount *big.Int
	err := s.run("claim", func() (err error) {
		amount, err = s.claimRewards(depositor, now)
		return
	})
	if err != nil {
		logger.Info("claim failed", "depositor", depositor, "error", err)
		return nil, err
	}

	s.feed.append(Event{Name: EventRewardsClaimed, Depositor: depositor, Amount: amount, Time: now})
	logger.Info("claimed rewards", "depositor", depositor, "amount", amount)
	return amount, nil
}

func (s *Staking) claimRewards(depositor dzap.Address, now uint64) (*big.Int, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}

	rec, err := s.ledgerService.Get(depositor)
	if err != nil {
		return nil, err
	}
	delay, err := s.claimDelay.Get()
	if err != nil {
		return nil, err
	}
	if now < rec.LastBlock || now-rec.LastBlock < delay {
		return nil, errors.WithMessagef(ErrClaimTooEarly, "checkpoint=%d now=%d delay=%d", rec.LastBlock, now, delay)
	}

	rate, err := s.rewardRate.Get()
	if err != nil {
		return nil, err
	}
	if err := s.ledgerService.Settle(depositor, rate, now); err != nil {
		return nil, err
	}
	amount, err := s.ledgerService.DrainPending(depositor)
	if err != nil {
		return nil, err
	}
	if err := s.statsService.AddClaimed(amount); err != nil {
		return nil, err
	}
	if err := s.token.Transfer(depositor, amount); err != nil {
		return nil, errors.WithMessagef(ErrTransferFailed, "reward payout: %s", err)
	}
	return amount, nil
}

// SetRewardRate updates the accrual rate. Applies prospectively only:
// reward settled at the old rate stays settled.
func (s *Staking) SetRewardRate(caller dzap.Address, rate *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run("set_reward_rate", func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		if rate == nil || rate.Sign() < 0 || rate.BitLen() > 256 {
			return ErrInvalidRate
		}
		return s.rewardRate.Set(rate)
	})
}

// SetClaimDelay updates the claim delay, effective for all future claims.
func (s *Staking) SetClaimDelay(caller dzap.Address, delay uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run("set_claim_delay", func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		return s.claimDelay.Set(delay)
	})
}

// Pause disables stake, unstake and claim. Admin operations stay available.
func (s *Staking) Pause(caller dzap.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run("pause", func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		return s.paused.Set(1)
	})
}

// Unpause restores user operations.
func (s *Staking) Unpause(caller dzap.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run("unpause", func() error {
		if err := s.requireAdmin(caller); err != nil {
			return err
		}
		return s.paused.Set(0)
	})
}

// run executes op between a checkpoint and a commit. On any failure the
// checkpoint is restored, so no partial state survives.
func (s *Staking) run(name string, op func() error) error {
	defer func(start time.Time) {
		metricOpDuration().Observe(time.Since(start).Milliseconds())
	}(time.Now())

	checkpoint := s.state.NewCheckpoint()
	if err := op(); err != nil {
		s.state.RevertTo(checkpoint)
		metricOpCount().AddWithLabel(1, map[string]string{"op": name, "outcome": "reverted"})
		return err
	}
	if err := s.state.Commit(); err != nil {
		// journaled writes must not leak into the next commit
		s.state.RevertTo(checkpoint)
		metricOpCount().AddWithLabel(1, map[string]string{"op": name, "outcome": "reverted"})
		return err
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": name, "outcome": "applied"})
	return nil
}
