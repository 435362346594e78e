// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vishalmathuri/dzap/dzap"
)

// Global parameter slots. Kept in state so admin updates revert and commit
// together with everything else.
var (
	slotRewardRate  = dzap.BytesToBytes32([]byte("params-reward-rate"))
	slotClaimDelay  = dzap.BytesToBytes32([]byte("params-claim-delay"))
	slotPaused      = dzap.BytesToBytes32([]byte("params-paused"))
	slotInitialized = dzap.BytesToBytes32([]byte("params-initialized"))
)

// Bootstrap seeds the global parameters on first start. Later starts are
// no-ops, so runtime parameter changes survive restarts.
func (s *Staking) Bootstrap(rate *big.Int, delay uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.run("bootstrap", func() error {
		initialized, err := s.initialized.Get()
		if err != nil || initialized != 0 {
			return err
		}
		if rate == nil || rate.Sign() < 0 {
			return ErrInvalidRate
		}
		if err := s.rewardRate.Set(rate); err != nil {
			return err
		}
		if err := s.claimDelay.Set(delay); err != nil {
			return err
		}
		return s.initialized.Set(1)
	})
}

// RewardRate returns reward units accrued per staked asset per unit of time.
func (s *Staking) RewardRate() (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewardRate.Get()
}

// ClaimDelay returns the minimum time since the accrual checkpoint before a
// claim is permitted.
func (s *Staking) ClaimDelay() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claimDelay.Get()
}

// Paused returns whether user operations are disabled.
func (s *Staking) Paused() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.paused.Get()
	return v != 0, err
}

func (s *Staking) requireAdmin(caller dzap.Address) error {
	if caller != s.cfg.Admin {
		return ErrUnauthorized
	}
	return nil
}

func (s *Staking) requireActive() error {
	v, err := s.paused.Get()
	if err != nil {
		return err
	}
	paused := v != 0
	if paused {
		return ErrPaused
	}
	return nil
}
