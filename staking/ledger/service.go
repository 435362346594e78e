// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/staking/accrual"
	"github.com/vishalmathuri/dzap/state"
	"github.com/vishalmathuri/dzap/storage"
)

// ErrNotFound means the asset is not in the depositor's staked set.
var ErrNotFound = errors.New("token not staked by depositor")

var slotDepositors = dzap.BytesToBytes32([]byte("staking-depositors"))

// Service owns depositor records exclusively; nothing else mutates them.
type Service struct {
	depositors *storage.Mapping[dzap.Address, *Depositor]
}

func New(st *state.State) *Service {
	return &Service{
		depositors: storage.NewMapping[dzap.Address, *Depositor](st, slotDepositors),
	}
}

// Get returns the depositor record, an empty one if the address never staked.
func (s *Service) Get(addr dzap.Address) (*Depositor, error) {
	rec, err := s.depositors.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get depositor")
	}
	if rec.Pending == nil {
		rec.Pending = new(big.Int)
	}
	return rec, nil
}

func (s *Service) update(addr dzap.Address, rec *Depositor) error {
	return errors.Wrap(s.depositors.Set(addr, rec), "failed to set depositor")
}

// Settle folds reward accrued since the last checkpoint into the pending
// balance and advances the checkpoint to now. Settling twice at the same now
// adds zero. Must be called before any mutation of the staked set.
func (s *Service) Settle(addr dzap.Address, rate *big.Int, now uint64) error {
	rec, err := s.Get(addr)
	if err != nil {
		return err
	}
	accrued, err := accrual.Accrue(rec.StakeCount(), rate, rec.LastBlock, now)
	if err != nil {
		return err
	}
	pending, err := accrual.Add(rec.Pending, accrued)
	if err != nil {
		return err
	}
	rec.Pending = pending
	rec.LastBlock = now
	return s.update(addr, rec)
}

// AddTokens appends ids to the staked set. The caller must have settled first.
func (s *Service) AddTokens(addr dzap.Address, ids []dzap.TokenID) error {
	rec, err := s.Get(addr)
	if err != nil {
		return err
	}
	rec.Tokens = append(rec.Tokens, ids...)
	return s.update(addr, rec)
}

// RemoveToken removes one occurrence of id from the staked set by swapping it
// with the last element. The caller must have settled first.
func (s *Service) RemoveToken(addr dzap.Address, id dzap.TokenID) error {
	rec, err := s.Get(addr)
	if err != nil {
		return err
	}
	for i, staked := range rec.Tokens {
		if staked == id {
			last := len(rec.Tokens) - 1
			rec.Tokens[i] = rec.Tokens[last]
			rec.Tokens = rec.Tokens[:last]
			return s.update(addr, rec)
		}
	}
	return errors.WithMessagef(ErrNotFound, "token %v", id)
}

// DrainPending zeroes the pending balance and returns the prior value.
func (s *Service) DrainPending(addr dzap.Address) (*big.Int, error) {
	rec, err := s.Get(addr)
	if err != nil {
		return nil, err
	}
	drained := rec.Pending
	rec.Pending = new(big.Int)
	if err := s.update(addr, rec); err != nil {
		return nil, err
	}
	return drained, nil
}
