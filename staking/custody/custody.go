// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/pkg/errors"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/state"
	"github.com/vishalmathuri/dzap/storage"
)

// ErrAlreadyCustodied means a deposit was recorded for an asset already held.
// The external custody-transfer collaborator should make this unreachable;
// the check is defense in depth.
var ErrAlreadyCustodied = errors.New("token already in custody")

var (
	slotOwners    = dzap.BytesToBytes32([]byte("custody-owners"))
	slotUnbonding = dzap.BytesToBytes32([]byte("custody-unbonding"))
)

// Service tracks which depositor each custodied asset belongs to, and the
// time withdrawal was last initiated per asset.
type Service struct {
	owners    *storage.Mapping[dzap.TokenID, dzap.Address]
	unbonding *storage.Mapping[dzap.TokenID, uint64]
}

func New(st *state.State) *Service {
	return &Service{
		owners:    storage.NewMapping[dzap.TokenID, dzap.Address](st, slotOwners),
		unbonding: storage.NewMapping[dzap.TokenID, uint64](st, slotUnbonding),
	}
}

// Owner returns the recorded depositor of the asset, and whether the asset is
// in custody at all.
func (s *Service) Owner(id dzap.TokenID) (dzap.Address, bool, error) {
	held, err := s.owners.Has(id)
	if err != nil || !held {
		return dzap.Address{}, false, err
	}
	owner, err := s.owners.Get(id)
	return owner, true, err
}

// RecordDeposit maps the asset to its depositor.
func (s *Service) RecordDeposit(id dzap.TokenID, depositor dzap.Address) error {
	held, err := s.owners.Has(id)
	if err != nil {
		return err
	}
	if held {
		return errors.WithMessagef(ErrAlreadyCustodied, "token %v", id)
	}
	return s.owners.Set(id, depositor)
}

// ReleaseIfOwner atomically checks ownership and clears the mapping.
// It returns false, without error, when the caller is not the recorded owner.
func (s *Service) ReleaseIfOwner(id dzap.TokenID, depositor dzap.Address) (bool, error) {
	owner, held, err := s.Owner(id)
	if err != nil {
		return false, err
	}
	if !held || owner != depositor {
		return false, nil
	}
	return true, s.owners.Clear(id)
}

// MarkUnbonding records the time withdrawal of the asset was initiated,
// unconditionally overwriting any earlier mark. The core never reads it back;
// it is kept for downstream consumers.
func (s *Service) MarkUnbonding(id dzap.TokenID, now uint64) error {
	return s.unbonding.Set(id, now)
}

// UnbondingStartedAt returns the recorded unbonding initiation time of the
// asset, and whether one was ever recorded.
func (s *Service) UnbondingStartedAt(id dzap.TokenID) (uint64, bool, error) {
	marked, err := s.unbonding.Has(id)
	if err != nil || !marked {
		return 0, false, err
	}
	at, err := s.unbonding.Get(id)
	return at, true, err
}
