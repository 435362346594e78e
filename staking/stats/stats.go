// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stats

import (
	"math/big"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/state"
	"github.com/vishalmathuri/dzap/storage"
)

var (
	slotCustodyCount = dzap.BytesToBytes32([]byte("stats-custody-count"))
	slotTotalClaimed = dzap.BytesToBytes32([]byte("stats-total-claimed"))
)

// Service maintains contract-wide totals, updated in the same transaction as
// the operation that moves them.
type Service struct {
	custodyCount *storage.Uint64
	totalClaimed *storage.BigInt
}

func New(st *state.State) *Service {
	return &Service{
		custodyCount: storage.NewUint64(st, slotCustodyCount),
		totalClaimed: storage.NewBigInt(st, slotTotalClaimed),
	}
}

// AddCustody increases the count of assets in custody.
func (s *Service) AddCustody(n uint64) error {
	return s.custodyCount.Add(n)
}

// SubCustody decreases the count of assets in custody.
func (s *Service) SubCustody(n uint64) error {
	return s.custodyCount.Sub(n)
}

// CustodyCount returns the number of assets currently in custody.
func (s *Service) CustodyCount() (uint64, error) {
	return s.custodyCount.Get()
}

// AddClaimed accumulates successfully paid-out reward.
func (s *Service) AddClaimed(amount *big.Int) error {
	return s.totalClaimed.Add(amount)
}

// TotalClaimed returns the cumulative reward paid out.
func (s *Service) TotalClaimed() (*big.Int, error) {
	return s.totalClaimed.Get()
}
