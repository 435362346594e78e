// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/state"
)

// Uint64 is a single uint64 held at a fixed slot.
type Uint64 struct {
	state *state.State
	pos   dzap.Bytes32
}

func NewUint64(state *state.State, pos dzap.Bytes32) *Uint64 {
	return &Uint64{state: state, pos: pos}
}

// Get returns the stored value, 0 if the slot was never written.
func (u *Uint64) Get() (value uint64, err error) {
	err = u.state.DecodeStorage(u.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (u *Uint64) Set(value uint64) error {
	return u.state.EncodeStorage(u.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Add increases the stored value by n.
func (u *Uint64) Add(n uint64) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(value + n)
}

// Sub decreases the stored value by n.
func (u *Uint64) Sub(n uint64) error {
	value, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(value - n)
}

// BigInt is a single unsigned big integer held at a fixed slot.
type BigInt struct {
	state *state.State
	pos   dzap.Bytes32
}

func NewBigInt(state *state.State, pos dzap.Bytes32) *BigInt {
	return &BigInt{state: state, pos: pos}
}

// Get returns the stored value, 0 if the slot was never written.
func (b *BigInt) Get() (*big.Int, error) {
	value := new(big.Int)
	err := b.state.DecodeStorage(b.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, value)
	})
	return value, err
}

func (b *BigInt) Set(value *big.Int) error {
	return b.state.EncodeStorage(b.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Add increases the stored value by n.
func (b *BigInt) Add(n *big.Int) error {
	value, err := b.Get()
	if err != nil {
		return err
	}
	return b.Set(value.Add(value, n))
}
