// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/state"
)

// Key is anything that can key a Mapping.
type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction similar to the mapping in Solidity.
// Entry positions are derived from the key and the mapping's base slot, so
// distinct mappings never collide.
type Mapping[K Key, V any] struct {
	state   *state.State
	basePos dzap.Bytes32
}

func NewMapping[K Key, V any](state *state.State, pos dzap.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{state: state, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) dzap.Bytes32 {
	return dzap.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get decodes the entry for the key.
// An absent entry decodes to the zero value (allocated, for pointer types).
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.state.DecodeStorage(m.position(key), func(raw []byte) error {
		if reflect.ValueOf(&value).Elem().Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Has returns whether an entry exists for the key.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	raw, err := m.state.GetRawStorage(m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Set encodes and stores the entry for the key.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.state.EncodeStorage(m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Clear removes the entry for the key.
func (m *Mapping[K, V]) Clear(key K) error {
	return m.state.EncodeStorage(m.position(key), func() ([]byte, error) {
		return nil, nil
	})
}
