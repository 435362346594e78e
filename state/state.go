// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/kv"
	"github.com/vishalmathuri/dzap/stackedmap"
)

const (
	// prefix of keys the state occupies in the backing store.
	storeKeyPrefix = "s"

	slotCacheSize = 2048
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State manages the staking world state.
//
// All values are RLP-encoded raws addressed by 32-byte storage slots. Writes
// are journaled in a stacked map, so a whole operation can be unwound with
// NewCheckpoint/RevertTo, and only reach the backing store on Commit.
type State struct {
	store kv.GetPutter
	cache *lru.Cache // read-through cache of committed raws
	sm    *stackedmap.StackedMap[dzap.Bytes32, rlp.RawValue]
}

// New create state object, backed by the given store.
func New(store kv.GetPutter) *State {
	cache, _ := lru.New(slotCacheSize)
	state := &State{
		store: store,
		cache: cache,
	}
	state.sm = stackedmap.New(state.cacheGetter)
	// base level, so writes are legal without an explicit checkpoint
	state.sm.Push()
	return state
}

func storeKey(slot dzap.Bytes32) []byte {
	return append([]byte(storeKeyPrefix), slot[:]...)
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(slot dzap.Bytes32) (rlp.RawValue, bool, error) {
	if cached, ok := s.cache.Get(slot); ok {
		return cached.(rlp.RawValue), true, nil
	}
	raw, err := s.store.Get(storeKey(slot))
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, false, &Error{err}
		}
		raw = nil
	}
	s.cache.Add(slot, rlp.RawValue(raw))
	return raw, true, nil
}

// GetRawStorage returns the RLP raw of the given slot.
// Empty raw means the slot was never written, or was cleared.
func (s *State) GetRawStorage(slot dzap.Bytes32) (rlp.RawValue, error) {
	raw, _, err := s.sm.Get(slot)
	return raw, err
}

// SetRawStorage sets the RLP raw of the given slot.
// Empty raw clears the slot.
func (s *State) SetRawStorage(slot dzap.Bytes32, raw rlp.RawValue) {
	s.sm.Put(slot, raw)
}

// EncodeStorage sets the slot to the raw produced by enc.
// Returning nil raw clears the slot.
func (s *State) EncodeStorage(slot dzap.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(slot, raw)
	return nil
}

// DecodeStorage calls dec with the raw of the slot.
// The raw is empty if the slot was never written.
func (s *State) DecodeStorage(slot dzap.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(slot)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts state to the given revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit writes all journaled changes through to the backing store,
// then collapses the journal. All checkpoints become invalid.
// On failure the journal and the cache are left untouched, so the caller can
// still revert to a checkpoint taken before the journaled writes.
func (s *State) Commit() error {
	batch := s.store.NewBatch()
	type change struct {
		slot dzap.Bytes32
		raw  rlp.RawValue
	}
	var changes []change
	s.sm.Journal(func(slot dzap.Bytes32, raw rlp.RawValue) bool {
		if len(raw) == 0 {
			_ = batch.Delete(storeKey(slot))
		} else {
			_ = batch.Put(storeKey(slot), raw)
		}
		changes = append(changes, change{slot, raw})
		return true
	})
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	// cache only what the store durably holds
	for _, c := range changes {
		s.cache.Add(c.slot, c.raw)
	}
	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
