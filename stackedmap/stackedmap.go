// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap

// StackedMap maintains maps in a stack.
// Each map inherits key/value of map that is at lower level.
// It acts as a map with save-restore/snapshot-revert manner.
type StackedMap[K comparable, V any] struct {
	src            MapGetter[K, V]
	mapStack       stack[*level[K, V]]
	keyRevisionMap map[K]*stack[int]
}

type level[K comparable, V any] struct {
	kvs     map[K]V
	journal []*JournalEntry[K, V]
}

func newLevel[K comparable, V any]() *level[K, V] {
	return &level[K, V]{kvs: make(map[K]V)}
}

// JournalEntry entry of journal.
type JournalEntry[K comparable, V any] struct {
	Key   K
	Value V
}

// MapGetter defines the getter of the source map.
type MapGetter[K comparable, V any] func(key K) (value V, exist bool, err error)

// New creates an instance of StackedMap.
// src acts as the source of data.
func New[K comparable, V any](src MapGetter[K, V]) *StackedMap[K, V] {
	return &StackedMap[K, V]{
		src,
		stack[*level[K, V]]{},
		make(map[K]*stack[int]),
	}
}

// Depth returns depth of stack.
func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.mapStack)
}

// Push pushes a new map on stack.
// It returns stack depth before push.
func (sm *StackedMap[K, V]) Push() int {
	sm.mapStack.push(newLevel[K, V]())
	return len(sm.mapStack) - 1
}

// Pop pops the map at top of stack.
// It will revert all Put operations since last Push.
func (sm *StackedMap[K, V]) Pop() {
	top := sm.mapStack.top()
	for key := range top.kvs {
		revs := sm.keyRevisionMap[key]
		revs.pop()
		if len(*revs) == 0 {
			delete(sm.keyRevisionMap, key)
		}
	}
	sm.mapStack.pop()
}

// PopTo pops maps until stack depth reaches depth.
func (sm *StackedMap[K, V]) PopTo(depth int) {
	for len(sm.mapStack) > depth {
		sm.Pop()
	}
}

// Get gets value for given key.
// The second return value indicates whether the given key is found.
func (sm *StackedMap[K, V]) Get(key K) (V, bool, error) {
	if revs, ok := sm.keyRevisionMap[key]; ok {
		lvl := sm.mapStack[revs.top()]
		if v, ok := lvl.kvs[key]; ok {
			return v, true, nil
		}
	}
	return sm.src(key)
}

// Put puts key value into map at stack top.
// It will panic if stack is empty.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	top := sm.mapStack.top()
	top.kvs[key] = value
	top.journal = append(top.journal, &JournalEntry[K, V]{Key: key, Value: value})

	// records key revision for fast access
	rev := len(sm.mapStack) - 1
	if revs, ok := sm.keyRevisionMap[key]; ok {
		if revs.top() != rev {
			revs.push(rev)
		}
	} else {
		sm.keyRevisionMap[key] = &stack[int]{rev}
	}
}

// Journal traverses journal entries of all Put operations.
// The traversal abandons if the callback returns false.
func (sm *StackedMap[K, V]) Journal(cb func(key K, value V) bool) {
	for _, lvl := range sm.mapStack {
		for _, entry := range lvl.journal {
			if !cb(entry.Key, entry.Value) {
				return
			}
		}
	}
}

// stack ops
type stack[T any] []T

func (s *stack[T]) pop() {
	*s = (*s)[:len(*s)-1]
}

func (s *stack[T]) push(v T) {
	*s = append(*s, v)
}

func (s stack[T]) top() T {
	return s[len(s)-1]
}
