// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state provides a journaled, checkpointable overlay over a kv store.
//
// All storage mutations of one block transition are buffered in memory and
// either committed atomically as a single batch, or reverted wholesale. This
// is what makes every mutating engine operation all-or-nothing.
package state

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/stackedmap"
)

type entry struct {
	value   []byte
	deleted bool
}

// State is a buffered key-value state with checkpoint/revert support.
type State struct {
	store kv.Store
	sm    *stackedmap.StackedMap[string, entry]
}

// New creates a state backed by the given store.
func New(store kv.Store) *State {
	s := &State{store: store}
	s.sm = stackedmap.New(func(key string) (entry, bool, error) {
		data, err := store.Get([]byte(key))
		if err != nil {
			if store.IsNotFound(err) {
				return entry{}, false, nil
			}
			return entry{}, false, errors.Wrap(err, "state read")
		}
		return entry{value: data}, true, nil
	})
	s.sm.Push() // base layer
	return s
}

// Get returns the buffered or stored value for the key.
// The second return value reports whether the key exists.
func (s *State) Get(key []byte) ([]byte, bool, error) {
	e, found, err := s.sm.Get(string(key))
	if err != nil {
		return nil, false, err
	}
	if !found || e.deleted {
		return nil, false, nil
	}
	return e.value, true, nil
}

// Has returns whether the key exists.
func (s *State) Has(key []byte) (bool, error) {
	_, found, err := s.Get(key)
	return found, err
}

// Set buffers a value for the key.
func (s *State) Set(key, val []byte) {
	s.sm.Put(string(key), entry{value: val})
}

// Delete buffers a deletion of the key.
func (s *State) Delete(key []byte) {
	s.sm.Put(string(key), entry{deleted: true})
}

// Checkpoint marks a revert point and returns its handle.
func (s *State) Checkpoint() int {
	return s.sm.Push()
}

// RevertTo discards all mutations made after the checkpoint.
func (s *State) RevertTo(checkpoint int) {
	s.sm.PopTo(checkpoint)
}

// Commit flushes all buffered mutations to the underlying store as a single
// atomic batch, then resets the buffer.
func (s *State) Commit() error {
	final := make(map[string]entry)
	s.sm.Journal(func(key string, e entry) bool {
		final[key] = e
		return true
	})

	bulk := s.store.Bulk()
	for key, e := range final {
		if e.deleted {
			if err := bulk.Delete([]byte(key)); err != nil {
				return errors.Wrap(err, "state commit")
			}
		} else if err := bulk.Put([]byte(key), e.value); err != nil {
			return errors.Wrap(err, "state commit")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "state commit")
	}

	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}

// IteratePrefix walks all live keys with the given prefix in ascending key
// order, merging buffered mutations over the stored data. Iteration stops
// when cb returns false.
func (s *State) IteratePrefix(prefix []byte, cb func(key, val []byte) bool) error {
	overlay := make(map[string]entry)
	s.sm.Journal(func(key string, e entry) bool {
		if strings.HasPrefix(key, string(prefix)) {
			overlay[key] = e
		}
		return true
	})
	keys := make([]string, 0, len(overlay))
	for key := range overlay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	emitOverlay := func(key string) bool {
		e := overlay[key]
		if e.deleted {
			return true
		}
		return cb([]byte(key), e.value)
	}

	iter := s.store.Iterate(kv.PrefixRange(prefix))
	defer iter.Release()

	i := 0
	for iter.Next() {
		stored := string(iter.Key())
		for i < len(keys) && keys[i] < stored {
			if !emitOverlay(keys[i]) {
				return nil
			}
			i++
		}
		if i < len(keys) && keys[i] == stored {
			if !emitOverlay(keys[i]) {
				return nil
			}
			i++
			continue
		}
		if !cb(iter.Key(), iter.Value()) {
			return nil
		}
	}
	if err := iter.Error(); err != nil {
		return errors.Wrap(err, "state iterate")
	}
	for ; i < len(keys); i++ {
		if !emitOverlay(keys[i]) {
			return nil
		}
	}
	return nil
}
