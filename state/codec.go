// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// GetRLP reads and RLP-decodes the value at key into val.
// It returns false if the key does not exist, leaving val untouched.
func (s *State) GetRLP(key []byte, val any) (bool, error) {
	data, found, err := s.Get(key)
	if err != nil || !found {
		return found, err
	}
	if err := rlp.DecodeBytes(data, val); err != nil {
		return false, errors.Wrap(err, "decode storage value")
	}
	return true, nil
}

// SetRLP RLP-encodes val and buffers it at key.
func (s *State) SetRLP(key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return errors.Wrap(err, "encode storage value")
	}
	s.Set(key, data)
	return nil
}

// GetUint32 reads a uint32 value, returning 0 if absent.
func (s *State) GetUint32(key []byte) (uint32, error) {
	var v uint32
	if _, err := s.GetRLP(key, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// SetUint32 stores a uint32 value.
func (s *State) SetUint32(key []byte, v uint32) error {
	return s.SetRLP(key, v)
}
