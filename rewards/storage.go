// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/state"
)

const (
	keyNextPoolID   = "rwd/next-pool-id"
	keyPoolPrefix   = "rwd/pools/"
	keyStakerPrefix = "rwd/stakers/"
)

func poolIDBytes(id PoolID) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(id))
	return b[:]
}

func poolKey(id PoolID) []byte {
	return append([]byte(keyPoolPrefix), poolIDBytes(id)...)
}

func stakerKey(id PoolID, who meridian.Address) []byte {
	key := append([]byte(keyStakerPrefix), poolIDBytes(id)...)
	return append(key, who.Bytes()...)
}

type storage struct {
	state *state.State
}

func (s *storage) NextPoolID() (PoolID, error) {
	id, err := s.state.GetUint32([]byte(keyNextPoolID))
	return PoolID(id), errors.Wrap(err, "failed to get next pool id")
}

func (s *storage) SetNextPoolID(id PoolID) error {
	return errors.Wrap(s.state.SetUint32([]byte(keyNextPoolID), uint32(id)), "failed to set next pool id")
}

func (s *storage) Pool(id PoolID) (*PoolInfo, bool, error) {
	var pool PoolInfo
	found, err := s.state.GetRLP(poolKey(id), &pool)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get pool")
	}
	return &pool, found, nil
}

func (s *storage) SetPool(id PoolID, pool *PoolInfo) error {
	return errors.Wrap(s.state.SetRLP(poolKey(id), pool), "failed to set pool")
}

func (s *storage) DeletePool(id PoolID) {
	s.state.Delete(poolKey(id))
}

func (s *storage) Staker(id PoolID, who meridian.Address) (*PoolStakerInfo, bool, error) {
	var staker PoolStakerInfo
	found, err := s.state.GetRLP(stakerKey(id, who), &staker)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get pool staker")
	}
	return &staker, found, nil
}

func (s *storage) SetStaker(id PoolID, who meridian.Address, staker *PoolStakerInfo) error {
	return errors.Wrap(s.state.SetRLP(stakerKey(id, who), staker), "failed to set pool staker")
}

func (s *storage) DeleteStaker(id PoolID, who meridian.Address) {
	s.state.Delete(stakerKey(id, who))
}
