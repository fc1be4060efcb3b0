// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

// EnsureSnapshotMetadataState verifies the election bookkeeping against the
// block number: outside the election window no metadata and no electable
// stashes may exist; inside it the metadata must record the window's first
// block and every electable stash must have exposures collected for the
// upcoming era. Read-only; intended for tests and debug builds.
func (s *Staking) EnsureSnapshotMetadataState(now uint32) error {
	next, err := s.NextElection()
	if err != nil {
		return err
	}
	windowStart := next - s.config.ElectionPages

	startedAt, hasMetadata, err := s.storage.ElectingStartedAt()
	if err != nil {
		return err
	}
	stashes, err := s.storage.ElectableStashes()
	if err != nil {
		return err
	}

	if now < windowStart || now >= next {
		if hasMetadata {
			return errors.New("unexpected election metadata while election prep hasn't started")
		}
		if len(stashes) > 0 {
			return errors.New("unexpected electable stashes in storage while election prep hasn't started")
		}
		return nil
	}

	if !hasMetadata {
		return errors.New("election prep should have started already, no election metadata in storage")
	}
	if startedAt != windowStart {
		return errors.New("unexpected electing started at block number in storage")
	}

	current, err := s.storage.CurrentEra()
	if err != nil {
		return err
	}
	for _, stash := range stashes {
		_, exposed, err := s.storage.Overview(current+1, stash)
		if err != nil {
			return err
		}
		if !exposed {
			return errors.New("no exposures collected for an electable stash")
		}
	}
	return nil
}
