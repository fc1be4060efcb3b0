// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sort"

	"github.com/meridianchain/meridian/meridian"
)

// ElectableTargets returns the validator candidates an election may elect,
// ordered by self stake descending, bounded by maxTargets. Targets fit a
// single page regardless of the election's page count.
func (s *Staking) ElectableTargets(maxTargets uint32) ([]meridian.Address, error) {
	targets, err := s.storage.TargetList()
	if err != nil {
		return nil, err
	}
	stakes := make(map[meridian.Address]*big.Int, len(targets))
	for _, target := range targets {
		candidate, found, err := s.storage.Candidate(target)
		if err != nil {
			return nil, err
		}
		if found {
			stakes[target] = candidate.Stake
		}
	}
	sort.SliceStable(targets, func(i, j int) bool {
		return stakes[targets[i]].Cmp(stakes[targets[j]]) > 0
	})
	if uint32(len(targets)) > maxTargets {
		targets = targets[:maxTargets]
	}
	return targets, nil
}

// ElectingVoters serves one page of the voter snapshot, bounded by
// maxVoters. Pages are requested in descending order; consumption resumes
// from a persisted cursor, so a multi-page election walks the voter list
// exactly once. Once the list is exhausted the remaining pages are empty.
// Serving page 0 resets the snapshot for the next election round.
func (s *Staking) ElectingVoters(page uint32, maxVoters uint32) ([]Voter, error) {
	status, err := s.storage.VoterSnapshotStatus()
	if err != nil {
		return nil, err
	}

	var voters []Voter
	if status != SnapshotConsumed {
		all, err := s.voterSnapshot()
		if err != nil {
			return nil, err
		}
		cursor, hasCursor, err := s.storage.VoterSnapshotCursor()
		if err != nil {
			return nil, err
		}
		start := uint32(0)
		if hasCursor {
			start = cursor
		}
		if start > uint32(len(all)) {
			start = uint32(len(all))
		}
		end := min(start+maxVoters, uint32(len(all)))
		voters = all[start:end]

		if end >= uint32(len(all)) {
			if err := s.storage.SetVoterSnapshotStatus(SnapshotConsumed); err != nil {
				return nil, err
			}
			s.storage.ClearVoterSnapshotCursor()
		} else if err := s.storage.SetVoterSnapshotCursor(end); err != nil {
			return nil, err
		}
	}

	if page == 0 {
		if err := s.storage.SetVoterSnapshotStatus(SnapshotWaiting); err != nil {
			return nil, err
		}
		s.storage.ClearVoterSnapshotCursor()
	}
	return voters, nil
}

// voterSnapshot builds the full voter list: validator candidates first, each
// voting for itself with its self stake, then nominators, both in
// registration order.
func (s *Staking) voterSnapshot() ([]Voter, error) {
	targets, err := s.storage.TargetList()
	if err != nil {
		return nil, err
	}
	nominators, err := s.storage.VoterList()
	if err != nil {
		return nil, err
	}
	voters := make([]Voter, 0, len(targets)+len(nominators))
	for _, target := range targets {
		candidate, found, err := s.storage.Candidate(target)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		voters = append(voters, Voter{
			Who:     target,
			Weight:  candidate.Stake,
			Targets: []meridian.Address{target},
		})
	}
	for _, who := range nominators {
		nomination, found, err := s.storage.Nomination(who)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		voters = append(voters, Voter{
			Who:     who,
			Weight:  nomination.Stake,
			Targets: nomination.Targets,
		})
	}
	return voters, nil
}

// VoterSnapshotStatus returns the paged consumption state of the voter
// snapshot.
func (s *Staking) VoterSnapshotStatus() (SnapshotStatus, error) {
	return s.storage.VoterSnapshotStatus()
}
