// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"sort"

	"github.com/meridianchain/meridian/meridian"
)

// electPaged fetches one election page from the provider and processes it.
// Provider failures are logged and absorbed so the block still finalizes;
// the page simply contributes no winners.
func (s *Staking) electPaged(page uint32) error {
	supports, err := s.provider.Elect(page)
	if err != nil {
		s.logger.Error("election provider failed", "page", page, "err", err)
		return nil
	}
	return s.processElectionPage(page, supports)
}

// processElectionPage merges one page of election winners into the electable
// stash set and stores their exposures for the upcoming era.
//
// Winners already in the set are deduplicated silently. When the set runs out
// of capacity, every stash inserted up to that point is kept along with its
// exposure, and ErrStashesOverflow is returned after the partial result has
// been persisted.
func (s *Staking) processElectionPage(page uint32, supports []Support) error {
	if uint32(len(supports)) > s.config.MaxWinnersPerPage {
		supports = supports[:s.config.MaxWinnersPerPage]
	}

	winners := make([]meridian.Address, len(supports))
	for i := range supports {
		winners[i] = supports[i].Validator
	}
	members, overflowed, err := s.addElectables(winners)
	if err != nil {
		return err
	}

	current, err := s.storage.CurrentEra()
	if err != nil {
		return err
	}
	upcoming := current + 1

	stored := 0
	for _, collected := range collectExposures(supports) {
		if !members[collected.Validator] {
			continue
		}
		if err := s.storeStakersInfo(upcoming, collected.Validator, &collected.Exposure); err != nil {
			return err
		}
		stored++
	}
	s.logger.Debug("election page processed",
		"page", page, "winners", len(winners), "stored", stored, "overflowed", overflowed)

	if overflowed {
		return ErrStashesOverflow
	}
	return nil
}

// addElectables inserts winners into the sorted electable stash set, up to
// MaxValidatorSet entries. It returns the membership of the set after the
// insertion and whether any winner was dropped for lack of capacity.
func (s *Staking) addElectables(winners []meridian.Address) (map[meridian.Address]bool, bool, error) {
	stashes, err := s.storage.ElectableStashes()
	if err != nil {
		return nil, false, err
	}

	overflowed := false
	for _, winner := range winners {
		pos := sort.Search(len(stashes), func(i int) bool {
			return stashes[i].Compare(winner) >= 0
		})
		if pos < len(stashes) && stashes[pos] == winner {
			continue
		}
		if uint32(len(stashes)) >= s.config.MaxValidatorSet {
			overflowed = true
			continue
		}
		stashes = append(stashes, meridian.Address{})
		copy(stashes[pos+1:], stashes[pos:])
		stashes[pos] = winner
	}

	if err := s.storage.SetElectableStashes(stashes); err != nil {
		return nil, false, err
	}
	members := make(map[meridian.Address]bool, len(stashes))
	for _, stash := range stashes {
		members[stash] = true
	}
	return members, overflowed, nil
}

// collectExposures splits each support into the validator's own stake (its
// self vote, if any) and the nominators' individual exposures.
func collectExposures(supports []Support) []ValidatorExposure {
	collected := make([]ValidatorExposure, 0, len(supports))
	for _, support := range supports {
		exposure := Exposure{
			Total: new(big.Int).Set(support.Total),
			Own:   new(big.Int),
		}
		for _, voter := range support.Voters {
			if voter.Who == support.Validator {
				exposure.Own = new(big.Int).Add(exposure.Own, voter.Value)
				continue
			}
			exposure.Others = append(exposure.Others, voter)
		}
		collected = append(collected, ValidatorExposure{Validator: support.Validator, Exposure: exposure})
	}
	return collected
}
