// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

// rotateEra finishes the current era at block n: the accumulated electable
// stashes become the validator set of the next era, the ended era's reward
// pot is fixed, election metadata is cleared and eras beyond HistoryDepth
// are pruned. All of it lands in the same state transition.
//
// If the election produced no stashes the rotation is deferred: the previous
// validator set stays in place, metadata is cleared and the era timer
// restarts at n, scheduling a fresh election one full era ahead.
func (s *Staking) rotateEra(n uint32) error {
	current, err := s.storage.CurrentEra()
	if err != nil {
		return err
	}
	stashes, err := s.storage.ElectableStashes()
	if err != nil {
		return err
	}

	s.storage.ClearElectingStartedAt()
	s.storage.ClearElectableStashes()

	if len(stashes) == 0 {
		s.logger.Error("no electable stashes at era boundary, deferring rotation", "block", n, "era", current)
		metricRotationSkips().Add(1)
		return s.storage.SetEraStartBlock(n)
	}

	newEra := current + 1
	if err := s.storage.SetEraValidators(newEra, stashes); err != nil {
		return err
	}
	for _, stash := range stashes {
		candidate, found, err := s.storage.Candidate(stash)
		if err != nil {
			return err
		}
		commission := uint32(0)
		if found {
			commission = candidate.Commission
		}
		if err := s.storage.SetEraPrefs(newEra, stash, commission); err != nil {
			return err
		}
	}
	if err := s.storage.SetCurrentEra(newEra); err != nil {
		return err
	}
	if err := s.storage.SetEraStartBlock(n); err != nil {
		return err
	}

	// Fix the ended era's payout pot, unless one was set explicitly.
	if s.config.EraReward != nil && s.config.EraReward.Sign() > 0 {
		if _, found, err := s.storage.EraReward(current); err != nil {
			return err
		} else if !found {
			if err := s.storage.SetEraReward(current, s.config.EraReward); err != nil {
				return err
			}
		}
	}

	if newEra > s.config.HistoryDepth {
		if err := s.pruneEra(newEra - s.config.HistoryDepth - 1); err != nil {
			return err
		}
	}

	s.session.ApplyValidatorSet(newEra, stashes)
	s.logger.Info("era rotated", "block", n, "era", newEra, "validators", len(stashes))
	metricEraRotations().Add(1)
	return nil
}

// pruneEra drops all stored data of an era that fell out of history.
func (s *Staking) pruneEra(era uint32) error {
	validators, err := s.storage.EraValidators(era)
	if err != nil {
		return err
	}
	if err := s.clearEraExposures(era, validators); err != nil {
		return err
	}
	for _, validator := range validators {
		s.storage.DeleteEraPrefs(era, validator)
		s.storage.DeleteClaimedPages(era, validator)
	}
	s.storage.DeleteEraValidators(era)
	s.storage.DeleteEraPoints(era)
	s.storage.DeleteEraReward(era)
	return nil
}