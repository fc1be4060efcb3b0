// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
)

var commissionDenominator = big.NewInt(1e9)

// RewardByIDs accumulates reward points for validators in the current era.
// Unknown validators accumulate points like any other; they simply never
// match an exposure at payout time.
func (s *Staking) RewardByIDs(awarded []ValidatorPoints) error {
	current, err := s.storage.CurrentEra()
	if err != nil {
		return err
	}
	points, err := s.storage.EraPoints(current)
	if err != nil {
		return err
	}
	for _, award := range awarded {
		points.add(award.Validator, award.Points)
	}
	return s.storage.SetEraPoints(current, points)
}

// EraRewardPointsOf returns the accumulated reward points of the era.
func (s *Staking) EraRewardPointsOf(era uint32) (*EraRewardPoints, error) {
	return s.storage.EraPoints(era)
}

// SetEraReward fixes the payout pot for an era explicitly, overriding the
// configured per-era reward.
func (s *Staking) SetEraReward(era uint32, reward *big.Int) error {
	if reward == nil || reward.Sign() <= 0 {
		return errors.New("era reward must be positive")
	}
	return s.storage.SetEraReward(era, reward)
}

// PayoutStakersByPage pays one exposure page of a validator for a finished
// era. The validator's share of the era pot is proportional to its reward
// points; its commission comes off the top and is paid with page 0, along
// with the own-stake part. Nominators on the page receive the remainder
// pro-rata to their exposed stake. Each page is claimable exactly once.
func (s *Staking) PayoutStakersByPage(era uint32, validator meridian.Address, page uint32) error {
	current, err := s.storage.CurrentEra()
	if err != nil {
		return err
	}
	if era >= current {
		return ErrEraNotFinished
	}
	if current > s.config.HistoryDepth && era < current-s.config.HistoryDepth {
		return ErrEraExpired
	}

	meta, exposed, err := s.storage.Overview(era, validator)
	if err != nil {
		return err
	}
	if !exposed {
		return ErrNotExposed
	}
	if page >= max(meta.PageCount, 1) {
		return ErrInvalidPage
	}

	claimed, err := s.storage.ClaimedPages(era, validator)
	if err != nil {
		return err
	}
	for _, claimedPage := range claimed {
		if claimedPage == page {
			return ErrAlreadyClaimed
		}
	}

	points, err := s.storage.EraPoints(era)
	if err != nil {
		return err
	}
	earned := points.get(validator)
	if points.Total == 0 || earned == 0 {
		return ErrNoRewardPoints
	}
	pot, found, err := s.storage.EraReward(era)
	if err != nil {
		return err
	}
	if !found || pot.Sign() == 0 {
		return ErrNoEraReward
	}

	// Validator's slice of the pot, by points.
	share := new(big.Int).Mul(pot, big.NewInt(int64(earned)))
	share.Div(share, big.NewInt(int64(points.Total)))

	commissionPPB, err := s.storage.EraPrefs(era, validator)
	if err != nil {
		return err
	}
	commission := new(big.Int).Mul(share, big.NewInt(int64(commissionPPB)))
	commission.Div(commission, commissionDenominator)
	stakePart := new(big.Int).Sub(share, commission)

	payStaker := func(who meridian.Address, exposedStake *big.Int) error {
		amount := new(big.Int).Mul(stakePart, exposedStake)
		amount.Div(amount, meta.Total)
		if amount.Sign() == 0 {
			return nil
		}
		return s.minter.Mint(s.config.RewardAsset, who, amount)
	}

	if page == 0 {
		validatorCut := new(big.Int).Mul(stakePart, meta.Own)
		validatorCut.Div(validatorCut, meta.Total)
		validatorCut.Add(validatorCut, commission)
		if validatorCut.Sign() > 0 {
			if err := s.minter.Mint(s.config.RewardAsset, validator, validatorCut); err != nil {
				return err
			}
		}
	}
	if meta.PageCount > 0 {
		stored, found, err := s.storage.ExposurePage(era, validator, page)
		if err != nil {
			return err
		}
		if found {
			for _, other := range stored.Others {
				if err := payStaker(other.Who, other.Value); err != nil {
					return err
				}
			}
		}
	}

	if err := s.storage.SetClaimedPages(era, validator, append(claimed, page)); err != nil {
		return err
	}
	s.logger.Debug("payout page settled", "era", era, "validator", validator, "page", page)
	metricPayoutPages().Add(1)
	return nil
}

// PayoutStakers pays every unclaimed exposure page of the validator for the
// era. It returns ErrAlreadyClaimed only when no page was left to pay.
func (s *Staking) PayoutStakers(era uint32, validator meridian.Address) error {
	meta, exposed, err := s.storage.Overview(era, validator)
	if err != nil {
		return err
	}
	if !exposed {
		// Let the page-level checks produce the precise error.
		return s.PayoutStakersByPage(era, validator, 0)
	}

	paid := uint32(0)
	for page := uint32(0); page < max(meta.PageCount, 1); page++ {
		if err := s.PayoutStakersByPage(era, validator, page); err != nil {
			if errors.Is(err, ErrAlreadyClaimed) {
				continue
			}
			return err
		}
		paid++
	}
	if paid == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}
