// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/assets"
)

// Config carries every tunable of the election and payout engine. It is
// injected at construction and never mutated afterwards.
type Config struct {
	// ElectionPages is the number of pages the election provider produces
	// per election round. 1 means a single-page election.
	ElectionPages uint32
	// MaxValidatorSet bounds the electable stash set and thus the size of
	// the validator set installed at era rotation.
	MaxValidatorSet uint32
	// MaxWinnersPerPage bounds the winners accepted from a single page.
	MaxWinnersPerPage uint32
	// MaxExposurePageSize bounds the nominators stored per exposure page.
	MaxExposurePageSize uint32
	// SessionsPerEra is the number of sessions within one era.
	SessionsPerEra uint32
	// BlocksPerSession is the number of blocks within one session.
	BlocksPerSession uint32
	// HistoryDepth is the number of finished eras kept in storage. Older
	// era data is pruned at rotation.
	HistoryDepth uint32
	// EraReward, when positive, is the payout pot fixed for every era at
	// its end. It can be overridden per era via SetEraReward.
	EraReward *big.Int
	// RewardAsset is the asset minted for era payouts.
	RewardAsset assets.AssetID
}

// EraLength returns the era length in blocks.
func (c *Config) EraLength() uint32 {
	return c.SessionsPerEra * c.BlocksPerSession
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if c.ElectionPages == 0 {
		return errors.New("election pages must be at least 1")
	}
	if c.MaxValidatorSet == 0 {
		return errors.New("max validator set must be at least 1")
	}
	if c.MaxWinnersPerPage == 0 {
		return errors.New("max winners per page must be at least 1")
	}
	if c.MaxExposurePageSize == 0 {
		return errors.New("max exposure page size must be at least 1")
	}
	if c.EraLength() == 0 {
		return errors.New("era length must be at least 1 block")
	}
	if c.EraLength() <= c.ElectionPages {
		return errors.New("era length must exceed the number of election pages")
	}
	return nil
}
