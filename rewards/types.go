// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/meridianchain/meridian/assets"
	"github.com/meridianchain/meridian/meridian"
)

// PoolID identifies a reward pool.
type PoolID uint32

// PoolInfo is one staking reward pool. Rewards accrue lazily: the
// accumulated-rewards-per-share counter is settled on every pool touch and
// individual stakes settle against it via their reward debt.
type PoolInfo struct {
	// StakedAssetID is the asset staked into the pool.
	StakedAssetID assets.AssetID
	// RewardAssetID is the asset distributed as rewards.
	RewardAssetID assets.AssetID
	// RewardRatePerBlock is the amount of reward tokens distributed per block
	// across all stakers, pro-rata to stake.
	RewardRatePerBlock *big.Int
	// TotalTokensStaked is the total staked amount across all stakers.
	TotalTokensStaked *big.Int
	// AccumulatedRewardsPerShare is scaled by precisionFactor.
	AccumulatedRewardsPerShare *big.Int
	// LastRewardedBlock is the block the accumulator was last settled at.
	LastRewardedBlock uint32
	// Admin may modify the reward rate and remove the pool.
	Admin meridian.Address
}

// PoolStakerInfo is one staker's position in a pool.
type PoolStakerInfo struct {
	// Amount is the staked amount.
	Amount *big.Int
	// Rewards is the settled, not yet harvested reward balance.
	Rewards *big.Int
	// RewardDebt offsets the accumulator for rewards accrued before this
	// position's last change.
	RewardDebt *big.Int
}

func newPoolStakerInfo() *PoolStakerInfo {
	return &PoolStakerInfo{
		Amount:     new(big.Int),
		Rewards:    new(big.Int),
		RewardDebt: new(big.Int),
	}
}
