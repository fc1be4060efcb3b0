// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards implements permissionless staking reward pools with lazy,
// O(1) reward accounting.
//
// Each pool distributes RewardRatePerBlock of its reward asset per block,
// split pro-rata across staked tokens. Instead of walking stakers, the pool
// keeps an accumulated-rewards-per-share counter settled just in time on
// every pool interaction; a staker's pending rewards are its stake times the
// accumulator, minus the reward debt recorded when its position last changed.
package rewards

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/assets"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/state"
)

// precisionFactor scales the rewards-per-share accumulator to keep integer
// division losses negligible.
var precisionFactor = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

var (
	metricPoolsCreated = metrics.LazyLoadCounter("rewards_pools_created_count")
	metricHarvests     = metrics.LazyLoadCounter("rewards_harvests_count")
)

var (
	// ErrNonExistentPool is returned for operations on an unknown pool.
	ErrNonExistentPool = errors.New("pool does not exist")
	// ErrNotEnoughFunds is returned when unstaking more than staked.
	ErrNotEnoughFunds = errors.New("not enough staked funds")
	// ErrNotAdmin is returned when a pool-admin operation comes from another
	// account.
	ErrNotAdmin = errors.New("caller is not the pool admin")
	// ErrPoolNotEmpty is returned when removing a pool that still holds
	// stake or undistributed rewards.
	ErrPoolNotEmpty = errors.New("pool still holds stake or rewards")
)

// AssetLedger is the slice of the asset ledger the reward engine needs.
type AssetLedger interface {
	Transfer(id assets.AssetID, from, to meridian.Address, amount *big.Int) error
	Balance(id assets.AssetID, who meridian.Address) (*big.Int, error)
}

// Rewards is the reward pool engine. Mutating operations take the current
// block number; the caller owns state checkpointing and commit.
type Rewards struct {
	storage *storage
	ledger  AssetLedger
	logger  log.Logger
}

// New creates the reward engine over the given state and asset ledger.
func New(st *state.State, ledger AssetLedger) *Rewards {
	return &Rewards{
		storage: &storage{state: st},
		ledger:  ledger,
		logger:  log.New("pkg", "rewards"),
	}
}

// PotAddress returns the account holding a pool's staked tokens and its
// undistributed reward tokens.
func PotAddress(id PoolID) meridian.Address {
	return meridian.DeriveAddress("meridian/rewards/pool-pot", poolIDBytes(id))
}

// CreatePool creates a pool distributing rewardAsset to stakers of
// stakedAsset at the given per-block rate, administered by admin. Returns
// the new pool's id.
func (r *Rewards) CreatePool(admin meridian.Address, stakedAsset, rewardAsset assets.AssetID, rewardRate *big.Int, now uint32) (PoolID, error) {
	if rewardRate == nil || rewardRate.Sign() < 0 {
		return 0, errors.New("reward rate must not be negative")
	}
	id, err := r.storage.NextPoolID()
	if err != nil {
		return 0, err
	}
	pool := &PoolInfo{
		StakedAssetID:              stakedAsset,
		RewardAssetID:              rewardAsset,
		RewardRatePerBlock:         rewardRate,
		TotalTokensStaked:          new(big.Int),
		AccumulatedRewardsPerShare: new(big.Int),
		LastRewardedBlock:          now,
		Admin:                      admin,
	}
	if err := r.storage.SetPool(id, pool); err != nil {
		return 0, err
	}
	if err := r.storage.SetNextPoolID(id + 1); err != nil {
		return 0, err
	}
	r.logger.Info("pool created", "pool", uint32(id), "admin", admin, "rate", rewardRate)
	metricPoolsCreated().Add(1)
	return id, nil
}

// RemovePool removes a pool. Only the admin may remove it, and only once
// all stake is withdrawn and the reward pot is drained.
func (r *Rewards) RemovePool(caller meridian.Address, id PoolID, now uint32) error {
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNonExistentPool
	}
	if pool.Admin != caller {
		return ErrNotAdmin
	}
	if pool.TotalTokensStaked.Sign() != 0 {
		return ErrPoolNotEmpty
	}
	potRewards, err := r.ledger.Balance(pool.RewardAssetID, PotAddress(id))
	if err != nil {
		return err
	}
	if potRewards.Sign() != 0 {
		return ErrPoolNotEmpty
	}
	r.storage.DeletePool(id)
	r.logger.Info("pool removed", "pool", uint32(id), "block", now)
	return nil
}

// Stake moves amount of the pool's staked asset from the staker into the
// pool pot and enlarges the staker's position.
func (r *Rewards) Stake(who meridian.Address, id PoolID, amount *big.Int, now uint32) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("stake amount must be positive")
	}
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNonExistentPool
	}
	r.settlePool(pool, now)

	staker, found, err := r.storage.Staker(id, who)
	if err != nil {
		return err
	}
	if !found {
		staker = newPoolStakerInfo()
	}
	r.settleStaker(pool, staker)

	if err := r.ledger.Transfer(pool.StakedAssetID, who, PotAddress(id), amount); err != nil {
		return err
	}
	staker.Amount = new(big.Int).Add(staker.Amount, amount)
	staker.RewardDebt = rewardDebt(pool, staker.Amount)
	pool.TotalTokensStaked = new(big.Int).Add(pool.TotalTokensStaked, amount)

	if err := r.storage.SetStaker(id, who, staker); err != nil {
		return err
	}
	if err := r.storage.SetPool(id, pool); err != nil {
		return err
	}
	r.logger.Debug("staked", "pool", uint32(id), "who", who, "amount", amount)
	return nil
}

// Unstake returns amount of the staked asset from the pool pot to the
// staker and shrinks its position. Settled rewards stay harvestable.
func (r *Rewards) Unstake(who meridian.Address, id PoolID, amount *big.Int, now uint32) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New("unstake amount must be positive")
	}
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNonExistentPool
	}
	staker, found, err := r.storage.Staker(id, who)
	if err != nil {
		return err
	}
	if !found || staker.Amount.Cmp(amount) < 0 {
		return ErrNotEnoughFunds
	}
	r.settlePool(pool, now)
	r.settleStaker(pool, staker)

	if err := r.ledger.Transfer(pool.StakedAssetID, PotAddress(id), who, amount); err != nil {
		return err
	}
	staker.Amount = new(big.Int).Sub(staker.Amount, amount)
	staker.RewardDebt = rewardDebt(pool, staker.Amount)
	pool.TotalTokensStaked = new(big.Int).Sub(pool.TotalTokensStaked, amount)

	if err := r.setOrClearStaker(id, who, staker); err != nil {
		return err
	}
	if err := r.storage.SetPool(id, pool); err != nil {
		return err
	}
	r.logger.Debug("unstaked", "pool", uint32(id), "who", who, "amount", amount)
	return nil
}

// HarvestRewards pays out the staker's settled rewards from the pool pot.
// Anyone may trigger a harvest for any staker; rewards always go to the
// staker.
func (r *Rewards) HarvestRewards(staker meridian.Address, id PoolID, now uint32) (*big.Int, error) {
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNonExistentPool
	}
	position, found, err := r.storage.Staker(id, staker)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotEnoughFunds
	}
	r.settlePool(pool, now)
	r.settleStaker(pool, position)

	payout := position.Rewards
	if payout.Sign() > 0 {
		if err := r.ledger.Transfer(pool.RewardAssetID, PotAddress(id), staker, payout); err != nil {
			return nil, err
		}
	}
	position.Rewards = new(big.Int)
	position.RewardDebt = rewardDebt(pool, position.Amount)

	if err := r.setOrClearStaker(id, staker, position); err != nil {
		return nil, err
	}
	if err := r.storage.SetPool(id, pool); err != nil {
		return nil, err
	}
	r.logger.Debug("harvested", "pool", uint32(id), "who", staker, "amount", payout)
	metricHarvests().Add(1)
	return payout, nil
}

// ModifyPool changes the pool's reward rate. Rewards accrued under the old
// rate are settled first.
func (r *Rewards) ModifyPool(caller meridian.Address, id PoolID, newRate *big.Int, now uint32) error {
	if newRate == nil || newRate.Sign() < 0 {
		return errors.New("reward rate must not be negative")
	}
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNonExistentPool
	}
	if pool.Admin != caller {
		return ErrNotAdmin
	}
	r.settlePool(pool, now)
	pool.RewardRatePerBlock = newRate
	if err := r.storage.SetPool(id, pool); err != nil {
		return err
	}
	r.logger.Info("pool rate modified", "pool", uint32(id), "rate", newRate)
	return nil
}

// DepositRewardTokens funds the pool pot with reward tokens from the
// depositor. The pot must stay funded for harvests to succeed; the engine
// never mints.
func (r *Rewards) DepositRewardTokens(from meridian.Address, id PoolID, amount *big.Int) error {
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNonExistentPool
	}
	return r.ledger.Transfer(pool.RewardAssetID, from, PotAddress(id), amount)
}

// WithdrawRewardTokens moves undistributed reward tokens out of the pool
// pot. Only the admin may withdraw; rewards already settled to stakers are
// protected only by the admin's restraint, so pools should be drained after
// all positions have exited.
func (r *Rewards) WithdrawRewardTokens(caller meridian.Address, id PoolID, to meridian.Address, amount *big.Int) error {
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNonExistentPool
	}
	if pool.Admin != caller {
		return ErrNotAdmin
	}
	return r.ledger.Transfer(pool.RewardAssetID, PotAddress(id), to, amount)
}

// Pool returns the pool info, if the pool exists.
func (r *Rewards) Pool(id PoolID) (*PoolInfo, bool, error) {
	return r.storage.Pool(id)
}

// Staker returns the staker's position in the pool, if any.
func (r *Rewards) Staker(id PoolID, who meridian.Address) (*PoolStakerInfo, bool, error) {
	return r.storage.Staker(id, who)
}

// PendingRewards returns the rewards the staker could harvest at block now,
// without mutating any state.
func (r *Rewards) PendingRewards(who meridian.Address, id PoolID, now uint32) (*big.Int, error) {
	pool, found, err := r.storage.Pool(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNonExistentPool
	}
	staker, found, err := r.storage.Staker(id, who)
	if err != nil {
		return nil, err
	}
	if !found {
		return new(big.Int), nil
	}
	r.settlePool(pool, now)
	pending := new(big.Int).Mul(staker.Amount, pool.AccumulatedRewardsPerShare)
	pending.Div(pending, precisionFactor)
	pending.Sub(pending, staker.RewardDebt)
	return pending.Add(pending, staker.Rewards), nil
}

// settlePool advances the rewards-per-share accumulator to block now. With
// no stake the accumulator stands still; those blocks distribute nothing.
func (r *Rewards) settlePool(pool *PoolInfo, now uint32) {
	if now <= pool.LastRewardedBlock {
		return
	}
	elapsed := now - pool.LastRewardedBlock
	pool.LastRewardedBlock = now
	if pool.TotalTokensStaked.Sign() == 0 || pool.RewardRatePerBlock.Sign() == 0 {
		return
	}
	accrued := new(big.Int).Mul(pool.RewardRatePerBlock, big.NewInt(int64(elapsed)))
	accrued.Mul(accrued, precisionFactor)
	accrued.Div(accrued, pool.TotalTokensStaked)
	pool.AccumulatedRewardsPerShare = new(big.Int).Add(pool.AccumulatedRewardsPerShare, accrued)
}

// settleStaker moves the staker's pending rewards into its settled balance
// against the current accumulator.
func (r *Rewards) settleStaker(pool *PoolInfo, staker *PoolStakerInfo) {
	pending := new(big.Int).Mul(staker.Amount, pool.AccumulatedRewardsPerShare)
	pending.Div(pending, precisionFactor)
	pending.Sub(pending, staker.RewardDebt)
	if pending.Sign() > 0 {
		staker.Rewards = new(big.Int).Add(staker.Rewards, pending)
	}
	staker.RewardDebt = rewardDebt(pool, staker.Amount)
}

func rewardDebt(pool *PoolInfo, amount *big.Int) *big.Int {
	debt := new(big.Int).Mul(amount, pool.AccumulatedRewardsPerShare)
	return debt.Div(debt, precisionFactor)
}

// setOrClearStaker drops fully exited positions from storage.
func (r *Rewards) setOrClearStaker(id PoolID, who meridian.Address, staker *PoolStakerInfo) error {
	if staker.Amount.Sign() == 0 && staker.Rewards.Sign() == 0 {
		r.storage.DeleteStaker(id, who)
		return nil
	}
	return r.storage.SetStaker(id, who, staker)
}
