// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/assets"
)

// payoutFixture elects validator 1 (10% commission, three nominators across
// two exposure pages) and validator 2 for era 1, awards points to validator 1
// only, and advances into era 2 so era 1 becomes payable.
func payoutFixture(t *testing.T, config *Config) *testEnv {
	env := newTestEnv(t, config)
	require.NoError(t, env.staking.RegisterValidator(addr(1), bi(500), 100_000_000))

	env.provider.pages[0] = []Support{
		supp(1, vote(1, 500), vote(101, 300), vote(102, 200), vote(103, 100)),
		supp(2, vote(2, 400)),
	}
	env.runToBlock(10)

	require.NoError(t, env.staking.RewardByIDs([]ValidatorPoints{
		{Validator: addr(1), Points: 20},
	}))
	require.NoError(t, env.state.Commit())

	env.runToBlock(20)
	era, err := env.staking.CurrentEra()
	require.NoError(t, err)
	require.Equal(t, uint32(2), era)
	return env
}

func (e *testEnv) balance(who byte) *big.Int {
	b, err := e.ledger.Balance(assets.AssetID(1), addr(who))
	require.NoError(e.t, err)
	return b
}

func TestPayoutStakersByPage(t *testing.T) {
	env := payoutFixture(t, nil)

	// Validator 1 earned all 20 points: its share is the whole era pot of
	// 1_000_000. Commission takes 10%, the rest splits pro-rata over the
	// 1100 exposed stake.
	require.NoError(t, env.staking.PayoutStakersByPage(1, addr(1), 0))
	assert.Equal(t, bi(509_090), env.balance(1)) // 900_000*500/1100 + 100_000
	assert.Equal(t, bi(245_454), env.balance(101))
	assert.Equal(t, bi(163_636), env.balance(102))
	assert.Equal(t, bi(0), env.balance(103)) // page 1 not claimed yet

	require.NoError(t, env.staking.PayoutStakersByPage(1, addr(1), 1))
	assert.Equal(t, bi(81_818), env.balance(103))
	// Page 1 pays nominators only.
	assert.Equal(t, bi(509_090), env.balance(1))

	// Integer division may only lose dust, never overpay.
	total := new(big.Int)
	for _, who := range []byte{1, 101, 102, 103} {
		total.Add(total, env.balance(who))
	}
	assert.LessOrEqual(t, total.Int64(), int64(1_000_000))
	assert.GreaterOrEqual(t, total.Int64(), int64(999_990))
}

func TestPayoutErrors(t *testing.T) {
	env := payoutFixture(t, nil)

	assert.ErrorIs(t, env.staking.PayoutStakersByPage(2, addr(1), 0), ErrEraNotFinished)
	assert.ErrorIs(t, env.staking.PayoutStakersByPage(3, addr(1), 0), ErrEraNotFinished)
	assert.ErrorIs(t, env.staking.PayoutStakersByPage(1, addr(9), 0), ErrNotExposed)
	assert.ErrorIs(t, env.staking.PayoutStakersByPage(1, addr(1), 2), ErrInvalidPage)

	// Validator 2 is exposed but earned no points.
	assert.ErrorIs(t, env.staking.PayoutStakersByPage(1, addr(2), 0), ErrNoRewardPoints)

	require.NoError(t, env.staking.PayoutStakersByPage(1, addr(1), 0))
	assert.ErrorIs(t, env.staking.PayoutStakersByPage(1, addr(1), 0), ErrAlreadyClaimed)
}

func TestPayoutStakersAllPages(t *testing.T) {
	env := payoutFixture(t, nil)

	// Claim page 0 by hand, PayoutStakers settles the rest.
	require.NoError(t, env.staking.PayoutStakersByPage(1, addr(1), 0))
	require.NoError(t, env.staking.PayoutStakers(1, addr(1)))
	assert.Equal(t, bi(81_818), env.balance(103))

	assert.ErrorIs(t, env.staking.PayoutStakers(1, addr(1)), ErrAlreadyClaimed)
}

func TestPayoutEraExpired(t *testing.T) {
	env := payoutFixture(t, nil)

	// Eras rotate every 10 blocks; by block 50 era 1 fell out of the
	// 3-era history window and its data is pruned.
	env.runToBlock(50)
	era, err := env.staking.CurrentEra()
	require.NoError(t, err)
	require.Equal(t, uint32(5), era)

	assert.ErrorIs(t, env.staking.PayoutStakersByPage(1, addr(1), 0), ErrEraExpired)
	_, exposed, err := env.staking.ExposureMetadata(1, addr(1))
	require.NoError(t, err)
	assert.False(t, exposed)
	validators, err := env.staking.ActiveValidators(1)
	require.NoError(t, err)
	assert.Empty(t, validators)
}

func TestPayoutNoEraReward(t *testing.T) {
	config := defaultConfig()
	config.EraReward = nil
	env := payoutFixture(t, config)

	assert.ErrorIs(t, env.staking.PayoutStakersByPage(1, addr(1), 0), ErrNoEraReward)

	// An explicitly set pot unblocks the payout.
	require.NoError(t, env.staking.SetEraReward(1, bi(1_000_000)))
	require.NoError(t, env.staking.PayoutStakersByPage(1, addr(1), 0))
	assert.Equal(t, bi(509_090), env.balance(1))
}

func TestRewardByIDsAccumulates(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.staking.RewardByIDs([]ValidatorPoints{
		{Validator: addr(1), Points: 20},
		{Validator: addr(2), Points: 10},
	}))
	require.NoError(t, env.staking.RewardByIDs([]ValidatorPoints{
		{Validator: addr(1), Points: 5},
	}))

	points, err := env.staking.EraRewardPointsOf(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(35), points.Total)
	assert.Equal(t, uint32(25), points.get(addr(1)))
	assert.Equal(t, uint32(10), points.get(addr(2)))
}
