// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/meridian"
)

func TestSinglePageElectionTimeline(t *testing.T) {
	env := newTestEnv(t, nil)
	env.provider.pages[0] = []Support{
		supp(1, vote(1, 500), vote(101, 100)),
		supp(2, vote(2, 400)),
	}

	require.Equal(t, uint32(10), env.nextElection())

	// Before the window nothing happens.
	env.runToBlock(8)
	assert.Empty(t, env.provider.calls)
	_, started, err := env.staking.ElectingStartedAt()
	require.NoError(t, err)
	assert.False(t, started)

	// Window opens one block before rotation: metadata set, page 0 fetched.
	env.runToBlock(9)
	assert.Equal(t, []uint32{0}, env.provider.calls)
	startedAt, started, err := env.staking.ElectingStartedAt()
	require.NoError(t, err)
	require.True(t, started)
	assert.Equal(t, uint32(9), startedAt)

	stashes, err := env.staking.ElectableStashes()
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2)}, stashes)

	// Exposures collected for the upcoming era.
	meta, exposed, err := env.staking.ExposureMetadata(1, addr(1))
	require.NoError(t, err)
	require.True(t, exposed)
	assert.Equal(t, bi(600), meta.Total)
	assert.Equal(t, bi(500), meta.Own)
	assert.Equal(t, uint32(1), meta.NominatorCount)
	assert.Equal(t, uint32(1), meta.PageCount)

	// Rotation: new set installed, metadata cleared, next election rescheduled.
	env.runToBlock(10)
	era, err := env.staking.CurrentEra()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), era)

	validators, err := env.staking.ActiveValidators(1)
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2)}, validators)

	_, started, err = env.staking.ElectingStartedAt()
	require.NoError(t, err)
	assert.False(t, started)
	stashes, err = env.staking.ElectableStashes()
	require.NoError(t, err)
	assert.Empty(t, stashes)
	assert.Equal(t, uint32(20), env.nextElection())

	require.Len(t, env.session.applied, 1)
	assert.Equal(t, uint32(1), env.session.applied[0].era)
	assert.Equal(t, []meridian.Address{addr(1), addr(2)}, env.session.applied[0].validators)

	// The ended era's payout pot was fixed.
	reward, found, err := env.staking.storage.EraReward(0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, bi(1_000_000), reward)
}

func TestMultiPageElectionTimeline(t *testing.T) {
	config := defaultConfig()
	config.ElectionPages = 3
	env := newTestEnv(t, config)
	env.provider.pages[2] = []Support{supp(1, vote(1, 300))}
	env.provider.pages[1] = []Support{supp(2, vote(2, 200))}
	env.provider.pages[0] = []Support{supp(3, vote(3, 100))}

	env.runToBlock(6)
	assert.Empty(t, env.provider.calls)

	// Pages are fetched in descending order, one per block.
	env.runToBlock(7)
	assert.Equal(t, []uint32{2}, env.provider.calls)
	startedAt, started, err := env.staking.ElectingStartedAt()
	require.NoError(t, err)
	require.True(t, started)
	assert.Equal(t, uint32(7), startedAt)

	env.runToBlock(8)
	assert.Equal(t, []uint32{2, 1}, env.provider.calls)
	env.runToBlock(9)
	assert.Equal(t, []uint32{2, 1, 0}, env.provider.calls)

	stashes, err := env.staking.ElectableStashes()
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2), addr(3)}, stashes)

	env.runToBlock(10)
	validators, err := env.staking.ActiveValidators(1)
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2), addr(3)}, validators)
}

func TestElectableStashesDeduplicate(t *testing.T) {
	config := defaultConfig()
	config.ElectionPages = 2
	env := newTestEnv(t, config)
	env.provider.pages[1] = []Support{
		supp(1, vote(1, 300)),
		supp(2, vote(2, 200), vote(101, 50)),
	}
	env.provider.pages[0] = []Support{
		supp(2, vote(102, 70)),
		supp(3, vote(3, 100)),
	}

	env.runToBlock(9)
	stashes, err := env.staking.ElectableStashes()
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2), addr(3)}, stashes)

	// The duplicate winner's exposure was topped up, not replaced.
	meta, exposed, err := env.staking.ExposureMetadata(1, addr(2))
	require.NoError(t, err)
	require.True(t, exposed)
	assert.Equal(t, bi(320), meta.Total)
	assert.Equal(t, bi(200), meta.Own)
	assert.Equal(t, uint32(2), meta.NominatorCount)
}

func TestElectableStashesOverflow(t *testing.T) {
	config := defaultConfig()
	config.MaxValidatorSet = 2
	env := newTestEnv(t, config)
	env.provider.pages[0] = []Support{
		supp(1, vote(1, 300)),
		supp(2, vote(2, 200)),
		supp(3, vote(3, 100)),
	}

	// The overflow is absorbed; the block still finalizes.
	env.runToBlock(9)
	stashes, err := env.staking.ElectableStashes()
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2)}, stashes)

	// The dropped winner got no exposure.
	_, exposed, err := env.staking.ExposureMetadata(1, addr(3))
	require.NoError(t, err)
	assert.False(t, exposed)

	env.runToBlock(10)
	validators, err := env.staking.ActiveValidators(1)
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2)}, validators)
}

func TestProcessElectionPageTruncatesWinners(t *testing.T) {
	config := defaultConfig()
	config.MaxWinnersPerPage = 2
	env := newTestEnv(t, config)

	err := env.staking.processElectionPage(0, []Support{
		supp(1, vote(1, 300)),
		supp(2, vote(2, 200)),
		supp(3, vote(3, 100)),
	})
	require.NoError(t, err)

	stashes, err := env.staking.ElectableStashes()
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(1), addr(2)}, stashes)
}

func TestDeferredRotationOnEmptyElection(t *testing.T) {
	env := newTestEnv(t, nil)
	// Provider has no pages: the election yields nothing.

	env.runToBlock(10)
	era, err := env.staking.CurrentEra()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), era)
	assert.Empty(t, env.session.applied)

	// Election metadata is cleared and the era timer restarts, pushing the
	// next election one full era ahead.
	_, started, err := env.staking.ElectingStartedAt()
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, uint32(20), env.nextElection())

	// The rescheduled election succeeds.
	env.provider.pages[0] = []Support{supp(1, vote(1, 300))}
	env.runToBlock(20)
	era, err = env.staking.CurrentEra()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), era)
}

func TestProviderFailureAbsorbed(t *testing.T) {
	env := newTestEnv(t, nil)
	env.provider.err = assert.AnError

	env.runToBlock(9)
	stashes, err := env.staking.ElectableStashes()
	require.NoError(t, err)
	assert.Empty(t, stashes)
}

func TestRegistration(t *testing.T) {
	env := newTestEnv(t, nil)

	require.NoError(t, env.staking.RegisterValidator(addr(1), bi(500), 0))
	assert.ErrorIs(t, env.staking.RegisterValidator(addr(1), bi(500), 0), ErrAlreadyRegistered)
	assert.Error(t, env.staking.RegisterValidator(addr(2), bi(0), 0))
	assert.Error(t, env.staking.RegisterValidator(addr(2), bi(500), 2e9))

	assert.ErrorIs(t, env.staking.RegisterNominator(addr(101), bi(100), []meridian.Address{addr(9)}), ErrUnknownValidator)
	require.NoError(t, env.staking.RegisterNominator(addr(101), bi(100), []meridian.Address{addr(1)}))
	assert.ErrorIs(t, env.staking.RegisterNominator(addr(101), bi(100), []meridian.Address{addr(1)}), ErrAlreadyRegistered)

	require.NoError(t, env.staking.Chill(addr(101)))
	assert.ErrorIs(t, env.staking.Chill(addr(101)), ErrUnknownNominator)
	require.NoError(t, env.staking.Chill(addr(1)))

	targets, err := env.staking.ElectableTargets(10)
	require.NoError(t, err)
	assert.Empty(t, targets)
}
