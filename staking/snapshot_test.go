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

func registerSnapshotFixture(t *testing.T, env *testEnv) {
	require.NoError(t, env.staking.RegisterValidator(addr(1), bi(300), 0))
	require.NoError(t, env.staking.RegisterValidator(addr(2), bi(200), 0))
	require.NoError(t, env.staking.RegisterNominator(addr(101), bi(100), []meridian.Address{addr(1)}))
	require.NoError(t, env.staking.RegisterNominator(addr(102), bi(80), []meridian.Address{addr(1), addr(2)}))
	require.NoError(t, env.staking.RegisterNominator(addr(103), bi(60), []meridian.Address{addr(2)}))
}

func TestElectableTargetsOrderAndBound(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.staking.RegisterValidator(addr(1), bi(100), 0))
	require.NoError(t, env.staking.RegisterValidator(addr(2), bi(300), 0))
	require.NoError(t, env.staking.RegisterValidator(addr(3), bi(200), 0))

	targets, err := env.staking.ElectableTargets(10)
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(2), addr(3), addr(1)}, targets)

	targets, err = env.staking.ElectableTargets(2)
	require.NoError(t, err)
	assert.Equal(t, []meridian.Address{addr(2), addr(3)}, targets)
}

func TestElectingVotersPagination(t *testing.T) {
	env := newTestEnv(t, nil)
	registerSnapshotFixture(t, env)

	// 5 voters total: 2 self-voting validators then 3 nominators.
	page2, err := env.staking.ElectingVoters(2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, addr(1), page2[0].Who)
	assert.Equal(t, bi(300), page2[0].Weight)
	assert.Equal(t, []meridian.Address{addr(1)}, page2[0].Targets)
	assert.Equal(t, addr(2), page2[1].Who)

	page1, err := env.staking.ElectingVoters(1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, addr(101), page1[0].Who)
	assert.Equal(t, addr(102), page1[1].Who)
	assert.Equal(t, []meridian.Address{addr(1), addr(2)}, page1[1].Targets)

	page0, err := env.staking.ElectingVoters(0, 2)
	require.NoError(t, err)
	require.Len(t, page0, 1)
	assert.Equal(t, addr(103), page0[0].Who)

	// Page 0 resets the snapshot for the next round.
	status, err := env.staking.VoterSnapshotStatus()
	require.NoError(t, err)
	assert.Equal(t, SnapshotWaiting, status)

	again, err := env.staking.ElectingVoters(2, 2)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, addr(1), again[0].Who)
}

func TestElectingVotersEarlyExhaustion(t *testing.T) {
	env := newTestEnv(t, nil)
	registerSnapshotFixture(t, env)

	// A generous bound drains the list on the first page.
	page2, err := env.staking.ElectingVoters(2, 10)
	require.NoError(t, err)
	assert.Len(t, page2, 5)

	status, err := env.staking.VoterSnapshotStatus()
	require.NoError(t, err)
	assert.Equal(t, SnapshotConsumed, status)

	page1, err := env.staking.ElectingVoters(1, 10)
	require.NoError(t, err)
	assert.Empty(t, page1)

	page0, err := env.staking.ElectingVoters(0, 10)
	require.NoError(t, err)
	assert.Empty(t, page0)

	status, err = env.staking.VoterSnapshotStatus()
	require.NoError(t, err)
	assert.Equal(t, SnapshotWaiting, status)
}

func TestVoterSnapshotSkipsChilled(t *testing.T) {
	env := newTestEnv(t, nil)
	registerSnapshotFixture(t, env)
	require.NoError(t, env.staking.Chill(addr(102)))
	require.NoError(t, env.staking.Chill(addr(1)))

	voters, err := env.staking.ElectingVoters(0, 10)
	require.NoError(t, err)
	require.Len(t, voters, 3)
	assert.Equal(t, addr(2), voters[0].Who)
	assert.Equal(t, addr(101), voters[1].Who)
	assert.Equal(t, addr(103), voters[2].Who)
}
