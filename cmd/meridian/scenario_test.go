// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/kv"
	"github.com/meridianchain/meridian/lvldb"
	"github.com/meridianchain/meridian/state"
)

const scenarioYAML = `
staking:
  electionPages: 1
  maxValidatorSet: 5
  maxWinnersPerPage: 5
  maxExposurePageSize: 4
  sessionsPerEra: 2
  blocksPerSession: 5
  historyDepth: 3
  eraReward: 1000000
  rewardAsset: 1
election:
  maxVotersPerPage: 16
  maxTargets: 16
  maxWinnersPerPage: 5
validators:
  - address: "0x0000000000000000000000000000000000000001"
    stake: 500
    commission: 100000000
  - address: "0x0000000000000000000000000000000000000002"
    stake: 400
nominators:
  - address: "0x0000000000000000000000000000000000000065"
    stake: 300
    targets:
      - "0x0000000000000000000000000000000000000001"
pools:
  - admin: "0x0000000000000000000000000000000000000009"
    stakedAsset: 10
    rewardAsset: 20
    rewardRate: 100
    deposit: 50000
blocks: 25
pointsPerAuthor: 20
`

func writeScenario(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o600))
	return path
}

func TestLoadScenario(t *testing.T) {
	scenario, err := loadScenario(writeScenario(t))
	require.NoError(t, err)

	assert.Equal(t, uint32(1), scenario.Staking.ElectionPages)
	assert.Equal(t, uint32(25), scenario.Blocks)
	require.Len(t, scenario.Validators, 2)
	assert.Equal(t, uint32(100000000), scenario.Validators[0].Commission)
	require.Len(t, scenario.Pools, 1)
	assert.Equal(t, int64(50000), scenario.Pools[0].Deposit)
}

func TestLoadScenarioRejectsEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocks: 0\n"), 0o600))
	_, err := loadScenario(path)
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	scenario, err := loadScenario(writeScenario(t))
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	st := state.New(kv.Bucket("meridian/").NewStore(db))
	require.NoError(t, runScenario(scenario, st))

	// Two era rotations happened over 25 blocks and the data survived the
	// per-block commits: era 2 is active with both validators installed.
	era, err := st.GetUint32([]byte("stk/current-era"))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), era)
}
