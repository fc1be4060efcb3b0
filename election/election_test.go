// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking"
)

func addr(i byte) meridian.Address {
	var a meridian.Address
	a[meridian.AddressLength-1] = i
	return a
}

type stubSnapshot struct {
	targets []meridian.Address
	voters  map[uint32][]staking.Voter
}

func (s *stubSnapshot) ElectableTargets(maxTargets uint32) ([]meridian.Address, error) {
	targets := s.targets
	if uint32(len(targets)) > maxTargets {
		targets = targets[:maxTargets]
	}
	return targets, nil
}

func (s *stubSnapshot) ElectingVoters(page, maxVoters uint32) ([]staking.Voter, error) {
	voters := s.voters[page]
	if uint32(len(voters)) > maxVoters {
		voters = voters[:maxVoters]
	}
	return voters, nil
}

func voter(who byte, weight int64, targets ...byte) staking.Voter {
	v := staking.Voter{Who: addr(who), Weight: big.NewInt(weight)}
	for _, t := range targets {
		v.Targets = append(v.Targets, addr(t))
	}
	return v
}

func testConfig() Config {
	return Config{MaxVotersPerPage: 10, MaxTargets: 10, MaxWinnersPerPage: 10}
}

func TestElectSplitsAndRanks(t *testing.T) {
	snapshot := &stubSnapshot{
		targets: []meridian.Address{addr(1), addr(2)},
		voters: map[uint32][]staking.Voter{
			0: {
				voter(1, 300, 1),
				voter(2, 200, 2),
				voter(101, 90, 1, 2),
				voter(102, 100, 3), // target not electable
				voter(103, 101, 1, 2),
			},
		},
	}
	provider := NewProvider(testConfig(), snapshot)

	supports, err := provider.Elect(0)
	require.NoError(t, err)
	require.Len(t, supports, 2)

	// Validator 1 leads: 300 self + 45 + 51 (odd weight's remainder goes to
	// the voter's first target).
	assert.Equal(t, addr(1), supports[0].Validator)
	assert.Equal(t, big.NewInt(396), supports[0].Total)
	assert.Equal(t, []staking.IndividualExposure{
		{Who: addr(1), Value: big.NewInt(300)},
		{Who: addr(101), Value: big.NewInt(45)},
		{Who: addr(103), Value: big.NewInt(51)},
	}, supports[0].Voters)

	assert.Equal(t, addr(2), supports[1].Validator)
	assert.Equal(t, big.NewInt(295), supports[1].Total)
}

func TestElectTruncatesWinners(t *testing.T) {
	snapshot := &stubSnapshot{
		targets: []meridian.Address{addr(1), addr(2), addr(3)},
		voters: map[uint32][]staking.Voter{
			0: {
				voter(1, 100, 1),
				voter(2, 300, 2),
				voter(3, 200, 3),
			},
		},
	}
	config := testConfig()
	config.MaxWinnersPerPage = 2
	provider := NewProvider(config, snapshot)

	supports, err := provider.Elect(0)
	require.NoError(t, err)
	require.Len(t, supports, 2)
	assert.Equal(t, addr(2), supports[0].Validator)
	assert.Equal(t, addr(3), supports[1].Validator)
}

func TestElectEmptyPage(t *testing.T) {
	snapshot := &stubSnapshot{
		targets: []meridian.Address{addr(1)},
		voters:  map[uint32][]staking.Voter{},
	}
	provider := NewProvider(testConfig(), snapshot)

	supports, err := provider.Elect(3)
	require.NoError(t, err)
	assert.Empty(t, supports)
}

func TestElectTieBreaksByAddress(t *testing.T) {
	snapshot := &stubSnapshot{
		targets: []meridian.Address{addr(2), addr(1)},
		voters: map[uint32][]staking.Voter{
			0: {
				voter(2, 100, 2),
				voter(1, 100, 1),
			},
		},
	}
	provider := NewProvider(testConfig(), snapshot)

	supports, err := provider.Elect(0)
	require.NoError(t, err)
	require.Len(t, supports, 2)
	assert.Equal(t, addr(1), supports[0].Validator)
	assert.Equal(t, addr(2), supports[1].Validator)
}
