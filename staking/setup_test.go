// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridianchain/meridian/assets"
	"github.com/meridianchain/meridian/lvldb"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/state"
)

// addr builds a deterministic test address from a single byte.
func addr(i byte) meridian.Address {
	var a meridian.Address
	a[meridian.AddressLength-1] = i
	return a
}

func bi(v int64) *big.Int {
	return big.NewInt(v)
}

// vote is shorthand for one voter's backing inside a support.
func vote(who byte, value int64) IndividualExposure {
	return IndividualExposure{Who: addr(who), Value: bi(value)}
}

// supp builds a support whose total is the sum of its votes.
func supp(validator byte, votes ...IndividualExposure) Support {
	total := new(big.Int)
	for _, v := range votes {
		total.Add(total, v.Value)
	}
	return Support{Validator: addr(validator), Total: total, Voters: votes}
}

// mockProvider serves pre-programmed pages and records the requested order.
type mockProvider struct {
	pages map[uint32][]Support
	err   error
	calls []uint32
}

func (m *mockProvider) Elect(page uint32) ([]Support, error) {
	m.calls = append(m.calls, page)
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[page], nil
}

type appliedSet struct {
	era        uint32
	validators []meridian.Address
}

// sessionRecorder captures every applied validator set.
type sessionRecorder struct {
	applied []appliedSet
}

func (s *sessionRecorder) ApplyValidatorSet(era uint32, validators []meridian.Address) {
	s.applied = append(s.applied, appliedSet{era: era, validators: validators})
}

type testEnv struct {
	t        *testing.T
	state    *state.State
	staking  *Staking
	provider *mockProvider
	session  *sessionRecorder
	ledger   *assets.Ledger
	block    uint32
}

func defaultConfig() *Config {
	return &Config{
		ElectionPages:       1,
		MaxValidatorSet:     5,
		MaxWinnersPerPage:   5,
		MaxExposurePageSize: 2,
		SessionsPerEra:      2,
		BlocksPerSession:    5,
		HistoryDepth:        3,
		EraReward:           bi(1_000_000),
		RewardAsset:         assets.AssetID(1),
	}
}

func newTestEnv(t *testing.T, config *Config) *testEnv {
	if config == nil {
		config = defaultConfig()
	}
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := state.New(db)
	ledger := assets.NewLedger(st)
	provider := &mockProvider{pages: make(map[uint32][]Support)}
	session := &sessionRecorder{}
	stk, err := New(config, st, provider, session, ledger)
	require.NoError(t, err)

	return &testEnv{
		t:        t,
		state:    st,
		staking:  stk,
		provider: provider,
		session:  session,
		ledger:   ledger,
	}
}

// runToBlock advances the chain to block n, committing every transition.
func (e *testEnv) runToBlock(n uint32) {
	for b := e.block + 1; b <= n; b++ {
		require.NoError(e.t, e.staking.OnBlock(b))
		require.NoError(e.t, e.state.Commit())
	}
	e.block = n
}

// nextElection fetches the scheduled rotation block.
func (e *testEnv) nextElection() uint32 {
	next, err := e.staking.NextElection()
	require.NoError(e.t, err)
	return next
}
