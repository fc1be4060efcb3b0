// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/meridianchain/meridian/assets"
	"github.com/meridianchain/meridian/election"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/rewards"
	"github.com/meridianchain/meridian/staking"
	"github.com/meridianchain/meridian/state"
)

// stakingSection is the yaml shape of the staking engine config.
type stakingSection struct {
	ElectionPages       uint32 `yaml:"electionPages"`
	MaxValidatorSet     uint32 `yaml:"maxValidatorSet"`
	MaxWinnersPerPage   uint32 `yaml:"maxWinnersPerPage"`
	MaxExposurePageSize uint32 `yaml:"maxExposurePageSize"`
	SessionsPerEra      uint32 `yaml:"sessionsPerEra"`
	BlocksPerSession    uint32 `yaml:"blocksPerSession"`
	HistoryDepth        uint32 `yaml:"historyDepth"`
	EraReward           int64  `yaml:"eraReward"`
	RewardAsset         uint32 `yaml:"rewardAsset"`
}

func (s *stakingSection) toConfig() *staking.Config {
	config := &staking.Config{
		ElectionPages:       s.ElectionPages,
		MaxValidatorSet:     s.MaxValidatorSet,
		MaxWinnersPerPage:   s.MaxWinnersPerPage,
		MaxExposurePageSize: s.MaxExposurePageSize,
		SessionsPerEra:      s.SessionsPerEra,
		BlocksPerSession:    s.BlocksPerSession,
		HistoryDepth:        s.HistoryDepth,
		RewardAsset:         assets.AssetID(s.RewardAsset),
	}
	if s.EraReward > 0 {
		config.EraReward = big.NewInt(s.EraReward)
	}
	return config
}

// Scenario drives a deterministic run: genesis registrations, a number of
// blocks of election and era rotation, and optional reward pool activity.
type Scenario struct {
	Staking  stakingSection  `yaml:"staking"`
	Election election.Config `yaml:"election"`

	Validators []struct {
		Address    string `yaml:"address"`
		Stake      int64  `yaml:"stake"`
		Commission uint32 `yaml:"commission"`
	} `yaml:"validators"`
	Nominators []struct {
		Address string   `yaml:"address"`
		Stake   int64    `yaml:"stake"`
		Targets []string `yaml:"targets"`
	} `yaml:"nominators"`
	Pools []struct {
		Admin       string `yaml:"admin"`
		StakedAsset uint32 `yaml:"stakedAsset"`
		RewardAsset uint32 `yaml:"rewardAsset"`
		RewardRate  int64  `yaml:"rewardRate"`
		Deposit     int64  `yaml:"deposit"`
	} `yaml:"pools"`

	Blocks          uint32 `yaml:"blocks"`
	PointsPerAuthor uint32 `yaml:"pointsPerAuthor"`
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scenario")
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, errors.Wrap(err, "failed to parse scenario")
	}
	if scenario.Blocks == 0 {
		return nil, errors.New("scenario must run at least one block")
	}
	return &scenario, nil
}

// lateProvider breaks the construction cycle between the staking engine,
// which needs an election provider, and the provider, which elects over the
// staking snapshot.
type lateProvider struct {
	inner staking.ElectionProvider
}

func (p *lateProvider) Elect(page uint32) ([]staking.Support, error) {
	return p.inner.Elect(page)
}

// sessionLog records applied validator sets.
type sessionLog struct{}

func (sessionLog) ApplyValidatorSet(era uint32, validators []meridian.Address) {
	logger.Info("validator set applied", "era", era, "validators", len(validators))
}

func runScenario(scenario *Scenario, st *state.State) error {
	ledger := assets.NewLedger(st)
	provider := &lateProvider{}
	stk, err := staking.New(scenario.Staking.toConfig(), st, provider, sessionLog{}, ledger)
	if err != nil {
		return err
	}
	provider.inner = election.NewProvider(scenario.Election, stk)
	pools := rewards.New(st, ledger)

	// Genesis: registrations and pool setup, committed as block 0.
	checkpoint := st.Checkpoint()
	poolIDs, err := setupGenesis(scenario, stk, pools, ledger)
	if err != nil {
		st.RevertTo(checkpoint)
		return errors.Wrap(err, "genesis failed")
	}
	if err := st.Commit(); err != nil {
		return err
	}

	validators, _ := stk.ActiveValidators(0)
	for n := uint32(1); n <= scenario.Blocks; n++ {
		checkpoint := st.Checkpoint()

		if scenario.PointsPerAuthor > 0 && len(validators) > 0 {
			author := validators[int(n)%len(validators)]
			if err := stk.RewardByIDs([]staking.ValidatorPoints{
				{Validator: author, Points: scenario.PointsPerAuthor},
			}); err != nil {
				st.RevertTo(checkpoint)
				return err
			}
		}
		if err := stk.OnBlock(n); err != nil {
			logger.Error("block transition failed", "block", n, "err", err)
			st.RevertTo(checkpoint)
			continue
		}
		if err := st.Commit(); err != nil {
			return err
		}

		if era, err := stk.CurrentEra(); err == nil {
			if active, err := stk.ActiveValidators(era); err == nil && len(active) > 0 {
				validators = active
			}
		}
	}

	return report(scenario, stk, pools, poolIDs)
}

func setupGenesis(scenario *Scenario, stk *staking.Staking, pools *rewards.Rewards, ledger *assets.Ledger) ([]rewards.PoolID, error) {
	for _, v := range scenario.Validators {
		addr, err := meridian.ParseAddress(v.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid validator address %q", v.Address)
		}
		if err := stk.RegisterValidator(addr, big.NewInt(v.Stake), v.Commission); err != nil {
			return nil, err
		}
	}
	for _, n := range scenario.Nominators {
		addr, err := meridian.ParseAddress(n.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid nominator address %q", n.Address)
		}
		targets := make([]meridian.Address, 0, len(n.Targets))
		for _, t := range n.Targets {
			target, err := meridian.ParseAddress(t)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid target address %q", t)
			}
			targets = append(targets, target)
		}
		if err := stk.RegisterNominator(addr, big.NewInt(n.Stake), targets); err != nil {
			return nil, err
		}
	}

	poolIDs := make([]rewards.PoolID, 0, len(scenario.Pools))
	for _, p := range scenario.Pools {
		admin, err := meridian.ParseAddress(p.Admin)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pool admin address %q", p.Admin)
		}
		id, err := pools.CreatePool(admin, assets.AssetID(p.StakedAsset), assets.AssetID(p.RewardAsset), big.NewInt(p.RewardRate), 0)
		if err != nil {
			return nil, err
		}
		if p.Deposit > 0 {
			deposit := big.NewInt(p.Deposit)
			if err := ledger.Mint(assets.AssetID(p.RewardAsset), admin, deposit); err != nil {
				return nil, err
			}
			if err := pools.DepositRewardTokens(admin, id, deposit); err != nil {
				return nil, err
			}
		}
		poolIDs = append(poolIDs, id)
	}
	return poolIDs, nil
}

func report(scenario *Scenario, stk *staking.Staking, pools *rewards.Rewards, poolIDs []rewards.PoolID) error {
	era, err := stk.CurrentEra()
	if err != nil {
		return err
	}
	validators, err := stk.ActiveValidators(era)
	if err != nil {
		return err
	}
	logger.Info("scenario finished", "blocks", scenario.Blocks, "era", era, "validators", len(validators))
	for _, validator := range validators {
		meta, exposed, err := stk.ExposureMetadata(era, validator)
		if err != nil {
			return err
		}
		if exposed {
			logger.Info("validator exposure",
				"validator", validator, "total", meta.Total, "own", meta.Own,
				"nominators", meta.NominatorCount, "pages", meta.PageCount)
		}
	}
	for _, id := range poolIDs {
		pool, found, err := pools.Pool(id)
		if err != nil {
			return err
		}
		if found {
			logger.Info("pool state", "pool", uint32(id),
				"staked", pool.TotalTokensStaked, "accPerShare", pool.AccumulatedRewardsPerShare)
		}
	}
	return nil
}
