// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package election implements a stake-weighted approval election over the
// staking voter snapshot.
//
// Each page consumes one page of voters. A voter's weight is split evenly
// across its still-electable targets; targets are ranked by accumulated
// support and the strongest make the page's winners. Cross-page
// deduplication and capacity are the consumer's concern.
package election

import (
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/staking"
)

// DataProvider serves the election snapshot: the electable targets and the
// paged voter list.
type DataProvider interface {
	ElectableTargets(maxTargets uint32) ([]meridian.Address, error)
	ElectingVoters(page, maxVoters uint32) ([]staking.Voter, error)
}

// Config bounds one election page.
type Config struct {
	// MaxVotersPerPage bounds the voters consumed per page.
	MaxVotersPerPage uint32 `yaml:"maxVotersPerPage"`
	// MaxTargets bounds the electable target set.
	MaxTargets uint32 `yaml:"maxTargets"`
	// MaxWinnersPerPage bounds the winners returned per page.
	MaxWinnersPerPage uint32 `yaml:"maxWinnersPerPage"`
}

// Provider elects winners page by page from a snapshot data provider.
type Provider struct {
	config   Config
	snapshot DataProvider
	logger   log.Logger
}

// NewProvider creates an election provider over the given snapshot.
func NewProvider(config Config, snapshot DataProvider) *Provider {
	return &Provider{
		config:   config,
		snapshot: snapshot,
		logger:   log.New("pkg", "election"),
	}
}

// Elect produces the winners of one page with their backing votes.
func (p *Provider) Elect(page uint32) ([]staking.Support, error) {
	targets, err := p.snapshot.ElectableTargets(p.config.MaxTargets)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch electable targets")
	}
	voters, err := p.snapshot.ElectingVoters(page, p.config.MaxVotersPerPage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch electing voters")
	}

	electable := make(map[meridian.Address]bool, len(targets))
	for _, target := range targets {
		electable[target] = true
	}

	supports := make(map[meridian.Address]*staking.Support)
	order := make([]meridian.Address, 0, len(targets))
	for _, voter := range voters {
		backed := make([]meridian.Address, 0, len(voter.Targets))
		for _, target := range voter.Targets {
			if electable[target] {
				backed = append(backed, target)
			}
		}
		if len(backed) == 0 {
			continue
		}
		// Even split, remainder to the first target.
		each := new(big.Int).Div(voter.Weight, big.NewInt(int64(len(backed))))
		remainder := new(big.Int).Sub(voter.Weight, new(big.Int).Mul(each, big.NewInt(int64(len(backed)))))
		for i, target := range backed {
			value := new(big.Int).Set(each)
			if i == 0 {
				value.Add(value, remainder)
			}
			if value.Sign() == 0 {
				continue
			}
			support, ok := supports[target]
			if !ok {
				support = &staking.Support{Validator: target, Total: new(big.Int)}
				supports[target] = support
				order = append(order, target)
			}
			support.Total.Add(support.Total, value)
			support.Voters = append(support.Voters, staking.IndividualExposure{Who: voter.Who, Value: value})
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		cmp := supports[order[i]].Total.Cmp(supports[order[j]].Total)
		if cmp != 0 {
			return cmp > 0
		}
		return order[i].Compare(order[j]) < 0
	})
	if uint32(len(order)) > p.config.MaxWinnersPerPage {
		order = order[:p.config.MaxWinnersPerPage]
	}

	result := make([]staking.Support, 0, len(order))
	for _, target := range order {
		result = append(result, *supports[target])
	}
	p.logger.Debug("page elected", "page", page, "voters", len(voters), "winners", len(result))
	return result, nil
}
