// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
)

// IndividualExposure is one nominator's stake behind a validator.
type IndividualExposure struct {
	Who   meridian.Address
	Value *big.Int
}

// Exposure is the full stake breakdown backing a validator for an era:
// the validator's own stake plus every nominator's contribution.
type Exposure struct {
	Total  *big.Int
	Own    *big.Int
	Others []IndividualExposure
}

// ExposurePage is one storage page of an exposure. Nominators per page are
// bounded by MaxExposurePageSize.
type ExposurePage struct {
	PageTotal *big.Int // sum of this page's nominator values only
	Others    []IndividualExposure
}

// PagedExposureMetadata is the aggregate view over all exposure pages of a
// validator in an era.
type PagedExposureMetadata struct {
	Total          *big.Int
	Own            *big.Int
	NominatorCount uint32
	PageCount      uint32
}

// ValidatorExposure pairs a validator with its exposure, as submitted by one
// fetched election page.
type ValidatorExposure struct {
	Validator meridian.Address
	Exposure  Exposure
}

// Support is one election winner with its backing votes, as produced by the
// election provider for a single page.
type Support struct {
	Validator meridian.Address
	Total     *big.Int
	Voters    []IndividualExposure
}

// Voter is one entry of the voter snapshot served to the election provider.
type Voter struct {
	Who     meridian.Address
	Weight  *big.Int
	Targets []meridian.Address
}

// SnapshotStatus tracks the paged consumption of the voter snapshot.
type SnapshotStatus = uint8

const (
	// SnapshotWaiting is the initial state and the terminal reset state.
	SnapshotWaiting = SnapshotStatus(iota)
	// SnapshotConsumed means the whole voter list has been served.
	SnapshotConsumed
)

// Candidate is a registered validator candidate.
type Candidate struct {
	Stake      *big.Int // self stake
	Commission uint32   // parts per billion of the era payout kept by the validator
}

// Nomination is a registered nominator with its stake and nominated targets.
type Nomination struct {
	Stake   *big.Int
	Targets []meridian.Address
}

// ValidatorPoints is the reward points earned by one validator within an era.
type ValidatorPoints struct {
	Validator meridian.Address
	Points    uint32
}

// EraRewardPoints accumulates reward points for an era.
type EraRewardPoints struct {
	Total      uint32
	Individual []ValidatorPoints
}

// get returns the points of the given validator, 0 if absent.
func (p *EraRewardPoints) get(validator meridian.Address) uint32 {
	for i := range p.Individual {
		if p.Individual[i].Validator == validator {
			return p.Individual[i].Points
		}
	}
	return 0
}

// add accumulates points for the given validator.
func (p *EraRewardPoints) add(validator meridian.Address, points uint32) {
	p.Total += points
	for i := range p.Individual {
		if p.Individual[i].Validator == validator {
			p.Individual[i].Points += points
			return
		}
	}
	p.Individual = append(p.Individual, ValidatorPoints{Validator: validator, Points: points})
}
