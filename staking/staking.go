// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements a multi-block paged validator election with
// per-era exposure snapshots and a points-based era payout engine.
//
// An era spans SessionsPerEra*BlocksPerSession blocks. The election for the
// next era starts ElectionPages blocks before the era boundary: one election
// page is fetched per block, in descending page order, accumulating winners
// into a bounded electable stash set and storing their exposures. At the
// boundary block the accumulated set becomes the next validator set and all
// election metadata is cleared in the same state transition.
package staking

import (
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/assets"
	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/metrics"
	"github.com/meridianchain/meridian/state"
)

var (
	metricElectionPages = metrics.LazyLoadCounter("staking_election_pages_fetched_count")
	metricEraRotations  = metrics.LazyLoadCounter("staking_era_rotations_count")
	metricRotationSkips = metrics.LazyLoadCounter("staking_era_rotation_skipped_count")
	metricPayoutPages   = metrics.LazyLoadCounter("staking_payout_pages_count")
)

// ElectionProvider produces election results one page at a time. Pages are
// requested in descending index order, page 0 last.
type ElectionProvider interface {
	Elect(page uint32) ([]Support, error)
}

// SessionConsumer is notified when a new validator set takes effect.
type SessionConsumer interface {
	ApplyValidatorSet(era uint32, validators []meridian.Address)
}

// AssetMinter mints era payouts into stakers' accounts.
type AssetMinter interface {
	Mint(id assets.AssetID, who meridian.Address, amount *big.Int) error
}

// Staking is the election and payout engine. All mutations go through the
// shared buffered state; the caller owns checkpointing and commit.
type Staking struct {
	config   *Config
	state    *state.State
	storage  *storage
	provider ElectionProvider
	session  SessionConsumer
	minter   AssetMinter
	logger   log.Logger
}

// New creates the staking engine over the given state.
func New(config *Config, st *state.State, provider ElectionProvider, session SessionConsumer, minter AssetMinter) (*Staking, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid staking config")
	}
	if provider == nil || session == nil || minter == nil {
		return nil, errors.New("staking requires a provider, a session consumer and a minter")
	}
	return &Staking{
		config:   config,
		state:    st,
		storage:  newStorage(st),
		provider: provider,
		session:  session,
		minter:   minter,
		logger:   log.New("pkg", "staking"),
	}, nil
}

// CurrentEra returns the active era index.
func (s *Staking) CurrentEra() (uint32, error) {
	return s.storage.CurrentEra()
}

// ActiveValidators returns the validator set of the given era.
func (s *Staking) ActiveValidators(era uint32) ([]meridian.Address, error) {
	return s.storage.EraValidators(era)
}

// NextElection returns the block number at which the next era rotation, and
// thus the completion of the next election, is scheduled.
func (s *Staking) NextElection() (uint32, error) {
	start, err := s.storage.EraStartBlock()
	if err != nil {
		return 0, err
	}
	return start + s.config.EraLength(), nil
}

// ElectingStartedAt returns the block at which the ongoing election round
// started fetching pages. The second return reports whether an election is
// in progress.
func (s *Staking) ElectingStartedAt() (uint32, bool, error) {
	return s.storage.ElectingStartedAt()
}

// ElectableStashes returns the winners accumulated so far by the ongoing
// election round, in ascending address order.
func (s *Staking) ElectableStashes() ([]meridian.Address, error) {
	return s.storage.ElectableStashes()
}

// OnBlock advances the election state machine for block n. It fetches one
// election page inside the election window and rotates the era at the
// boundary. Page-level capacity overflows are logged and absorbed; the block
// always finalizes.
func (s *Staking) OnBlock(n uint32) error {
	next, err := s.NextElection()
	if err != nil {
		return err
	}
	pages := s.config.ElectionPages

	switch {
	case n >= next:
		return s.rotateEra(n)
	case n+pages >= next:
		if n+pages == next {
			if err := s.storage.SetElectingStartedAt(n); err != nil {
				return err
			}
			s.logger.Debug("election started", "block", n, "pages", pages)
		}
		page := next - 1 - n
		if err := s.electPaged(page); err != nil {
			if errors.Is(err, ErrStashesOverflow) {
				s.logger.Warn("election page overflowed electable stashes", "page", page, "block", n)
				return nil
			}
			return err
		}
		metricElectionPages().Add(1)
	}
	return nil
}

// RegisterValidator registers a validator candidate with its self stake and
// commission in parts per billion.
func (s *Staking) RegisterValidator(stash meridian.Address, selfStake *big.Int, commission uint32) error {
	if selfStake == nil || selfStake.Sign() <= 0 {
		return errors.New("self stake must be positive")
	}
	if commission > 1e9 {
		return errors.New("commission exceeds 100%")
	}
	if _, found, err := s.storage.Candidate(stash); err != nil {
		return err
	} else if found {
		return ErrAlreadyRegistered
	}
	if err := s.storage.SetCandidate(stash, &Candidate{Stake: selfStake, Commission: commission}); err != nil {
		return err
	}
	targets, err := s.storage.TargetList()
	if err != nil {
		return err
	}
	return s.storage.SetTargetList(append(targets, stash))
}

// RegisterNominator registers a nominator with its stake and targets.
func (s *Staking) RegisterNominator(who meridian.Address, stake *big.Int, targets []meridian.Address) error {
	if stake == nil || stake.Sign() <= 0 {
		return errors.New("stake must be positive")
	}
	if len(targets) == 0 {
		return errors.New("no nomination targets")
	}
	if _, found, err := s.storage.Nomination(who); err != nil {
		return err
	} else if found {
		return ErrAlreadyRegistered
	}
	for _, target := range targets {
		if _, found, err := s.storage.Candidate(target); err != nil {
			return err
		} else if !found {
			return ErrUnknownValidator
		}
	}
	if err := s.storage.SetNomination(who, &Nomination{Stake: stake, Targets: targets}); err != nil {
		return err
	}
	voters, err := s.storage.VoterList()
	if err != nil {
		return err
	}
	return s.storage.SetVoterList(append(voters, who))
}

// Chill removes the account from the candidate or nominator rolls. It does
// not touch exposures already stored for past or upcoming eras.
func (s *Staking) Chill(who meridian.Address) error {
	if _, found, err := s.storage.Candidate(who); err != nil {
		return err
	} else if found {
		s.storage.DeleteCandidate(who)
		targets, err := s.storage.TargetList()
		if err != nil {
			return err
		}
		return s.storage.SetTargetList(removeAddress(targets, who))
	}
	if _, found, err := s.storage.Nomination(who); err != nil {
		return err
	} else if found {
		s.storage.DeleteNomination(who)
		voters, err := s.storage.VoterList()
		if err != nil {
			return err
		}
		return s.storage.SetVoterList(removeAddress(voters, who))
	}
	return ErrUnknownNominator
}

func removeAddress(list []meridian.Address, who meridian.Address) []meridian.Address {
	out := list[:0]
	for _, a := range list {
		if a != who {
			out = append(out, a)
		}
	}
	return out
}
