// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/pkg/errors"

var (
	// ErrStashesOverflow reports that a page offered more winners than the
	// electable stash set can hold. Stashes inserted up to capacity are
	// kept; the excess is dropped.
	ErrStashesOverflow = errors.New("electable stashes at capacity, excess winners dropped")

	// ErrUnknownValidator reports an operation on an unregistered validator.
	ErrUnknownValidator = errors.New("unknown validator")
	// ErrUnknownNominator reports an operation on an unregistered nominator.
	ErrUnknownNominator = errors.New("unknown nominator")
	// ErrAlreadyRegistered reports a duplicate registration.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrEraNotFinished reports a payout attempt for an era still active.
	ErrEraNotFinished = errors.New("era not finished")
	// ErrEraExpired reports a payout attempt for an era pruned from history.
	ErrEraExpired = errors.New("era expired from history")
	// ErrNotExposed reports a payout attempt for a validator without
	// exposure in the era.
	ErrNotExposed = errors.New("validator not exposed in era")
	// ErrInvalidPage reports a payout attempt for a page out of range.
	ErrInvalidPage = errors.New("exposure page out of range")
	// ErrAlreadyClaimed reports a payout attempt for a page already paid.
	ErrAlreadyClaimed = errors.New("rewards already claimed for page")
	// ErrNoRewardPoints reports a payout attempt for a validator that
	// earned no points in the era.
	ErrNoRewardPoints = errors.New("no reward points in era")
	// ErrNoEraReward reports a payout attempt for an era with no reward set.
	ErrNoEraReward = errors.New("no reward set for era")
)
