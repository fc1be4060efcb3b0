// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/state"
)

// Key layout. Staking owns the "stk/" namespace of the shared state:
// singletons, single maps, double maps keyed by (era, validator) and the
// triple-keyed paged exposure map (era, validator, page).
const (
	keyCurrentEra          = "stk/current-era"
	keyEraStartBlock       = "stk/era-start-block"
	keyElectingStartedAt   = "stk/electing-started-at"
	keyElectableStashes    = "stk/electable-stashes"
	keyVoterSnapshotStatus = "stk/voter-snapshot-status"
	keyVoterSnapshotCursor = "stk/voter-snapshot-cursor"
	keyTargetList          = "stk/target-list"
	keyVoterList           = "stk/voter-list"

	keyCandidatePrefix     = "stk/candidates/"
	keyNominationPrefix    = "stk/nominations/"
	keyOverviewPrefix      = "stk/eras/overview/"
	keyExposurePagePrefix  = "stk/eras/paged/"
	keyEraValidatorsPrefix = "stk/eras/validators/"
	keyEraPrefsPrefix      = "stk/eras/prefs/"
	keyEraPointsPrefix     = "stk/eras/points/"
	keyEraRewardPrefix     = "stk/eras/reward/"
	keyClaimedPagesPrefix  = "stk/eras/claimed/"
)

func eraKey(prefix string, era uint32) []byte {
	key := make([]byte, 0, len(prefix)+4)
	key = append(key, prefix...)
	return binary.BigEndian.AppendUint32(key, era)
}

func eraValidatorKey(prefix string, era uint32, validator meridian.Address) []byte {
	key := make([]byte, 0, len(prefix)+4+meridian.AddressLength)
	key = append(key, prefix...)
	key = binary.BigEndian.AppendUint32(key, era)
	return append(key, validator.Bytes()...)
}

func exposurePageKey(era uint32, validator meridian.Address, page uint32) []byte {
	key := eraValidatorKey(keyExposurePagePrefix, era, validator)
	return binary.BigEndian.AppendUint32(key, page)
}

func addressKey(prefix string, who meridian.Address) []byte {
	key := make([]byte, 0, len(prefix)+meridian.AddressLength)
	key = append(key, prefix...)
	return append(key, who.Bytes()...)
}

// storage provides typed access to the staking namespace.
type storage struct {
	state *state.State
}

func newStorage(st *state.State) *storage {
	return &storage{state: st}
}

func (s *storage) CurrentEra() (uint32, error) {
	era, err := s.state.GetUint32([]byte(keyCurrentEra))
	return era, errors.Wrap(err, "failed to get current era")
}

func (s *storage) SetCurrentEra(era uint32) error {
	return errors.Wrap(s.state.SetUint32([]byte(keyCurrentEra), era), "failed to set current era")
}

func (s *storage) EraStartBlock() (uint32, error) {
	block, err := s.state.GetUint32([]byte(keyEraStartBlock))
	return block, errors.Wrap(err, "failed to get era start block")
}

func (s *storage) SetEraStartBlock(block uint32) error {
	return errors.Wrap(s.state.SetUint32([]byte(keyEraStartBlock), block), "failed to set era start block")
}

func (s *storage) ElectingStartedAt() (uint32, bool, error) {
	var block uint32
	found, err := s.state.GetRLP([]byte(keyElectingStartedAt), &block)
	return block, found, errors.Wrap(err, "failed to get electing started at")
}

func (s *storage) SetElectingStartedAt(block uint32) error {
	return errors.Wrap(s.state.SetUint32([]byte(keyElectingStartedAt), block), "failed to set electing started at")
}

func (s *storage) ClearElectingStartedAt() {
	s.state.Delete([]byte(keyElectingStartedAt))
}

func (s *storage) ElectableStashes() ([]meridian.Address, error) {
	var stashes []meridian.Address
	if _, err := s.state.GetRLP([]byte(keyElectableStashes), &stashes); err != nil {
		return nil, errors.Wrap(err, "failed to get electable stashes")
	}
	return stashes, nil
}

func (s *storage) SetElectableStashes(stashes []meridian.Address) error {
	return errors.Wrap(s.state.SetRLP([]byte(keyElectableStashes), stashes), "failed to set electable stashes")
}

func (s *storage) ClearElectableStashes() {
	s.state.Delete([]byte(keyElectableStashes))
}

func (s *storage) VoterSnapshotStatus() (SnapshotStatus, error) {
	var status SnapshotStatus
	if _, err := s.state.GetRLP([]byte(keyVoterSnapshotStatus), &status); err != nil {
		return SnapshotWaiting, errors.Wrap(err, "failed to get voter snapshot status")
	}
	return status, nil
}

func (s *storage) SetVoterSnapshotStatus(status SnapshotStatus) error {
	if status == SnapshotWaiting {
		s.state.Delete([]byte(keyVoterSnapshotStatus))
		return nil
	}
	return errors.Wrap(s.state.SetRLP([]byte(keyVoterSnapshotStatus), status), "failed to set voter snapshot status")
}

func (s *storage) VoterSnapshotCursor() (uint32, bool, error) {
	var cursor uint32
	found, err := s.state.GetRLP([]byte(keyVoterSnapshotCursor), &cursor)
	return cursor, found, errors.Wrap(err, "failed to get voter snapshot cursor")
}

func (s *storage) SetVoterSnapshotCursor(cursor uint32) error {
	return errors.Wrap(s.state.SetUint32([]byte(keyVoterSnapshotCursor), cursor), "failed to set voter snapshot cursor")
}

func (s *storage) ClearVoterSnapshotCursor() {
	s.state.Delete([]byte(keyVoterSnapshotCursor))
}

func (s *storage) TargetList() ([]meridian.Address, error) {
	var targets []meridian.Address
	if _, err := s.state.GetRLP([]byte(keyTargetList), &targets); err != nil {
		return nil, errors.Wrap(err, "failed to get target list")
	}
	return targets, nil
}

func (s *storage) SetTargetList(targets []meridian.Address) error {
	return errors.Wrap(s.state.SetRLP([]byte(keyTargetList), targets), "failed to set target list")
}

func (s *storage) VoterList() ([]meridian.Address, error) {
	var voters []meridian.Address
	if _, err := s.state.GetRLP([]byte(keyVoterList), &voters); err != nil {
		return nil, errors.Wrap(err, "failed to get voter list")
	}
	return voters, nil
}

func (s *storage) SetVoterList(voters []meridian.Address) error {
	return errors.Wrap(s.state.SetRLP([]byte(keyVoterList), voters), "failed to set voter list")
}

func (s *storage) Candidate(who meridian.Address) (*Candidate, bool, error) {
	var candidate Candidate
	found, err := s.state.GetRLP(addressKey(keyCandidatePrefix, who), &candidate)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get candidate")
	}
	return &candidate, found, nil
}

func (s *storage) SetCandidate(who meridian.Address, candidate *Candidate) error {
	return errors.Wrap(s.state.SetRLP(addressKey(keyCandidatePrefix, who), candidate), "failed to set candidate")
}

func (s *storage) DeleteCandidate(who meridian.Address) {
	s.state.Delete(addressKey(keyCandidatePrefix, who))
}

func (s *storage) Nomination(who meridian.Address) (*Nomination, bool, error) {
	var nomination Nomination
	found, err := s.state.GetRLP(addressKey(keyNominationPrefix, who), &nomination)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get nomination")
	}
	return &nomination, found, nil
}

func (s *storage) SetNomination(who meridian.Address, nomination *Nomination) error {
	return errors.Wrap(s.state.SetRLP(addressKey(keyNominationPrefix, who), nomination), "failed to set nomination")
}

func (s *storage) DeleteNomination(who meridian.Address) {
	s.state.Delete(addressKey(keyNominationPrefix, who))
}

func (s *storage) Overview(era uint32, validator meridian.Address) (*PagedExposureMetadata, bool, error) {
	var meta PagedExposureMetadata
	found, err := s.state.GetRLP(eraValidatorKey(keyOverviewPrefix, era, validator), &meta)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get exposure metadata")
	}
	return &meta, found, nil
}

func (s *storage) SetOverview(era uint32, validator meridian.Address, meta *PagedExposureMetadata) error {
	return errors.Wrap(
		s.state.SetRLP(eraValidatorKey(keyOverviewPrefix, era, validator), meta),
		"failed to set exposure metadata")
}

func (s *storage) DeleteOverview(era uint32, validator meridian.Address) {
	s.state.Delete(eraValidatorKey(keyOverviewPrefix, era, validator))
}

func (s *storage) ExposurePage(era uint32, validator meridian.Address, page uint32) (*ExposurePage, bool, error) {
	var exposurePage ExposurePage
	found, err := s.state.GetRLP(exposurePageKey(era, validator, page), &exposurePage)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get exposure page")
	}
	return &exposurePage, found, nil
}

func (s *storage) SetExposurePage(era uint32, validator meridian.Address, page uint32, exposurePage *ExposurePage) error {
	return errors.Wrap(
		s.state.SetRLP(exposurePageKey(era, validator, page), exposurePage),
		"failed to set exposure page")
}

func (s *storage) DeleteExposurePage(era uint32, validator meridian.Address, page uint32) {
	s.state.Delete(exposurePageKey(era, validator, page))
}

func (s *storage) EraValidators(era uint32) ([]meridian.Address, error) {
	var validators []meridian.Address
	if _, err := s.state.GetRLP(eraKey(keyEraValidatorsPrefix, era), &validators); err != nil {
		return nil, errors.Wrap(err, "failed to get era validators")
	}
	return validators, nil
}

func (s *storage) SetEraValidators(era uint32, validators []meridian.Address) error {
	return errors.Wrap(s.state.SetRLP(eraKey(keyEraValidatorsPrefix, era), validators), "failed to set era validators")
}

func (s *storage) DeleteEraValidators(era uint32) {
	s.state.Delete(eraKey(keyEraValidatorsPrefix, era))
}

func (s *storage) EraPrefs(era uint32, validator meridian.Address) (uint32, error) {
	var commission uint32
	if _, err := s.state.GetRLP(eraValidatorKey(keyEraPrefsPrefix, era, validator), &commission); err != nil {
		return 0, errors.Wrap(err, "failed to get era validator prefs")
	}
	return commission, nil
}

func (s *storage) SetEraPrefs(era uint32, validator meridian.Address, commission uint32) error {
	return errors.Wrap(
		s.state.SetRLP(eraValidatorKey(keyEraPrefsPrefix, era, validator), commission),
		"failed to set era validator prefs")
}

func (s *storage) DeleteEraPrefs(era uint32, validator meridian.Address) {
	s.state.Delete(eraValidatorKey(keyEraPrefsPrefix, era, validator))
}

func (s *storage) EraPoints(era uint32) (*EraRewardPoints, error) {
	var points EraRewardPoints
	if _, err := s.state.GetRLP(eraKey(keyEraPointsPrefix, era), &points); err != nil {
		return nil, errors.Wrap(err, "failed to get era reward points")
	}
	return &points, nil
}

func (s *storage) SetEraPoints(era uint32, points *EraRewardPoints) error {
	return errors.Wrap(s.state.SetRLP(eraKey(keyEraPointsPrefix, era), points), "failed to set era reward points")
}

func (s *storage) DeleteEraPoints(era uint32) {
	s.state.Delete(eraKey(keyEraPointsPrefix, era))
}

func (s *storage) EraReward(era uint32) (*big.Int, bool, error) {
	reward := new(big.Int)
	found, err := s.state.GetRLP(eraKey(keyEraRewardPrefix, era), reward)
	return reward, found, errors.Wrap(err, "failed to get era reward")
}

func (s *storage) SetEraReward(era uint32, reward *big.Int) error {
	return errors.Wrap(s.state.SetRLP(eraKey(keyEraRewardPrefix, era), reward), "failed to set era reward")
}

func (s *storage) DeleteEraReward(era uint32) {
	s.state.Delete(eraKey(keyEraRewardPrefix, era))
}

func (s *storage) ClaimedPages(era uint32, validator meridian.Address) ([]uint32, error) {
	var pages []uint32
	if _, err := s.state.GetRLP(eraValidatorKey(keyClaimedPagesPrefix, era, validator), &pages); err != nil {
		return nil, errors.Wrap(err, "failed to get claimed pages")
	}
	return pages, nil
}

func (s *storage) SetClaimedPages(era uint32, validator meridian.Address, pages []uint32) error {
	return errors.Wrap(
		s.state.SetRLP(eraValidatorKey(keyClaimedPagesPrefix, era, validator), pages),
		"failed to set claimed pages")
}

func (s *storage) DeleteClaimedPages(era uint32, validator meridian.Address) {
	s.state.Delete(eraValidatorKey(keyClaimedPagesPrefix, era, validator))
}
