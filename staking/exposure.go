// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/meridianchain/meridian/meridian"
)

// storeStakersInfo upserts a validator's exposure for the era.
//
// On first store, the nominator list is chunked into pages of at most
// MaxExposurePageSize entries and the metadata records total, own stake,
// nominator count and page count. On subsequent stores for the same
// (era, validator) the last existing page is topped up to capacity before
// new pages are appended; the metadata total grows only by the incoming
// nominator stake, and own stake is never re-added.
func (s *Staking) storeStakersInfo(era uint32, validator meridian.Address, exposure *Exposure) error {
	meta, found, err := s.storage.Overview(era, validator)
	if err != nil {
		return err
	}
	if !found {
		meta = &PagedExposureMetadata{
			Total:     new(big.Int).Set(exposure.Total),
			Own:       new(big.Int).Set(exposure.Own),
			PageCount: 0,
		}
	} else {
		// Own was accounted on the first store. Only the incoming
		// nominator stake extends the total.
		incoming := new(big.Int)
		for i := range exposure.Others {
			incoming.Add(incoming, exposure.Others[i].Value)
		}
		meta.Total = new(big.Int).Add(meta.Total, incoming)
	}
	meta.NominatorCount += uint32(len(exposure.Others))

	pageSize := s.config.MaxExposurePageSize
	others := exposure.Others

	// Top up the last partial page before appending new ones.
	if meta.PageCount > 0 && len(others) > 0 {
		lastIndex := meta.PageCount - 1
		last, found, err := s.storage.ExposurePage(era, validator, lastIndex)
		if err != nil {
			return err
		}
		if found && uint32(len(last.Others)) < pageSize {
			room := pageSize - uint32(len(last.Others))
			take := min(room, uint32(len(others)))
			for _, other := range others[:take] {
				last.Others = append(last.Others, other)
				last.PageTotal = new(big.Int).Add(last.PageTotal, other.Value)
			}
			others = others[take:]
			if err := s.storage.SetExposurePage(era, validator, lastIndex, last); err != nil {
				return err
			}
		}
	}

	for len(others) > 0 {
		take := min(pageSize, uint32(len(others)))
		chunk := others[:take]
		others = others[take:]

		pageTotal := new(big.Int)
		for i := range chunk {
			pageTotal.Add(pageTotal, chunk[i].Value)
		}
		page := &ExposurePage{PageTotal: pageTotal, Others: chunk}
		if err := s.storage.SetExposurePage(era, validator, meta.PageCount, page); err != nil {
			return err
		}
		meta.PageCount++
	}

	return s.storage.SetOverview(era, validator, meta)
}

// EraExposure reconstructs the full exposure of a validator in an era from
// its metadata and pages. The second return reports whether the validator
// is exposed in the era at all.
func (s *Staking) EraExposure(era uint32, validator meridian.Address) (*Exposure, bool, error) {
	meta, found, err := s.storage.Overview(era, validator)
	if err != nil || !found {
		return nil, false, err
	}
	exposure := &Exposure{
		Total: meta.Total,
		Own:   meta.Own,
	}
	for page := uint32(0); page < meta.PageCount; page++ {
		stored, found, err := s.storage.ExposurePage(era, validator, page)
		if err != nil {
			return nil, false, err
		}
		if found {
			exposure.Others = append(exposure.Others, stored.Others...)
		}
	}
	return exposure, true, nil
}

// ExposurePageCount returns the number of exposure pages stored for the
// validator in the era. A validator exposed with own stake only still
// reports at least one claimable page.
func (s *Staking) ExposurePageCount(era uint32, validator meridian.Address) (uint32, error) {
	meta, found, err := s.storage.Overview(era, validator)
	if err != nil || !found {
		return 0, err
	}
	return max(meta.PageCount, 1), nil
}

// ExposureMetadata returns the paged exposure metadata of the validator in
// the era, if exposed.
func (s *Staking) ExposureMetadata(era uint32, validator meridian.Address) (*PagedExposureMetadata, bool, error) {
	return s.storage.Overview(era, validator)
}

// clearEraExposures removes all exposure data of the era for the given
// validators.
func (s *Staking) clearEraExposures(era uint32, validators []meridian.Address) error {
	for _, validator := range validators {
		meta, found, err := s.storage.Overview(era, validator)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		for page := uint32(0); page < meta.PageCount; page++ {
			s.storage.DeleteExposurePage(era, validator, page)
		}
		s.storage.DeleteOverview(era, validator)
	}
	return nil
}
