// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package assets implements a minimal state-backed multi-asset fungible
// ledger. It backs reward pool pots and era payout minting.
package assets

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/meridianchain/meridian/meridian"
	"github.com/meridianchain/meridian/state"
)

// AssetID identifies a fungible asset class.
type AssetID uint32

var (
	logger = log.New("pkg", "assets")

	// ErrInsufficientBalance is returned when a transfer or burn exceeds the
	// account's balance.
	ErrInsufficientBalance = errors.New("insufficient asset balance")
	// ErrInvalidAmount is returned for nil or negative amounts.
	ErrInvalidAmount = errors.New("invalid asset amount")
)

const (
	keyBalancePrefix  = "ast/balance/"
	keyIssuancePrefix = "ast/issuance/"
)

// Ledger is the state-backed fungible asset ledger.
type Ledger struct {
	state *state.State
}

// NewLedger creates a ledger over the given state.
func NewLedger(st *state.State) *Ledger {
	return &Ledger{state: st}
}

func assetBytes(id AssetID) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(id))
	return b[:]
}

func balanceKey(id AssetID, who meridian.Address) []byte {
	key := append([]byte(keyBalancePrefix), assetBytes(id)...)
	return append(key, who.Bytes()...)
}

func issuanceKey(id AssetID) []byte {
	return append([]byte(keyIssuancePrefix), assetBytes(id)...)
}

func (l *Ledger) getAmount(key []byte) (*big.Int, error) {
	amount := new(big.Int)
	if _, err := l.state.GetRLP(key, amount); err != nil {
		return nil, errors.Wrap(err, "failed to get asset amount")
	}
	return amount, nil
}

func (l *Ledger) setAmount(key []byte, amount *big.Int) error {
	if amount.Sign() == 0 {
		l.state.Delete(key)
		return nil
	}
	if err := l.state.SetRLP(key, amount); err != nil {
		return errors.Wrap(err, "failed to set asset amount")
	}
	return nil
}

// Balance returns the balance of the account in the given asset.
func (l *Ledger) Balance(id AssetID, who meridian.Address) (*big.Int, error) {
	return l.getAmount(balanceKey(id, who))
}

// TotalIssuance returns the total minted supply of the asset.
func (l *Ledger) TotalIssuance(id AssetID) (*big.Int, error) {
	return l.getAmount(issuanceKey(id))
}

// Mint creates amount of the asset in the account, increasing total issuance.
func (l *Ledger) Mint(id AssetID, who meridian.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := l.Balance(id, who)
	if err != nil {
		return err
	}
	if err := l.setAmount(balanceKey(id, who), balance.Add(balance, amount)); err != nil {
		return err
	}
	issuance, err := l.TotalIssuance(id)
	if err != nil {
		return err
	}
	if err := l.setAmount(issuanceKey(id), issuance.Add(issuance, amount)); err != nil {
		return err
	}
	logger.Debug("minted", "asset", uint32(id), "who", who, "amount", amount)
	return nil
}

// Burn destroys amount of the asset from the account, decreasing total issuance.
func (l *Ledger) Burn(id AssetID, who meridian.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := l.Balance(id, who)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := l.setAmount(balanceKey(id, who), balance.Sub(balance, amount)); err != nil {
		return err
	}
	issuance, err := l.TotalIssuance(id)
	if err != nil {
		return err
	}
	return l.setAmount(issuanceKey(id), issuance.Sub(issuance, amount))
}

// Transfer moves amount of the asset between two accounts.
func (l *Ledger) Transfer(id AssetID, from, to meridian.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBalance, err := l.Balance(id, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := l.setAmount(balanceKey(id, from), fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	toBalance, err := l.Balance(id, to)
	if err != nil {
		return err
	}
	return l.setAmount(balanceKey(id, to), toBalance.Add(toBalance, amount))
}
