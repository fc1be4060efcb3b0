// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package meridian

import (
	"golang.org/x/crypto/blake2b"
)

// Blake2b computes the blake2b-256 checksum of the concatenation of data.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	hash, _ := blake2b.New256(nil)
	for _, b := range data {
		hash.Write(b)
	}
	var b32 Bytes32
	hash.Sum(b32[:0])
	return b32
}

// DeriveAddress derives a deterministic account address from a domain tag
// and arbitrary seed material. Used for accounts owned by the protocol
// itself, e.g. reward pool pots.
func DeriveAddress(tag string, seed ...[]byte) Address {
	data := make([][]byte, 0, len(seed)+1)
	data = append(data, []byte(tag))
	data = append(data, seed...)
	return BytesToAddress(Blake2b(data...).Bytes()[12:])
}
