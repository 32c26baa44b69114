// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random fixtures for ledger tests.
package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

func fill(b []byte) {
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
}

// RandAddress returns a random account, never the zero address.
func RandAddress() thor.Address {
	for {
		var addr thor.Address
		fill(addr[:])
		if !addr.IsZero() {
			return addr
		}
	}
}

// RandBytes32 returns a random word.
func RandBytes32() thor.Bytes32 {
	var b thor.Bytes32
	fill(b[:])
	return b
}

// RandIntN returns a number in [0, n).
func RandIntN(n int) int {
	return mathrand.IntN(n) //#nosec G404
}
