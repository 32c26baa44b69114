// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// ParsePID parses a pool id path parameter.
func ParsePID(s string) (pool.PID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, "pid"))
	}
	return pool.PID(n), nil
}

// ParseAddress parses an address path parameter.
func ParseAddress(s, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// Amount converts an amount for output.
func Amount(x *big.Int) *math.HexOrDecimal256 {
	if x == nil {
		x = new(big.Int)
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(x))
}

// BigOf returns the value of an amount input, nil reads as zero.
func BigOf(x *math.HexOrDecimal256) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set((*big.Int)(x))
}
