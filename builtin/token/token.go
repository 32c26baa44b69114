// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the capped, mintable reward token.
package token

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/asset"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var (
	logger = log.WithContext("pkg", "token")

	slotMaxSupply   = thor.BytesToBytes32([]byte("maxSupply"))
	slotBurnAddress = thor.BytesToBytes32([]byte("burnAddress"))
)

// Token is an asset without transfer burn whose supply can never exceed its cap.
type Token struct {
	*asset.Asset
	maxSupply   *solidity.Uint256
	burnAddress *solidity.Address
}

func New(addr thor.Address, st *state.State) *Token {
	sctx := solidity.NewContext(addr, st)
	return &Token{
		Asset:       asset.New(addr, st),
		maxSupply:   solidity.NewUint256(sctx, slotMaxSupply),
		burnAddress: solidity.NewAddress(sctx, slotBurnAddress),
	}
}

// Initialize sets the cap and the sink address. Called once at genesis.
func (t *Token) Initialize(maxSupply *big.Int, burnAddress thor.Address) {
	t.maxSupply.Set(maxSupply)
	t.burnAddress.Set(&burnAddress)
}

func (t *Token) MaximumSupply() (*big.Int, error) {
	return t.maxSupply.Get()
}

// BurnAddress returns the unrecoverable sink.
func (t *Token) BurnAddress() (thor.Address, error) {
	addr, err := t.burnAddress.Get()
	if err != nil {
		return thor.Address{}, err
	}
	if addr.IsZero() {
		return thor.BurnAddress, nil
	}
	return addr, nil
}

// Mint mints up to the remaining headroom below the cap and returns the minted amount.
func (t *Token) Mint(to thor.Address, amount *big.Int) (*big.Int, error) {
	total, err := t.TotalSupply()
	if err != nil {
		return nil, err
	}
	maxSupply, err := t.MaximumSupply()
	if err != nil {
		return nil, err
	}
	headroom := new(big.Int).Sub(maxSupply, total)
	if headroom.Sign() <= 0 {
		logger.Debug("mint skipped, cap reached", "to", to, "amount", amount)
		return new(big.Int), nil
	}
	if amount.Cmp(headroom) > 0 {
		logger.Debug("mint truncated to cap", "to", to, "amount", amount, "headroom", headroom)
		amount = headroom
	}
	return t.Asset.Mint(to, amount)
}
