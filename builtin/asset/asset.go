// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package asset implements transferable balances living in the ledger state, with an
// optional burn on every transfer.
package asset

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var (
	slotBalances    = thor.BytesToBytes32([]byte("balances"))
	slotTotalSupply = thor.BytesToBytes32([]byte("totalSupply"))
	slotBurnBP      = thor.BytesToBytes32([]byte("burnBasisPoints"))
)

// Asset is a plain transferable balance.
type Asset struct {
	addr        thor.Address
	balances    *solidity.Mapping[thor.Address, *big.Int]
	totalSupply *solidity.Uint256
	burnBP      *solidity.Uint256
}

func New(addr thor.Address, st *state.State) *Asset {
	sctx := solidity.NewContext(addr, st)
	return &Asset{
		addr:        addr,
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		burnBP:      solidity.NewUint256(sctx, slotBurnBP),
	}
}

func (a *Asset) Address() thor.Address { return a.addr }

func (a *Asset) BalanceOf(addr thor.Address) (*big.Int, error) {
	return a.balances.Get(addr)
}

func (a *Asset) TotalSupply() (*big.Int, error) {
	return a.totalSupply.Get()
}

// BurnBP returns the share of every transfer that is burnt, in basis points.
func (a *Asset) BurnBP() (uint32, error) {
	bp, err := a.burnBP.Get()
	if err != nil {
		return 0, err
	}
	return uint32(bp.Uint64()), nil
}

// SetBurnBP configures the burn on transfer.
func (a *Asset) SetBurnBP(bp uint32) error {
	if bp > thor.BasisPointsDenominator {
		return reverts.New("asset: burn exceeds 100%")
	}
	a.burnBP.Set(new(big.Int).SetUint64(uint64(bp)))
	return nil
}

// Mint credits amount to to.
func (a *Asset) Mint(to thor.Address, amount *big.Int) (*big.Int, error) {
	if err := a.credit(to, amount); err != nil {
		return nil, err
	}
	if err := a.totalSupply.Add(amount); err != nil {
		return nil, err
	}
	return new(big.Int).Set(amount), nil
}

// Transfer moves amount from from. The sender pays amount, the recipient receives it
// minus the burn. Returns the received amount.
func (a *Asset) Transfer(from, to thor.Address, amount *big.Int) (*big.Int, error) {
	if amount.Sign() < 0 {
		return nil, reverts.New("transfer: negative amount")
	}
	if err := a.debit(from, amount); err != nil {
		return nil, err
	}
	bp, err := a.BurnBP()
	if err != nil {
		return nil, err
	}
	burn := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(bp)))
	burn.Quo(burn, big.NewInt(int64(thor.BasisPointsDenominator)))
	received := new(big.Int).Sub(amount, burn)
	if err := a.credit(to, received); err != nil {
		return nil, err
	}
	if burn.Sign() > 0 {
		if err := a.totalSupply.Sub(burn); err != nil {
			return nil, err
		}
	}
	return received, nil
}

// TransferFrom is Transfer on behalf of from. Allowances are not modelled.
func (a *Asset) TransferFrom(from, to thor.Address, amount *big.Int) (*big.Int, error) {
	return a.Transfer(from, to, amount)
}

func (a *Asset) debit(addr thor.Address, amount *big.Int) error {
	bal, err := a.balances.Get(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.New("transfer: insufficient balance")
	}
	return a.balances.Set(addr, bal.Sub(bal, amount))
}

func (a *Asset) credit(addr thor.Address, amount *big.Int) error {
	bal, err := a.balances.Get(addr)
	if err != nil {
		return err
	}
	return a.balances.Set(addr, bal.Add(bal, amount))
}

// Burnable is an asset that reports its burn rate, so depositors can be credited the net amount.
type Burnable struct {
	*Asset
}

func (b Burnable) CurrentBurnPercentage() (uint32, error) {
	return b.BurnBP()
}

// Handle is the operational surface of an opened asset.
type Handle interface {
	Address() thor.Address
	BalanceOf(addr thor.Address) (*big.Int, error)
	TotalSupply() (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) (*big.Int, error)
	TransferFrom(from, to thor.Address, amount *big.Int) (*big.Int, error)
}

// Open returns the asset at addr, as a Burnable when it burns on transfer.
func Open(addr thor.Address, st *state.State) (Handle, error) {
	a := New(addr, st)
	bp, err := a.BurnBP()
	if err != nil {
		return nil, err
	}
	if bp > 0 {
		return Burnable{a}, nil
	}
	return a, nil
}
