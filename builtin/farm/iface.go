// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// RewardToken is the mintable token paid out as reward.
type RewardToken interface {
	Mint(to thor.Address, amount *big.Int) (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) (*big.Int, error)
	BalanceOf(addr thor.Address) (*big.Int, error)
	TotalSupply() (*big.Int, error)
	MaximumSupply() (*big.Int, error)
	BurnAddress() (thor.Address, error)
}

// StakedAsset is the token staked in a pool.
type StakedAsset interface {
	TransferFrom(from, to thor.Address, amount *big.Int) (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) (*big.Int, error)
	BalanceOf(addr thor.Address) (*big.Int, error)
}

// BurnReporter is implemented by staked assets that burn a share of every transfer.
type BurnReporter interface {
	CurrentBurnPercentage() (uint32, error)
}

// AssetResolver opens the staked asset at an address.
type AssetResolver interface {
	Asset(addr thor.Address) (StakedAsset, error)
}

// Emitter receives the events of a call.
type Emitter interface {
	Emit(ev *Event)
}

// Event is an ABI encoded log.
type Event struct {
	Address thor.Address
	Topics  []thor.Bytes32
	Data    []byte
}
