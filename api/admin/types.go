// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

type AddPoolRequest struct {
	Caller          thor.Address `json:"caller"`
	Asset           thor.Address `json:"asset"`
	Weight          uint64       `json:"weight"`
	DepositFeeBP    uint32       `json:"depositFeeBP"`
	HarvestInterval uint64       `json:"harvestInterval"`
	WithUpdate      bool         `json:"withUpdate"`
}

type SetPoolRequest struct {
	Caller          thor.Address `json:"caller"`
	Weight          uint64       `json:"weight"`
	DepositFeeBP    uint32       `json:"depositFeeBP"`
	HarvestInterval uint64       `json:"harvestInterval"`
	WithUpdate      bool         `json:"withUpdate"`
}

type EmissionRequest struct {
	Caller thor.Address          `json:"caller"`
	Base   *math.HexOrDecimal256 `json:"base"`
	Max    *math.HexOrDecimal256 `json:"max"`
}

type DevFeeRequest struct {
	Caller      thor.Address `json:"caller"`
	Enabled     bool         `json:"enabled"`
	BasisPoints uint32       `json:"basisPoints"`
}

// AddressRequest sets one of the farm addresses.
type AddressRequest struct {
	Caller  thor.Address `json:"caller"`
	Address thor.Address `json:"address"`
}

type Config struct {
	Owner          thor.Address          `json:"owner"`
	DevAddress     thor.Address          `json:"devAddress"`
	FeeAddress     thor.Address          `json:"feeAddress"`
	DevFeeEnabled  bool                  `json:"devFeeEnabled"`
	DevFeeBP       uint32                `json:"devFeeBP"`
	StartBlock     uint32                `json:"startBlock"`
	EmissionBase   *math.HexOrDecimal256 `json:"emissionBase"`
	EmissionMax    *math.HexOrDecimal256 `json:"emissionMax"`
	RewardPerBlock *math.HexOrDecimal256 `json:"rewardPerBlock"`
}

type PoolResult struct {
	PID   uint64 `json:"pid"`
	Block uint32 `json:"block"`
}
