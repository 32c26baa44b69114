// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/utils"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/position"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

type Pool struct {
	PID               uint64                `json:"pid"`
	Asset             thor.Address          `json:"asset"`
	AllocWeight       uint64                `json:"allocWeight"`
	LastRewardBlock   uint32                `json:"lastRewardBlock"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	DepositFeeBP      uint32                `json:"depositFeeBP"`
	HarvestInterval   uint64                `json:"harvestInterval"`
	SupportsBurnQuery bool                  `json:"supportsBurnQuery"`
}

func convertPool(pid pool.PID, p *pool.Pool) *Pool {
	return &Pool{
		PID:               uint64(pid),
		Asset:             p.Asset,
		AllocWeight:       p.AllocWeight,
		LastRewardBlock:   p.LastRewardBlock,
		AccRewardPerShare: utils.Amount(p.AccRewardPerShare),
		DepositFeeBP:      p.DepositFeeBP,
		HarvestInterval:   p.HarvestInterval,
		SupportsBurnQuery: p.SupportsBurnQuery,
	}
}

// Position is the stake of a user, with what a harvest would be worth now.
type Position struct {
	Amount           *math.HexOrDecimal256 `json:"amount"`
	RewardDebt       *math.HexOrDecimal256 `json:"rewardDebt"`
	RewardLockedUp   *math.HexOrDecimal256 `json:"rewardLockedUp"`
	NextHarvestUntil uint64                `json:"nextHarvestUntil"`
	HarvestState     string                `json:"harvestState"`
	Pending          *math.HexOrDecimal256 `json:"pending"`
	CanHarvest       bool                  `json:"canHarvest"`
}

func convertPosition(pos *position.Position, now uint64) *Position {
	state := pos.HarvestState(now)
	return &Position{
		Amount:           utils.Amount(pos.Amount),
		RewardDebt:       utils.Amount(pos.RewardDebt),
		RewardLockedUp:   utils.Amount(pos.RewardLockedUp),
		NextHarvestUntil: pos.NextHarvestUntil,
		HarvestState:     state.String(),
		CanHarvest:       state != position.Locked,
	}
}

// CallRequest is the body of the state changing pool calls.
type CallRequest struct {
	Caller thor.Address          `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount,omitempty"`
}

// CallResult tells in which block the call was included.
type CallResult struct {
	Block uint32 `json:"block"`
}
