// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/accmath"
)

// HarvestState is the harvest gate of a position at a point in time.
type HarvestState uint8

const (
	Uninitialized HarvestState = iota
	Unlocked
	Locked
)

func (s HarvestState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Unlocked:
		return "unlocked"
	case Locked:
		return "locked"
	default:
		return "unknown"
	}
}

// Position is a staker's state in one pool.
type Position struct {
	Amount           *big.Int
	RewardDebt       *big.Int
	RewardLockedUp   *big.Int
	NextHarvestUntil uint64
	// Initialized is set on the first settlement, so that 0 remains a valid unlock time.
	Initialized bool
}

func newPosition() *Position {
	return &Position{
		Amount:         new(big.Int),
		RewardDebt:     new(big.Int),
		RewardLockedUp: new(big.Int),
	}
}

// HarvestState returns the gate state at now.
func (p *Position) HarvestState(now uint64) HarvestState {
	switch {
	case !p.Initialized:
		return Uninitialized
	case now < p.NextHarvestUntil:
		return Locked
	default:
		return Unlocked
	}
}

// SettleDebt marks everything accrued up to accPerShare as already attributed.
func (p *Position) SettleDebt(accPerShare *big.Int) {
	p.RewardDebt = accmath.Accrued(p.Amount, accPerShare)
}

// Pending returns the reward accrued since the last settlement.
func (p *Position) Pending(accPerShare *big.Int) (*big.Int, error) {
	return accmath.Pending(p.Amount, accPerShare, p.RewardDebt)
}

func (p *Position) IsZero() bool {
	return p.Amount.Sign() == 0 && p.RewardDebt.Sign() == 0 && p.RewardLockedUp.Sign() == 0 && !p.Initialized
}
