// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accmath holds the fixed point reward accounting. All values are scaled
// integers, every division truncates toward zero and no input is ever mutated.
package accmath

import (
	"errors"
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// ErrNegativePending means a position owes more debt than it has accrued.
var ErrNegativePending = errors.New("accmath: negative pending reward")

var bpDenominator = big.NewInt(int64(thor.BasisPointsDenominator))

// Multiplier returns the bonus weighted number of blocks in (from, to].
func Multiplier(from, to uint32) *big.Int {
	if to <= from {
		return new(big.Int)
	}
	blocks := new(big.Int).SetUint64(uint64(to - from))
	return blocks.Mul(blocks, thor.BonusMultiplier)
}

// RewardForPool returns multiplier*rewardPerBlock*weight/totalWeight.
func RewardForPool(multiplier, rewardPerBlock *big.Int, weight, totalWeight uint64) *big.Int {
	if totalWeight == 0 {
		return new(big.Int)
	}
	reward := new(big.Int).Mul(multiplier, rewardPerBlock)
	reward.Mul(reward, new(big.Int).SetUint64(weight))
	return reward.Quo(reward, new(big.Int).SetUint64(totalWeight))
}

// AccumulatorDelta returns reward*Scale/stakedSupply, zero for an empty pool.
func AccumulatorDelta(reward, stakedSupply *big.Int) *big.Int {
	if stakedSupply.Sign() <= 0 {
		return new(big.Int)
	}
	delta := new(big.Int).Mul(reward, thor.RewardScale)
	return delta.Quo(delta, stakedSupply)
}

// Accrued returns amount*accPerShare/Scale.
func Accrued(amount, accPerShare *big.Int) *big.Int {
	accrued := new(big.Int).Mul(amount, accPerShare)
	return accrued.Quo(accrued, thor.RewardScale)
}

// Pending returns Accrued(amount, accPerShare) - debt.
func Pending(amount, accPerShare, debt *big.Int) (*big.Int, error) {
	pending := Accrued(amount, accPerShare)
	pending.Sub(pending, debt)
	if pending.Sign() < 0 {
		return nil, ErrNegativePending
	}
	return pending, nil
}

// Fee returns amount*bp/10000.
func Fee(amount *big.Int, bp uint32) *big.Int {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(bp)))
	return fee.Quo(fee, bpDenominator)
}
