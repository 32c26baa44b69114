// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package harvest decides whether a position's pending reward is paid out or locked up.
//
// Settle only mutates the position in memory. Paying the outcome is left to the caller,
// which stores the position first and transfers afterwards.
package harvest

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/position"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var (
	logger = log.WithContext("pkg", "harvest")

	metricLockups = metrics.LazyLoadCounter("lockups_count")
)

// Outcome is the result of one settlement.
type Outcome struct {
	// State is the gate state the settlement was evaluated in.
	State    position.HarvestState
	Pending  *big.Int
	Payout   *big.Int
	LockedUp *big.Int
}

// Settle runs the harvest gate for pos against the refreshed pool p.
// RewardDebt is left untouched, the caller recomputes it once the stake is final.
func Settle(pos *position.Position, p *pool.Pool, now uint64) (Outcome, error) {
	if pos.HarvestState(now) == position.Uninitialized {
		pos.Initialized = true
		pos.NextHarvestUntil = now + p.HarvestInterval
	}

	pending, err := pos.Pending(p.AccRewardPerShare)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		State:    pos.HarvestState(now),
		Pending:  pending,
		Payout:   new(big.Int),
		LockedUp: new(big.Int),
	}

	switch out.State {
	case position.Unlocked:
		total := new(big.Int).Add(pending, pos.RewardLockedUp)
		if total.Sign() > 0 {
			out.Payout = total
			pos.RewardLockedUp = new(big.Int)
			pos.NextHarvestUntil = now + p.HarvestInterval
		}
	case position.Locked:
		if pending.Sign() > 0 {
			out.LockedUp = pending
			pos.RewardLockedUp = new(big.Int).Add(pos.RewardLockedUp, pending)
			metricLockups().Add(1)
		}
	}
	return out, nil
}

// CanHarvest reports whether a settlement at now would pay out.
func CanHarvest(pos *position.Position, now uint64) bool {
	return pos.HarvestState(now) != position.Locked
}

// Token is the part of the reward token a payout needs.
type Token interface {
	BalanceOf(addr thor.Address) (*big.Int, error)
	Transfer(from, to thor.Address, amount *big.Int) (*big.Int, error)
}

// SafeTransfer sends min(amount, balance of from) and returns what was sent.
// A shortfall is never an error.
func SafeTransfer(token Token, from, to thor.Address, amount *big.Int) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return new(big.Int), nil
	}
	balance, err := token.BalanceOf(from)
	if err != nil {
		return nil, err
	}
	send := amount
	if balance.Cmp(amount) < 0 {
		logger.Debug("payout truncated", "to", to, "want", amount, "have", balance)
		send = balance
	}
	if send.Sign() == 0 {
		return new(big.Int), nil
	}
	return token.Transfer(from, to, new(big.Int).Set(send))
}
