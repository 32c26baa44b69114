// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/harvest"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/position"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

func (f *Farm) PoolLength() (uint64, error) {
	return f.pools.Len()
}

func (f *Farm) PoolInfo(pid pool.PID) (*pool.Pool, error) {
	return f.pools.Get(pid)
}

func (f *Farm) UserInfo(pid pool.PID, user thor.Address) (*position.Position, error) {
	if _, err := f.pools.Get(pid); err != nil {
		return nil, err
	}
	return f.positions.Get(pid, user)
}

func (f *Farm) TotalAllocWeight() (uint64, error) {
	return f.pools.TotalAllocWeight()
}

func (f *Farm) RewardPerBlock() (*big.Int, error) {
	return f.emission.RewardPerBlock()
}

// PendingReward is what a harvest at block would be worth, locked up reward included.
// Nothing is minted.
func (f *Farm) PendingReward(pid pool.PID, user thor.Address, block uint32) (*big.Int, error) {
	p, err := f.pools.Get(pid)
	if err != nil {
		return nil, err
	}
	pos, err := f.positions.Get(pid, user)
	if err != nil {
		return nil, err
	}
	staked, err := stakedSupplier{f}.StakedSupply(p.Asset)
	if err != nil {
		return nil, err
	}
	rate, err := f.emission.RewardPerBlock()
	if err != nil {
		return nil, err
	}
	acc, err := f.pools.Preview(pid, block, staked, rate)
	if err != nil {
		return nil, err
	}
	pending, err := pos.Pending(acc)
	if err != nil {
		return nil, invariant(err)
	}
	return pending.Add(pending, pos.RewardLockedUp), nil
}

// CanHarvest reports whether a settlement of user in pid at time would pay out.
func (f *Farm) CanHarvest(pid pool.PID, user thor.Address, time uint64) (bool, error) {
	pos, err := f.UserInfo(pid, user)
	if err != nil {
		return false, err
	}
	return harvest.CanHarvest(pos, time), nil
}

// Config returns the current configuration.
func (f *Farm) Config() (*Config, error) {
	owner, err := f.config.owner.Get()
	if err != nil {
		return nil, err
	}
	fee, err := f.config.feeAddress.Get()
	if err != nil {
		return nil, err
	}
	devFee, err := f.config.devFee()
	if err != nil {
		return nil, err
	}
	start, err := f.config.startBlock.Get()
	if err != nil {
		return nil, err
	}
	bounds, err := f.emission.Bounds()
	if err != nil {
		return nil, err
	}
	rate, err := f.emission.RewardPerBlock()
	if err != nil {
		return nil, err
	}
	return &Config{
		Owner:          owner,
		DevAddress:     devFee.Address,
		FeeAddress:     fee,
		DevFee:         DevFee{Enabled: devFee.Enabled, BP: devFee.BP},
		StartBlock:     uint32(start.Uint64()),
		Emission:       bounds,
		RewardPerBlock: rate,
	}, nil
}
