// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

func (f *Farm) onlyOwner(ctx *CallContext) error {
	owner, err := f.config.owner.Get()
	if err != nil {
		return err
	}
	if owner != ctx.Caller {
		return reverts.Unauthorized("ownable: caller is not the owner")
	}
	return nil
}

func validatePoolParams(depositFeeBP uint32, harvestInterval uint64) error {
	if depositFeeBP > thor.MaxDepositFeeBP {
		return reverts.New("pool: invalid deposit fee basis points")
	}
	if harvestInterval > thor.MaxHarvestInterval {
		return reverts.New("pool: invalid harvest interval")
	}
	return nil
}

// AddPool registers asset as a new pool. The burn capability of the asset is
// resolved here once.
func (f *Farm) AddPool(ctx *CallContext, asset thor.Address, weight uint64, depositFeeBP uint32, harvestInterval uint64, withUpdate bool) (pool.PID, error) {
	if err := f.onlyOwner(ctx); err != nil {
		return 0, err
	}
	if err := validatePoolParams(depositFeeBP, harvestInterval); err != nil {
		return 0, err
	}
	staked, err := f.assets.Asset(asset)
	if err != nil {
		return 0, err
	}
	if withUpdate {
		if err := f.MassUpdatePools(ctx); err != nil {
			return 0, err
		}
	}
	start, err := f.config.startBlock.Get()
	if err != nil {
		return 0, err
	}
	lastRewardBlock := ctx.Block.Number
	if s := uint32(start.Uint64()); s > lastRewardBlock {
		lastRewardBlock = s
	}
	_, burnable := staked.(BurnReporter)

	pid, err := f.pools.Add(&pool.Pool{
		Asset:             asset,
		AllocWeight:       weight,
		LastRewardBlock:   lastRewardBlock,
		AccRewardPerShare: new(big.Int),
		DepositFeeBP:      depositFeeBP,
		HarvestInterval:   harvestInterval,
		SupportsBurnQuery: burnable,
	})
	if err != nil {
		return 0, err
	}
	logger.Info("pool added", "pid", pid, "asset", asset, "weight", weight, "burnQuery", burnable)
	return pid, f.emit(EventPoolAdded, pidArg(pid), asset, new(big.Int).SetUint64(weight))
}

// SetPool updates the weight, deposit fee and harvest interval of a pool.
func (f *Farm) SetPool(ctx *CallContext, pid pool.PID, weight uint64, depositFeeBP uint32, harvestInterval uint64, withUpdate bool) error {
	if err := f.onlyOwner(ctx); err != nil {
		return err
	}
	if err := validatePoolParams(depositFeeBP, harvestInterval); err != nil {
		return err
	}
	if withUpdate {
		if err := f.MassUpdatePools(ctx); err != nil {
			return err
		}
	}
	if err := f.pools.SetParams(pid, weight, depositFeeBP, harvestInterval); err != nil {
		return err
	}
	return f.emit(EventPoolUpdated, pidArg(pid), new(big.Int).SetUint64(weight))
}

// SetEmissionBounds brings all pools current with the old rate, stores the new bounds and
// recomputes the rate.
func (f *Farm) SetEmissionBounds(ctx *CallContext, bounds emission.Bounds) error {
	if err := f.onlyOwner(ctx); err != nil {
		return err
	}
	if err := validateBounds(bounds); err != nil {
		return err
	}
	if err := f.MassUpdatePools(ctx); err != nil {
		return err
	}
	prev, err := f.emission.RewardPerBlock()
	if err != nil {
		return err
	}
	f.emission.SetBounds(bounds)
	rate, err := f.emission.Update(f.reward)
	if err != nil {
		return err
	}
	logger.Info("emission bounds updated", "base", bounds.Base, "max", bounds.Max, "rate", rate)
	return f.emit(EventEmissionRateUpdated, ctx.Caller, prev, rate)
}

// SetDevFee toggles the dev fee and sets its share.
func (f *Farm) SetDevFee(ctx *CallContext, fee DevFee) error {
	if err := f.onlyOwner(ctx); err != nil {
		return err
	}
	if fee.BP > thor.MaxDevFeeBP {
		return reverts.New("setDevFee: invalid dev fee basis points")
	}
	f.config.setDevFee(fee)
	return nil
}

func (f *Farm) TransferOwnership(ctx *CallContext, newOwner thor.Address) error {
	if err := f.onlyOwner(ctx); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return reverts.New("ownable: new owner is the zero address")
	}
	f.config.owner.Set(&newOwner)
	return nil
}

// SetDevAddress can only be called by the current dev address.
func (f *Farm) SetDevAddress(ctx *CallContext, addr thor.Address) error {
	dev, err := f.config.devAddress.Get()
	if err != nil {
		return err
	}
	if dev != ctx.Caller {
		return reverts.Unauthorized("setDevAddress: FORBIDDEN")
	}
	if addr.IsZero() {
		return reverts.New("setDevAddress: ZERO")
	}
	f.config.devAddress.Set(&addr)
	return f.emit(EventSetDevAddress, ctx.Caller, addr)
}

// SetFeeAddress can only be called by the current fee address.
func (f *Farm) SetFeeAddress(ctx *CallContext, addr thor.Address) error {
	fee, err := f.config.feeAddress.Get()
	if err != nil {
		return err
	}
	if fee != ctx.Caller {
		return reverts.Unauthorized("setFeeAddress: FORBIDDEN")
	}
	if addr.IsZero() {
		return reverts.New("setFeeAddress: ZERO")
	}
	f.config.feeAddress.Set(&addr)
	return f.emit(EventSetFeeAddress, ctx.Caller, addr)
}
