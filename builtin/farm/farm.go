// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farm is the staking ledger. Every state changing call brings the pool current,
// settles the caller's position, applies the stake change and finally recomputes the
// reward debt. Storage writes of a call are made before any token leaves custody; the
// caller is expected to run each call inside a state checkpoint and revert it on error.
package farm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/accmath"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/harvest"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/position"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

var logger = log.WithContext("pkg", "farm")

// ErrInvariant marks a bookkeeping defect. A call failing with it must be reverted.
var ErrInvariant = errors.New("farm: invariant violation")

func invariant(err error) error {
	if errors.Is(err, accmath.ErrNegativePending) {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return err
}

// CallContext is who calls and in which block.
type CallContext struct {
	Caller thor.Address
	Block  xenv.BlockContext
}

// Farm is the staking ledger bound to a state.
type Farm struct {
	addr      thor.Address
	pools     *pool.Service
	positions *position.Service
	emission  *emission.Controller
	config    *configStorage
	reward    RewardToken
	assets    AssetResolver
	emitter   Emitter
}

func New(addr thor.Address, st *state.State, reward RewardToken, assets AssetResolver, emitter Emitter) *Farm {
	sctx := solidity.NewContext(addr, st)
	return &Farm{
		addr:      addr,
		pools:     pool.New(sctx),
		positions: position.New(sctx),
		emission:  emission.New(sctx),
		config:    newConfigStorage(sctx),
		reward:    reward,
		assets:    assets,
		emitter:   emitter,
	}
}

// Address is the custody address of the farm.
func (f *Farm) Address() thor.Address { return f.addr }

// Initialize stores the genesis configuration.
func (f *Farm) Initialize(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	f.config.owner.Set(&cfg.Owner)
	f.config.devAddress.Set(&cfg.DevAddress)
	f.config.feeAddress.Set(&cfg.FeeAddress)
	f.config.setDevFee(cfg.DevFee)
	f.config.startBlock.Set(new(big.Int).SetUint64(uint64(cfg.StartBlock)))
	f.emission.SetBounds(cfg.Emission)

	rate := cfg.RewardPerBlock
	if rate == nil {
		rate = cfg.Emission.Base
	}
	if rate.Cmp(cfg.Emission.Max) > 0 {
		rate = cfg.Emission.Max
	}
	f.emission.SetRewardPerBlock(rate)
	return nil
}

type stakedSupplier struct{ f *Farm }

func (s stakedSupplier) StakedSupply(addr thor.Address) (*big.Int, error) {
	a, err := s.f.assets.Asset(addr)
	if err != nil {
		return nil, err
	}
	return a.BalanceOf(s.f.addr)
}

func (f *Farm) deps() (*pool.Deps, error) {
	devFee, err := f.config.devFee()
	if err != nil {
		return nil, err
	}
	return &pool.Deps{
		Custody:  f.addr,
		Reward:   f.reward,
		Staked:   stakedSupplier{f},
		Emission: f.emission,
		DevFee:   devFee,
	}, nil
}

func (f *Farm) refresh(pid pool.PID, block uint32) (*pool.Pool, error) {
	deps, err := f.deps()
	if err != nil {
		return nil, err
	}
	return f.pools.Refresh(pid, block, deps)
}

// UpdatePool brings the accumulator of pid current.
func (f *Farm) UpdatePool(ctx *CallContext, pid pool.PID) error {
	_, err := f.refresh(pid, ctx.Block.Number)
	return err
}

// MassUpdatePools brings every pool current.
func (f *Farm) MassUpdatePools(ctx *CallContext) error {
	n, err := f.pools.Len()
	if err != nil {
		return err
	}
	deps, err := f.deps()
	if err != nil {
		return err
	}
	for pid := range pool.PID(n) {
		if _, err := f.pools.Refresh(pid, ctx.Block.Number, deps); err != nil {
			return err
		}
	}
	return nil
}

// settle runs the harvest gate and stores nothing.
func (f *Farm) settle(ctx *CallContext, p *pool.Pool, pos *position.Position) (harvest.Outcome, error) {
	out, err := harvest.Settle(pos, p, ctx.Block.Time)
	if err != nil {
		return harvest.Outcome{}, invariant(err)
	}
	return out, nil
}

// payOut transfers the settled payout and emits the lockup. Runs after the position is stored.
func (f *Farm) payOut(ctx *CallContext, pid pool.PID, out harvest.Outcome) error {
	if out.Payout.Sign() > 0 {
		sent, err := harvest.SafeTransfer(f.reward, f.addr, ctx.Caller, out.Payout)
		if err != nil {
			return err
		}
		logger.Debug("reward paid", "pid", pid, "user", ctx.Caller, "amount", sent)
	}
	if out.LockedUp.Sign() > 0 {
		logger.Debug("reward locked up", "pid", pid, "user", ctx.Caller, "amount", out.LockedUp)
		return f.emit(EventRewardLockedUp, ctx.Caller, pidArg(pid), out.LockedUp)
	}
	return nil
}

// Deposit stakes amount of the pool asset. A zero amount only harvests.
func (f *Farm) Deposit(ctx *CallContext, pid pool.PID, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New("deposit: negative amount")
	}
	p, err := f.refresh(pid, ctx.Block.Number)
	if err != nil {
		return err
	}
	pos, err := f.positions.Get(pid, ctx.Caller)
	if err != nil {
		return err
	}
	out, err := f.settle(ctx, p, pos)
	if err != nil {
		return err
	}

	var (
		asset StakedAsset
		fee   = new(big.Int)
	)
	if amount.Sign() > 0 {
		if asset, err = f.assets.Asset(p.Asset); err != nil {
			return err
		}
		net := new(big.Int).Set(amount)
		if p.SupportsBurnQuery {
			if br, ok := asset.(BurnReporter); ok {
				bp, err := br.CurrentBurnPercentage()
				if err != nil {
					return err
				}
				net.Sub(net, accmath.Fee(amount, bp))
			}
		}
		fee = accmath.Fee(net, p.DepositFeeBP)
		pos.Amount = new(big.Int).Add(pos.Amount, net.Sub(net, fee))
	}
	pos.SettleDebt(p.AccRewardPerShare)
	if err := f.positions.Set(pid, ctx.Caller, pos); err != nil {
		return err
	}

	if err := f.payOut(ctx, pid, out); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		if _, err := asset.TransferFrom(ctx.Caller, f.addr, amount); err != nil {
			return err
		}
		if fee.Sign() > 0 {
			feeAddress, err := f.config.feeAddress.Get()
			if err != nil {
				return err
			}
			if _, err := asset.Transfer(f.addr, feeAddress, fee); err != nil {
				return err
			}
		}
	}
	return f.emit(EventDeposit, ctx.Caller, pidArg(pid), amount)
}

// Harvest pays out or locks up the pending reward of the caller.
func (f *Farm) Harvest(ctx *CallContext, pid pool.PID) error {
	return f.Deposit(ctx, pid, new(big.Int))
}

// Withdraw unstakes amount. It is rejected when amount exceeds the stake.
func (f *Farm) Withdraw(ctx *CallContext, pid pool.PID, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.New("withdraw: negative amount")
	}
	if _, err := f.pools.Get(pid); err != nil {
		return err
	}
	pos, err := f.positions.Get(pid, ctx.Caller)
	if err != nil {
		return err
	}
	if pos.Amount.Cmp(amount) < 0 {
		return reverts.New("withdraw: not good")
	}

	p, err := f.refresh(pid, ctx.Block.Number)
	if err != nil {
		return err
	}
	out, err := f.settle(ctx, p, pos)
	if err != nil {
		return err
	}
	pos.Amount = new(big.Int).Sub(pos.Amount, amount)
	pos.SettleDebt(p.AccRewardPerShare)
	if err := f.positions.Set(pid, ctx.Caller, pos); err != nil {
		return err
	}

	if err := f.payOut(ctx, pid, out); err != nil {
		return err
	}
	if amount.Sign() > 0 {
		asset, err := f.assets.Asset(p.Asset)
		if err != nil {
			return err
		}
		if _, err := asset.Transfer(f.addr, ctx.Caller, amount); err != nil {
			return err
		}
	}
	return f.emit(EventWithdraw, ctx.Caller, pidArg(pid), amount)
}

// EmergencyWithdraw returns the whole stake without settling. The pending reward is
// sent to the burn address and the position is zeroed.
func (f *Farm) EmergencyWithdraw(ctx *CallContext, pid pool.PID) error {
	p, err := f.pools.Get(pid)
	if err != nil {
		return err
	}
	pos, err := f.positions.Get(pid, ctx.Caller)
	if err != nil {
		return err
	}
	pending, err := pos.Pending(p.AccRewardPerShare)
	if err != nil {
		return invariant(err)
	}
	amount := pos.Amount
	if err := f.positions.Reset(pid, ctx.Caller); err != nil {
		return err
	}

	if pending.Sign() > 0 {
		sink, err := f.reward.BurnAddress()
		if err != nil {
			return err
		}
		burnt, err := harvest.SafeTransfer(f.reward, f.addr, sink, pending)
		if err != nil {
			return err
		}
		logger.Debug("pending reward burnt", "pid", pid, "user", ctx.Caller, "amount", burnt)
	}
	if amount.Sign() > 0 {
		asset, err := f.assets.Asset(p.Asset)
		if err != nil {
			return err
		}
		if _, err := asset.Transfer(f.addr, ctx.Caller, amount); err != nil {
			return err
		}
	}
	return f.emit(EventEmergencyWithdraw, ctx.Caller, pidArg(pid), amount)
}

func pidArg(pid pool.PID) *big.Int {
	return new(big.Int).SetUint64(uint64(pid))
}
