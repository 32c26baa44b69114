// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/asset"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/token"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp  uint64
	stateProcs []func(state *state.State) error
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Build runs the state processes and returns the genesis block context.
// The changes stay in the journal of st; committing is up to the caller.
func (b *Builder) Build(st *state.State) (xenv.BlockContext, error) {
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return xenv.BlockContext{}, errors.Wrap(err, "state process")
		}
	}
	return xenv.BlockContext{Number: 0, Time: b.timestamp}, nil
}

// Builder returns the genesis builder of the config, bound to the given reward
// token and farm.
func (c *Config) Builder(reward *token.Token, f *farm.Farm) *Builder {
	genesisCtx := &farm.CallContext{
		Caller: c.Farm.Owner,
		Block:  xenv.BlockContext{Number: 0, Time: c.LaunchTime},
	}
	return new(Builder).
		Timestamp(c.LaunchTime).
		State(func(st *state.State) error {
			burnAddress := thor.BurnAddress
			if c.RewardToken.BurnAddress != nil {
				burnAddress = *c.RewardToken.BurnAddress
			}
			reward.Initialize(c.RewardToken.MaxSupply.Int(), burnAddress)
			for _, a := range c.RewardToken.Balances {
				if _, err := reward.Mint(a.Address, a.Amount.Int()); err != nil {
					return errors.Wrap(err, "reward token alloc")
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			for _, ac := range c.Assets {
				a := asset.New(ac.Address, st)
				if err := a.SetBurnBP(ac.BurnBasisPoints); err != nil {
					return err
				}
				for _, alloc := range ac.Balances {
					if _, err := a.Mint(alloc.Address, alloc.Amount.Int()); err != nil {
						return errors.Wrapf(err, "asset %v alloc", ac.Address)
					}
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			return f.Initialize(c.FarmConfig())
		}).
		State(func(st *state.State) error {
			for i, p := range c.Pools {
				if _, err := f.AddPool(genesisCtx, p.Asset, p.Weight, p.DepositFeeBP, p.HarvestInterval, false); err != nil {
					return errors.Wrapf(err, "pool %d", i)
				}
			}
			return nil
		})
}
