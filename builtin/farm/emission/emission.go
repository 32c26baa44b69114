// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package emission throttles the per block reward rate against the reward token supply.
package emission

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var (
	logger = log.WithContext("pkg", "emission")

	metricRewardPerBlock = metrics.LazyLoadGauge("reward_per_block")

	slotRewardPerBlock = thor.BytesToBytes32([]byte("rewardPerBlock"))
	slotBaseRate       = thor.BytesToBytes32([]byte("baseEmissionRate"))
	slotMaxRate        = thor.BytesToBytes32([]byte("maxEmissionRate"))
)

// Bounds are the configurable emission rate limits.
type Bounds struct {
	Base *big.Int
	Max  *big.Int
}

// SupplyOracle reports the reward token supply.
type SupplyOracle interface {
	TotalSupply() (*big.Int, error)
	MaximumSupply() (*big.Int, error)
}

// Next computes the rate for the next block.
//
//	candidate = base*maxSupply/totalSupply - base
//
// The rate is zero once totalSupply exceeds maxSupply, the candidate when it is below
// bounds.Max and bounds.Max otherwise. A candidate that would be negative floors at zero.
func Next(totalSupply, maxSupply *big.Int, bounds Bounds) *big.Int {
	if totalSupply.Cmp(maxSupply) > 0 {
		return new(big.Int)
	}
	if totalSupply.Sign() == 0 {
		return new(big.Int).Set(bounds.Max)
	}

	base, overflow := uint256.FromBig(bounds.Base)
	if overflow {
		return new(big.Int).Set(bounds.Max)
	}
	maxSupplyU, overflow := uint256.FromBig(maxSupply)
	if overflow {
		return new(big.Int).Set(bounds.Max)
	}
	totalSupplyU, _ := uint256.FromBig(totalSupply)

	scaled, overflow := new(uint256.Int).MulDivOverflow(base, maxSupplyU, totalSupplyU)
	if overflow {
		return new(big.Int).Set(bounds.Max)
	}
	candidate, underflow := new(uint256.Int).SubOverflow(scaled, base)
	if underflow {
		return new(big.Int)
	}

	c := candidate.ToBig()
	if c.Cmp(bounds.Max) < 0 {
		return c
	}
	return new(big.Int).Set(bounds.Max)
}

// Controller keeps the current rate and its bounds in contract storage.
type Controller struct {
	rewardPerBlock *solidity.Uint256
	base           *solidity.Uint256
	max            *solidity.Uint256
}

func New(sctx *solidity.Context) *Controller {
	return &Controller{
		rewardPerBlock: solidity.NewUint256(sctx, slotRewardPerBlock),
		base:           solidity.NewUint256(sctx, slotBaseRate),
		max:            solidity.NewUint256(sctx, slotMaxRate),
	}
}

func (c *Controller) RewardPerBlock() (*big.Int, error) {
	return c.rewardPerBlock.Get()
}

// SetRewardPerBlock overrides the current rate. Used at genesis only.
func (c *Controller) SetRewardPerBlock(rate *big.Int) {
	c.rewardPerBlock.Set(rate)
	observeRate(rate)
}

func (c *Controller) Bounds() (Bounds, error) {
	base, err := c.base.Get()
	if err != nil {
		return Bounds{}, err
	}
	max, err := c.max.Get()
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Base: base, Max: max}, nil
}

// SetBounds stores new bounds without recomputing the rate.
func (c *Controller) SetBounds(b Bounds) {
	c.base.Set(b.Base)
	c.max.Set(b.Max)
}

// Update recomputes the rate from the current supply and stores it.
func (c *Controller) Update(supply SupplyOracle) (*big.Int, error) {
	total, err := supply.TotalSupply()
	if err != nil {
		return nil, errors.Wrap(err, "total supply")
	}
	maxSupply, err := supply.MaximumSupply()
	if err != nil {
		return nil, errors.Wrap(err, "maximum supply")
	}
	bounds, err := c.Bounds()
	if err != nil {
		return nil, err
	}

	rate := Next(total, maxSupply, bounds)
	c.rewardPerBlock.Set(rate)
	observeRate(rate)

	if rate.Sign() == 0 && total.Cmp(maxSupply) > 0 {
		logger.Debug("emission halted", "totalSupply", total, "maxSupply", maxSupply)
	}
	return rate, nil
}

func observeRate(rate *big.Int) {
	if rate.IsInt64() {
		metricRewardPerBlock().Set(rate.Int64())
	} else {
		metricRewardPerBlock().Set(math.MaxInt64)
	}
}
