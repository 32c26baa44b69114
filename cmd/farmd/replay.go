// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	"gopkg.in/yaml.v3"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/genesis"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

// Replay ops.
const (
	opDeposit           = "deposit"
	opWithdraw          = "withdraw"
	opHarvest           = "harvest"
	opEmergencyWithdraw = "emergencyWithdraw"
	opUpdatePool        = "updatePool"
	opMassUpdatePools   = "massUpdatePools"
	opMine              = "mine"
)

// Script is a list of calls replayed against a fresh genesis.
type Script struct {
	// BlockInterval is the time between two sealed blocks, thor.BlockInterval if zero.
	BlockInterval uint64 `yaml:"blockInterval"`
	Steps         []Step `yaml:"steps"`
}

type Step struct {
	Op     string                   `yaml:"op"`
	Caller thor.Address             `yaml:"caller"`
	Pool   uint64                   `yaml:"pool"`
	Amount *genesis.HexOrDecimal256 `yaml:"amount"`
	// Blocks sealed after the call.
	Blocks       uint32 `yaml:"blocks"`
	ExpectRevert bool   `yaml:"expectRevert"`
}

func loadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
	}
	if s.BlockInterval == 0 {
		s.BlockInterval = thor.BlockInterval
	}
	return &s, nil
}

func (s *Step) validate() error {
	switch s.Op {
	case opDeposit, opWithdraw:
		if s.Amount == nil {
			return errors.Errorf("%s: amount required", s.Op)
		}
	case opHarvest, opEmergencyWithdraw, opUpdatePool, opMassUpdatePools, opMine:
	default:
		return errors.Errorf("unknown op %q", s.Op)
	}
	if s.Op != opMine && s.Caller.IsZero() {
		return errors.Errorf("%s: caller required", s.Op)
	}
	return nil
}

func (s *Step) call(c *runtime.Contracts, ctx *farm.CallContext) error {
	pid := pool.PID(s.Pool)
	switch s.Op {
	case opDeposit:
		return c.Farm.Deposit(ctx, pid, s.Amount.Int())
	case opWithdraw:
		return c.Farm.Withdraw(ctx, pid, s.Amount.Int())
	case opHarvest:
		return c.Farm.Harvest(ctx, pid)
	case opEmergencyWithdraw:
		return c.Farm.EmergencyWithdraw(ctx, pid)
	case opUpdatePool:
		return c.Farm.UpdatePool(ctx, pid)
	case opMassUpdatePools:
		return c.Farm.MassUpdatePools(ctx)
	}
	return nil
}

// replay runs script on rt and returns the callers seen, in order of appearance.
func replay(rt *runtime.Runtime, script *Script, progress bool) ([]thor.Address, error) {
	var total int64
	for _, step := range script.Steps {
		total += 1 + int64(step.Blocks)
	}
	bar := pb.New64(total).SetMaxWidth(90)
	if progress {
		bar.Start()
		defer func() { bar.NotPrint = true }()
	}

	var (
		callers []thor.Address
		seen    = make(map[thor.Address]bool)
	)
	for i, step := range script.Steps {
		if step.Op != opMine {
			if !seen[step.Caller] {
				seen[step.Caller] = true
				callers = append(callers, step.Caller)
			}
			err := rt.Exec(step.Op, step.Caller, step.call)
			switch {
			case err == nil && step.ExpectRevert:
				return nil, errors.Errorf("step %d: %s expected to revert", i, step.Op)
			case err != nil && !(step.ExpectRevert && reverts.IsRevertErr(err)):
				return nil, errors.Wrapf(err, "step %d: %s", i, step.Op)
			}
		}
		bar.Increment()
		for range step.Blocks {
			if _, err := rt.Seal(rt.OpenBlock().Time + script.BlockInterval); err != nil {
				return nil, err
			}
			bar.Increment()
		}
	}
	if progress {
		bar.Finish()
	}
	return callers, nil
}

// printPositions writes a table of every caller position with a stake or a reward.
func printPositions(w io.Writer, rt *runtime.Runtime, callers []thor.Address) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "POOL\tUSER\tAMOUNT\tPENDING\tLOCKED\tNEXT HARVEST\tCAN HARVEST\tREWARD BALANCE")

	err := rt.View(func(c *runtime.Contracts, blk xenv.BlockContext) error {
		n, err := c.Farm.PoolLength()
		if err != nil {
			return err
		}
		for pid := range pool.PID(n) {
			for _, user := range callers {
				pos, err := c.Farm.UserInfo(pid, user)
				if err != nil {
					return err
				}
				pending, err := c.Farm.PendingReward(pid, user, blk.Number)
				if err != nil {
					return err
				}
				if pos.Amount.Sign() == 0 && pending.Sign() == 0 && pos.RewardLockedUp.Sign() == 0 {
					continue
				}
				can, err := c.Farm.CanHarvest(pid, user, blk.Time)
				if err != nil {
					return err
				}
				balance, err := c.Reward.BalanceOf(user)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%d\t%v\t%v\t%v\t%v\t%d\t%v\t%v\n",
					pid, user, pos.Amount, pending, pos.RewardLockedUp, pos.NextHarvestUntil, can, balance)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

// sumPending adds up pending rewards of every caller across all pools.
func sumPending(rt *runtime.Runtime, callers []thor.Address) (*big.Int, error) {
	sum := new(big.Int)
	err := rt.View(func(c *runtime.Contracts, blk xenv.BlockContext) error {
		n, err := c.Farm.PoolLength()
		if err != nil {
			return err
		}
		for pid := range pool.PID(n) {
			for _, user := range callers {
				pending, err := c.Farm.PendingReward(pid, user, blk.Number)
				if err != nil {
					return err
				}
				sum.Add(sum, pending)
			}
		}
		return nil
	})
	return sum, err
}
