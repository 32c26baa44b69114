// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain runs an in-memory farm node for tests.
package testchain

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/genesis"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/logdb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/lvldb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// Chain is an in-memory node.
type Chain struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	rt      *runtime.Runtime
	genesis *genesis.Config
}

// NewDefault creates a chain from the dev network genesis.
func NewDefault() (*Chain, error) {
	return NewWith(genesis.NewDevnet())
}

// NewWith creates a chain from gen.
func NewWith(gen *genesis.Config) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	rt, err := runtime.New(db, logDB, gen)
	if err != nil {
		logDB.Close()
		db.Close()
		return nil, err
	}
	return &Chain{db, logDB, rt, gen}, nil
}

func (c *Chain) Runtime() *runtime.Runtime      { return c.rt }
func (c *Chain) LogDB() *logdb.LogDB            { return c.logDB }
func (c *Chain) Genesis() *genesis.Config       { return c.genesis }
func (c *Chain) Owner() thor.Address            { return c.genesis.Farm.Owner }
func (c *Chain) Accounts() []genesis.DevAccount { return genesis.DevAccounts() }

// MintBlock seals the open block, one block interval after it.
func (c *Chain) MintBlock() error {
	_, err := c.rt.Seal(c.rt.OpenBlock().Time + thor.BlockInterval)
	return err
}

// MintBlocks seals n blocks.
func (c *Chain) MintBlocks(n int) error {
	for range n {
		if err := c.MintBlock(); err != nil {
			return err
		}
	}
	return nil
}

// Deposit stakes amount on behalf of user.
func (c *Chain) Deposit(user thor.Address, pid pool.PID, amount *big.Int) error {
	return c.rt.Exec("deposit", user, func(rc *runtime.Contracts, ctx *farm.CallContext) error {
		return rc.Farm.Deposit(ctx, pid, amount)
	})
}

// Close releases the databases.
func (c *Chain) Close() {
	c.logDB.Close()
	c.db.Close()
}
