// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime hosts the farm. Calls are executed one at a time inside the
// open block; a failed call leaves no trace. Sealing a block flushes the state
// journal to the kv store and the block's events to the log db.
package runtime

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/asset"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/token"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/co"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/genesis"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/kv"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/logdb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

var logger = log.WithContext("pkg", "runtime")

const (
	stateBucket = kv.Bucket("s")
	metaBucket  = kv.Bucket("m")
)

var bestBlockKey = []byte("best")

// Contracts are the builtins bound to the runtime state.
type Contracts struct {
	Farm   *farm.Farm
	Reward *token.Token
	assets *assetResolver
}

// Asset opens a registered staking asset.
func (c *Contracts) Asset(addr thor.Address) (asset.Handle, error) {
	return c.assets.Open(addr)
}

// Runtime executes calls against the farm.
type Runtime struct {
	mu        sync.Mutex
	st        *state.State
	meta      kv.Store
	logDB     *logdb.LogDB
	contracts *Contracts

	best    xenv.BlockContext // last sealed block
	open    xenv.BlockContext
	batch   *logdb.BlockBatch
	pending []*logdb.Log // events of the running call

	newBlock co.Signal
}

// New creates the runtime over db. The genesis is applied when db is empty.
func New(db kv.Store, logDB *logdb.LogDB, gen *genesis.Config) (*Runtime, error) {
	st := state.New(stateBucket.NewStore(db))
	rt := &Runtime{
		st:    st,
		meta:  metaBucket.NewStore(db),
		logDB: logDB,
	}
	reward := token.New(gen.RewardToken.Address, st)
	assets := newAssetResolver(st, gen.AssetAddresses())
	rt.contracts = &Contracts{
		Farm:   farm.New(gen.Farm.Address, st, reward, assets, emitter{rt}),
		Reward: reward,
		assets: assets,
	}

	best, found, err := rt.loadBest()
	if err != nil {
		return nil, err
	}
	if found {
		rt.best = best
		rt.open = best.Next(best.Time)
		rt.batch = logDB.Prepare(rt.open)
		metricBestBlock().Set(int64(best.Number))
		logger.Info("runtime loaded", "best", best.Number)
		return rt, nil
	}

	blk, err := gen.Builder(reward, rt.contracts.Farm).Build(st)
	if err != nil {
		return nil, errors.Wrap(err, "build genesis")
	}
	rt.open = blk
	rt.batch = logDB.Prepare(blk).Insert(gen.Farm.Owner, rt.pending...)
	rt.pending = nil
	if _, err := rt.seal(blk.Time); err != nil {
		return nil, errors.Wrap(err, "seal genesis")
	}
	logger.Info("genesis applied", "time", blk.Time)
	return rt, nil
}

type emitter struct{ rt *Runtime }

func (e emitter) Emit(ev *farm.Event) {
	e.rt.pending = append(e.rt.pending, &logdb.Log{
		Address: ev.Address,
		Topics:  ev.Topics,
		Data:    ev.Data,
	})
}

func (rt *Runtime) loadBest() (xenv.BlockContext, bool, error) {
	data, err := rt.meta.Get(bestBlockKey)
	if err != nil {
		if rt.meta.IsNotFound(err) {
			return xenv.BlockContext{}, false, nil
		}
		return xenv.BlockContext{}, false, err
	}
	var blk xenv.BlockContext
	if err := rlp.DecodeBytes(data, &blk); err != nil {
		return xenv.BlockContext{}, false, errors.Wrap(err, "decode best block")
	}
	return blk, true, nil
}

// Exec runs fn as the call op of caller in the open block. Any error reverts all
// of its effects, events included.
func (rt *Runtime) Exec(op string, caller thor.Address, fn func(c *Contracts, ctx *farm.CallContext) error) (err error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	start := time.Now()
	panicked := true
	defer func() {
		result := "ok"
		switch {
		case panicked:
			result = "panic"
		case err == nil:
		case reverts.IsRevertErr(err):
			result = "revert"
		default:
			result = "error"
		}
		metricCallsCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
		metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
	}()

	rt.pending = rt.pending[:0]
	checkpoint := rt.st.NewCheckpoint()
	defer func() {
		if panicked {
			rt.st.RevertTo(checkpoint)
			rt.pending = rt.pending[:0]
			logger.Error("call panicked", "op", op, "caller", caller)
		}
	}()

	err = fn(rt.contracts, &farm.CallContext{Caller: caller, Block: rt.open})
	panicked = false
	if err != nil {
		rt.st.RevertTo(checkpoint)
		rt.pending = rt.pending[:0]
		logger.Debug("call reverted", "op", op, "caller", caller, "err", err)
		return err
	}
	rt.batch.Insert(caller, rt.pending...)
	rt.pending = nil
	return nil
}

// View runs fn against the state of the open block. fn must not write.
func (rt *Runtime) View(fn func(c *Contracts, blk xenv.BlockContext) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return fn(rt.contracts, rt.open)
}

// Seal closes the open block and opens the next one at time t.
func (rt *Runtime) Seal(t uint64) (xenv.BlockContext, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return rt.seal(t)
}

func (rt *Runtime) seal(t uint64) (xenv.BlockContext, error) {
	sealed := rt.open
	stage := rt.st.Stage()
	changes := stage.Len()
	if err := stage.Commit(); err != nil {
		return xenv.BlockContext{}, err
	}
	events := rt.batch.Len()
	if err := rt.batch.Commit(); err != nil {
		return xenv.BlockContext{}, errors.Wrap(err, "write events")
	}
	data, err := rlp.EncodeToBytes(&sealed)
	if err != nil {
		return xenv.BlockContext{}, err
	}
	if err := rt.meta.Put(bestBlockKey, data); err != nil {
		return xenv.BlockContext{}, errors.Wrap(err, "save best block")
	}

	rt.best = sealed
	rt.open = sealed.Next(t)
	rt.batch = rt.logDB.Prepare(rt.open)

	metricBestBlock().Set(int64(sealed.Number))
	metricBlockEvents().Observe(int64(events))
	logger.Info("block sealed", "number", sealed.Number, "time", sealed.Time, "changes", changes, "events", events)

	rt.newBlock.Broadcast()
	return sealed, nil
}

// BestBlock returns the last sealed block.
func (rt *Runtime) BestBlock() xenv.BlockContext {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return rt.best
}

// OpenBlock returns the block new calls execute in.
func (rt *Runtime) OpenBlock() xenv.BlockContext {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return rt.open
}

// NewBlockWaiter returns a waiter fired on every sealed block.
func (rt *Runtime) NewBlockWaiter() co.Waiter {
	return rt.newBlock.NewWaiter()
}

// LogDB returns the event log.
func (rt *Runtime) LogDB() *logdb.LogDB {
	return rt.logDB
}
