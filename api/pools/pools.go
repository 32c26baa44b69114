// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/utils"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

func (p *Pools) handleGetPools(w http.ResponseWriter, req *http.Request) error {
	var pools []*Pool
	if err := p.rt.View(func(c *runtime.Contracts, _ xenv.BlockContext) error {
		n, err := c.Farm.PoolLength()
		if err != nil {
			return err
		}
		pools = make([]*Pool, 0, n)
		for pid := range pool.PID(n) {
			info, err := c.Farm.PoolInfo(pid)
			if err != nil {
				return err
			}
			pools = append(pools, convertPool(pid, info))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, pools)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.ParsePID(mux.Vars(req)["pid"])
	if err != nil {
		return err
	}
	var result *Pool
	if err := p.rt.View(func(c *runtime.Contracts, _ xenv.BlockContext) error {
		info, err := c.Farm.PoolInfo(pid)
		if err != nil {
			return err
		}
		result = convertPool(pid, info)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (p *Pools) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.ParsePID(mux.Vars(req)["pid"])
	if err != nil {
		return err
	}
	user, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	var result *Position
	if err := p.rt.View(func(c *runtime.Contracts, blk xenv.BlockContext) error {
		if _, err := c.Farm.PoolInfo(pid); err != nil {
			return err
		}
		pos, err := c.Farm.UserInfo(pid, user)
		if err != nil {
			return err
		}
		pending, err := c.Farm.PendingReward(pid, user, blk.Number)
		if err != nil {
			return err
		}
		result = convertPosition(pos, blk.Time)
		result.Pending = utils.Amount(pending)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

// call parses the request and runs op of the caller.
func (p *Pools) call(op string, needAmount bool, fn func(f *farm.Farm, ctx *farm.CallContext, pid pool.PID, amount *big.Int) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var pid pool.PID
		if s, ok := mux.Vars(req)["pid"]; ok {
			var err error
			if pid, err = utils.ParsePID(s); err != nil {
				return err
			}
		}
		var body CallRequest
		if err := utils.ParseJSON(req.Body, &body); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		if body.Caller.IsZero() {
			return utils.BadRequest(errors.New("body: caller required"))
		}
		if needAmount && body.Amount == nil {
			return utils.BadRequest(errors.New("body: amount required"))
		}
		amount := utils.BigOf(body.Amount)
		if amount.Sign() < 0 {
			return utils.BadRequest(errors.New("body: negative amount"))
		}

		var block uint32
		if err := p.rt.Exec(op, body.Caller, func(c *runtime.Contracts, ctx *farm.CallContext) error {
			block = ctx.Block.Number
			return fn(c.Farm, ctx, pid, amount)
		}); err != nil {
			return err
		}
		return utils.WriteJSON(w, &CallResult{Block: block})
	}
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("/update").
		Methods(http.MethodPost).
		Name("POST /pools/update").
		HandlerFunc(utils.WrapHandlerFunc(p.call("massUpdatePools", false,
			func(f *farm.Farm, ctx *farm.CallContext, _ pool.PID, _ *big.Int) error {
				return f.MassUpdatePools(ctx)
			})))
	sub.Path("/{pid}").
		Methods(http.MethodGet).
		Name("GET /pools/{pid}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{pid}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{pid}/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUser))
	sub.Path("/{pid}/deposit").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/deposit").
		HandlerFunc(utils.WrapHandlerFunc(p.call("deposit", true,
			func(f *farm.Farm, ctx *farm.CallContext, pid pool.PID, amount *big.Int) error {
				return f.Deposit(ctx, pid, amount)
			})))
	sub.Path("/{pid}/withdraw").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.call("withdraw", true,
			func(f *farm.Farm, ctx *farm.CallContext, pid pool.PID, amount *big.Int) error {
				return f.Withdraw(ctx, pid, amount)
			})))
	sub.Path("/{pid}/harvest").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/harvest").
		HandlerFunc(utils.WrapHandlerFunc(p.call("harvest", false,
			func(f *farm.Farm, ctx *farm.CallContext, pid pool.PID, _ *big.Int) error {
				return f.Harvest(ctx, pid)
			})))
	sub.Path("/{pid}/emergency-withdraw").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/emergency-withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.call("emergencyWithdraw", false,
			func(f *farm.Farm, ctx *farm.CallContext, pid pool.PID, _ *big.Int) error {
				return f.EmergencyWithdraw(ctx, pid)
			})))
	sub.Path("/{pid}/update").
		Methods(http.MethodPost).
		Name("POST /pools/{pid}/update").
		HandlerFunc(utils.WrapHandlerFunc(p.call("updatePool", false,
			func(f *farm.Farm, ctx *farm.CallContext, pid pool.PID, _ *big.Int) error {
				return f.UpdatePool(ctx, pid)
			})))
}
