// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin exposes the owner gated administration of the farm. Callers are
// not authenticated here; the farm checks the caller against its configuration.
package admin

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/utils"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

type Admin struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Admin {
	return &Admin{rt}
}

func parseBody(req *http.Request, v any, caller *thor.Address) error {
	if err := utils.ParseJSON(req.Body, v); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if caller.IsZero() {
		return utils.BadRequest(errors.New("body: caller required"))
	}
	return nil
}

// exec runs a call and responds with the block it was included in.
func (a *Admin) exec(w http.ResponseWriter, op string, caller thor.Address, fn func(f *farm.Farm, ctx *farm.CallContext) error) error {
	var block uint32
	if err := a.rt.Exec(op, caller, func(c *runtime.Contracts, ctx *farm.CallContext) error {
		block = ctx.Block.Number
		return fn(c.Farm, ctx)
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"block": block})
}

func (a *Admin) handleGetConfig(w http.ResponseWriter, req *http.Request) error {
	var result *Config
	if err := a.rt.View(func(c *runtime.Contracts, _ xenv.BlockContext) error {
		cfg, err := c.Farm.Config()
		if err != nil {
			return err
		}
		result = &Config{
			Owner:          cfg.Owner,
			DevAddress:     cfg.DevAddress,
			FeeAddress:     cfg.FeeAddress,
			DevFeeEnabled:  cfg.DevFee.Enabled,
			DevFeeBP:       cfg.DevFee.BP,
			StartBlock:     cfg.StartBlock,
			EmissionBase:   utils.Amount(cfg.Emission.Base),
			EmissionMax:    utils.Amount(cfg.Emission.Max),
			RewardPerBlock: utils.Amount(cfg.RewardPerBlock),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (a *Admin) handleAddPool(w http.ResponseWriter, req *http.Request) error {
	var body AddPoolRequest
	if err := parseBody(req, &body, &body.Caller); err != nil {
		return err
	}
	var result PoolResult
	if err := a.rt.Exec("addPool", body.Caller, func(c *runtime.Contracts, ctx *farm.CallContext) error {
		pid, err := c.Farm.AddPool(ctx, body.Asset, body.Weight, body.DepositFeeBP, body.HarvestInterval, body.WithUpdate)
		if err != nil {
			return err
		}
		result = PoolResult{PID: uint64(pid), Block: ctx.Block.Number}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (a *Admin) handleSetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.ParsePID(mux.Vars(req)["pid"])
	if err != nil {
		return err
	}
	var body SetPoolRequest
	if err := parseBody(req, &body, &body.Caller); err != nil {
		return err
	}
	return a.exec(w, "setPool", body.Caller, func(f *farm.Farm, ctx *farm.CallContext) error {
		return f.SetPool(ctx, pid, body.Weight, body.DepositFeeBP, body.HarvestInterval, body.WithUpdate)
	})
}

func (a *Admin) handleSetEmission(w http.ResponseWriter, req *http.Request) error {
	var body EmissionRequest
	if err := parseBody(req, &body, &body.Caller); err != nil {
		return err
	}
	if body.Base == nil || body.Max == nil {
		return utils.BadRequest(errors.New("body: base and max required"))
	}
	bounds := emission.Bounds{Base: utils.BigOf(body.Base), Max: utils.BigOf(body.Max)}
	return a.exec(w, "setEmissionBounds", body.Caller, func(f *farm.Farm, ctx *farm.CallContext) error {
		return f.SetEmissionBounds(ctx, bounds)
	})
}

func (a *Admin) handleSetDevFee(w http.ResponseWriter, req *http.Request) error {
	var body DevFeeRequest
	if err := parseBody(req, &body, &body.Caller); err != nil {
		return err
	}
	return a.exec(w, "setDevFee", body.Caller, func(f *farm.Farm, ctx *farm.CallContext) error {
		return f.SetDevFee(ctx, farm.DevFee{Enabled: body.Enabled, BP: body.BasisPoints})
	})
}

func (a *Admin) handleSetAddress(op string, set func(f *farm.Farm, ctx *farm.CallContext, addr thor.Address) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		var body AddressRequest
		if err := parseBody(req, &body, &body.Caller); err != nil {
			return err
		}
		return a.exec(w, op, body.Caller, func(f *farm.Farm, ctx *farm.CallContext) error {
			return set(f, ctx, body.Address)
		})
	}
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /admin/config").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetConfig))
	sub.Path("/pools").
		Methods(http.MethodPost).
		Name("POST /admin/pools").
		HandlerFunc(utils.WrapHandlerFunc(a.handleAddPool))
	sub.Path("/pools/{pid}").
		Methods(http.MethodPut).
		Name("PUT /admin/pools/{pid}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetPool))
	sub.Path("/emission").
		Methods(http.MethodPut).
		Name("PUT /admin/emission").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetEmission))
	sub.Path("/dev-fee").
		Methods(http.MethodPut).
		Name("PUT /admin/dev-fee").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetDevFee))
	sub.Path("/owner").
		Methods(http.MethodPut).
		Name("PUT /admin/owner").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetAddress("transferOwnership", (*farm.Farm).TransferOwnership)))
	sub.Path("/dev-address").
		Methods(http.MethodPut).
		Name("PUT /admin/dev-address").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetAddress("setDevAddress", (*farm.Farm).SetDevAddress)))
	sub.Path("/fee-address").
		Methods(http.MethodPut).
		Name("PUT /admin/fee-address").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetAddress("setFeeAddress", (*farm.Farm).SetFeeAddress)))
}
