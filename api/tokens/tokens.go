// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/utils"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

type RewardToken struct {
	Address       thor.Address          `json:"address"`
	TotalSupply   *math.HexOrDecimal256 `json:"totalSupply"`
	MaximumSupply *math.HexOrDecimal256 `json:"maximumSupply"`
	BurnAddress   thor.Address          `json:"burnAddress"`
}

type Balance struct {
	Token   thor.Address          `json:"token"`
	Address thor.Address          `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func (t *Tokens) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	var result RewardToken
	if err := t.rt.View(func(c *runtime.Contracts, _ xenv.BlockContext) error {
		total, err := c.Reward.TotalSupply()
		if err != nil {
			return err
		}
		max, err := c.Reward.MaximumSupply()
		if err != nil {
			return err
		}
		burn, err := c.Reward.BurnAddress()
		if err != nil {
			return err
		}
		result = RewardToken{
			Address:       c.Reward.Address(),
			TotalSupply:   utils.Amount(total),
			MaximumSupply: utils.Amount(max),
			BurnAddress:   burn,
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (t *Tokens) handleGetRewardBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	var result Balance
	if err := t.rt.View(func(c *runtime.Contracts, _ xenv.BlockContext) error {
		bal, err := c.Reward.BalanceOf(addr)
		if err != nil {
			return err
		}
		result = Balance{c.Reward.Address(), addr, utils.Amount(bal)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (t *Tokens) handleGetAssetBalance(w http.ResponseWriter, req *http.Request) error {
	assetAddr, err := utils.ParseAddress(mux.Vars(req)["asset"], "asset")
	if err != nil {
		return err
	}
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	var result Balance
	if err := t.rt.View(func(c *runtime.Contracts, _ xenv.BlockContext) error {
		a, err := c.Asset(assetAddr)
		if err != nil {
			return err
		}
		bal, err := a.BalanceOf(addr)
		if err != nil {
			return err
		}
		result = Balance{assetAddr, addr, utils.Amount(bal)}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/reward").
		Methods(http.MethodGet).
		Name("GET /tokens/reward").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetReward))
	sub.Path("/reward/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/reward/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetRewardBalance))
	sub.Path("/assets/{asset}/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/assets/{asset}/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAssetBalance))
}
