// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/utils"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

// Emission is the current reward schedule.
type Emission struct {
	RewardPerBlock   *math.HexOrDecimal256 `json:"rewardPerBlock"`
	BaseRate         *math.HexOrDecimal256 `json:"baseRate"`
	MaxRate          *math.HexOrDecimal256 `json:"maxRate"`
	TotalSupply      *math.HexOrDecimal256 `json:"totalSupply"`
	MaximumSupply    *math.HexOrDecimal256 `json:"maximumSupply"`
	TotalAllocWeight uint64                `json:"totalAllocWeight"`
	StartBlock       uint32                `json:"startBlock"`
	BlockNumber      uint32                `json:"blockNumber"`
}

type API struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *API {
	return &API{rt}
}

func (a *API) handleGetEmission(w http.ResponseWriter, req *http.Request) error {
	var result Emission
	if err := a.rt.View(func(c *runtime.Contracts, blk xenv.BlockContext) error {
		rate, err := c.Farm.RewardPerBlock()
		if err != nil {
			return err
		}
		cfg, err := c.Farm.Config()
		if err != nil {
			return err
		}
		weight, err := c.Farm.TotalAllocWeight()
		if err != nil {
			return err
		}
		total, err := c.Reward.TotalSupply()
		if err != nil {
			return err
		}
		max, err := c.Reward.MaximumSupply()
		if err != nil {
			return err
		}
		result = Emission{
			RewardPerBlock:   utils.Amount(rate),
			BaseRate:         utils.Amount(cfg.Emission.Base),
			MaxRate:          utils.Amount(cfg.Emission.Max),
			TotalSupply:      utils.Amount(total),
			MaximumSupply:    utils.Amount(max),
			TotalAllocWeight: weight,
			StartBlock:       cfg.StartBlock,
			BlockNumber:      blk.Number,
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &result)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /emission").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetEmission))
}
