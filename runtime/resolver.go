// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/asset"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// assetResolver opens the assets registered at genesis.
type assetResolver struct {
	st    *state.State
	known map[thor.Address]struct{}
}

func newAssetResolver(st *state.State, addrs []thor.Address) *assetResolver {
	known := make(map[thor.Address]struct{}, len(addrs))
	for _, addr := range addrs {
		known[addr] = struct{}{}
	}
	return &assetResolver{st, known}
}

func (r *assetResolver) Asset(addr thor.Address) (farm.StakedAsset, error) {
	h, err := r.Open(addr)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Open returns the full handle of a registered asset.
func (r *assetResolver) Open(addr thor.Address) (asset.Handle, error) {
	if _, ok := r.known[addr]; !ok {
		return nil, reverts.NotFound("asset: unknown")
	}
	return asset.Open(addr, r.st)
}
