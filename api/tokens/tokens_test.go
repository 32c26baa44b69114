// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/utils"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/genesis"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/test/testchain"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

func get(t *testing.T, url string, v any) int {
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(data, v))
	}
	return res.StatusCode
}

func TestTokens(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	New(chain.Runtime()).Mount(router, "/tokens")
	ts := httptest.NewServer(router)
	defer ts.Close()

	user := chain.Accounts()[2].Address
	require.NoError(t, chain.Deposit(user, 0, big.NewInt(1e18)))
	require.NoError(t, chain.MintBlocks(2))
	require.NoError(t, chain.Deposit(user, 0, new(big.Int)))

	var reward RewardToken
	require.Equal(t, http.StatusOK, get(t, ts.URL+"/tokens/reward", &reward))
	assert.Equal(t, genesis.DevRewardToken, reward.Address)
	assert.Equal(t, thor.BurnAddress, reward.BurnAddress)
	assert.Positive(t, utils.BigOf(reward.TotalSupply).Sign())

	var bal Balance
	require.Equal(t, http.StatusOK, get(t, ts.URL+"/tokens/reward/balances/"+user.String(), &bal))
	assert.Equal(t, user, bal.Address)
	assert.Positive(t, utils.BigOf(bal.Balance).Sign())

	require.Equal(t, http.StatusOK, get(t, ts.URL+"/tokens/assets/"+genesis.DevAsset.String()+"/balances/"+genesis.DevFarm.String(), &bal))
	assert.Equal(t, "1000000000000000000", utils.BigOf(bal.Balance).String())
	assert.Equal(t, genesis.DevAsset, bal.Token)

	assert.Equal(t, http.StatusNotFound, get(t, ts.URL+"/tokens/assets/"+genesis.DevRewardToken.String()+"/balances/"+user.String(), nil))
	assert.Equal(t, http.StatusBadRequest, get(t, ts.URL+"/tokens/reward/balances/0xzz", nil))
}
