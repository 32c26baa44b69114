// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

const testABI = `[
	{"anonymous":false,"type":"event","name":"Deposit","inputs":[
		{"indexed":true,"name":"user","type":"address"},
		{"indexed":true,"name":"pid","type":"uint256"},
		{"indexed":false,"name":"amount","type":"uint256"}
	]}
]`

func TestEventRoundTrip(t *testing.T) {
	a, err := New([]byte(testABI))
	require.NoError(t, err)

	ev, found := a.EventByName("Deposit")
	require.True(t, found)
	assert.Equal(t, "Deposit", ev.Name())
	assert.Equal(t, thor.Keccak256([]byte("Deposit(address,uint256,uint256)")), ev.ID())

	byID, found := a.EventByID(ev.ID())
	require.True(t, found)
	assert.Same(t, ev, byID)

	user := thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	topics, data, err := ev.Encode(user, big.NewInt(3), big.NewInt(1000))
	require.NoError(t, err)
	require.Len(t, topics, 3)
	assert.Equal(t, thor.BytesToBytes32(user.Bytes()), topics[1])
	assert.Equal(t, thor.BytesToBytes32([]byte{3}), topics[2])
	assert.Len(t, data, 32)

	decoded, err := ev.Decode(topics, data)
	require.NoError(t, err)
	assert.Equal(t, common.Address(user), decoded["user"])
	assert.Equal(t, "3", decoded["pid"].(*big.Int).String())
	assert.Equal(t, "1000", decoded["amount"].(*big.Int).String())

	_, _, err = ev.Encode(user)
	assert.Error(t, err)
	_, err = ev.Decode(topics[1:], data)
	assert.Error(t, err)
}
