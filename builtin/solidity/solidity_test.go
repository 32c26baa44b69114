// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/lvldb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/test/datagen"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr1  thor.Address
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, thor.Bytes32{1})

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	u.Set(big.NewInt(100))
	require.NoError(t, u.Add(big.NewInt(50)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150), v)

	require.NoError(t, u.Sub(big.NewInt(200)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign(), "sub saturates at zero")
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	address := NewAddress(ctx, thor.Bytes32{2})

	value := datagen.RandAddress()
	address.Set(&value)
	got, err := address.Get()
	require.NoError(t, err)
	assert.Equal(t, value, got)

	address.Set(nil)
	got, err = address.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	assert.Equal(t, thor.Address{1}, ctx.Address())
	assert.NotNil(t, ctx.State())
}

func TestBool(t *testing.T) {
	ctx := newContext(t)
	b := NewBool(ctx, thor.Bytes32{3})

	v, err := b.Get()
	require.NoError(t, err)
	assert.False(t, v)

	b.Set(true)
	v, err = b.Get()
	require.NoError(t, err)
	assert.True(t, v)

	b.Set(false)
	v, err = b.Get()
	require.NoError(t, err)
	assert.False(t, v)
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[thor.Bytes32, *TestStruct](ctx, thor.Bytes32{4})

	key := datagen.RandBytes32()

	empty, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, empty, "unset pointer values decode into a fresh instance")
	assert.Equal(t, uint64(0), empty.Field1)

	value := &TestStruct{Field1: 7, Amount: big.NewInt(1e18), Addr1: datagen.RandAddress()}
	require.NoError(t, m.Set(key, value))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMappingScalar(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[thor.Address, uint64](ctx, thor.Bytes32{5})

	addr := datagen.RandAddress()
	v, err := m.Get(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, m.Set(addr, 42))
	v, err = m.Get(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestMapping_DecodeError(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[thor.Bytes32, *TestStruct](ctx, thor.Bytes32{6})

	key := thor.Bytes32{7}
	ctx.State().SetRawStorage(ctx.Address(), m.position(key), rlp.RawValue{0xFF})

	_, err := m.Get(key)
	assert.Error(t, err)
}
