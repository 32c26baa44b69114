// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/lvldb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/test/datagen"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

type fakeReward struct {
	balances map[thor.Address]*big.Int
	total    *big.Int
	max      *big.Int
}

func newFakeReward(max int64) *fakeReward {
	return &fakeReward{balances: make(map[thor.Address]*big.Int), total: new(big.Int), max: big.NewInt(max)}
}

func (r *fakeReward) Mint(to thor.Address, amount *big.Int) (*big.Int, error) {
	if r.balances[to] == nil {
		r.balances[to] = new(big.Int)
	}
	r.balances[to].Add(r.balances[to], amount)
	r.total.Add(r.total, amount)
	return amount, nil
}

func (r *fakeReward) TotalSupply() (*big.Int, error)   { return r.total, nil }
func (r *fakeReward) MaximumSupply() (*big.Int, error) { return r.max, nil }

func (r *fakeReward) balance(addr thor.Address) string {
	if b := r.balances[addr]; b != nil {
		return b.String()
	}
	return "0"
}

type fakeStaked map[thor.Address]*big.Int

func (f fakeStaked) StakedSupply(asset thor.Address) (*big.Int, error) {
	if v := f[asset]; v != nil {
		return v, nil
	}
	return new(big.Int), nil
}

type fixture struct {
	svc      *Service
	deps     *Deps
	reward   *fakeReward
	staked   fakeStaked
	emission *emission.Controller
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := solidity.NewContext(datagen.RandAddress(), state.New(db))
	ctrl := emission.New(sctx)
	// bounds chosen so the rate stays at 10 while supply is far below the cap
	ctrl.SetBounds(emission.Bounds{Base: big.NewInt(10), Max: big.NewInt(10)})
	ctrl.SetRewardPerBlock(big.NewInt(10))

	reward := newFakeReward(1_000_000_000)
	staked := fakeStaked{}
	return &fixture{
		svc:      New(sctx),
		reward:   reward,
		staked:   staked,
		emission: ctrl,
		deps: &Deps{
			Custody:  sctx.Address(),
			Reward:   reward,
			Staked:   staked,
			Emission: ctrl,
		},
	}
}

func TestAddAndGet(t *testing.T) {
	f := newFixture(t)
	assetA, assetB := datagen.RandAddress(), datagen.RandAddress()

	pid, err := f.svc.Add(&Pool{Asset: assetA, AllocWeight: 100, DepositFeeBP: 400, HarvestInterval: 3600})
	require.NoError(t, err)
	assert.Equal(t, PID(0), pid)

	pid, err = f.svc.Add(&Pool{Asset: assetB, AllocWeight: 50, SupportsBurnQuery: true})
	require.NoError(t, err)
	assert.Equal(t, PID(1), pid)

	_, err = f.svc.Add(&Pool{Asset: assetA, AllocWeight: 1})
	assert.True(t, reverts.IsRevertErr(err))

	n, err := f.svc.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	total, err := f.svc.TotalAllocWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(150), total)

	p, err := f.svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, assetB, p.Asset)
	assert.True(t, p.SupportsBurnQuery)
	assert.Zero(t, p.AccRewardPerShare.Sign())

	found, ok, err := f.svc.Lookup(assetB)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, PID(1), found)

	_, err = f.svc.Get(2)
	assert.Equal(t, reverts.KindNotFound, reverts.AsRevert(err).Kind())
}

func TestSetParamsKeepsTotalWeight(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Add(&Pool{Asset: datagen.RandAddress(), AllocWeight: 100})
	require.NoError(t, err)
	_, err = f.svc.Add(&Pool{Asset: datagen.RandAddress(), AllocWeight: 300})
	require.NoError(t, err)

	require.NoError(t, f.svc.SetParams(0, 20, 100, 60))

	total, err := f.svc.TotalAllocWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(320), total)

	p, err := f.svc.Get(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), p.AllocWeight)
	assert.Equal(t, uint32(100), p.DepositFeeBP)
	assert.Equal(t, uint64(60), p.HarvestInterval)
}

func TestRefreshSoleStaker(t *testing.T) {
	f := newFixture(t)
	asset := datagen.RandAddress()
	_, err := f.svc.Add(&Pool{Asset: asset, AllocWeight: 100})
	require.NoError(t, err)
	f.staked[asset] = big.NewInt(1000)

	p, err := f.svc.Refresh(0, 10, f.deps)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1e11).String(), p.AccRewardPerShare.String())
	assert.Equal(t, uint32(10), p.LastRewardBlock)
	assert.Equal(t, "100", f.reward.balance(f.deps.Custody))

	// same block is a no-op
	p, err = f.svc.Refresh(0, 10, f.deps)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1e11).String(), p.AccRewardPerShare.String())
	assert.Equal(t, "100", f.reward.balance(f.deps.Custody))
}

func TestRefreshIdlePool(t *testing.T) {
	f := newFixture(t)
	asset := datagen.RandAddress()
	_, err := f.svc.Add(&Pool{Asset: asset, AllocWeight: 100})
	require.NoError(t, err)

	p, err := f.svc.Refresh(0, 25, f.deps)
	require.NoError(t, err)
	assert.Equal(t, uint32(25), p.LastRewardBlock)
	assert.Zero(t, p.AccRewardPerShare.Sign())
	assert.Zero(t, f.reward.total.Sign())

	// zero weight also idles
	require.NoError(t, f.svc.SetParams(0, 0, 0, 0))
	f.staked[asset] = big.NewInt(5)
	p, err = f.svc.Refresh(0, 30, f.deps)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), p.LastRewardBlock)
	assert.Zero(t, p.AccRewardPerShare.Sign())
}

func TestRefreshDevFee(t *testing.T) {
	f := newFixture(t)
	asset := datagen.RandAddress()
	dev := datagen.RandAddress()
	_, err := f.svc.Add(&Pool{Asset: asset, AllocWeight: 100})
	require.NoError(t, err)
	f.staked[asset] = big.NewInt(1000)
	f.deps.DevFee = DevFee{Enabled: true, BP: 500, Address: dev}

	_, err = f.svc.Refresh(0, 10, f.deps)
	require.NoError(t, err)
	assert.Equal(t, "5", f.reward.balance(dev))
	assert.Equal(t, "100", f.reward.balance(f.deps.Custody))
}

func TestRefreshUpdatesEmission(t *testing.T) {
	f := newFixture(t)
	asset := datagen.RandAddress()
	_, err := f.svc.Add(&Pool{Asset: asset, AllocWeight: 100})
	require.NoError(t, err)
	f.staked[asset] = big.NewInt(1000)
	f.reward.max = big.NewInt(50)

	_, err = f.svc.Refresh(0, 10, f.deps)
	require.NoError(t, err)

	// supply 100 > cap 50 halts emission for the next block
	rate, err := f.emission.RewardPerBlock()
	require.NoError(t, err)
	assert.Zero(t, rate.Sign())
}

func TestRefreshSplitsByWeight(t *testing.T) {
	f := newFixture(t)
	a, b := datagen.RandAddress(), datagen.RandAddress()
	_, err := f.svc.Add(&Pool{Asset: a, AllocWeight: 300})
	require.NoError(t, err)
	_, err = f.svc.Add(&Pool{Asset: b, AllocWeight: 100})
	require.NoError(t, err)
	f.staked[a] = big.NewInt(1000)
	f.staked[b] = big.NewInt(1000)

	pa, err := f.svc.Refresh(0, 4, f.deps)
	require.NoError(t, err)
	pb, err := f.svc.Refresh(1, 4, f.deps)
	require.NoError(t, err)

	// 4 blocks * 10 = 40: 30 to a and 10 to b
	assert.Equal(t, big.NewInt(3e10).String(), pa.AccRewardPerShare.String())
	assert.Equal(t, big.NewInt(1e10).String(), pb.AccRewardPerShare.String())
}

func TestPreview(t *testing.T) {
	f := newFixture(t)
	asset := datagen.RandAddress()
	_, err := f.svc.Add(&Pool{Asset: asset, AllocWeight: 100})
	require.NoError(t, err)

	acc, err := f.svc.Preview(0, 10, big.NewInt(1000), big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1e11).String(), acc.String())

	acc, err = f.svc.Preview(0, 10, new(big.Int), big.NewInt(10))
	require.NoError(t, err)
	assert.Zero(t, acc.Sign())

	// nothing was minted or stored
	assert.Zero(t, f.reward.total.Sign())
	p, err := f.svc.Get(0)
	require.NoError(t, err)
	assert.Zero(t, p.AccRewardPerShare.Sign())
}

func TestRefreshMonotonic(t *testing.T) {
	f := newFixture(t)
	asset := datagen.RandAddress()
	_, err := f.svc.Add(&Pool{Asset: asset, AllocWeight: 100})
	require.NoError(t, err)

	last := new(big.Int)
	block := uint32(0)
	for range 200 {
		block += uint32(datagen.RandIntN(5))
		f.staked[asset] = big.NewInt(int64(datagen.RandIntN(10_000)))
		p, err := f.svc.Refresh(0, block, f.deps)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.AccRewardPerShare.Cmp(last), 0)
		last = p.AccRewardPerShare
	}
}
