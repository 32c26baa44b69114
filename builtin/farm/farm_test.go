// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/asset"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/accmath"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/token"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/lvldb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/test/datagen"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

type resolver map[thor.Address]asset.Handle

func (r resolver) Asset(addr thor.Address) (StakedAsset, error) {
	if a, ok := r[addr]; ok {
		return a, nil
	}
	return nil, reverts.NotFound("asset: unknown")
}

type recorder struct {
	events []*Event
}

func (r *recorder) Emit(ev *Event) { r.events = append(r.events, ev) }

func (r *recorder) names(t *testing.T) []string {
	var names []string
	for _, ev := range r.events {
		name, _, err := DecodeEvent(ev.Topics, ev.Data)
		require.NoError(t, err)
		names = append(names, name)
	}
	return names
}

type testFarm struct {
	*Farm
	t      *testing.T
	st     *state.State
	reward *token.Token
	assets resolver
	events *recorder
	owner  thor.Address
	dev    thor.Address
	feeTo  thor.Address
}

func newTestFarm(t *testing.T) *testFarm {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db)

	reward := token.New(datagen.RandAddress(), st)
	reward.Initialize(big.NewInt(1_000_000_000), thor.BurnAddress)

	tf := &testFarm{
		t:      t,
		st:     st,
		reward: reward,
		assets: resolver{},
		events: &recorder{},
		owner:  datagen.RandAddress(),
		dev:    datagen.RandAddress(),
		feeTo:  datagen.RandAddress(),
	}
	tf.Farm = New(datagen.RandAddress(), st, reward, tf.assets, tf.events)
	require.NoError(t, tf.Initialize(Config{
		Owner:      tf.owner,
		DevAddress: tf.dev,
		FeeAddress: tf.feeTo,
		// supply stays far below the cap, so the rate sits at the ceiling of 10
		Emission:       emission.Bounds{Base: big.NewInt(1), Max: big.NewInt(10)},
		RewardPerBlock: big.NewInt(10),
	}))
	return tf
}

// call runs fn atomically, like the runtime does.
func (tf *testFarm) call(fn func() error) error {
	cp := tf.st.NewCheckpoint()
	err := fn()
	if err != nil {
		tf.st.RevertTo(cp)
	}
	return err
}

func (tf *testFarm) newAsset(burnBP uint32, holders map[thor.Address]int64) thor.Address {
	a := asset.New(datagen.RandAddress(), tf.st)
	require.NoError(tf.t, a.SetBurnBP(burnBP))
	for h, amount := range holders {
		_, err := a.Mint(h, big.NewInt(amount))
		require.NoError(tf.t, err)
	}
	h, err := asset.Open(a.Address(), tf.st)
	require.NoError(tf.t, err)
	tf.assets[a.Address()] = h
	return a.Address()
}

func (tf *testFarm) addPool(ctx *CallContext, assetAddr thor.Address, weight uint64, feeBP uint32, interval uint64) pool.PID {
	ownerCtx := &CallContext{Caller: tf.owner, Block: ctx.Block}
	pid, err := tf.AddPool(ownerCtx, assetAddr, weight, feeBP, interval, false)
	require.NoError(tf.t, err)
	return pid
}

func (tf *testFarm) assetBalance(assetAddr, holder thor.Address) string {
	b, err := tf.assets[assetAddr].BalanceOf(holder)
	require.NoError(tf.t, err)
	return b.String()
}

func (tf *testFarm) rewardBalance(holder thor.Address) string {
	b, err := tf.reward.BalanceOf(holder)
	require.NoError(tf.t, err)
	return b.String()
}

func at(user thor.Address, block uint32, time uint64) *CallContext {
	return &CallContext{Caller: user, Block: xenv.BlockContext{Number: block, Time: time}}
}

func TestSoleStakerCapturesPoolReward(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 0, 0)

	require.NoError(t, tf.Deposit(at(user, 0, 0), pid, big.NewInt(1000)))

	pending, err := tf.PendingReward(pid, user, 10)
	require.NoError(t, err)
	assert.Equal(t, "100", pending.String())

	require.NoError(t, tf.UpdatePool(at(user, 10, 30), pid))
	p, err := tf.PoolInfo(pid)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1e11).String(), p.AccRewardPerShare.String())
	assert.Equal(t, "100", tf.rewardBalance(tf.Address()))

	require.NoError(t, tf.Harvest(at(user, 10, 30), pid))
	assert.Equal(t, "100", tf.rewardBalance(user))
	assert.Equal(t, "0", tf.rewardBalance(tf.Address()))

	pos, err := tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.Equal(t, accmath.Accrued(pos.Amount, p.AccRewardPerShare).String(), pos.RewardDebt.String())
}

func TestDepositFee(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 600, 0)

	require.NoError(t, tf.Deposit(at(user, 1, 3), pid, big.NewInt(1000)))

	pos, err := tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.Equal(t, "940", pos.Amount.String())
	assert.Equal(t, "60", tf.assetBalance(lp, tf.feeTo))
	assert.Equal(t, "940", tf.assetBalance(lp, tf.Address()))

	// the event carries the gross amount
	last := tf.events.events[len(tf.events.events)-1]
	name, fields, err := DecodeEvent(last.Topics, last.Data)
	require.NoError(t, err)
	assert.Equal(t, EventDeposit, name)
	assert.Equal(t, "1000", fields["amount"].(*big.Int).String())
}

func TestDepositBurnAwareCredit(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(200, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 600, 0)

	p, err := tf.PoolInfo(pid)
	require.NoError(t, err)
	assert.True(t, p.SupportsBurnQuery)

	require.NoError(t, tf.Deposit(at(user, 1, 3), pid, big.NewInt(1000)))

	// net 980 after the 2% burn, 6% fee on the net is 58
	pos, err := tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.Equal(t, "922", pos.Amount.String())
	assert.Equal(t, "922", tf.assetBalance(lp, tf.Address()))
	// the fee transfer burns too
	assert.Equal(t, "57", tf.assetBalance(lp, tf.feeTo))
}

func TestWithdraw(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 0, 0)
	require.NoError(t, tf.Deposit(at(user, 0, 0), pid, big.NewInt(1000)))

	before := tf.st.Stage().Hash()
	err := tf.call(func() error { return tf.Withdraw(at(user, 10, 30), pid, big.NewInt(1001)) })
	assert.EqualError(t, err, "withdraw: not good")
	assert.True(t, reverts.IsRevertErr(err))
	assert.Equal(t, before, tf.st.Stage().Hash())

	require.NoError(t, tf.Withdraw(at(user, 10, 30), pid, big.NewInt(400)))
	pos, err := tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.Equal(t, "600", pos.Amount.String())
	assert.Equal(t, "400", tf.assetBalance(lp, user))
	assert.Equal(t, "600", tf.assetBalance(lp, tf.Address()))
	assert.Equal(t, "100", tf.rewardBalance(user))

	p, err := tf.PoolInfo(pid)
	require.NoError(t, err)
	assert.Equal(t, accmath.Accrued(pos.Amount, p.AccRewardPerShare).String(), pos.RewardDebt.String())
	assert.Equal(t, []string{EventPoolAdded, EventDeposit, EventWithdraw}, tf.events.names(t))
}

func TestEmergencyWithdrawBurnsPending(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 0, 3600)

	require.NoError(t, tf.Deposit(at(user, 0, 0), pid, big.NewInt(1000)))
	require.NoError(t, tf.Harvest(at(user, 5, 15), pid))
	require.NoError(t, tf.UpdatePool(at(user, 10, 30), pid))

	pos, err := tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.Equal(t, "50", pos.RewardLockedUp.String())

	require.NoError(t, tf.EmergencyWithdraw(at(user, 10, 30), pid))

	assert.Equal(t, "50", tf.rewardBalance(thor.BurnAddress))
	assert.Equal(t, "0", tf.rewardBalance(user))
	assert.Equal(t, "1000", tf.assetBalance(lp, user))

	pos, err = tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.True(t, pos.IsZero())
	assert.Equal(t, uint64(0), pos.NextHarvestUntil)
}

func TestLockupThenPayout(t *testing.T) {
	const (
		t0 = 1_000
		h  = 3_600
	)
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, t0), lp, 100, 0, h)

	require.NoError(t, tf.Deposit(at(user, 0, t0), pid, big.NewInt(1000)))

	ok, err := tf.CanHarvest(pid, user, t0+h-1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tf.Harvest(at(user, 10, t0+h-1), pid))
	assert.Equal(t, "0", tf.rewardBalance(user))
	pos, err := tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.Equal(t, "100", pos.RewardLockedUp.String())

	pending, err := tf.PendingReward(pid, user, 20)
	require.NoError(t, err)
	assert.Equal(t, "200", pending.String())

	require.NoError(t, tf.Harvest(at(user, 20, t0+h), pid))
	assert.Equal(t, "200", tf.rewardBalance(user))
	pos, err = tf.UserInfo(pid, user)
	require.NoError(t, err)
	assert.Zero(t, pos.RewardLockedUp.Sign())
	assert.Equal(t, uint64(t0+2*h), pos.NextHarvestUntil)

	assert.Equal(t,
		[]string{EventPoolAdded, EventDeposit, EventRewardLockedUp, EventDeposit, EventDeposit},
		tf.events.names(t))
}

func TestDevFeeMint(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 0, 0)

	owner := at(tf.owner, 0, 0)
	require.NoError(t, tf.SetDevFee(owner, DevFee{Enabled: true, BP: 500}))
	assert.True(t, reverts.IsRevertErr(tf.SetDevFee(owner, DevFee{Enabled: true, BP: 501})))

	require.NoError(t, tf.Deposit(at(user, 0, 0), pid, big.NewInt(1000)))
	require.NoError(t, tf.Harvest(at(user, 10, 30), pid))

	assert.Equal(t, "5", tf.rewardBalance(tf.dev))
	assert.Equal(t, "100", tf.rewardBalance(user))
}

func TestSafeTransferTruncatesPayout(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 1000})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 0, 0)
	// only 40 more tokens can be minted
	tf.reward.Initialize(big.NewInt(40), thor.BurnAddress)

	require.NoError(t, tf.Deposit(at(user, 0, 0), pid, big.NewInt(1000)))
	require.NoError(t, tf.Harvest(at(user, 10, 30), pid))

	assert.Equal(t, "40", tf.rewardBalance(user))
	rate, err := tf.RewardPerBlock()
	require.NoError(t, err)
	assert.Zero(t, rate.Sign())
}

func TestAdministration(t *testing.T) {
	tf := newTestFarm(t)
	stranger := at(datagen.RandAddress(), 0, 0)
	owner := at(tf.owner, 0, 0)
	lp := tf.newAsset(0, nil)

	_, err := tf.AddPool(stranger, lp, 1, 0, 0, false)
	assert.Equal(t, reverts.KindUnauthorized, reverts.AsRevert(err).Kind())
	_, err = tf.AddPool(owner, lp, 1, thor.MaxDepositFeeBP+1, 0, false)
	assert.True(t, reverts.IsRevertErr(err))
	_, err = tf.AddPool(owner, lp, 1, 0, thor.MaxHarvestInterval+1, false)
	assert.True(t, reverts.IsRevertErr(err))
	_, err = tf.AddPool(owner, datagen.RandAddress(), 1, 0, 0, false)
	assert.Equal(t, reverts.KindNotFound, reverts.AsRevert(err).Kind())

	pid, err := tf.AddPool(owner, lp, 100, 0, 0, true)
	require.NoError(t, err)
	_, err = tf.AddPool(owner, lp, 100, 0, 0, false)
	assert.True(t, reverts.IsRevertErr(err))

	require.NoError(t, tf.SetPool(owner, pid, 300, 100, 60, true))
	total, err := tf.TotalAllocWeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), total)
	assert.True(t, reverts.IsRevertErr(tf.SetPool(owner, pid, 300, 601, 60, false)))

	bad := emission.Bounds{Base: big.NewInt(10), Max: big.NewInt(10)}
	assert.True(t, reverts.IsRevertErr(tf.SetEmissionBounds(owner, bad)))
	require.NoError(t, tf.SetEmissionBounds(owner, emission.Bounds{Base: big.NewInt(2), Max: big.NewInt(20)}))
	rate, err := tf.RewardPerBlock()
	require.NoError(t, err)
	assert.Equal(t, "20", rate.String())

	newDev := datagen.RandAddress()
	assert.Equal(t, reverts.KindUnauthorized, reverts.AsRevert(tf.SetDevAddress(owner, newDev)).Kind())
	require.NoError(t, tf.SetDevAddress(at(tf.dev, 0, 0), newDev))
	newFee := datagen.RandAddress()
	assert.Equal(t, reverts.KindUnauthorized, reverts.AsRevert(tf.SetFeeAddress(owner, newFee)).Kind())
	require.NoError(t, tf.SetFeeAddress(at(tf.feeTo, 0, 0), newFee))

	newOwner := datagen.RandAddress()
	require.NoError(t, tf.TransferOwnership(owner, newOwner))
	assert.True(t, reverts.IsRevertErr(tf.SetDevFee(owner, DevFee{})))

	cfg, err := tf.Config()
	require.NoError(t, err)
	assert.Equal(t, newOwner, cfg.Owner)
	assert.Equal(t, newDev, cfg.DevAddress)
	assert.Equal(t, newFee, cfg.FeeAddress)
	assert.Equal(t, "2", cfg.Emission.Base.String())

	assert.Equal(t, []string{
		EventPoolAdded, EventPoolUpdated, EventEmissionRateUpdated, EventSetDevAddress, EventSetFeeAddress,
	}, tf.events.names(t))
}

func TestStartBlock(t *testing.T) {
	tf := newTestFarm(t)
	owner := at(tf.owner, 0, 0)
	cfg, err := tf.Config()
	require.NoError(t, err)
	cfg.StartBlock = 100
	require.NoError(t, tf.Initialize(*cfg))

	pid, err := tf.AddPool(owner, tf.newAsset(0, nil), 1, 0, 0, false)
	require.NoError(t, err)
	p, err := tf.PoolInfo(pid)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), p.LastRewardBlock)
}

func TestUnknownPool(t *testing.T) {
	tf := newTestFarm(t)
	user := at(datagen.RandAddress(), 0, 0)
	assert.Equal(t, reverts.KindNotFound, reverts.AsRevert(tf.Deposit(user, 3, big.NewInt(1))).Kind())
	assert.Equal(t, reverts.KindNotFound, reverts.AsRevert(tf.Withdraw(user, 3, big.NewInt(1))).Kind())
	assert.Equal(t, reverts.KindNotFound, reverts.AsRevert(tf.EmergencyWithdraw(user, 3)).Kind())
}

func TestInsufficientBalanceRevertsWholeCall(t *testing.T) {
	tf := newTestFarm(t)
	user := datagen.RandAddress()
	lp := tf.newAsset(0, map[thor.Address]int64{user: 10})
	pid := tf.addPool(at(user, 0, 0), lp, 100, 0, 0)

	before := tf.st.Stage().Hash()
	err := tf.call(func() error { return tf.Deposit(at(user, 5, 15), pid, big.NewInt(11)) })
	assert.True(t, reverts.IsRevertErr(err))
	assert.Equal(t, before, tf.st.Stage().Hash())
}

// TestConservation drives random call sequences and checks that stakes always add up to
// custody and that debts are consistent after every call.
func TestConservation(t *testing.T) {
	for _, tt := range []struct {
		name      string
		burnBP    uint32
		feeBP     uint32
		emergency bool
	}{
		{"plain", 0, 0, false},
		{"burn and fee", 137, 433, true},
		{"fee only", 0, 600, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			for seed := range int64(8) {
				checkConservation(t, fuzz.NewWithSeed(seed).NilChance(0), tt.burnBP, tt.feeBP, tt.emergency)
			}
		})
	}
}

func checkConservation(t *testing.T, f *fuzz.Fuzzer, burnBP, feeBP uint32, emergency bool) {
	tf := newTestFarm(t)
	users := []thor.Address{datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()}
	holders := map[thor.Address]int64{}
	for _, u := range users {
		holders[u] = 1_000_000
	}
	lp := tf.newAsset(burnBP, holders)
	pid := tf.addPool(at(users[0], 0, 0), lp, 100, feeBP, 7)

	kinds := uint8(4)
	if emergency {
		kinds = 5
	}
	block, now := uint32(0), uint64(0)
	for range 300 {
		var op struct {
			User   uint8
			Kind   uint8
			Amount uint16
			Blocks uint8
		}
		f.Fuzz(&op)
		block += uint32(op.Blocks % 4)
		now += uint64(op.Blocks % 4 * 3)
		user := users[int(op.User)%len(users)]
		ctx := at(user, block, now)
		amount := big.NewInt(int64(op.Amount))
		kind := op.Kind % kinds

		callErr := tf.call(func() error {
			switch kind {
			case 0:
				return tf.Deposit(ctx, pid, amount)
			case 1:
				return tf.Withdraw(ctx, pid, amount)
			case 2:
				return tf.Harvest(ctx, pid)
			case 3:
				return tf.UpdatePool(ctx, pid)
			default:
				return tf.EmergencyWithdraw(ctx, pid)
			}
		})
		if callErr != nil {
			require.True(t, reverts.IsRevertErr(callErr), callErr)
		}

		p, err := tf.PoolInfo(pid)
		require.NoError(t, err)
		sum := new(big.Int)
		for _, u := range users {
			pos, err := tf.UserInfo(pid, u)
			require.NoError(t, err)
			sum.Add(sum, pos.Amount)
			if u == user && callErr == nil && kind != 3 {
				assert.Equal(t, accmath.Accrued(pos.Amount, p.AccRewardPerShare).String(), pos.RewardDebt.String())
			}
			if u == user && callErr == nil && kind == 4 {
				assert.Zero(t, pos.Amount.Sign())
				assert.Zero(t, pos.RewardLockedUp.Sign())
			}
		}
		require.Equal(t, sum.String(), tf.assetBalance(lp, tf.Address()))
	}
	if feeBP > 0 {
		assert.NotEqual(t, "0", tf.assetBalance(lp, tf.feeTo))
	}
}
