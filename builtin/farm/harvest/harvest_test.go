// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package harvest

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/accmath"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/position"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/test/datagen"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

func newPos(amount int64) *position.Position {
	return &position.Position{
		Amount:         big.NewInt(amount),
		RewardDebt:     new(big.Int),
		RewardLockedUp: new(big.Int),
	}
}

func newPool(acc int64, interval uint64) *pool.Pool {
	return &pool.Pool{AccRewardPerShare: big.NewInt(acc), HarvestInterval: interval}
}

func TestSettleFirstTouchWithoutInterval(t *testing.T) {
	pos := newPos(1000)
	out, err := Settle(pos, newPool(1e11, 0), 50)
	require.NoError(t, err)

	assert.Equal(t, position.Unlocked, out.State)
	assert.Equal(t, "100", out.Payout.String())
	assert.True(t, pos.Initialized)
	assert.Equal(t, uint64(50), pos.NextHarvestUntil)
	// debt is the caller's job
	assert.Zero(t, pos.RewardDebt.Sign())
}

func TestSettleLockupWindow(t *testing.T) {
	const (
		t0 = 1_000
		h  = 3_600
	)
	p := newPool(0, h)
	pos := newPos(1000)

	// initialization at t0 opens the window [t0, t0+h)
	out, err := Settle(pos, p, t0)
	require.NoError(t, err)
	assert.Equal(t, position.Locked, out.State)
	assert.Equal(t, uint64(t0+h), pos.NextHarvestUntil)
	pos.SettleDebt(p.AccRewardPerShare)

	p.AccRewardPerShare = big.NewInt(1e11)
	out, err = Settle(pos, p, t0+h-1)
	require.NoError(t, err)
	assert.Equal(t, position.Locked, out.State)
	assert.Zero(t, out.Payout.Sign())
	assert.Equal(t, "100", out.LockedUp.String())
	assert.Equal(t, "100", pos.RewardLockedUp.String())
	pos.SettleDebt(p.AccRewardPerShare)

	p.AccRewardPerShare = big.NewInt(2e11)
	out, err = Settle(pos, p, t0+h)
	require.NoError(t, err)
	assert.Equal(t, position.Unlocked, out.State)
	assert.Equal(t, "200", out.Payout.String())
	assert.Zero(t, pos.RewardLockedUp.Sign())
	assert.Equal(t, uint64(t0+2*h), pos.NextHarvestUntil)
}

func TestSettleNoDoublePay(t *testing.T) {
	p := newPool(1e11, 0)
	pos := newPos(1000)

	out, err := Settle(pos, p, 10)
	require.NoError(t, err)
	assert.Equal(t, "100", out.Payout.String())
	pos.SettleDebt(p.AccRewardPerShare)

	out, err = Settle(pos, p, 10)
	require.NoError(t, err)
	assert.Zero(t, out.Pending.Sign())
	assert.Zero(t, out.Payout.Sign())
}

func TestSettleNothingToPayKeepsTimer(t *testing.T) {
	p := newPool(0, 60)
	pos := newPos(0)
	pos.Initialized = true
	pos.NextHarvestUntil = 100

	_, err := Settle(pos, p, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), pos.NextHarvestUntil)
}

func TestSettleNegativePending(t *testing.T) {
	pos := newPos(10)
	pos.RewardDebt = big.NewInt(5)
	_, err := Settle(pos, newPool(0, 0), 1)
	assert.ErrorIs(t, err, accmath.ErrNegativePending)
}

func TestCanHarvest(t *testing.T) {
	pos := newPos(0)
	assert.True(t, CanHarvest(pos, 0))
	pos.Initialized = true
	pos.NextHarvestUntil = 10
	assert.False(t, CanHarvest(pos, 9))
	assert.True(t, CanHarvest(pos, 10))
}

type token struct {
	balances map[thor.Address]*big.Int
	fail     bool
}

func (tk *token) BalanceOf(addr thor.Address) (*big.Int, error) {
	if tk.fail {
		return nil, errors.New("unavailable")
	}
	if b := tk.balances[addr]; b != nil {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (tk *token) Transfer(from, to thor.Address, amount *big.Int) (*big.Int, error) {
	tk.balances[from] = new(big.Int).Sub(tk.balances[from], amount)
	if tk.balances[to] == nil {
		tk.balances[to] = new(big.Int)
	}
	tk.balances[to].Add(tk.balances[to], amount)
	return amount, nil
}

func TestSafeTransfer(t *testing.T) {
	farm, user := datagen.RandAddress(), datagen.RandAddress()
	tk := &token{balances: map[thor.Address]*big.Int{farm: big.NewInt(70)}}

	sent, err := SafeTransfer(tk, farm, user, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, "50", sent.String())

	// shortfall truncates to custody
	sent, err = SafeTransfer(tk, farm, user, big.NewInt(50))
	require.NoError(t, err)
	assert.Equal(t, "20", sent.String())
	assert.Equal(t, "70", tk.balances[user].String())
	assert.Zero(t, tk.balances[farm].Sign())

	sent, err = SafeTransfer(tk, farm, user, big.NewInt(1))
	require.NoError(t, err)
	assert.Zero(t, sent.Sign())

	sent, err = SafeTransfer(tk, farm, user, new(big.Int))
	require.NoError(t, err)
	assert.Zero(t, sent.Sign())

	tk.fail = true
	_, err = SafeTransfer(tk, farm, user, big.NewInt(1))
	assert.Error(t, err)
}
