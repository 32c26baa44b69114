// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/asset"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/token"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/lvldb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/state"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

const sampleYAML = `
launchTime: 1700000000
rewardToken:
  address: "0x0000000000000000000000000000000000000a01"
  maxSupply: "0x3635c9adc5dea00000"
  balances:
    - address: "0x0000000000000000000000000000000000000b01"
      amount: 500
farm:
  address: "0x0000000000000000000000000000000000000a02"
  owner: "0x0000000000000000000000000000000000000b01"
  devAddress: "0x0000000000000000000000000000000000000b02"
  feeAddress: "0x0000000000000000000000000000000000000b03"
  devFee:
    enabled: true
    basisPoints: 50
  startBlock: 10
  emission:
    base: 1000
    max: "100000"
assets:
  - address: "0x0000000000000000000000000000000000000a03"
    burnBasisPoints: 200
    balances:
      - address: "0x0000000000000000000000000000000000000b04"
        amount: "1000"
pools:
  - asset: "0x0000000000000000000000000000000000000a03"
    weight: 100
    depositFeeBP: 400
    harvestInterval: 7200
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, uint64(1700000000), cfg.LaunchTime)
	assert.Equal(t, "1000000000000000000000", cfg.RewardToken.MaxSupply.Int().String())
	assert.Equal(t, thor.MustParseAddress("0x0000000000000000000000000000000000000b01"), cfg.Farm.Owner)
	assert.Equal(t, uint32(50), cfg.Farm.DevFee.BasisPoints)
	assert.Equal(t, "100000", cfg.Farm.Emission.Max.Int().String())
	assert.Nil(t, cfg.Farm.RewardPerBlock)
	require.Len(t, cfg.Pools, 1)
	assert.Equal(t, uint64(7200), cfg.Pools[0].HarvestInterval)

	fc := cfg.FarmConfig()
	assert.Equal(t, uint32(10), fc.StartBlock)
	assert.Equal(t, "1000", fc.Emission.Base.String())
	assert.Nil(t, fc.RewardPerBlock)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	owner := thor.MustParseAddress("0x0000000000000000000000000000000000000c01")
	t.Setenv(EnvOwner, owner.String())

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, owner, cfg.Farm.Owner)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrideInvalid(t *testing.T) {
	cfg := NewDevnet()
	err := cfg.applyEnv(func(key string) (string, bool) {
		if key == EnvFeeAddress {
			return "not-an-address", true
		}
		return "", false
	})
	assert.ErrorContains(t, err, EnvFeeAddress)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"devnet", func(c *Config) {}, ""},
		{"no token", func(c *Config) { c.RewardToken.Address = thor.Address{} }, "reward token address"},
		{"no max supply", func(c *Config) { c.RewardToken.MaxSupply = nil }, "max supply"},
		{"no farm", func(c *Config) { c.Farm.Address = thor.Address{} }, "farm address"},
		{"no owner", func(c *Config) { c.Farm.Owner = thor.Address{} }, "owner not set"},
		{"dev fee", func(c *Config) { c.Farm.DevFee.BasisPoints = 501 }, "dev fee"},
		{"bounds", func(c *Config) { c.Farm.Emission.Max = c.Farm.Emission.Base }, "base must be below max"},
		{"duplicated", func(c *Config) { c.Assets[1].Address = c.Assets[0].Address }, "duplicated"},
		{"burn range", func(c *Config) { c.Assets[0].BurnBasisPoints = 10001 }, "out of range"},
		{"unknown pool asset", func(c *Config) { c.Pools[0].Asset = thor.BytesToAddress([]byte("x")) }, "not registered"},
		{"reward as pool asset", func(c *Config) { c.Pools[0].Asset = c.RewardToken.Address }, "not registered"},
		{"nil amount", func(c *Config) { c.Assets[0].Balances[0].Amount = nil }, "invalid amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDevnet()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}

type resolver struct{ st *state.State }

func (r resolver) Asset(addr thor.Address) (farm.StakedAsset, error) {
	if addr != DevAsset && addr != DevBurnAsset {
		return nil, reverts.NotFound("asset: unknown")
	}
	return asset.Open(addr, r.st)
}

type discard struct{ n int }

func (d *discard) Emit(*farm.Event) { d.n++ }

func TestHexOrDecimal256Text(t *testing.T) {
	type doc struct {
		Value HexOrDecimal256  `yaml:"value"`
		Ptr   *HexOrDecimal256 `yaml:"ptr"`
	}
	out, err := yaml.Marshal(&doc{
		Value: *NewHexOrDecimal256(big.NewInt(1000)),
		Ptr:   NewHexOrDecimal256(big.NewInt(255)),
	})
	require.NoError(t, err)
	assert.Equal(t, "value: \"0x3e8\"\nptr: \"0xff\"\n", string(out))

	var back doc
	require.NoError(t, yaml.Unmarshal([]byte("value: 1000\nptr: 0xff\n"), &back))
	assert.Equal(t, "1000", back.Value.Int().String())
	assert.Equal(t, "255", back.Ptr.Int().String())

	var bad doc
	assert.Error(t, yaml.Unmarshal([]byte("value: twelve\n"), &bad))
}

func TestID(t *testing.T) {
	a, b := NewDevnet(), NewDevnet()
	assert.Equal(t, a.ID(), b.ID())
	assert.False(t, a.ID().IsZero())

	b.Farm.StartBlock = 10
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestBuildDevnet(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	st := state.New(db)

	cfg := NewDevnet()
	reward := token.New(cfg.RewardToken.Address, st)
	events := &discard{}
	f := farm.New(cfg.Farm.Address, st, reward, resolver{st}, events)

	blk, err := cfg.Builder(reward, f).Build(st)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), blk.Number)
	assert.Equal(t, cfg.LaunchTime, blk.Time)

	n, err := f.PoolLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, 2, events.n)

	p, err := f.PoolInfo(1)
	require.NoError(t, err)
	assert.True(t, p.SupportsBurnQuery)
	assert.Equal(t, uint32(400), p.DepositFeeBP)

	rate, err := f.RewardPerBlock()
	require.NoError(t, err)
	assert.Equal(t, cfg.Farm.Emission.Base.Int().String(), rate.String())

	acc := DevAccounts()[3].Address
	bal, err := asset.New(DevBurnAsset, st).BalanceOf(acc)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Mul(big.NewInt(10_000), big.NewInt(1e18)).String(), bal.String())

	fc, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, DevAccounts()[0].Address, fc.Owner)
	assert.True(t, fc.DevFee.Enabled)
}
