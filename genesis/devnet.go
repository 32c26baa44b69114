// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// DevAccount account for development.
type DevAccount struct {
	Address    thor.Address
	PrivateKey *ecdsa.PrivateKey
}

// DevAccounts returns pre-alloced accounts for the dev network.
var DevAccounts = sync.OnceValue(func() []DevAccount {
	privKeys := []string{
		"dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65",
		"321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51",
		"2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2",
		"593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e",
		"ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058",
	}
	accs := make([]DevAccount, 0, len(privKeys))
	for _, str := range privKeys {
		pk, err := crypto.HexToECDSA(str)
		if err != nil {
			panic(err)
		}
		accs = append(accs, DevAccount{thor.Address(crypto.PubkeyToAddress(pk.PublicKey)), pk})
	}
	return accs
})

// Well known addresses of the dev network.
var (
	DevRewardToken = thor.BytesToAddress([]byte("reward"))
	DevFarm        = thor.BytesToAddress([]byte("farm"))
	DevAsset       = thor.BytesToAddress([]byte("asset"))
	DevBurnAsset   = thor.BytesToAddress([]byte("burn-asset"))
)

// NewDevnet create genesis for local development. Account 0 owns the farm,
// account 1 receives dev fees, account 2 receives deposit fees, every account
// holds both staking assets.
func NewDevnet() *Config {
	accs := DevAccounts()
	ether := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	units := func(n int64) *HexOrDecimal256 {
		return NewHexOrDecimal256(new(big.Int).Mul(big.NewInt(n), ether))
	}

	var balances []Allocation
	for _, acc := range accs {
		balances = append(balances, Allocation{Address: acc.Address, Amount: units(10_000)})
	}

	cfg := &Config{
		LaunchTime: 1526400000,
		RewardToken: TokenConfig{
			Address:   DevRewardToken,
			MaxSupply: units(100_000_000),
		},
		Assets: []AssetConfig{
			{Address: DevAsset, Balances: balances},
			{Address: DevBurnAsset, BurnBasisPoints: 200, Balances: balances},
		},
		Pools: []PoolConfig{
			{Asset: DevAsset, Weight: 1000, DepositFeeBP: 0, HarvestInterval: 0},
			{Asset: DevBurnAsset, Weight: 500, DepositFeeBP: 400, HarvestInterval: 3600},
		},
	}
	cfg.Farm.Address = DevFarm
	cfg.Farm.Owner = accs[0].Address
	cfg.Farm.DevAddress = accs[1].Address
	cfg.Farm.FeeAddress = accs[2].Address
	cfg.Farm.DevFee.Enabled = true
	cfg.Farm.DevFee.BasisPoints = 100
	cfg.Farm.Emission.Base = units(1)
	cfg.Farm.Emission.Max = units(10)
	return cfg
}
