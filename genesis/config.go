// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// Environment variables overriding the addresses of the farm config.
const (
	EnvOwner      = "FARMD_OWNER"
	EnvDevAddress = "FARMD_DEV_ADDRESS"
	EnvFeeAddress = "FARMD_FEE_ADDRESS"
)

// Config is user customized genesis.
type Config struct {
	LaunchTime  uint64        `yaml:"launchTime"`
	RewardToken TokenConfig   `yaml:"rewardToken"`
	Farm        FarmConfig    `yaml:"farm"`
	Assets      []AssetConfig `yaml:"assets"`
	Pools       []PoolConfig  `yaml:"pools"`
}

// Allocation is an initial balance.
type Allocation struct {
	Address thor.Address     `yaml:"address"`
	Amount  *HexOrDecimal256 `yaml:"amount"`
}

type TokenConfig struct {
	Address     thor.Address     `yaml:"address"`
	MaxSupply   *HexOrDecimal256 `yaml:"maxSupply"`
	BurnAddress *thor.Address    `yaml:"burnAddress"`
	Balances    []Allocation     `yaml:"balances"`
}

type FarmConfig struct {
	Address    thor.Address `yaml:"address"`
	Owner      thor.Address `yaml:"owner"`
	DevAddress thor.Address `yaml:"devAddress"`
	FeeAddress thor.Address `yaml:"feeAddress"`
	DevFee     struct {
		Enabled     bool   `yaml:"enabled"`
		BasisPoints uint32 `yaml:"basisPoints"`
	} `yaml:"devFee"`
	StartBlock uint32 `yaml:"startBlock"`
	Emission   struct {
		Base *HexOrDecimal256 `yaml:"base"`
		Max  *HexOrDecimal256 `yaml:"max"`
	} `yaml:"emission"`
	RewardPerBlock *HexOrDecimal256 `yaml:"rewardPerBlock"`
}

// AssetConfig is a stakeable asset living in the same state.
type AssetConfig struct {
	Address         thor.Address `yaml:"address"`
	BurnBasisPoints uint32       `yaml:"burnBasisPoints"`
	Balances        []Allocation `yaml:"balances"`
}

type PoolConfig struct {
	Asset           thor.Address `yaml:"asset"`
	Weight          uint64       `yaml:"weight"`
	DepositFeeBP    uint32       `yaml:"depositFeeBP"`
	HarvestInterval uint64       `yaml:"harvestInterval"`
}

// HexOrDecimal256 marshals big.Int as hex or decimal.
type HexOrDecimal256 math.HexOrDecimal256

func NewHexOrDecimal256(x *big.Int) *HexOrDecimal256 {
	return (*HexOrDecimal256)(new(big.Int).Set(x))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *HexOrDecimal256) UnmarshalText(input []byte) error {
	bigint, ok := math.ParseBig256(string(input))
	if !ok {
		return fmt.Errorf("invalid hex or decimal integer %q", input)
	}
	*i = HexOrDecimal256(*bigint)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (i HexOrDecimal256) MarshalText() ([]byte, error) {
	return (*math.HexOrDecimal256)(&i).MarshalText()
}

// Int returns the value, nil stays nil.
func (i *HexOrDecimal256) Int() *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(i))
}

// Load reads the genesis config at path, applies env overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Parse(data)
}

// Parse decodes a yaml genesis config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, o := range []struct {
		env string
		dst *thor.Address
	}{
		{EnvOwner, &c.Farm.Owner},
		{EnvDevAddress, &c.Farm.DevAddress},
		{EnvFeeAddress, &c.Farm.FeeAddress},
	} {
		v, ok := lookup(o.env)
		if !ok || v == "" {
			continue
		}
		addr, err := thor.ParseAddress(v)
		if err != nil {
			return errors.Wrapf(err, "env %s", o.env)
		}
		*o.dst = addr
	}
	return nil
}

// ID identifies the genesis, it names the instance directory of a node.
func (c *Config) ID() thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		enc := yaml.NewEncoder(w)
		enc.Encode(c)
		enc.Close()
	})
}

// FarmConfig converts to the farm's own config.
func (c *Config) FarmConfig() farm.Config {
	return farm.Config{
		Owner:      c.Farm.Owner,
		DevAddress: c.Farm.DevAddress,
		FeeAddress: c.Farm.FeeAddress,
		DevFee: farm.DevFee{
			Enabled: c.Farm.DevFee.Enabled,
			BP:      c.Farm.DevFee.BasisPoints,
		},
		StartBlock: c.Farm.StartBlock,
		Emission: emission.Bounds{
			Base: c.Farm.Emission.Base.Int(),
			Max:  c.Farm.Emission.Max.Int(),
		},
		RewardPerBlock: c.Farm.RewardPerBlock.Int(),
	}
}

// AssetAddresses lists the registered stakeable assets.
func (c *Config) AssetAddresses() []thor.Address {
	addrs := make([]thor.Address, 0, len(c.Assets))
	for _, a := range c.Assets {
		addrs = append(addrs, a.Address)
	}
	return addrs
}

// Validate checks the config is consistent.
func (c *Config) Validate() error {
	if c.RewardToken.Address.IsZero() {
		return errors.New("genesis: reward token address not set")
	}
	if c.RewardToken.MaxSupply == nil || c.RewardToken.MaxSupply.Int().Sign() <= 0 {
		return errors.New("genesis: reward token max supply not set")
	}
	if c.Farm.Address.IsZero() {
		return errors.New("genesis: farm address not set")
	}
	fc := c.FarmConfig()
	if err := fc.Validate(); err != nil {
		return errors.Wrap(err, "genesis")
	}

	seen := map[thor.Address]bool{
		c.RewardToken.Address: true,
		c.Farm.Address:        true,
	}
	for _, a := range c.Assets {
		if a.Address.IsZero() {
			return errors.New("genesis: asset address not set")
		}
		if seen[a.Address] {
			return errors.Errorf("genesis: duplicated address %v", a.Address)
		}
		if a.BurnBasisPoints > thor.BasisPointsDenominator {
			return errors.Errorf("genesis: asset %v burn basis points out of range", a.Address)
		}
		seen[a.Address] = true
	}
	for i, p := range c.Pools {
		if p.Asset == c.RewardToken.Address || !seen[p.Asset] || p.Asset == c.Farm.Address {
			return errors.Errorf("genesis: pool %d asset %v not registered", i, p.Asset)
		}
	}
	allocs := c.RewardToken.Balances
	for _, a := range c.Assets {
		allocs = append(allocs, a.Balances...)
	}
	for _, a := range allocs {
		if a.Amount == nil || a.Amount.Int().Sign() < 0 {
			return errors.Errorf("genesis: invalid amount for %v", a.Address)
		}
	}
	return nil
}
