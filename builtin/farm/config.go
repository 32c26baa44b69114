// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var (
	slotOwner         = thor.BytesToBytes32([]byte("owner"))
	slotDevAddress    = thor.BytesToBytes32([]byte("devAddress"))
	slotFeeAddress    = thor.BytesToBytes32([]byte("feeAddress"))
	slotDevFeeEnabled = thor.BytesToBytes32([]byte("devFeeEnabled"))
	slotDevFeeBP      = thor.BytesToBytes32([]byte("devFeeBasisPoints"))
	slotStartBlock    = thor.BytesToBytes32([]byte("startBlock"))
)

// Config is the administrable configuration of the farm.
type Config struct {
	Owner          thor.Address
	DevAddress     thor.Address
	FeeAddress     thor.Address
	DevFee         DevFee
	StartBlock     uint32
	Emission       emission.Bounds
	RewardPerBlock *big.Int
}

// DevFee is the optional extra mint to the dev address.
type DevFee struct {
	Enabled bool
	BP      uint32
}

// Validate checks the bounds enforced at the administration boundary.
func (c *Config) Validate() error {
	switch {
	case c.Owner.IsZero():
		return reverts.New("config: owner not set")
	case c.DevAddress.IsZero():
		return reverts.New("config: dev address not set")
	case c.FeeAddress.IsZero():
		return reverts.New("config: fee address not set")
	case c.DevFee.BP > thor.MaxDevFeeBP:
		return reverts.New("config: dev fee exceeds limit")
	}
	return validateBounds(c.Emission)
}

func validateBounds(b emission.Bounds) error {
	if b.Base == nil || b.Max == nil || b.Base.Sign() < 0 {
		return reverts.New("emission: bounds not set")
	}
	if b.Base.Cmp(b.Max) >= 0 {
		return reverts.New("emission: base must be below max")
	}
	return nil
}

type configStorage struct {
	owner         *solidity.Address
	devAddress    *solidity.Address
	feeAddress    *solidity.Address
	devFeeEnabled *solidity.Bool
	devFeeBP      *solidity.Uint256
	startBlock    *solidity.Uint256
}

func newConfigStorage(sctx *solidity.Context) *configStorage {
	return &configStorage{
		owner:         solidity.NewAddress(sctx, slotOwner),
		devAddress:    solidity.NewAddress(sctx, slotDevAddress),
		feeAddress:    solidity.NewAddress(sctx, slotFeeAddress),
		devFeeEnabled: solidity.NewBool(sctx, slotDevFeeEnabled),
		devFeeBP:      solidity.NewUint256(sctx, slotDevFeeBP),
		startBlock:    solidity.NewUint256(sctx, slotStartBlock),
	}
}

func (s *configStorage) devFee() (pool.DevFee, error) {
	enabled, err := s.devFeeEnabled.Get()
	if err != nil {
		return pool.DevFee{}, err
	}
	bp, err := s.devFeeBP.Get()
	if err != nil {
		return pool.DevFee{}, err
	}
	addr, err := s.devAddress.Get()
	if err != nil {
		return pool.DevFee{}, err
	}
	return pool.DevFee{Enabled: enabled, BP: uint32(bp.Uint64()), Address: addr}, nil
}

func (s *configStorage) setDevFee(fee DevFee) {
	s.devFeeEnabled.Set(fee.Enabled)
	s.devFeeBP.Set(new(big.Int).SetUint64(uint64(fee.BP)))
}
