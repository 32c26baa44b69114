// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math"
	"math/big"

	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/accmath"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/emission"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/log"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/metrics"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var (
	logger = log.WithContext("pkg", "pool")

	metricRewardMinted = metrics.LazyLoadCounter("reward_minted")

	slotPools        = thor.BytesToBytes32([]byte("pools"))
	slotPoolsByAsset = thor.BytesToBytes32([]byte("poolsByAsset"))
	slotPoolCount    = thor.BytesToBytes32([]byte("poolCount"))
	slotTotalWeight  = thor.BytesToBytes32([]byte("totalAllocWeight"))
)

// RewardMinter is the part of the reward token needed to accrue a pool.
type RewardMinter interface {
	emission.SupplyOracle
	Mint(to thor.Address, amount *big.Int) (*big.Int, error)
}

// StakedSupplier reports how much of an asset the farm holds in custody.
type StakedSupplier interface {
	StakedSupply(asset thor.Address) (*big.Int, error)
}

// DevFee mints an extra slice of every pool reward to the dev address when enabled.
type DevFee struct {
	Enabled bool
	BP      uint32
	Address thor.Address
}

// Deps are the collaborators a refresh touches.
type Deps struct {
	Custody  thor.Address
	Reward   RewardMinter
	Staked   StakedSupplier
	Emission *emission.Controller
	DevFee   DevFee
}

// Service manages the registered pools.
type Service struct {
	pools       *solidity.Mapping[PID, *Pool]
	byAsset     *solidity.Mapping[thor.Address, uint64]
	count       *solidity.Uint256
	totalWeight *solidity.Uint256
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools:       solidity.NewMapping[PID, *Pool](sctx, slotPools),
		byAsset:     solidity.NewMapping[thor.Address, uint64](sctx, slotPoolsByAsset),
		count:       solidity.NewUint256(sctx, slotPoolCount),
		totalWeight: solidity.NewUint256(sctx, slotTotalWeight),
	}
}

func (s *Service) Len() (uint64, error) {
	n, err := s.count.Get()
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func (s *Service) TotalAllocWeight() (uint64, error) {
	w, err := s.totalWeight.Get()
	if err != nil {
		return 0, err
	}
	return w.Uint64(), nil
}

// Get returns the pool with the given id, a NotFound revert for unknown ids.
func (s *Service) Get(pid PID) (*Pool, error) {
	n, err := s.Len()
	if err != nil {
		return nil, err
	}
	if uint64(pid) >= n {
		return nil, reverts.NotFound("pool: unknown pid")
	}
	return s.pools.Get(pid)
}

// Lookup returns the pool registered for asset.
func (s *Service) Lookup(asset thor.Address) (PID, bool, error) {
	idx, err := s.byAsset.Get(asset)
	if err != nil {
		return 0, false, err
	}
	if idx == 0 {
		return 0, false, nil
	}
	return PID(idx - 1), true, nil
}

// Add registers a new pool and returns its id.
func (s *Service) Add(p *Pool) (PID, error) {
	if _, found, err := s.Lookup(p.Asset); err != nil {
		return 0, err
	} else if found {
		return 0, reverts.New("add: asset already registered")
	}
	n, err := s.Len()
	if err != nil {
		return 0, err
	}
	total, err := s.TotalAllocWeight()
	if err != nil {
		return 0, err
	}
	if math.MaxUint64-total < p.AllocWeight {
		return 0, reverts.New("add: alloc weight overflow")
	}

	pid := PID(n)
	stored := p.Copy()
	if stored.AccRewardPerShare == nil {
		stored.AccRewardPerShare = new(big.Int)
	}
	if err := s.pools.Set(pid, stored); err != nil {
		return 0, err
	}
	if err := s.byAsset.Set(p.Asset, n+1); err != nil {
		return 0, err
	}
	s.count.Set(new(big.Int).SetUint64(n + 1))
	s.totalWeight.Set(new(big.Int).SetUint64(total + p.AllocWeight))
	return pid, nil
}

// SetParams updates the mutable parameters of a pool, keeping the total weight in sync.
func (s *Service) SetParams(pid PID, weight uint64, depositFeeBP uint32, harvestInterval uint64) error {
	p, err := s.Get(pid)
	if err != nil {
		return err
	}
	total, err := s.TotalAllocWeight()
	if err != nil {
		return err
	}
	total -= p.AllocWeight
	if math.MaxUint64-total < weight {
		return reverts.New("set: alloc weight overflow")
	}
	s.totalWeight.Set(new(big.Int).SetUint64(total + weight))

	p.AllocWeight = weight
	p.DepositFeeBP = depositFeeBP
	p.HarvestInterval = harvestInterval
	return s.pools.Set(pid, p)
}

// Refresh brings the accumulator of pid up to blockNum and returns the updated pool.
func (s *Service) Refresh(pid PID, blockNum uint32, deps *Deps) (*Pool, error) {
	p, err := s.Get(pid)
	if err != nil {
		return nil, err
	}
	if blockNum <= p.LastRewardBlock {
		return p, nil
	}

	staked, err := deps.Staked.StakedSupply(p.Asset)
	if err != nil {
		return nil, errors.Wrap(err, "staked supply")
	}
	if staked.Sign() == 0 || p.AllocWeight == 0 {
		p.LastRewardBlock = blockNum
		return p, s.pools.Set(pid, p)
	}

	rate, err := deps.Emission.RewardPerBlock()
	if err != nil {
		return nil, err
	}
	total, err := s.TotalAllocWeight()
	if err != nil {
		return nil, err
	}
	reward := accmath.RewardForPool(accmath.Multiplier(p.LastRewardBlock, blockNum), rate, p.AllocWeight, total)

	if deps.DevFee.Enabled {
		devReward := accmath.Fee(reward, deps.DevFee.BP)
		if devReward.Sign() > 0 {
			if _, err := deps.Reward.Mint(deps.DevFee.Address, devReward); err != nil {
				return nil, errors.Wrap(err, "mint dev fee")
			}
		}
	}
	if reward.Sign() > 0 {
		minted, err := deps.Reward.Mint(deps.Custody, reward)
		if err != nil {
			return nil, errors.Wrap(err, "mint reward")
		}
		if minted.IsInt64() {
			metricRewardMinted().Add(minted.Int64())
		}
	}
	if _, err := deps.Emission.Update(deps.Reward); err != nil {
		return nil, err
	}

	p.AccRewardPerShare = new(big.Int).Add(p.AccRewardPerShare, accmath.AccumulatorDelta(reward, staked))
	p.LastRewardBlock = blockNum
	if err := s.pools.Set(pid, p); err != nil {
		return nil, err
	}

	logger.Debug("pool refreshed", "pid", pid, "block", blockNum, "reward", reward, "acc", p.AccRewardPerShare)
	return p, nil
}

// Preview returns the accumulator pid would have after a refresh at blockNum, without minting.
func (s *Service) Preview(pid PID, blockNum uint32, staked, rate *big.Int) (*big.Int, error) {
	p, err := s.Get(pid)
	if err != nil {
		return nil, err
	}
	acc := new(big.Int).Set(p.AccRewardPerShare)
	if blockNum <= p.LastRewardBlock || staked.Sign() == 0 || p.AllocWeight == 0 {
		return acc, nil
	}
	total, err := s.TotalAllocWeight()
	if err != nil {
		return nil, err
	}
	reward := accmath.RewardForPool(accmath.Multiplier(p.LastRewardBlock, blockNum), rate, p.AllocWeight, total)
	return acc.Add(acc, accmath.AccumulatorDelta(reward, staked)), nil
}
