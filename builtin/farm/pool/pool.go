// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"encoding/binary"
	"math/big"
	"strconv"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// PID identifies a pool. Pools are numbered in registration order starting at 0.
type PID uint64

func (p PID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(p))
	return b[:]
}

func (p PID) String() string {
	return strconv.FormatUint(uint64(p), 10)
}

// Pool is the reward accrual state of one staked asset.
type Pool struct {
	Asset             thor.Address
	AllocWeight       uint64
	LastRewardBlock   uint32
	AccRewardPerShare *big.Int
	DepositFeeBP      uint32
	HarvestInterval   uint64
	SupportsBurnQuery bool
}

func (p *Pool) Copy() *Pool {
	cpy := *p
	cpy.AccRewardPerShare = new(big.Int)
	if p.AccRewardPerShare != nil {
		cpy.AccRewardPerShare.Set(p.AccRewardPerShare)
	}
	return &cpy
}
