// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package position

import (
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm/pool"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/solidity"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

var slotPositions = thor.BytesToBytes32([]byte("positions"))

type key struct {
	pid  pool.PID
	user thor.Address
}

func (k key) Bytes() []byte {
	return append(k.pid.Bytes(), k.user.Bytes()...)
}

// Service stores positions keyed by (pid, user).
type Service struct {
	positions *solidity.Mapping[key, *Position]
}

func New(sctx *solidity.Context) *Service {
	return &Service{positions: solidity.NewMapping[key, *Position](sctx, slotPositions)}
}

// Get returns the position of user in pid, a zero position when none exists.
func (s *Service) Get(pid pool.PID, user thor.Address) (*Position, error) {
	p, err := s.positions.Get(key{pid, user})
	if err != nil {
		return nil, err
	}
	if p.Amount == nil {
		return newPosition(), nil
	}
	return p, nil
}

func (s *Service) Set(pid pool.PID, user thor.Address, p *Position) error {
	return s.positions.Set(key{pid, user}, p)
}

// Reset zeroes the position.
func (s *Service) Reset(pid pool.PID, user thor.Address) error {
	return s.Set(pid, user, newPosition())
}
