// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"time"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/xenv"
)

// sealer closes the open block of the runtime on every tick.
type sealer struct {
	rt       *runtime.Runtime
	interval time.Duration
	now      func() time.Time
}

func newSealer(rt *runtime.Runtime, interval time.Duration) *sealer {
	return &sealer{rt, interval, time.Now}
}

// nextTime is the timestamp of the block opened after sealing. Block time never goes
// backwards even when the local clock does.
func (s *sealer) nextTime(open xenv.BlockContext) uint64 {
	t := uint64(s.now().Unix())
	if t <= open.Time {
		t = open.Time + 1
	}
	return t
}

func (s *sealer) sealOnce() error {
	_, err := s.rt.Seal(s.nextTime(s.rt.OpenBlock()))
	return err
}

// Run seals until ctx is done. A sealing failure stops the node.
func (s *sealer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.sealOnce(); err != nil {
				logger.Error("failed to seal block", "err", err)
				return err
			}
		}
	}
}
