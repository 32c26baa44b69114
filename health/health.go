// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package health reports whether the node keeps sealing blocks.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
)

type BlockIngestion struct {
	BestBlock                   *uint32    `json:"bestBlock"`
	BestBlockIngestionTimestamp *time.Time `json:"bestBlockIngestionTimestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
}

type Health struct {
	lock          sync.RWMutex
	newBestBlock  time.Time
	bestBlock     *uint32
	timeBetweenBk time.Duration
	now           func() time.Time
}

// New returns a health tracker which turns unhealthy when no block is sealed for
// twice timeBetweenBlocks.
func New(timeBetweenBlocks time.Duration) *Health {
	return &Health{
		timeBetweenBk: timeBetweenBlocks,
		now:           time.Now,
	}
}

func (h *Health) NewBestBlock(number uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBestBlock = h.now()
	h.bestBlock = &number
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{BlockIngestion: &BlockIngestion{}}
	if h.bestBlock == nil {
		return status
	}
	ts := h.newBestBlock
	number := *h.bestBlock
	status.BlockIngestion.BestBlock = &number
	status.BlockIngestion.BestBlockIngestionTimestamp = &ts
	status.Healthy = h.now().Sub(ts) <= 2*h.timeBetweenBk
	return status
}

// Watch feeds h with the blocks sealed by rt until ctx is done.
func (h *Health) Watch(ctx context.Context, rt *runtime.Runtime) {
	for {
		// the waiter is taken before reading best so no seal is missed
		waiter := rt.NewBlockWaiter()
		h.NewBestBlock(rt.BestBlock().Number)
		select {
		case <-ctx.Done():
			return
		case <-waiter.C():
		}
	}
}
