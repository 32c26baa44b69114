// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/api/events"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/logdb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/runtime"
)

// eventReader reads the events of sealed blocks, block after block.
type eventReader struct {
	rt       *runtime.Runtime
	criteria *logdb.EventCriteria
	next     uint32 // first block not read yet
}

func newEventReader(rt *runtime.Runtime, criteria *logdb.EventCriteria, from uint32) *eventReader {
	return &eventReader{rt, criteria, from}
}

// Read returns the events sealed since the previous read.
func (r *eventReader) Read(ctx context.Context) ([]*events.FilteredEvent, error) {
	best := r.rt.BestBlock().Number
	if r.next > best {
		return nil, nil
	}
	filter := &logdb.EventFilter{
		Range: &logdb.Range{From: r.next, To: best},
	}
	if r.criteria != nil {
		filter.CriteriaSet = []*logdb.EventCriteria{r.criteria}
	}
	evs, err := r.rt.LogDB().FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	r.next = best + 1

	msgs := make([]*events.FilteredEvent, 0, len(evs))
	for _, ev := range evs {
		msgs = append(msgs, events.ConvertEvent(ev))
	}
	return msgs, nil
}
