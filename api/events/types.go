// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/farm"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/logdb"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

type LogMeta struct {
	BlockNumber uint32       `json:"blockNumber"`
	BlockTime   uint64       `json:"blockTime"`
	Index       uint32       `json:"index"`
	Caller      thor.Address `json:"caller"`
}

// FilteredEvent is a stored event, decoded when it is a farm event.
type FilteredEvent struct {
	Address thor.Address      `json:"address"`
	Topics  []*thor.Bytes32   `json:"topics"`
	Data    hexutil.Bytes     `json:"data"`
	Name    string            `json:"name,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Meta    LogMeta           `json:"meta"`
}

// ConvertEvent converts a stored event.
func ConvertEvent(ev *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: ev.Address,
		Data:    ev.Data,
		Meta: LogMeta{
			BlockNumber: ev.BlockNumber,
			BlockTime:   ev.BlockTime,
			Index:       ev.Index,
			Caller:      ev.Caller,
		},
	}
	var topics []thor.Bytes32
	for _, t := range ev.Topics {
		if t != nil {
			fe.Topics = append(fe.Topics, t)
			topics = append(topics, *t)
		}
	}
	if name, fields, err := farm.DecodeEvent(topics, ev.Data); err == nil {
		fe.Name = name
		fe.Fields = make(map[string]string, len(fields))
		for k, v := range fields {
			fe.Fields[k] = fmt.Sprint(v)
		}
	}
	return fe
}

type EventCriteria struct {
	Address *thor.Address `json:"address"`
	Caller  *thor.Address `json:"caller"`
	Event   string        `json:"event"` // farm event name, selects topic0
	Topic0  *thor.Bytes32 `json:"topic0"`
	Topic1  *thor.Bytes32 `json:"topic1"`
	Topic2  *thor.Bytes32 `json:"topic2"`
	Topic3  *thor.Bytes32 `json:"topic3"`
}

type Range struct {
	From *uint32 `json:"from"`
	To   *uint32 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

// ConvertCriteria converts to the log db criteria.
func ConvertCriteria(c *EventCriteria) (*logdb.EventCriteria, error) {
	criteria := &logdb.EventCriteria{
		Address: c.Address,
		Caller:  c.Caller,
		Topics:  [4]*thor.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3},
	}
	if c.Event != "" {
		id, ok := farm.EventID(c.Event)
		if !ok {
			return nil, fmt.Errorf("unknown event %q", c.Event)
		}
		if c.Topic0 != nil && *c.Topic0 != id {
			return nil, fmt.Errorf("event %q conflicts with topic0", c.Event)
		}
		criteria.Topics[0] = &id
	}
	return criteria, nil
}

func convertFilter(f *EventFilter) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{Order: f.Order}
	if f.Range != nil {
		var from uint32
		if f.Range.From != nil {
			from = *f.Range.From
		}
		switch {
		case f.Range.To != nil:
			filter.Range = &logdb.Range{From: from, To: *f.Range.To}
		case from > 0:
			// To below From leaves the range open ended
			filter.Range = &logdb.Range{From: from}
		}
	}
	if f.Options != nil {
		filter.Options = &logdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit}
	}
	for i, c := range f.CriteriaSet {
		criteria, err := ConvertCriteria(c)
		if err != nil {
			return nil, fmt.Errorf("criteriaSet[%d]: %w", i, err)
		}
		filter.CriteriaSet = append(filter.CriteriaSet, criteria)
	}
	return filter, nil
}
