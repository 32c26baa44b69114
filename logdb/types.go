// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// Event is a stored log.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	Caller      thor.Address // who made the call that emitted the event
	Address     thor.Address
	Topics      [4]*thor.Bytes32
	Data        []byte
}

// Log is an event as emitted, before it is placed in a block.
type Log struct {
	Address thor.Address
	Topics  []thor.Bytes32
	Data    []byte
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive block number range. To < From means unbounded.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *thor.Address
	Caller  *thor.Address
	Topics  [4]*thor.Bytes32
}

// EventFilter selects events matching any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
