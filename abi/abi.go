// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"bytes"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// ABI holds the events of a contract.
type ABI struct {
	nameToEvent map[string]*Event
	events      map[thor.Bytes32]*Event
}

// New create an ABI instance from its json definition.
func New(data []byte) (*ABI, error) {
	parsed, err := ethabi.JSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	abi := &ABI{
		nameToEvent: make(map[string]*Event),
		events:      make(map[thor.Bytes32]*Event),
	}
	for name, ev := range parsed.Events {
		event := newEvent(ev)
		abi.nameToEvent[name] = event
		abi.events[event.id] = event
	}
	return abi, nil
}

// EventByName find event for the given event name.
func (a *ABI) EventByName(name string) (*Event, bool) {
	e, found := a.nameToEvent[name]
	return e, found
}

// EventByID returns the event for the given event id.
func (a *ABI) EventByID(id thor.Bytes32) (*Event, bool) {
	e, found := a.events[id]
	return e, found
}
