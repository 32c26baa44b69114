// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"errors"
	"fmt"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id         thor.Bytes32
	event      ethabi.Event
	indexed    ethabi.Arguments
	nonIndexed ethabi.Arguments
}

func newEvent(event ethabi.Event) *Event {
	var indexed ethabi.Arguments
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return &Event{
		id:         thor.Bytes32(event.ID),
		event:      event,
		indexed:    indexed,
		nonIndexed: event.Inputs.NonIndexed(),
	}
}

// ID returns event id.
func (e *Event) ID() thor.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Encode takes the args in declaration order and returns the topics (event id first)
// and the data of the log.
func (e *Event) Encode(args ...any) ([]thor.Bytes32, []byte, error) {
	if len(args) != len(e.event.Inputs) {
		return nil, nil, fmt.Errorf("abi: %s takes %d args, got %d", e.Name(), len(e.event.Inputs), len(args))
	}

	topics := []thor.Bytes32{e.id}
	var data []any
	for i, input := range e.event.Inputs {
		v := toEth(args[i])
		if !input.Indexed {
			data = append(data, v)
			continue
		}
		hashes, err := ethabi.MakeTopics([]any{v})
		if err != nil {
			return nil, nil, err
		}
		topics = append(topics, thor.Bytes32(hashes[0][0]))
	}

	packed, err := e.nonIndexed.Pack(data...)
	if err != nil {
		return nil, nil, err
	}
	return topics, packed, nil
}

// Decode decodes a log of this event into a name to value map.
// Addresses decode as common.Address and uint256 as *big.Int.
func (e *Event) Decode(topics []thor.Bytes32, data []byte) (map[string]any, error) {
	if len(topics) == 0 || topics[0] != e.id {
		return nil, errors.New("abi: event id mismatch")
	}
	if len(topics)-1 != len(e.indexed) {
		return nil, errors.New("abi: topics count mismatch")
	}

	out := make(map[string]any)
	hashes := make([]common.Hash, 0, len(topics)-1)
	for _, t := range topics[1:] {
		hashes = append(hashes, common.Hash(t))
	}
	if err := ethabi.ParseTopicsIntoMap(out, e.indexed, hashes); err != nil {
		return nil, err
	}
	if err := e.nonIndexed.UnpackIntoMap(out, data); err != nil {
		return nil, err
	}
	return out, nil
}

func toEth(v any) any {
	switch v := v.(type) {
	case thor.Address:
		return common.Address(v)
	case *thor.Address:
		return common.Address(*v)
	case thor.Bytes32:
		return common.Hash(v)
	default:
		return v
	}
}
