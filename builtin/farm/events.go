// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	_ "embed"
	"fmt"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/abi"
	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// Event names.
const (
	EventDeposit             = "Deposit"
	EventWithdraw            = "Withdraw"
	EventEmergencyWithdraw   = "EmergencyWithdraw"
	EventRewardLockedUp      = "RewardLockedUp"
	EventEmissionRateUpdated = "EmissionRateUpdated"
	EventSetFeeAddress       = "SetFeeAddress"
	EventSetDevAddress       = "SetDevAddress"
	EventPoolAdded           = "PoolAdded"
	EventPoolUpdated         = "PoolUpdated"
)

//go:embed farm.abi.json
var abiJSON []byte

var farmABI = func() *abi.ABI {
	a, err := abi.New(abiJSON)
	if err != nil {
		panic(err)
	}
	return a
}()

// ABI returns the event definitions of the farm.
func ABI() *abi.ABI { return farmABI }

// EventID returns the id (first topic) of the named event.
func EventID(name string) (thor.Bytes32, bool) {
	ev, ok := farmABI.EventByName(name)
	if !ok {
		return thor.Bytes32{}, false
	}
	return ev.ID(), true
}

// DecodeEvent returns the name and the fields of a farm event.
func DecodeEvent(topics []thor.Bytes32, data []byte) (string, map[string]any, error) {
	if len(topics) == 0 {
		return "", nil, fmt.Errorf("farm: event without topics")
	}
	ev, ok := farmABI.EventByID(topics[0])
	if !ok {
		return "", nil, fmt.Errorf("farm: unknown event %v", topics[0])
	}
	fields, err := ev.Decode(topics, data)
	if err != nil {
		return "", nil, err
	}
	return ev.Name(), fields, nil
}

func (f *Farm) emit(name string, args ...any) error {
	ev, ok := farmABI.EventByName(name)
	if !ok {
		return fmt.Errorf("farm: unknown event %s", name)
	}
	topics, data, err := ev.Encode(args...)
	if err != nil {
		return err
	}
	f.emitter.Emit(&Event{Address: f.addr, Topics: topics, Data: data})
	return nil
}
