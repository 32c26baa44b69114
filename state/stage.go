// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/thor"
)

// Stage abstracts the pending changes of a state.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
	keys    []storageKey
}

func newStage(state *State, changes map[storageKey]rlp.RawValue) *Stage {
	keys := make([]storageKey, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].encode(), keys[j].encode()) < 0
	})
	return &Stage{state, changes, keys}
}

// Len returns count of changed slots.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Hash computes hash of the changes in key order.
func (s *Stage) Hash() thor.Bytes32 {
	return thor.Blake2bFn(func(w io.Writer) {
		for _, k := range s.keys {
			w.Write(k.encode())
			w.Write(s.changes[k])
		}
	})
}

// Commit writes all changes into the backing store and clears the journal.
func (s *Stage) Commit() error {
	batch := s.state.store.NewBatch()
	for _, k := range s.keys {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = batch.Delete(k.encode())
		} else {
			err = batch.Put(k.encode(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{errors.Wrap(err, "write batch")}
	}
	s.state.reset(s.changes)
	return nil
}
