// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"
)

// Kind classifies a revert for callers that need to map it onto a transport status.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUnauthorized
	KindNotFound
)

// errorSelector is the 4-byte selector of Error(string).
var errorSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

// ErrRevert is a rejected call. The call leaves no state change behind.
type ErrRevert struct {
	message string
	kind    Kind
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

func Unauthorized(message string) *ErrRevert {
	return &ErrRevert{message: message, kind: KindUnauthorized}
}

func NotFound(message string) *ErrRevert {
	return &ErrRevert{message: message, kind: KindNotFound}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Bytes returns the revert reason ABI encoded as Error(string).
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	msg := []byte(e.message)
	padded := ((len(msg) + 31) / 32) * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, errorSelector)
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msg)))
	copy(encoded[4+64:], msg)

	return encoded
}

func IsRevertErr(err any) bool {
	return AsRevert(err) != nil
}

// AsRevert returns the revert wrapped in err, or nil.
func AsRevert(err any) *ErrRevert {
	if err == nil {
		return nil
	}
	e, ok := err.(error)
	if !ok {
		return nil
	}
	var ve *ErrRevert
	if errors.As(e, &ve) {
		return ve
	}
	return nil
}
