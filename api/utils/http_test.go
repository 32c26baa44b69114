// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainedfarmsnetwork/cfn-sub-contracts/builtin/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest, "bad\n"},
		{"no cause", &httpError{status: http.StatusTeapot}, http.StatusTeapot, ""},
		{"revert", reverts.New("withdraw: not good"), http.StatusBadRequest, "withdraw: not good\n"},
		{"unauthorized", reverts.Unauthorized("ownable: caller is not the owner"), http.StatusForbidden, "ownable: caller is not the owner\n"},
		{"not found", reverts.NotFound("pool: unknown pid"), http.StatusNotFound, "pool: unknown pid\n"},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "disk on fire\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Amount *math.HexOrDecimal256 `json:"amount"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"amount":"0x10"}`), &v))
	assert.Equal(t, "16", BigOf(v.Amount).String())
	assert.Error(t, ParseJSON(strings.NewReader(`{"unknown":1}`), &v))

	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, M{"amount": Amount(nil)}))
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"amount":"0x0"}`, rec.Body.String())
}

func TestParseParams(t *testing.T) {
	pid, err := ParsePID("3")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), uint64(pid))

	_, err = ParsePID("x")
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))

	_, err = ParseAddress("0x12", "address")
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}
