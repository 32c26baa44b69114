// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelVar(l slog.Level) *slog.LevelVar {
	var v slog.LevelVar
	v.Set(l)
	return &v
}

func TestWithContextResolvesLateHandler(t *testing.T) {
	pkgLogger := WithContext("pkg", "farm")

	buf := &bytes.Buffer{}
	SetDefault(JSONHandler(buf, levelVar(slog.LevelDebug)))
	defer SetDefault(DiscardHandler())

	pkgLogger.With("pid", 1).Info("pool refreshed", "block", 10)

	line := strings.TrimSpace(buf.String())
	require.NotEmpty(t, line)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "pool refreshed", rec["msg"])
	assert.Equal(t, "farm", rec["pkg"])
	assert.EqualValues(t, 1, rec["pid"])
	assert.EqualValues(t, 10, rec["block"])
}

func TestLevelFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	SetDefault(JSONHandler(buf, levelVar(FromLegacyLevel(LegacyLevelWarn))))
	defer SetDefault(DiscardHandler())

	Debug("hidden")
	Info("hidden")
	Warn("shown")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "shown")
}

func TestLevelVar(t *testing.T) {
	buf := &bytes.Buffer{}
	var lvl slog.LevelVar
	lvl.Set(slog.LevelWarn)
	SetDefault(TerminalHandler(buf, false, &lvl))
	defer SetDefault(DiscardHandler())

	Info("hidden")
	lvl.Set(slog.LevelDebug)
	Debug("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONLevelVar(t *testing.T) {
	buf := &bytes.Buffer{}
	lvl := levelVar(slog.LevelInfo)
	SetDefault(JSONHandler(buf, lvl))
	defer SetDefault(DiscardHandler())

	Trace("hidden")
	lvl.Set(LevelTrace)
	Trace("shown", "amount", big.NewInt(1e18))

	line := strings.TrimSpace(buf.String())
	require.Equal(t, 1, strings.Count(line, "\n")+1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "trace", rec["lvl"])
	assert.Equal(t, "1000000000000000000", rec["amount"])
	assert.Contains(t, rec, "t")
}

func TestTerminalWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	lvl := levelVar(slog.LevelInfo)
	SetDefault(TerminalHandler(buf, false, lvl))
	defer SetDefault(DiscardHandler())

	pkgLogger := WithContext("pkg", "farm")
	pkgLogger.Debug("hidden")
	lvl.Set(slog.LevelDebug)
	pkgLogger.Debug("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "pkg=farm")
}
