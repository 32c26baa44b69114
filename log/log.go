// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package scoped loggers on top of the go-ethereum slog logger.
// Loggers created by WithContext resolve the root handler on every call, so they can be
// declared as package variables before the handler is configured.
package log

import (
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels, accepted by the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Levels beyond the ones of log/slog.
const (
	LevelTrace = ethlog.LevelTrace
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs at different levels.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	With(ctx ...any) Logger
}

type logger struct {
	ctx []any
}

// WithContext returns a logger carrying the given key/value pairs.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

func (l *logger) root() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.root().Crit(msg, ctx...) }

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &logger{ctx: append(merged, ctx...)}
}

var root = WithContext()

func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { root.Crit(msg, ctx...) }

// SetDefault replaces the handler of the root logger.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// FromLegacyLevel converts a 0-5 verbosity into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

// DiscardHandler returns a handler dropping everything.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}
