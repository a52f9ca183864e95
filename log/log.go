// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger is the structured key/value logger used across the module.
type Logger = ethlog.Logger

// Legacy numeric verbosity levels, as accepted by the --verbosity flag.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Levels accepted by the admin log level endpoint.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault replaces the root logger. Loggers created by WithContext pick up the new handler.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// NewLogger creates a logger writing through h.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// NewTerminalHandler returns a human friendly handler filtering records below the given legacy level.
func NewTerminalHandler(wr io.Writer, legacyLevel int, useColor bool) slog.Handler {
	var lvl slog.LevelVar
	lvl.Set(FromLegacyLevel(legacyLevel))
	return NewTerminalHandlerWithLevel(wr, &lvl, useColor)
}

// NewTerminalHandlerWithLevel is like NewTerminalHandler but follows lvl, which may change at runtime.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) slog.Handler {
	return &levelHandler{
		inner: ethlog.NewTerminalHandlerWithLevel(wr, levelMaxVerbosity, useColor),
		lvl:   lvl,
	}
}

// NewJSONHandler returns a JSON handler filtering records below the given legacy level.
func NewJSONHandler(wr io.Writer, legacyLevel int) slog.Handler {
	var lvl slog.LevelVar
	lvl.Set(FromLegacyLevel(legacyLevel))
	return NewJSONHandlerWithLevel(wr, &lvl)
}

// NewJSONHandlerWithLevel is like NewJSONHandler but follows lvl.
func NewJSONHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelHandler{
		inner: ethlog.JSONHandlerWithLevel(wr, levelMaxVerbosity),
		lvl:   lvl,
	}
}

// levelMaxVerbosity lets every record through the formatting handlers; filtering is left to levelHandler.
const levelMaxVerbosity = ethlog.LevelTrace

// levelHandler drops records below lvl, read on every call.
type levelHandler struct {
	inner slog.Handler
	lvl   *slog.LevelVar
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.lvl.Level() {
		return nil
	}
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{inner: h.inner.WithAttrs(attrs), lvl: h.lvl}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{inner: h.inner.WithGroup(name), lvl: h.lvl}
}

// FromLegacyLevel converts a legacy numeric verbosity into a slog level.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

// WithContext returns a logger carrying the given key/value context.
// The root handler is resolved when a record is written, so package level loggers
// declared before the handler is installed still end up on it.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type boundLogger struct {
	handler slog.Handler
	logger  Logger
}

type lazyLogger struct {
	ctx   []any
	bound atomic.Pointer[boundLogger]
}

func (l *lazyLogger) resolve() Logger {
	root := ethlog.Root()
	h := root.Handler()
	if b := l.bound.Load(); b != nil && b.handler == h {
		return b.logger
	}
	b := &boundLogger{handler: h, logger: root.With(l.ctx...)}
	l.bound.Store(b)
	return b.logger
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

func (l *lazyLogger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.resolve().Log(level, msg, ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.resolve().Crit(msg, ctx...) }

func (l *lazyLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.resolve().Write(level, msg, attrs...)
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.resolve().Enabled(ctx, level)
}

func (l *lazyLogger) Handler() slog.Handler {
	return l.resolve().Handler()
}
