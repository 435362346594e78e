// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// Logger is the structured logger used across packages.
type Logger interface {
	// With returns a logger that includes the given attributes in each output.
	With(args ...any) Logger

	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) With(args ...any) Logger {
	return &logger{l.inner.With(args...)}
}

func (l *logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *logger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *logger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// rootHandler is swapped by SetHandler. Records route through it at call
// time, so loggers created during package init pick up later SetHandler
// calls too.
var rootHandler atomic.Value

// handlerBox gives atomic.Value a single concrete type to store, since
// handlers of differing concrete types are swapped in over time.
type handlerBox struct{ h slog.Handler }

func init() {
	rootHandler.Store(handlerBox{DiscardHandler()})
}

// SetHandler sets the output handler of the root logger and every logger
// derived from it. Records are discarded until the first call.
func SetHandler(h slog.Handler) {
	rootHandler.Store(handlerBox{h})
}

var root Logger = &logger{slog.New(&dynamicHandler{})}

// Root returns the root logger.
func Root() Logger {
	return root
}

// WithContext returns a package logger carrying the given attributes.
func WithContext(args ...any) Logger {
	return root.With(args...)
}

// dynamicHandler forwards records to the current root handler, folding in
// the attributes accumulated through With.
type dynamicHandler struct {
	attrs []slog.Attr
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	if len(h.attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(h.attrs...)
	}
	return rootHandler.Load().(handlerBox).h.Handle(ctx, r)
}

func (h *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return rootHandler.Load().(handlerBox).h.Enabled(ctx, level)
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &dynamicHandler{attrs: merged}
}

func (h *dynamicHandler) WithGroup(_ string) slog.Handler {
	return h
}

// NewTextHandler returns a level-filtered text handler for the writer.
func NewTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// NewJSONHandler returns a level-filtered JSON handler for the writer.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

type discardHandler struct{}

func (h *discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h *discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h *discardHandler) WithGroup(string) slog.Handler             { return h }
func (h *discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }

// FromLegacyLevel converts verbosity flag values to slog levels.
func FromLegacyLevel(lvl int) slog.Level {
	switch {
	case lvl <= 0:
		return slog.LevelError
	case lvl == 1:
		return slog.LevelWarn
	case lvl == 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
