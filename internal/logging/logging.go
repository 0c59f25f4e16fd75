// Package logging holds the package level loggers of k3d packages.
// Loggers are silent until set.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var nop = slog.New(nopHandler{})

// Nop returns a logger that discards all records.
func Nop() *slog.Logger { return nop }

// Holder stores a logger safe for concurrent use. The zero value holds [Nop].
type Holder struct {
	p atomic.Pointer[slog.Logger]
}

// Set stores l. A nil l restores the silent logger.
func (h *Holder) Set(l *slog.Logger) {
	if l == nil {
		l = nop
	}
	h.p.Store(l)
}

// Logger returns the stored logger.
func (h *Holder) Logger() *slog.Logger {
	if l := h.p.Load(); l != nil {
		return l
	}
	return nop
}
