package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestHolder(t *testing.T) {
	var h Holder
	if h.Logger() != Nop() {
		t.Fatal("zero Holder should hold the nop logger")
	}
	if h.Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should be disabled at all levels")
	}
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	h.Set(l)
	h.Logger().Info("hello")
	if buf.Len() == 0 {
		t.Error("set logger did not receive record")
	}
	h.Set(nil)
	if h.Logger() != Nop() {
		t.Error("Set(nil) should restore the nop logger")
	}
	if Nop().With("k", 1).Enabled(context.Background(), slog.LevelError) {
		t.Error("derived nop logger should stay disabled")
	}
}
