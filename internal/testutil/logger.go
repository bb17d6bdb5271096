// Package testutil provides helpers shared by the package tests: a logger
// bound to the running test and sqlmock fixtures for catalog queries.
package testutil

import (
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level logger whose records go through
// t.Log, so registry and compilation traces show up next to the failing
// assertion (or everywhere under go test -v).
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tbWriter{tb: t}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// tbWriter adapts testing.TB to io.Writer; one Write is one record.
type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(p))
	return len(p), nil
}
