package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives a copy of every emitted log record. Used to fan log
// records out to an exporter without touching call sites.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirror atomic.Pointer[MirrorFunc]

// SetMirror installs the process-wide log mirror. Passing nil removes it.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(&fn)
}

func notifyMirror(ctx context.Context, level Level, msg string, args []any) {
	fn := mirror.Load()
	if fn == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	(*fn)(ctx, level, msg, args...)
}
