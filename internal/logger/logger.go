// Package logger provides the structured logger used across this module's
// container implementations, wrapping log/slog behind a small
// process-wide level/handler knob instead of threading a *slog.Logger
// through every constructor.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Level mirrors slog.Level with the names used in component configuration.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	currentLevel atomic.Int32
	base         atomic.Pointer[slog.Logger]
)

func init() {
	currentLevel.Store(int32(LevelInfo))
	base.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// SetLevel adjusts the minimum level logged from this point on.
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
	base.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l.slog()})))
}

// SetOutput redirects log output and resets the handler at the current
// level, e.g. so tests can capture output with io.Discard or a buffer.
func SetOutput(w io.Writer) {
	l := Level(currentLevel.Load())
	base.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l.slog()})))
}

func logger() *slog.Logger { return base.Load() }

// Debug logs at debug level with structured key/value pairs.
func Debug(ctx context.Context, msg string, kv ...any) {
	logger().Log(ctx, slog.LevelDebug, msg, kv...)
}

// Info logs at info level with structured key/value pairs.
func Info(ctx context.Context, msg string, kv ...any) {
	logger().Log(ctx, slog.LevelInfo, msg, kv...)
}

// Warn logs at warn level with structured key/value pairs.
func Warn(ctx context.Context, msg string, kv ...any) {
	logger().Log(ctx, slog.LevelWarn, msg, kv...)
}

// Error logs at error level. err, if non-nil, is always attached under the
// "err" key — the convention every container layer in this module follows
// when surfacing a StorageErr.
func Error(ctx context.Context, msg string, err error, kv ...any) {
	args := append([]any{"err", err}, kv...)
	logger().Log(ctx, slog.LevelError, msg, args...)
}
