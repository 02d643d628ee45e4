// Package logger provides the leveled, colorized structured logger used
// throughout rpcbridge: a package-level slog.Logger with atomically
// switchable level/format, plus a context-carried LogContext for
// per-connection correlation.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level is rpcbridge's own leveled enum, kept distinct from slog.Level so
// the atomic store below can use a plain int32.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlog() slog.Level {
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

// Config configures Init.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or a file path
}

var (
	level  atomic.Int32
	format atomic.Value // "text" or "json"

	mu     sync.RWMutex
	logger *slog.Logger
	out    io.Writer = os.Stdout
	color  bool
)

func init() {
	level.Store(int32(LevelInfo))
	format.Store("text")
	if f, ok := out.(*os.File); ok {
		color = isTerminal(f.Fd())
	}
	rebuild()
}

// Init applies cfg, opening a log file if Output names one.
func Init(cfg Config) error {
	if cfg.Output != "" {
		var w io.Writer
		var useColor bool
		switch strings.ToLower(cfg.Output) {
		case "stdout":
			w, useColor = os.Stdout, isTerminal(os.Stdout.Fd())
		case "stderr":
			w, useColor = os.Stderr, isTerminal(os.Stderr.Fd())
		default:
			f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("logger: open %q: %w", cfg.Output, err)
			}
			w, useColor = f, false
		}
		mu.Lock()
		out, color = w, useColor
		mu.Unlock()
	}
	if cfg.Level != "" {
		SetLevel(cfg.Level)
	}
	if cfg.Format != "" {
		SetFormat(cfg.Format)
	}
	return nil
}

// InitWithWriter points the logger at an arbitrary writer, for tests.
func InitWithWriter(w io.Writer, lvl, fmtName string, useColor bool) {
	mu.Lock()
	out, color = w, useColor
	mu.Unlock()
	if lvl != "" {
		SetLevel(lvl)
	}
	if fmtName != "" {
		SetFormat(fmtName)
	}
}

// SetLevel changes the minimum emitted level. Unrecognized values are
// ignored so a malformed config-reload never disables logging outright.
func SetLevel(name string) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		level.Store(int32(LevelDebug))
	case "INFO":
		level.Store(int32(LevelInfo))
	case "WARN":
		level.Store(int32(LevelWarn))
	case "ERROR":
		level.Store(int32(LevelError))
	default:
		return
	}
	rebuild()
}

// SetFormat switches between "text" and "json" output.
func SetFormat(name string) {
	name = strings.ToLower(name)
	if name != "text" && name != "json" {
		return
	}
	format.Store(name)
	rebuild()
}

func rebuild() {
	mu.Lock()
	defer mu.Unlock()

	lv := new(slog.LevelVar)
	lv.Set(Level(level.Load()).toSlog())
	opts := &slog.HandlerOptions{Level: lv}

	f, _ := format.Load().(string)
	var h slog.Handler
	if f == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = newTextHandler(out, opts, color)
	}
	logger = slog.New(h)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func enabled(l Level) bool {
	return int32(l) >= level.Load()
}

func Debug(msg string, args ...any) {
	if !enabled(LevelDebug) {
		return
	}
	current().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	if !enabled(LevelInfo) {
		return
	}
	current().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	if !enabled(LevelWarn) {
		return
	}
	current().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// DebugCtx, InfoCtx, WarnCtx, and ErrorCtx log with the LogContext carried
// on ctx (if any) prepended to args.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	if !enabled(LevelDebug) {
		return
	}
	current().Debug(msg, withContextFields(ctx, args)...)
}

func InfoCtx(ctx context.Context, msg string, args ...any) {
	if !enabled(LevelInfo) {
		return
	}
	current().Info(msg, withContextFields(ctx, args)...)
}

func WarnCtx(ctx context.Context, msg string, args ...any) {
	if !enabled(LevelWarn) {
		return
	}
	current().Warn(msg, withContextFields(ctx, args)...)
}

func ErrorCtx(ctx context.Context, msg string, args ...any) {
	current().Error(msg, withContextFields(ctx, args)...)
}

// With returns a *slog.Logger with args pre-bound, for call sites that log
// repeatedly within one scope (e.g. once per connection).
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// Since returns the elapsed milliseconds since start, for DurationMs.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

func withContextFields(ctx context.Context, args []any) []any {
	lc := FromContext(ctx)
	if lc == nil {
		return args
	}
	fields := make([]any, 0, 10+len(args))
	if lc.ConnectionID != "" {
		fields = append(fields, KeyConnectionID, lc.ConnectionID)
	}
	if lc.RemoteAddr != "" {
		fields = append(fields, KeyRemoteAddr, lc.RemoteAddr)
	}
	if lc.Procedure != "" {
		fields = append(fields, KeyProcedure, lc.Procedure)
	}
	if lc.TraceID != "" {
		fields = append(fields, KeyTraceID, lc.TraceID)
	}
	if lc.SpanID != "" {
		fields = append(fields, KeySpanID, lc.SpanID)
	}
	return append(fields, args...)
}
