package logger

import (
	"context"
	"time"
)

type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds per-connection correlation fields that every log line
// emitted while servicing that connection should carry.
type LogContext struct {
	ConnectionID string
	RemoteAddr   string
	Procedure    string
	TraceID      string
	SpanID       string
	StartTime    time.Time
}

// NewLogContext starts a LogContext for a freshly accepted connection.
func NewLogContext(connectionID, remoteAddr string) *LogContext {
	return &LogContext{
		ConnectionID: connectionID,
		RemoteAddr:   remoteAddr,
		StartTime:    time.Now(),
	}
}

// WithContext attaches lc to ctx.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext attached to ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

func (lc *LogContext) clone() *LogContext {
	if lc == nil {
		return nil
	}
	cp := *lc
	return &cp
}

// WithProcedure returns a copy of lc with Procedure set, for tagging log
// lines emitted while a specific FUNC_CALL is in flight.
func (lc *LogContext) WithProcedure(name string) *LogContext {
	cp := lc.clone()
	if cp != nil {
		cp.Procedure = name
	}
	return cp
}

// WithTrace returns a copy of lc with trace/span IDs set.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	cp := lc.clone()
	if cp != nil {
		cp.TraceID = traceID
		cp.SpanID = spanID
	}
	return cp
}

// DurationMs reports elapsed milliseconds since StartTime.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
