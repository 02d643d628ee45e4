package logger

import "log/slog"

// Standard field keys, scoped to this protocol's vocabulary.
const (
	KeyTraceID      = "trace_id"
	KeySpanID       = "span_id"
	KeyConnectionID = "connection_id"
	KeyRemoteAddr   = "remote_addr"
	KeyProcedure    = "procedure"
	KeyDigest       = "digest"
	KeyHandle       = "handle"
	KeyErrorMask    = "error_mask"
	KeyPayloadInt   = "payload_int"
	KeyPayloadSize  = "payload_size"
	KeyDurationMs   = "duration_ms"
	KeyWorkerID     = "worker_id"
	KeyQueueDepth   = "queue_depth"
	KeyError        = "error"
	KeyReason       = "reason"
)

func TraceID(id string) slog.Attr      { return slog.String(KeyTraceID, id) }
func SpanID(id string) slog.Attr       { return slog.String(KeySpanID, id) }
func ConnectionID(id string) slog.Attr { return slog.String(KeyConnectionID, id) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func Procedure(name string) slog.Attr { return slog.String(KeyProcedure, name) }
func Digest(d uint64) slog.Attr        { return slog.Uint64(KeyDigest, d) }
func Handle(h uint64) slog.Attr        { return slog.Uint64(KeyHandle, h) }
func ErrorMask(mask uint8) slog.Attr   { return slog.Int(KeyErrorMask, int(mask)) }
func PayloadInt(v int64) slog.Attr     { return slog.Int64(KeyPayloadInt, v) }
func PayloadSize(n int) slog.Attr      { return slog.Int(KeyPayloadSize, n) }
func DurationMs(ms float64) slog.Attr  { return slog.Float64(KeyDurationMs, ms) }
func WorkerID(id int) slog.Attr        { return slog.Int(KeyWorkerID, id) }
func QueueDepth(n int) slog.Attr       { return slog.Int(KeyQueueDepth, n) }
func Reason(reason string) slog.Attr   { return slog.String(KeyReason, reason) }

// Err returns a slog.Attr for an error, or a zero Attr (dropped by the
// handler) if err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
