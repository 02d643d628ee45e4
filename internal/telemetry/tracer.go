package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys scoped to the RPC exchange.
const (
	AttrConnectionID = "rpc.connection_id"
	AttrRemoteAddr   = "rpc.remote_addr"
	AttrProcedure    = "rpc.procedure"
	AttrDigest       = "rpc.digest"
	AttrErrorMask    = "rpc.error_mask"
	AttrPayloadInt   = "rpc.payload_int"
	AttrPayloadSize  = "rpc.payload_size"
)

// Span names for the four exchanges.
const (
	SpanConnect    = "rpc.CONNECT"
	SpanFuncFind   = "rpc.FUNC_FIND"
	SpanFuncCall   = "rpc.FUNC_CALL"
	SpanDisconnect = "rpc.DISCONNECT"
)

func ConnectionID(id string) attribute.KeyValue { return attribute.String(AttrConnectionID, id) }
func RemoteAddr(addr string) attribute.KeyValue  { return attribute.String(AttrRemoteAddr, addr) }
func Procedure(name string) attribute.KeyValue   { return attribute.String(AttrProcedure, name) }
func Digest(d uint64) attribute.KeyValue         { return attribute.Int64(AttrDigest, int64(d)) }
func ErrorMask(mask uint8) attribute.KeyValue    { return attribute.Int(AttrErrorMask, int(mask)) }
func PayloadInt(v int64) attribute.KeyValue      { return attribute.Int64(AttrPayloadInt, v) }
func PayloadSize(n int) attribute.KeyValue       { return attribute.Int(AttrPayloadSize, n) }

// StartExchangeSpan starts a span for one of the four protocol exchanges,
// tagging it with the connection ID up front.
func StartExchangeSpan(ctx context.Context, name, connectionID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append([]attribute.KeyValue{ConnectionID(connectionID)}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(allAttrs...))
}
