// Package protocol implements the four-message exchange (CONNECT,
// FUNC_FIND, FUNC_CALL, DISCONNECT) that makes up one connection's
// lifetime, for both the server and client sides.
package protocol

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/VestaKK/rpcbridge/internal/profile"
	"github.com/VestaKK/rpcbridge/internal/registry"
	"github.com/VestaKK/rpcbridge/internal/wire"
)

// Metrics is the set of observable events the server side of the protocol
// emits. A nil Metrics is always safe to pass — every call site nil-checks
// before use, so instrumentation costs nothing when it isn't wanted.
type Metrics interface {
	CallCompleted(procedure string, errFlags profile.ErrorFlag)
	CallDuration(procedure string, ms float64)
	ConnectionClosed(reason string)
}

// Tracer is the minimal span-creation seam the server side uses: it opens
// a span named after the exchange and returns a function to close it out,
// optionally recording an error. A nil Tracer skips span creation entirely.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, func(err error))
}

func startSpan(ctx context.Context, tr Tracer, name string) func(error) {
	if tr == nil {
		return func(error) {}
	}
	_, end := tr.StartSpan(ctx, name)
	return end
}

// HandleConnection runs the server-side message loop for one accepted
// connection: it reads one message tag at a time and dispatches to the
// matching exchange handler until the peer disconnects or a transport
// error ends the connection. Protocol-level failures (bad framing, calls
// before CONNECT, unknown procedures) are answered with an error reply and
// never end the loop themselves — only a transport error or an explicit
// DISCONNECT does.
func HandleConnection(ctx context.Context, rw io.ReadWriter, reg *registry.Registry, m Metrics, tr Tracer) {
	var prof profile.Profile

	for {
		tag, err := wire.ReadByte(rw)
		if err != nil {
			closedMetric(m, "transport")
			return
		}

		var loopErr error
		switch tag {
		case MsgConnect:
			loopErr = handleConnect(rw, &prof)
		case MsgFuncFind:
			loopErr = handleFind(ctx, rw, &prof, reg, tr)
		case MsgFuncCall:
			loopErr = handleCall(ctx, rw, &prof, reg, m, tr)
		case MsgDisconnect:
			closedMetric(m, "disconnect")
			return
		default:
			loopErr = sendError(rw, profile.ErrMsgInvalid)
		}

		if loopErr != nil {
			closedMetric(m, "transport")
			return
		}
	}
}

func closedMetric(m Metrics, reason string) {
	if m != nil {
		m.ConnectionClosed(reason)
	}
}

func readEnd(rw io.Reader) error {
	tag, err := wire.ReadByte(rw)
	if err != nil {
		return err
	}
	if tag != MsgEnd {
		return ErrProtocolViolation
	}
	return nil
}

// endOrViolation reads the packet's trailing END tag. A genuine transport
// failure is returned as-is (and ends the connection); a missing END is
// reported to the peer as PKT_INVALID and otherwise leaves the connection
// open, per the protocol's "protocol failures don't close the connection"
// rule — so the caller should treat a non-nil return here as always
// terminal for the *current* exchange, but only a non-nil return from
// sendError (a transport failure) is terminal for the connection.
func endOrViolation(rw io.ReadWriter) (violated bool, err error) {
	e := readEnd(rw)
	if e == nil {
		return false, nil
	}
	if e == ErrProtocolViolation {
		return true, sendError(rw, profile.ErrPqtInvalid)
	}
	return true, e
}

func handleConnect(rw io.ReadWriter, prof *profile.Profile) error {
	intBytes, err := wire.ReadByte(rw)
	if err != nil {
		return err
	}
	sizeBytes, err := wire.ReadByte(rw)
	if err != nil {
		return err
	}
	if violated, err := endOrViolation(rw); violated {
		return err
	}

	*prof = profile.FromWidths(intBytes, sizeBytes)

	if err := wire.WriteByte(rw, RtnSuccess); err != nil {
		return err
	}
	if err := wire.WriteByte(rw, profile.LocalIntBytes); err != nil {
		return err
	}
	if err := wire.WriteByte(rw, profile.LocalSizeBytes); err != nil {
		return err
	}
	return wire.WriteByte(rw, MsgEnd)
}

func handleFind(ctx context.Context, rw io.ReadWriter, prof *profile.Profile, reg *registry.Registry, tr Tracer) error {
	end := startSpan(ctx, tr, "FUNC_FIND")
	defer func() { end(nil) }()

	nameLen, err := wire.ReadUint16(rw)
	if err != nil {
		return err
	}
	nameBuf := make([]byte, nameLen)
	if err := wire.ReadExact(rw, nameBuf); err != nil {
		return err
	}
	if violated, err := endOrViolation(rw); violated {
		return err
	}
	if nameLen == 0 {
		return sendError(rw, profile.ErrPqtInvalid)
	}

	if !prof.Initialised {
		return sendError(rw, profile.ErrCxnInvalid)
	}

	name := string(nameBuf)
	if !registry.ValidName(name) {
		return sendError(rw, profile.ErrFuncNotFound)
	}

	_, digest, ok := reg.LookupByName(name)
	if !ok {
		return sendError(rw, profile.ErrFuncNotFound)
	}

	if err := wire.WriteByte(rw, RtnSuccess); err != nil {
		return err
	}
	if err := wire.WriteUint64(rw, digest); err != nil {
		return err
	}
	return wire.WriteByte(rw, MsgEnd)
}

func handleCall(ctx context.Context, rw io.ReadWriter, prof *profile.Profile, reg *registry.Registry, m Metrics, tr Tracer) error {
	end := startSpan(ctx, tr, "FUNC_CALL")
	defer func() { end(nil) }()
	start := time.Now()

	// ErrMalformed is raised only after the declared payload has been fully
	// drained (see payload.Decode), so the stream stays in sync: keep
	// reading digest and the end tag exactly as if decoding had succeeded,
	// and only report the violation once the whole packet is consumed.
	// Anything else — including ErrBufferTooLarge, whose declared body is
	// never read — desyncs the stream and must end the connection.
	in, decodeErr := payload.Decode(rw)
	if decodeErr != nil && !errors.Is(decodeErr, payload.ErrMalformed) {
		return decodeErr
	}

	digest, err := wire.ReadUint64(rw)
	if err != nil {
		return err
	}
	if violated, err := endOrViolation(rw); violated {
		return err
	}

	if decodeErr != nil {
		return sendError(rw, profile.ErrPqtInvalid)
	}

	if !prof.Initialised {
		return sendError(rw, profile.ErrCxnInvalid)
	}

	handler, name, ok := reg.LookupByDigest(digest)
	if !ok {
		return sendError(rw, profile.ErrHndlInvalid)
	}

	out, callErr := handler(in)
	payload.Free(in)
	if callErr != nil {
		recordCall(m, name, profile.ErrDataInvalid, start)
		return sendError(rw, profile.ErrDataInvalid)
	}

	if flags := profile.Validate(*prof, out); flags != profile.ErrNone {
		recordCall(m, name, flags, start)
		return sendError(rw, flags)
	}
	recordCall(m, name, profile.ErrNone, start)

	if err := wire.WriteByte(rw, RtnSuccess); err != nil {
		return err
	}
	if err := payload.Encode(rw, out); err != nil {
		return err
	}
	return wire.WriteByte(rw, MsgEnd)
}

func recordCall(m Metrics, procedure string, flags profile.ErrorFlag, start time.Time) {
	if m != nil {
		m.CallCompleted(procedure, flags)
		m.CallDuration(procedure, float64(time.Since(start).Microseconds())/1000.0)
	}
}

func sendError(rw io.Writer, flags profile.ErrorFlag) error {
	if err := wire.WriteByte(rw, RtnError); err != nil {
		return err
	}
	if err := wire.WriteByte(rw, byte(flags)); err != nil {
		return err
	}
	return wire.WriteByte(rw, MsgEnd)
}
