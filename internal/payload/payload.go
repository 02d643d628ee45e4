// Package payload implements the two-field call payload (a signed 64-bit
// integer and an opaque byte buffer) and its tagged wire encoding.
package payload

import (
	"errors"
	"fmt"
	"io"

	"github.com/VestaKK/rpcbridge/internal/wire"
)

// Flag bits tag which fields are present in an encoded payload.
const (
	FlagNone Flag = 0x0
	FlagInt  Flag = 0x1
	FlagBuff Flag = 0x80
)

// Flag is the one-byte tag preceding an encoded payload.
type Flag uint8

func (f Flag) HasInt() bool  { return f&FlagInt != 0 }
func (f Flag) HasBuff() bool { return f&FlagBuff != 0 }

// MaxBufferLen bounds the BUFF length field Decode will trust before
// allocating. A peer that declares a length anywhere near this ceiling is
// malformed or hostile; there is no legitimate payload this large on this
// wire. This guards the allocation itself, ahead of and independent from
// the negotiated hardware profile's own SizeMax, which isn't known to this
// package and is checked separately once a Profile is available.
const MaxBufferLen = 64 << 20 // 64 MiB

// ErrMalformed is returned by Decode when a payload's wire encoding breaks
// the one fixed invariant every payload has: the INT flag bit is always
// set. Protocol-level callers treat this as a framing violation, the same
// as a missing MsgEnd terminator.
var ErrMalformed = errors.New("payload: INT flag not set")

// ErrBufferTooLarge is returned by Decode when a declared BUFF length
// exceeds MaxBufferLen.
var ErrBufferTooLarge = errors.New("payload: buffer length exceeds ceiling")

// Payload is the two-field value exchanged on a FUNC_CALL request or reply:
// a signed integer, always present, and an opaque byte buffer that may be
// absent. An absent buffer reads as nil.
type Payload struct {
	Int    int64
	Buffer []byte
}

// flags derives the wire tag byte for p. The INT bit is always set for a
// non-nil payload; a nil buffer, or a buffer with length zero, is treated
// as "no buffer" — mirroring the reference's data2_len/data2 pairing check.
func (p *Payload) flags() Flag {
	if p == nil {
		return FlagNone
	}
	f := FlagInt
	if len(p.Buffer) > 0 {
		f |= FlagBuff
	}
	return f
}

// Encode writes p's wire representation: a flags byte, followed by the
// integer field if tagged, followed by a length-prefixed buffer if tagged.
// A nil p encodes as a single FlagNone byte.
func Encode(w io.Writer, p *Payload) error {
	f := p.flags()
	if err := wire.WriteByte(w, byte(f)); err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	if f.HasInt() {
		if err := wire.WriteInt64(w, p.Int); err != nil {
			return err
		}
	}
	if f.HasBuff() {
		if err := wire.WriteUint64(w, uint64(len(p.Buffer))); err != nil {
			return err
		}
		if err := wire.WriteAll(w, p.Buffer); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a payload from r. Any short read at any stage — flags,
// integer, length, or buffer body — is reported as a transport error and
// never returns a partially populated Payload: the caller gets either a
// fully decoded value or none at all.
//
// Every field the flags byte declares present is read off the wire before
// Decode reports any problem with it, so a caller that keeps the
// connection open after an error (a framing violation, as opposed to a
// transport failure) finds the stream positioned exactly where the next
// message starts. An INT bit left clear is exactly such a violation —
// ErrMalformed — and is only returned once the rest of the declared
// payload has been drained. A BUFF length above MaxBufferLen
// (ErrBufferTooLarge) is different: the declared body is never read, so
// the stream can't be trusted to resync, and the caller should treat it
// like any other transport failure and close the connection.
func Decode(r io.Reader) (*Payload, error) {
	flagByte, err := wire.ReadByte(r)
	if err != nil {
		return nil, err
	}
	f := Flag(flagByte)

	p := &Payload{}

	if f.HasInt() {
		v, err := wire.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		p.Int = v
	}

	if f.HasBuff() {
		length, err := wire.ReadUint64(r)
		if err != nil {
			return nil, err
		}
		if length > MaxBufferLen {
			return nil, ErrBufferTooLarge
		}
		buf := make([]byte, length)
		if err := wire.ReadExact(r, buf); err != nil {
			return nil, err
		}
		p.Buffer = buf
	}

	if !f.HasInt() {
		return nil, ErrMalformed
	}

	return p, nil
}

// Free releases a payload's buffer. Go's garbage collector reclaims the
// backing array once no reference remains; Free exists so call sites that
// mirror the C reference's explicit free_payload step still have something
// to call, and so a future pooled-buffer allocator has an obvious seam.
func Free(p *Payload) {
	if p == nil {
		return
	}
	p.Buffer = nil
}

// String renders p for logging.
func (p *Payload) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("Payload{Int:%d BufferLen:%d}", p.Int, len(p.Buffer))
}
