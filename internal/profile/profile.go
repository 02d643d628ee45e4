// Package profile implements the hardware profile negotiated during
// CONNECT: the integer and buffer-length ranges each side declares, and the
// validation a payload is checked against before it crosses the wire.
package profile

import (
	"math"

	"github.com/VestaKK/rpcbridge/internal/payload"
)

// ErrorFlag mirrors the reference's rpc_error bitmask. Multiple flags can
// be set on a single validation result.
type ErrorFlag uint8

const (
	ErrNone         ErrorFlag = 0x0
	ErrCxnInvalid   ErrorFlag = 0x1
	ErrFuncNotFound ErrorFlag = 0x2
	ErrDataIntOvf   ErrorFlag = 0x4
	ErrDataBuffOvf  ErrorFlag = 0x8
	ErrDataInvalid  ErrorFlag = 0x10
	ErrHndlInvalid  ErrorFlag = 0x20
	ErrMsgInvalid   ErrorFlag = 0x40
	ErrPqtInvalid   ErrorFlag = 0x80
)

// Has reports whether flag is set within f.
func (f ErrorFlag) Has(flag ErrorFlag) bool { return f&flag != 0 }

// Profile describes the integer and buffer-length ranges a peer negotiated
// during CONNECT, derived from the byte-widths each side exchanges for its
// native int and size_t types.
type Profile struct {
	IntMax      int64
	IntMin      int64
	SizeMax     uint64
	Initialised bool
}

// MaxSignedWidth returns the largest representable signed value for an
// nBytes-wide two's-complement integer: 2^(8*nBytes-1) - 1.
func MaxSignedWidth(nBytes uint8) int64 {
	if nBytes == 0 {
		return 0
	}
	return int64(uint64(1)<<(8*uint(nBytes)-1)) - 1
}

// MaxUnsignedWidth returns the largest representable unsigned value for an
// nBytes-wide integer, saturating at math.MaxUint64 once nBytes reaches 8
// (a ninth byte of width would overflow the uint64 shift).
func MaxUnsignedWidth(nBytes uint8) uint64 {
	if nBytes >= 8 {
		return math.MaxUint64
	}
	return (uint64(1) << (8 * uint(nBytes))) - 1
}

// FromWidths builds an initialised Profile from the negotiated int and
// size_t byte-widths.
func FromWidths(intBytes, sizeBytes uint8) Profile {
	intMax := MaxSignedWidth(intBytes)
	return Profile{
		IntMax:      intMax,
		IntMin:      -intMax - 1,
		SizeMax:     MaxUnsignedWidth(sizeBytes),
		Initialised: true,
	}
}

// LocalIntBytes and LocalSizeBytes are the byte-widths this implementation
// advertises during CONNECT. Go's int64/uint64 payload fields are always
// 8 bytes wide regardless of host architecture, unlike the C reference's
// `sizeof(int)`/`sizeof(size_t)`, which varies by platform.
const (
	LocalIntBytes  uint8 = 8
	LocalSizeBytes uint8 = 8
)

// Validate checks data against p's negotiated limits, returning a bitmask
// of every violation found (matching check_data's accumulate-and-return-all
// behavior rather than failing fast on the first violation).
func Validate(p Profile, data *payload.Payload) ErrorFlag {
	if !p.Initialised {
		return ErrCxnInvalid
	}
	if data == nil {
		return ErrDataInvalid
	}

	var flags ErrorFlag

	if data.Int > p.IntMax || data.Int < p.IntMin {
		flags |= ErrDataIntOvf
	}

	// A present-but-empty buffer is a shape violation: Decode only ever
	// produces one when a peer sent BUFF set with a zero length, since a
	// genuinely absent buffer decodes to nil. Mirrors check_data's
	// data2_len == 0 && data2 != NULL disjunct; the data2_len > 0 && data2
	// == NULL disjunct has no Go analogue, since len(nil) is always 0.
	if data.Buffer != nil && len(data.Buffer) == 0 {
		flags |= ErrDataInvalid
	}

	if uint64(len(data.Buffer)) > p.SizeMax {
		flags |= ErrDataBuffOvf
	}

	return flags
}
