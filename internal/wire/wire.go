// Package wire implements the lowest layer of the rpcbridge transport: full
// reads and writes over a byte stream, with all multi-byte fields in network
// byte order. Nothing here knows about messages, payloads, or procedures —
// only about moving an exact number of bytes across a socket.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrDisconnected is returned by Read/Write helpers whenever the peer closes
// the connection (orderly or otherwise) before the requested number of bytes
// could be transferred. Callers should treat it as a transport failure: abort
// the connection loop and close the socket, per the protocol's error tiers.
var ErrDisconnected = errors.New("wire: peer disconnected")

// ReadExact reads exactly len(buf) bytes from r, looping over short reads.
// Any read that returns 0 bytes with io.EOF (or any other error) before buf
// is full is reported as ErrDisconnected — the caller has no way to tell an
// orderly close from a reset at this layer, and the protocol spec treats
// both the same way.
func ReadExact(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return ErrDisconnected
	}
	return nil
}

// ReadByte reads a single byte.
func ReadByte(r io.Reader) (byte, error) {
	var b [1]byte
	if err := ReadExact(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a big-endian uint16.
func ReadUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if err := ReadExact(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

// ReadUint64 reads a big-endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if err := ReadExact(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// ReadInt64 reads a two's-complement big-endian int64.
func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// WriteAll writes every byte in buf, looping over short writes. Any write
// error (other than having written a partial amount and being asked to
// continue, which this function handles internally) is reported as
// ErrDisconnected.
func WriteAll(w io.Writer, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := w.Write(buf[total:])
		if n < 0 {
			return ErrDisconnected
		}
		total += n
		if err != nil {
			return ErrDisconnected
		}
	}
	return nil
}

// WriteByte writes a single byte.
func WriteByte(w io.Writer, b byte) error {
	return WriteAll(w, []byte{b})
}

// WriteUint16 writes v in big-endian order.
func WriteUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return WriteAll(w, b[:])
}

// WriteUint64 writes v in big-endian order.
func WriteUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return WriteAll(w, b[:])
}

// WriteInt64 writes v in big-endian two's-complement order.
func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}
