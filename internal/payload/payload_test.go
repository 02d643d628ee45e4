package payload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_IntOnly(t *testing.T) {
	var buf bytes.Buffer
	in := &Payload{Int: -7}
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), out.Int)
	assert.Empty(t, out.Buffer)
}

func TestEncodeDecode_BufferOnly(t *testing.T) {
	var buf bytes.Buffer
	in := &Payload{Buffer: []byte("hello")}
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Int)
	assert.Equal(t, []byte("hello"), out.Buffer)
}

func TestEncodeDecode_Both(t *testing.T) {
	var buf bytes.Buffer
	in := &Payload{Int: 42, Buffer: []byte{0x01, 0x02, 0x03}}
	require.NoError(t, Encode(&buf, in))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in.Int, out.Int)
	assert.Equal(t, in.Buffer, out.Buffer)
}

func TestEncodeDecode_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &Payload{}))

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Int)
	assert.Empty(t, out.Buffer)
}

func TestDecode_MissingIntFlagIsMalformed(t *testing.T) {
	// A lone FlagNone byte: the reference requires the INT bit to always
	// be set for a sent payload.
	buf := bytes.NewBuffer([]byte{byte(FlagNone)})
	out, err := Decode(buf)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Nil(t, out)
}

func TestDecode_MissingIntFlagStillDrainsDeclaredBuffer(t *testing.T) {
	// Even though INT is clear (a violation), the BUFF body is still fully
	// consumed before the error is returned, so a caller that keeps the
	// connection open finds the stream positioned at the next message.
	var raw bytes.Buffer
	require.NoError(t, raw.WriteByte(byte(FlagBuff))) // INT clear, BUFF set
	var lenBytes [8]byte
	lenBytes[7] = 4 // length 4, big-endian
	raw.Write(lenBytes[:])
	raw.WriteString("next")
	raw.WriteString("TAG") // bytes for the next message, must stay untouched

	r := bytes.NewReader(raw.Bytes())
	_, err := Decode(r)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, 3, r.Len(), "only the declared buffer body should be drained")
}

func TestDecode_ShortReadNeverYieldsPartialPayload(t *testing.T) {
	// flags byte claims int and a buffer, but the length field is truncated.
	buf := bytes.NewBuffer([]byte{byte(FlagInt | FlagBuff), 0, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x00})
	out, err := Decode(buf)
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestDecode_TruncatedBufferBodyIsTransportError(t *testing.T) {
	var lenBuf bytes.Buffer
	in := &Payload{Buffer: []byte("abcdefgh")}
	require.NoError(t, Encode(&lenBuf, in))

	truncated := lenBuf.Bytes()[:len(lenBuf.Bytes())-3]
	out, err := Decode(bytes.NewReader(truncated))
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestDecode_RejectsBufferLengthAboveCeiling(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, buf.WriteByte(byte(FlagInt | FlagBuff)))
	var intBytes [8]byte
	buf.Write(intBytes[:])
	var lenBytes [8]byte
	// MaxBufferLen+1, big-endian.
	v := uint64(MaxBufferLen) + 1
	for i := 0; i < 8; i++ {
		lenBytes[7-i] = byte(v >> (8 * i))
	}
	buf.Write(lenBytes[:])

	out, err := Decode(&buf)
	assert.ErrorIs(t, err, ErrBufferTooLarge)
	assert.Nil(t, out)
}

func TestFree_ClearsBuffer(t *testing.T) {
	p := &Payload{Buffer: []byte{1, 2, 3}}
	Free(p)
	assert.Nil(t, p.Buffer)
}
