package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shortReader struct {
	data []byte
}

func (s *shortReader) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.data[:1])
	s.data = s.data[1:]
	return n, nil
}

func TestReadExact_ShortReadLoopsUntilFull(t *testing.T) {
	r := &shortReader{data: []byte{0x01, 0x02, 0x03, 0x04}}
	buf := make([]byte, 4)
	require.NoError(t, ReadExact(r, buf))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, buf)
}

func TestReadExact_PeerClosesEarlyIsDisconnected(t *testing.T) {
	r := bytes.NewReader([]byte{0x01, 0x02})
	buf := make([]byte, 4)
	err := ReadExact(r, buf)
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestUint64RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	want := uint64(0xDEADBEEFCAFEBABE)
	require.NoError(t, WriteUint64(&buf, want))
	got, err := ReadUint64(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInt64RoundTrip_Negative(t *testing.T) {
	var buf bytes.Buffer
	want := int64(-42)
	require.NoError(t, WriteInt64(&buf, want))
	got, err := ReadInt64(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUint16RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUint16(&buf, 0xBEEF))
	got, err := ReadUint16(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), got)
}

func TestWriteAll_NegativeWriteCountIsDisconnected(t *testing.T) {
	err := WriteAll(&brokenWriter{}, []byte{0x01})
	assert.ErrorIs(t, err, ErrDisconnected)
}

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) {
	return -1, nil
}
