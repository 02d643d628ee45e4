package registry

import (
	"testing"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(in *payload.Payload) (*payload.Payload, error) {
	return in, nil
}

func TestValidName(t *testing.T) {
	assert.False(t, ValidName(""))
	assert.True(t, ValidName("echo"))
	assert.True(t, ValidName(string(rune(0x20))+"x"))
	assert.False(t, ValidName(string(rune(0x1F))+"x"))
	assert.True(t, ValidName(string(rune(0x84))+"x"))
	assert.False(t, ValidName(string(rune(0x85))+"x"))
}

func TestDigest_StableAcrossCalls(t *testing.T) {
	a := Digest("echo")
	b := Digest("echo")
	assert.Equal(t, a, b)
}

func TestDigest_DiffersForDifferentNames(t *testing.T) {
	assert.NotEqual(t, Digest("echo"), Digest("sum"))
}

func TestDigest_EmptyStringIsZero(t *testing.T) {
	assert.Equal(t, uint64(0), Digest(""))
}

func TestDigest_SingleByteMatchesFormula(t *testing.T) {
	// hash = (0*97 + ('a' - 0x20 + 1)) % modulo = 'a' - 0x20 + 1
	want := uint64('a') - 0x20 + 1
	assert.Equal(t, want, Digest("a"))
}

func TestRegister_RejectsInvalidName(t *testing.T) {
	r := New()
	err := r.Register("", echoHandler)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRegister_IsIdempotent(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("echo", echoHandler))
	require.NoError(t, r.Register("echo", echoHandler))
	assert.Equal(t, 1, r.Len())
}

func TestLookupByName_ReturnsRegisteredHandler(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("echo", echoHandler))

	h, digest, ok := r.LookupByName("echo")
	require.True(t, ok)
	assert.Equal(t, Digest("echo"), digest)
	assert.NotNil(t, h)
}

func TestLookupByDigest_UnknownReturnsNoMatch(t *testing.T) {
	r := New()
	_, name, ok := r.LookupByDigest(0xDEADBEEF)
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestRemove_DeletesEntryWithoutDisturbingOthers(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("echo", echoHandler))
	require.NoError(t, r.Register("sum", echoHandler))
	require.NoError(t, r.Register("copy", echoHandler))

	r.Remove("sum")

	assert.Equal(t, 2, r.Len())
	_, _, ok := r.LookupByName("sum")
	assert.False(t, ok)
	_, _, ok = r.LookupByName("echo")
	assert.True(t, ok)
	_, _, ok = r.LookupByName("copy")
	assert.True(t, ok)
}

func TestRegister_FailsAfterClose(t *testing.T) {
	r := New()
	r.Close()
	err := r.Register("echo", echoHandler)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
}
