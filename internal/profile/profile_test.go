package profile

import (
	"math"
	"testing"

	"github.com/VestaKK/rpcbridge/internal/payload"
	"github.com/stretchr/testify/assert"
)

func TestMaxSignedWidth(t *testing.T) {
	assert.Equal(t, int64(127), MaxSignedWidth(1))
	assert.Equal(t, int64(32767), MaxSignedWidth(2))
	assert.Equal(t, int64(math.MaxInt64), MaxSignedWidth(8))
}

func TestMaxUnsignedWidth(t *testing.T) {
	assert.Equal(t, uint64(255), MaxUnsignedWidth(1))
	assert.Equal(t, uint64(math.MaxUint64), MaxUnsignedWidth(8))
	assert.Equal(t, uint64(math.MaxUint64), MaxUnsignedWidth(9))
}

func TestFromWidths(t *testing.T) {
	p := FromWidths(1, 1)
	assert.True(t, p.Initialised)
	assert.Equal(t, int64(127), p.IntMax)
	assert.Equal(t, int64(-128), p.IntMin)
	assert.Equal(t, uint64(255), p.SizeMax)
}

func TestValidate_UninitialisedProfile(t *testing.T) {
	flags := Validate(Profile{}, &payload.Payload{})
	assert.True(t, flags.Has(ErrCxnInvalid))
}

func TestValidate_NilData(t *testing.T) {
	flags := Validate(FromWidths(1, 1), nil)
	assert.True(t, flags.Has(ErrDataInvalid))
}

func TestValidate_IntOverflow(t *testing.T) {
	p := FromWidths(1, 8)
	flags := Validate(p, &payload.Payload{Int: 1000})
	assert.True(t, flags.Has(ErrDataIntOvf))
}

func TestValidate_BufferOverflow(t *testing.T) {
	p := FromWidths(8, 1)
	flags := Validate(p, &payload.Payload{Buffer: make([]byte, 300)})
	assert.True(t, flags.Has(ErrDataBuffOvf))
}

func TestValidate_WithinLimitsIsClean(t *testing.T) {
	p := FromWidths(8, 8)
	flags := Validate(p, &payload.Payload{Int: 42, Buffer: []byte("ok")})
	assert.Equal(t, ErrNone, flags)
}

func TestValidate_PresentButEmptyBufferIsDataInvalid(t *testing.T) {
	p := FromWidths(8, 8)
	flags := Validate(p, &payload.Payload{Int: 1, Buffer: []byte{}})
	assert.True(t, flags.Has(ErrDataInvalid))
}

func TestValidate_NilBufferIsNotDataInvalid(t *testing.T) {
	p := FromWidths(8, 8)
	flags := Validate(p, &payload.Payload{Int: 1})
	assert.Equal(t, ErrNone, flags)
}
