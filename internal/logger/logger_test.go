package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_WritesLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	Info("connection accepted", "remote_addr", "10.0.0.1:5000")

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "connection accepted")
	assert.Contains(t, out, "remote_addr=10.0.0.1:5000")
}

func TestDebug_SuppressedBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	Debug("should not appear")

	assert.Empty(t, buf.String())
}

func TestSetLevel_IgnoresUnknownValue(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "WARN", "text", false)
	SetLevel("NOT_A_LEVEL")

	Info("still suppressed")
	assert.Empty(t, buf.String())
}

func TestInfoCtx_PrependsLogContextFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "text", false)

	lc := NewLogContext("abc-123", "10.0.0.1:5000")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "func_call dispatched")

	out := buf.String()
	assert.True(t, strings.Contains(out, "connection_id=abc-123"))
	assert.True(t, strings.Contains(out, "remote_addr=10.0.0.1:5000"))
}

func TestJSONFormat_ProducesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "INFO", "json", false)

	Info("hello", "digest", uint64(42))

	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
