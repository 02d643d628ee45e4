package prompt

import (
	"errors"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
)

func TestIsAborted_RecognizesPromptuiSentinels(t *testing.T) {
	assert.True(t, IsAborted(promptui.ErrInterrupt))
	assert.True(t, IsAborted(promptui.ErrAbort))
	assert.True(t, IsAborted(ErrAborted))
	assert.False(t, IsAborted(errors.New("some other error")))
}

func TestWrapError_NormalizesAbortsToErrAborted(t *testing.T) {
	assert.ErrorIs(t, wrapError(promptui.ErrInterrupt), ErrAborted)
	assert.Nil(t, wrapError(nil))

	other := errors.New("boom")
	assert.Equal(t, other, wrapError(other))
}
