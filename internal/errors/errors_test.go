package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"prerequisite":  {category: Prerequisite, want: "Prerequisite Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(42), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestFormatErrorPlain_MissingVersionFile(t *testing.T) {
	out := FormatErrorPlain(MissingVersionFile())

	assert.Contains(t, out, "Error [Argument Error]: version file is required")
	assert.Contains(t, out, "Usage: "+Usage)
	assert.Contains(t, out, "To fix this:")
	assert.Contains(t, out, "  • Example: reltag VERSION CHANGELOG.md")
}

func TestFormatErrorPlain_Nil(t *testing.T) {
	assert.Empty(t, FormatErrorPlain(nil))
	assert.Empty(t, FormatError(nil))
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("tag already exists")
	err := TagCreationFailed("v1.0.0", cause)

	require.NotNil(t, err)
	assert.Equal(t, Runtime, err.Category)
	assert.Equal(t, "creating tag v1.0.0: tag already exists", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "ignored"))
}

func TestAsCLIError_ThroughWrapping(t *testing.T) {
	inner := MissingVersionFile()
	wrapped := fmt.Errorf("running release: %w", inner)

	assert.True(t, IsCLIError(wrapped))
	assert.Same(t, inner, AsCLIError(wrapped))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
}

func TestFprintError_FallbackCategory(t *testing.T) {
	var buf bytes.Buffer
	FprintError(&buf, stderrors.New("boom"), Runtime)
	assert.Contains(t, buf.String(), "Runtime Error")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	FprintError(&buf, nil, Runtime)
	assert.Empty(t, buf.String())
}
