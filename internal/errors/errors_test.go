package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseErrorFormatting(t *testing.T) {
	underlying := errors.New("boom")
	err := NewPhaseError("parsing", "extract", underlying).WithFile("src/main.go")

	assert.Equal(t, "parsing: extract failed for src/main.go: boom", err.Error())
	assert.True(t, err.IsRecoverable())
	require.ErrorIs(t, err, underlying)
}

func TestPhaseErrorWithoutFile(t *testing.T) {
	err := NewPhaseError("calls", "resolve", errors.New("bad"))
	assert.Equal(t, "calls: resolve failed: bad", err.Error())
}

func TestParseErrorFormatting(t *testing.T) {
	err := NewParseError("a.py", 10, 4, "def", errors.New("unexpected token"))
	assert.Contains(t, err.Error(), "a.py:10:4")
	assert.Contains(t, err.Error(), "def")
}

func TestInvariantErrorMessageNamesInvariant(t *testing.T) {
	err := NewInvariantError("call-edge-endpoint", "symbol sym_00000042 not found")
	assert.Contains(t, err.Error(), "call-edge-endpoint")
}

func TestMultiErrorFiltersNil(t *testing.T) {
	err := NewMultiError([]error{nil, errors.New("one"), nil, errors.New("two")})
	assert.Len(t, err.Errors, 2)
	assert.Contains(t, err.Error(), "2 errors")
}

func TestMultiErrorSingle(t *testing.T) {
	err := NewMultiError([]error{errors.New("solo")})
	assert.Equal(t, "solo", err.Error())
}

func TestMultiErrorEmpty(t *testing.T) {
	err := NewMultiError(nil)
	assert.Equal(t, "no errors", err.Error())
}
