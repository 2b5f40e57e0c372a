package observe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressSuppressedByQuiet(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Configure(false, true)
	Progress("phase %s starting", "structure")
	assert.Empty(t, buf.String())
}

func TestVerbosefRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Configure(false, false)
	Verbosef("detail line")
	assert.Empty(t, buf.String())

	Configure(true, false)
	Verbosef("detail %d", 1)
	assert.Contains(t, buf.String(), "detail 1")
}

func TestWarnfFormatsPrefix(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	Configure(false, false)
	Warnf("failed to parse %s", "a.go")
	assert.Contains(t, buf.String(), "warning: failed to parse a.go")
}
