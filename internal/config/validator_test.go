package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsMissingRoot(t *testing.T) {
	cfg := Default("/does/not/exist/anywhere")
	err := Validate(cfg)
	assert.Error(t, err)
}

func TestValidateAcceptsDirectory(t *testing.T) {
	cfg := Default(t.TempDir())
	assert.NoError(t, Validate(cfg))
}

func TestValidateRejectsBadTunables(t *testing.T) {
	dir := t.TempDir()

	cfg := Default(dir)
	cfg.Resolution = 0
	assert.Error(t, Validate(cfg))

	cfg = Default(dir)
	cfg.MaxProcesses = 0
	assert.Error(t, Validate(cfg))

	cfg = Default(dir)
	cfg.MinSteps = 0
	assert.Error(t, Validate(cfg))
}
