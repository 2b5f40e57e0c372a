package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKDLMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultResolution, cfg.Resolution)
	assert.Equal(t, DefaultMaxProcesses, cfg.MaxProcesses)
}

func TestLoadKDLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
resolution 2.5
max-processes 40
max-depth 6
exclude "vendor/**" "*.generated.go"
languages "go" "python"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFileName), []byte(content), 0o644))

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Resolution)
	assert.Equal(t, 40, cfg.MaxProcesses)
	assert.Equal(t, 6, cfg.MaxDepth)
	assert.ElementsMatch(t, []string{"vendor/**", "*.generated.go"}, cfg.Exclude)
	assert.ElementsMatch(t, []string{"go", "python"}, cfg.Languages)
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"1KB": 1024,
		"2MB": 2 * 1024 * 1024,
		"1GB": 1024 * 1024 * 1024,
		"512": 512,
	}
	for input, want := range tests {
		got, err := parseSize(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}
