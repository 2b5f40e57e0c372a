package structurewalk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/languages"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunRecordsFilesAndFolders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n\nfunc main() {}\n")
	writeFile(t, filepath.Join(root, "pkg", "util.go"), "package pkg\n\nfunc Util() {}\n")

	cfg := config.Default(root)
	kg := graph.New()
	require.NoError(t, Run(cfg, kg, languages.NewDefaultRegistry()))

	assert.Equal(t, 2, kg.FileCount())
	mainFile, ok := kg.Files["main.go"]
	require.True(t, ok)
	assert.Equal(t, "go", mainFile.Language)
	assert.True(t, mainFile.Parseable)

	pkgFolder, ok := kg.Folders["pkg/"]
	require.True(t, ok)
	assert.Equal(t, 1, pkgFolder.FileCount)
}

func TestRunSkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "dep", "index.js"), "console.log(1)")
	writeFile(t, filepath.Join(root, ".git", "config"), "junk")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")

	cfg := config.Default(root)
	kg := graph.New()
	require.NoError(t, Run(cfg, kg, languages.NewDefaultRegistry()))

	assert.Equal(t, 1, kg.FileCount())
	_, ok := kg.Files["main.go"]
	assert.True(t, ok)
}

func TestRunAppliesLanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "script.py"), "def f(): pass\n")

	cfg := config.Default(root)
	cfg.Languages = []string{"python"}
	kg := graph.New()
	require.NoError(t, Run(cfg, kg, languages.NewDefaultRegistry()))

	assert.Equal(t, 1, kg.FileCount())
	_, ok := kg.Files["script.py"]
	assert.True(t, ok)
}

func TestRunHonoursExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "generated", "models.go"), "package generated\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")

	cfg := config.Default(root)
	cfg.Exclude = []string{"generated/**"}
	kg := graph.New()
	require.NoError(t, Run(cfg, kg, languages.NewDefaultRegistry()))

	assert.Equal(t, 1, kg.FileCount())
	_, ok := kg.Files["main.go"]
	assert.True(t, ok)
}

func TestRunMarksOversizedFilesNonParseable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "big.go"), "package main\n")

	cfg := config.Default(root)
	cfg.MaxFileSize = 1
	kg := graph.New()
	require.NoError(t, Run(cfg, kg, languages.NewDefaultRegistry()))

	f, ok := kg.Files["big.go"]
	require.True(t, ok)
	assert.False(t, f.Parseable)
}
