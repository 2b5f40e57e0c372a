package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/model"
	"github.com/ScottRBK/mycelium/internal/pipeline"
)

func TestBuildProducesVersionOneDotZero(t *testing.T) {
	kg := graph.New()
	cfg := config.Default(t.TempDir())
	result := &pipeline.Result{Graph: kg, Timings: nil}

	a := Build(cfg, result, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "1.0", a.Version)
}

func TestBuildEmptyRepoHasZeroFileStat(t *testing.T) {
	kg := graph.New()
	cfg := config.Default(t.TempDir())
	result := &pipeline.Result{Graph: kg, Timings: nil}

	a := Build(cfg, result, time.Now())
	assert.Equal(t, 0, a.Stats.Files)
	assert.Empty(t, a.Symbols)
	assert.Empty(t, a.Communities)
	assert.Empty(t, a.Processes)
}

func TestBuildSortsCommunitiesByNumericSuffix(t *testing.T) {
	kg := graph.New()
	kg.AddCommunity(&model.Community{ID: "community_2", Label: "b"})
	kg.AddCommunity(&model.Community{ID: "community_0", Label: "a"})
	kg.AddCommunity(&model.Community{ID: "community_1", Label: "c"})

	cfg := config.Default(t.TempDir())
	result := &pipeline.Result{Graph: kg, Timings: nil}

	a := Build(cfg, result, time.Now())
	require.Len(t, a.Communities, 3)
	assert.Equal(t, "community_0", a.Communities[0].ID)
	assert.Equal(t, "community_1", a.Communities[1].ID)
	assert.Equal(t, "community_2", a.Communities[2].ID)
}

func TestBuildSortsSymbolsByID(t *testing.T) {
	kg := graph.New()
	kg.AddSymbol(&model.Symbol{ID: "sym_000002", Name: "B", File: "b.go"})
	kg.AddSymbol(&model.Symbol{ID: "sym_000001", Name: "A", File: "a.go"})

	cfg := config.Default(t.TempDir())
	result := &pipeline.Result{Graph: kg, Timings: nil}

	a := Build(cfg, result, time.Now())
	require.Len(t, a.Symbols, 2)
	assert.Equal(t, "sym_000001", a.Symbols[0].ID)
	assert.Equal(t, "sym_000002", a.Symbols[1].ID)
}

func TestCommitHashReadsFromEnvFirst(t *testing.T) {
	t.Setenv("GIT_COMMIT", "deadbeef1234")
	hash := commitHash(t.TempDir())
	require.NotNil(t, hash)
	assert.Equal(t, "deadbeef1234", *hash)
}

func TestCommitHashNilOutsideGitRepo(t *testing.T) {
	t.Setenv("GIT_COMMIT", "")
	hash := commitHash(t.TempDir())
	assert.Nil(t, hash)
}

func TestWriteProducesValidJSON(t *testing.T) {
	kg := graph.New()
	cfg := config.Default(t.TempDir())
	result := &pipeline.Result{Graph: kg, Timings: nil}
	a := Build(cfg, result, time.Now())

	outPath := filepath.Join(t.TempDir(), "nested", "artifact.json")
	require.NoError(t, Write(a, outPath))

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var roundTripped Artifact
	require.NoError(t, json.Unmarshal(data, &roundTripped))
	assert.Equal(t, a.Version, roundTripped.Version)
}

func writeDeterminismFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "a.go"), []byte("package pkg\n\nfunc Helper() int { return 1 }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "b.go"), []byte("package pkg\n\nfunc Run() int { return Helper() }\n"), 0o644))
	return root
}

// TestContentHashIsStableAcrossRepeatedPipelineRuns exercises the
// pipeline end to end twice over the same fixture and checks the two
// artifacts hash identically, verifying the run is a deterministic
// function of its input regardless of wall-clock timing noise.
func TestContentHashIsStableAcrossRepeatedPipelineRuns(t *testing.T) {
	root := writeDeterminismFixture(t)
	cfg := config.Default(root)

	result1, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)
	result2, err := pipeline.Run(context.Background(), cfg)
	require.NoError(t, err)

	now := time.Now()
	a1 := Build(cfg, result1, now)
	a2 := Build(cfg, result2, now)

	hash1, err := ContentHash(a1)
	require.NoError(t, err)
	hash2, err := ContentHash(a2)
	require.NoError(t, err)
	assert.Equal(t, hash1, hash2)
}

func TestBuildLanguageCounts(t *testing.T) {
	kg := graph.New()
	kg.AddFile(&model.FileNode{Path: "a.go", Language: "go", Parseable: true})
	kg.AddFile(&model.FileNode{Path: "b.go", Language: "go", Parseable: true})
	kg.AddFile(&model.FileNode{Path: "c.py", Language: "python", Parseable: true})

	cfg := config.Default(t.TempDir())
	result := &pipeline.Result{Graph: kg, Timings: nil}

	a := Build(cfg, result, time.Now())
	assert.Equal(t, 2, a.Stats.Languages["go"])
	assert.Equal(t, 1, a.Stats.Languages["python"])
}
