package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/ScottRBK/mycelium/internal/config"
)

func TestNormalizeLanguagesSplitsAndLowercases(t *testing.T) {
	out := normalizeLanguages([]string{"Go,Python", " TypeScript "})
	assert.Equal(t, []string{"go", "python", "typescript"}, out)
}

func TestNormalizeLanguagesDropsEmptySegments(t *testing.T) {
	out := normalizeLanguages([]string{"go,,python"})
	assert.Equal(t, []string{"go", "python"}, out)
}

func newTestContext(t *testing.T, flags []cli.Flag, args []string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range flags {
		require.NoError(t, f.Apply(set))
	}
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestLoadConfigWithOverridesAppliesCLIFlags(t *testing.T) {
	repoPath := t.TempDir()
	ctx := newTestContext(t, []cli.Flag{
		&cli.StringFlag{Name: "config", Value: config.DefaultConfigFileName},
		&cli.StringFlag{Name: "output"},
		&cli.StringSliceFlag{Name: "languages"},
		&cli.Float64Flag{Name: "resolution", Value: 1.0},
		&cli.IntFlag{Name: "max-processes", Value: 75},
		&cli.IntFlag{Name: "max-depth", Value: 10},
		&cli.StringSliceFlag{Name: "exclude"},
		&cli.BoolFlag{Name: "verbose"},
		&cli.BoolFlag{Name: "quiet"},
		&cli.IntFlag{Name: "max-community-size", Value: 100},
		&cli.IntFlag{Name: "min-steps", Value: 2},
		&cli.IntFlag{Name: "max-branching", Value: 4},
	}, []string{"--output", "custom.json", "--max-processes", "10", "--verbose"})

	cfg, err := loadConfigWithOverrides(ctx, repoPath)
	require.NoError(t, err)
	assert.Equal(t, "custom.json", cfg.OutputPath)
	assert.Equal(t, 10, cfg.MaxProcesses)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, repoPath, cfg.RepoPath)
}

func TestLoadConfigWithOverridesRejectsMissingExplicitConfig(t *testing.T) {
	repoPath := t.TempDir()
	ctx := newTestContext(t, []cli.Flag{
		&cli.StringFlag{Name: "config", Value: "does-not-exist.kdl"},
		&cli.StringFlag{Name: "output"},
		&cli.StringSliceFlag{Name: "languages"},
		&cli.Float64Flag{Name: "resolution", Value: 1.0},
		&cli.IntFlag{Name: "max-processes", Value: 75},
		&cli.IntFlag{Name: "max-depth", Value: 10},
		&cli.StringSliceFlag{Name: "exclude"},
		&cli.BoolFlag{Name: "verbose"},
		&cli.BoolFlag{Name: "quiet"},
		&cli.IntFlag{Name: "max-community-size", Value: 100},
		&cli.IntFlag{Name: "min-steps", Value: 2},
		&cli.IntFlag{Name: "max-branching", Value: 4},
	}, nil)

	_, err := loadConfigWithOverrides(ctx, repoPath)
	assert.Error(t, err)
}
