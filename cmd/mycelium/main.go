// Command mycelium runs the six-phase analysis pipeline over a
// repository and writes the resulting JSON artifact, following
// cmd/lci/main.go's cli.App{Flags, Action} shape and cli.Exit exit-code
// convention.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/observe"
	"github.com/ScottRBK/mycelium/internal/output"
	"github.com/ScottRBK/mycelium/internal/pipeline"
	"github.com/ScottRBK/mycelium/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "mycelium",
		Usage:                  "deterministic static analysis over a source repository",
		Version:                version.Version,
		UseShortOptionHandling: true,
		ArgsUsage:              "<repo-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "destination artifact path"},
			&cli.StringSliceFlag{Name: "languages", Aliases: []string{"l"}, Usage: "restrict parsing to these language tags"},
			&cli.Float64Flag{Name: "resolution", Usage: "initial Louvain resolution", Value: config.DefaultResolution},
			&cli.IntFlag{Name: "max-processes", Usage: "phase 6 candidate process cap", Value: config.DefaultMaxProcesses},
			&cli.IntFlag{Name: "max-depth", Usage: "phase 6 BFS depth cap", Value: config.DefaultMaxDepth},
			&cli.StringSliceFlag{Name: "exclude", Usage: "extra ignore glob patterns"},
			&cli.BoolFlag{Name: "verbose", Usage: "print per-file progress detail"},
			&cli.BoolFlag{Name: "quiet", Usage: "suppress progress output"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "KDL config file", Value: config.DefaultConfigFileName},
			&cli.IntFlag{Name: "max-community-size", Usage: "phase 5 oversized-community split threshold", Value: config.DefaultMaxCommunitySize},
			&cli.IntFlag{Name: "min-steps", Usage: "phase 6 candidate minimum length", Value: config.DefaultMinSteps},
			&cli.IntFlag{Name: "max-branching", Usage: "phase 6 BFS fan-out cap", Value: config.DefaultMaxBranching},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			fmt.Fprintln(os.Stderr, exitErr.Error())
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(3)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("repo-path argument is required", 1)
	}
	repoPath := c.Args().First()

	absRoot, err := filepath.Abs(repoPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("resolving repo path: %v", err), 2)
	}
	if info, statErr := os.Stat(absRoot); statErr != nil || !info.IsDir() {
		return cli.Exit(fmt.Sprintf("repo path does not exist or is not a directory: %s", absRoot), 2)
	}

	cfg, err := loadConfigWithOverrides(c, absRoot)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := config.Validate(cfg); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	observe.Configure(cfg.Verbose, cfg.Quiet)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result, err := pipeline.Run(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return cli.Exit("analysis cancelled", 3)
		}
		return cli.Exit(fmt.Sprintf("analysis failed: %v", err), 3)
	}

	artifact := output.Build(cfg, result, time.Now())
	if err := output.Write(artifact, cfg.OutputPath); err != nil {
		return cli.Exit(fmt.Sprintf("writing artifact: %v", err), 3)
	}

	observe.Progress("wrote %s", cfg.OutputPath)
	return nil
}

// loadConfigWithOverrides loads the KDL config for repoPath (following
// the teacher's loadConfigWithOverrides pattern) and layers CLI flag
// values on top; flags take precedence over file values.
func loadConfigWithOverrides(c *cli.Context, repoPath string) (*config.Config, error) {
	configPath := c.String("config")
	if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(repoPath, configPath)
	}

	cfg, err := config.LoadKDLFile(configPath, repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if out := c.String("output"); out != "" {
		cfg.OutputPath = out
	}
	if langs := c.StringSlice("languages"); len(langs) > 0 {
		cfg.Languages = normalizeLanguages(langs)
	}
	if c.IsSet("resolution") {
		cfg.Resolution = c.Float64("resolution")
	}
	if c.IsSet("max-processes") {
		cfg.MaxProcesses = c.Int("max-processes")
	}
	if c.IsSet("max-depth") {
		cfg.MaxDepth = c.Int("max-depth")
	}
	if excl := c.StringSlice("exclude"); len(excl) > 0 {
		cfg.Exclude = append(cfg.Exclude, excl...)
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
	if c.Bool("quiet") {
		cfg.Quiet = true
	}
	if c.IsSet("max-community-size") {
		cfg.MaxCommunitySize = c.Int("max-community-size")
	}
	if c.IsSet("min-steps") {
		cfg.MinSteps = c.Int("min-steps")
	}
	if c.IsSet("max-branching") {
		cfg.MaxBranching = c.Int("max-branching")
	}

	return cfg, nil
}

// normalizeLanguages flattens comma-separated values from repeated
// --languages flags into a single lowercase tag list.
func normalizeLanguages(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
