// Package config loads and validates the analysis run configuration:
// repository root, output destination, language restriction, and the
// tunables named in spec.md §6 (resolution, max-processes, max-depth,
// exclude globs) plus the additional knobs SPEC_FULL.md §6.1 adds
// (max-community-size, min-steps, max-branching).
package config

import (
	"path/filepath"
)

// DefaultIgnoreSegments are path segments skipped unconditionally by the
// structure walker (spec §4.1), independent of any --exclude pattern.
var DefaultIgnoreSegments = []string{
	".git", "bin", "obj", "node_modules", "packages", ".vs", ".idea",
	"TestResults", "dist", "build", "target", ".venv", "__pycache__",
	".mypy_cache", ".pytest_cache",
}

// DefaultMaxFileSize is the byte threshold above which a file is
// recorded as a FileNode but marked non-parseable (spec §4.1).
const DefaultMaxFileSize int64 = 1 << 20 // 1 MiB

const (
	DefaultResolution       = 1.0
	DefaultMaxProcesses     = 75
	DefaultMaxDepth         = 10
	DefaultMaxBranching     = 4
	DefaultMinSteps         = 2
	DefaultMaxCommunitySize = 100
)

// Config holds one analysis run's parameters.
type Config struct {
	RepoPath  string
	OutputPath string
	Languages []string // empty = auto-detect all supported languages

	Resolution       float64
	MaxProcesses     int
	MaxDepth         int
	MaxBranching     int
	MinSteps         int
	MaxCommunitySize int
	MaxFileSize      int64

	Exclude []string // additional glob patterns beyond DefaultIgnoreSegments

	Verbose bool
	Quiet   bool
}

// Default returns a Config populated with spec-mandated defaults for the
// given repository root.
func Default(repoPath string) *Config {
	return &Config{
		RepoPath:         repoPath,
		OutputPath:       defaultOutputPath(repoPath),
		Resolution:       DefaultResolution,
		MaxProcesses:     DefaultMaxProcesses,
		MaxDepth:         DefaultMaxDepth,
		MaxBranching:     DefaultMaxBranching,
		MinSteps:         DefaultMinSteps,
		MaxCommunitySize: DefaultMaxCommunitySize,
		MaxFileSize:      DefaultMaxFileSize,
	}
}

func defaultOutputPath(repoPath string) string {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		abs = repoPath
	}
	name := filepath.Base(filepath.Clean(abs))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "repo"
	}
	return name + ".mycelium.json"
}
