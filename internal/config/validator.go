package config

import (
	"fmt"
	"os"

	analysiserrors "github.com/ScottRBK/mycelium/internal/errors"
)

// Validate checks the fields the pipeline depends on before Phase 1
// starts running (spec §7 input-path-invalid: surfaced to the caller,
// pipeline does not run).
func Validate(cfg *Config) error {
	if cfg.RepoPath == "" {
		return analysiserrors.NewConfigError("root", "", fmt.Errorf("repository root is required"))
	}

	info, err := os.Stat(cfg.RepoPath)
	if err != nil {
		return analysiserrors.NewConfigError("root", cfg.RepoPath, fmt.Errorf("root path does not exist: %w", err))
	}
	if !info.IsDir() {
		return analysiserrors.NewConfigError("root", cfg.RepoPath, fmt.Errorf("root path is not a directory"))
	}

	if cfg.Resolution <= 0 {
		return analysiserrors.NewConfigError("resolution", fmt.Sprintf("%v", cfg.Resolution), fmt.Errorf("must be positive"))
	}
	if cfg.MaxProcesses <= 0 {
		return analysiserrors.NewConfigError("max-processes", fmt.Sprintf("%d", cfg.MaxProcesses), fmt.Errorf("must be positive"))
	}
	if cfg.MaxDepth <= 0 {
		return analysiserrors.NewConfigError("max-depth", fmt.Sprintf("%d", cfg.MaxDepth), fmt.Errorf("must be positive"))
	}
	if cfg.MaxBranching <= 0 {
		return analysiserrors.NewConfigError("max-branching", fmt.Sprintf("%d", cfg.MaxBranching), fmt.Errorf("must be positive"))
	}
	if cfg.MinSteps < 1 {
		return analysiserrors.NewConfigError("min-steps", fmt.Sprintf("%d", cfg.MinSteps), fmt.Errorf("must be at least 1"))
	}
	if cfg.MaxCommunitySize < 2 {
		return analysiserrors.NewConfigError("max-community-size", fmt.Sprintf("%d", cfg.MaxCommunitySize), fmt.Errorf("must be at least 2"))
	}

	return nil
}
