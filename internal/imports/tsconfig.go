package imports

import (
	"encoding/json"
	"path"
	"sort"
	"strings"
)

// tsconfigEntry is a resolved compilerOptions.paths table for one
// tsconfig.json, with baseUrl already joined to the manifest's own
// directory.
type tsconfigEntry struct {
	baseDir string
	aliases map[string][]string
}

// buildTSConfigIndex finds every tsconfig.json in fileSet carrying a
// non-empty compilerOptions.paths and indexes it by its own directory,
// so resolveTSPathAlias can root a bare specifier against the nearest
// enclosing tsconfig instead of assuming a single repo-wide one.
func buildTSConfigIndex(fileSet map[string]bool, repoRoot string, readFile func(string) (string, error)) map[string]tsconfigEntry {
	index := make(map[string]tsconfigEntry)
	for filePath := range fileSet {
		if path.Base(filePath) != "tsconfig.json" {
			continue
		}
		content, err := readFile(path.Join(repoRoot, filePath))
		if err != nil {
			continue
		}

		var cfg struct {
			CompilerOptions struct {
				BaseURL string              `json:"baseUrl"`
				Paths   map[string][]string `json:"paths"`
			} `json:"compilerOptions"`
		}
		if err := json.Unmarshal([]byte(content), &cfg); err != nil {
			continue
		}
		if len(cfg.CompilerOptions.Paths) == 0 {
			continue
		}

		tsDir := dirOf(filePath)
		baseDir := tsDir
		if cfg.CompilerOptions.BaseURL != "" && cfg.CompilerOptions.BaseURL != "." {
			baseDir = normalizePath(joinDir(tsDir, cfg.CompilerOptions.BaseURL))
		}

		index[tsDir] = tsconfigEntry{baseDir: baseDir, aliases: cfg.CompilerOptions.Paths}
	}
	return index
}

func joinDir(dir, rel string) string {
	if dir == "" {
		return rel
	}
	return dir + "/" + rel
}

// tsconfigDirFor returns the entry for the longest indexed tsconfig.json
// directory that encloses sourceFile.
func tsconfigDirFor(sourceFile string, index map[string]tsconfigEntry) (tsconfigEntry, bool) {
	dir := dirOf(sourceFile)
	best := ""
	found := false
	for tsDir := range index {
		if tsDir != dir && tsDir != "" && !strings.HasPrefix(dir, tsDir+"/") {
			continue
		}
		if !found || len(tsDir) > len(best) {
			best, found = tsDir, true
		}
	}
	if !found {
		return tsconfigEntry{}, false
	}
	return index[best], true
}

// resolveTSPathAlias resolves a bare specifier against a tsconfig.json's
// compilerOptions.paths table, modelled on TypeScript's own
// baseUrl/paths module resolution, before giving up on a bare
// specifier (spec.md's TS/JS path-alias open question, resolved by
// SPEC_FULL.md to be additionally honoured).
func resolveTSPathAlias(target, sourceFile string, fileSet map[string]bool, index map[string]tsconfigEntry) (string, bool) {
	entry, ok := tsconfigDirFor(sourceFile, index)
	if !ok {
		return "", false
	}

	patterns := make([]string, 0, len(entry.aliases))
	for pattern := range entry.aliases {
		patterns = append(patterns, pattern)
	}
	sort.Slice(patterns, func(i, j int) bool { return len(patterns[i]) > len(patterns[j]) })

	for _, pattern := range patterns {
		capture, ok := matchTSPathPattern(pattern, target)
		if !ok {
			continue
		}
		for _, valuePattern := range entry.aliases[pattern] {
			candidate := strings.Replace(valuePattern, "*", capture, 1)
			resolved := normalizePath(joinDir(entry.baseDir, candidate))
			if file, ok := probeTSFile(resolved, fileSet); ok {
				return file, true
			}
		}
	}
	return "", false
}

// matchTSPathPattern matches target against a tsconfig paths key
// carrying at most one "*" wildcard, returning the wildcard's capture.
func matchTSPathPattern(pattern, target string) (string, bool) {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return "", pattern == target
	}
	prefix, suffix := pattern[:star], pattern[star+1:]
	if len(target) < len(prefix)+len(suffix) {
		return "", false
	}
	if !strings.HasPrefix(target, prefix) || !strings.HasSuffix(target, suffix) {
		return "", false
	}
	return target[len(prefix) : len(target)-len(suffix)], true
}
