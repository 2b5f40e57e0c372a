// Package pathutil converts between absolute filesystem paths and the
// repo-relative, forward-slash paths the output artifact requires
// (spec §6: "Paths are forward-slash and repo-relative").
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to one relative to rootDir, with
// forward slashes regardless of OS. An input that is already relative is
// returned as given (slash-normalised); a file outside rootDir falls back
// to its cleaned absolute path.
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return ToSlash(absPath)
	}

	if !filepath.IsAbs(absPath) {
		return ToSlash(absPath)
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		return ToSlash(absPath)
	}

	if strings.HasPrefix(relPath, "..") {
		return ToSlash(absPath)
	}

	return ToSlash(relPath)
}

// ToSlash normalises path separators to forward slashes, the artifact's
// required format on every platform.
func ToSlash(p string) string {
	return filepath.ToSlash(p)
}

// ToFolderPath returns the repo-relative path of a directory with a
// trailing slash, per spec §3's FolderNode convention.
func ToFolderPath(absPath, rootDir string) string {
	rel := ToRelative(absPath, rootDir)
	if rel == "." || rel == "" {
		return ""
	}
	if !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	return rel
}
