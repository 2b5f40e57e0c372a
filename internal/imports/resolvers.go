package imports

import (
	"path"
	"strings"
)

// normalizePath collapses "." and ".." segments after converting
// backslashes, following original_source/phases/imports.rs's
// normalize_path.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	absolute := strings.HasPrefix(p, "/")
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case ".", "":
			continue
		case "..":
			if len(parts) > 0 && parts[len(parts)-1] != ".." {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	joined := strings.Join(parts, "/")
	if absolute {
		return "/" + joined
	}
	return joined
}

func dirOf(filePath string) string {
	d := path.Dir(filePath)
	if d == "." {
		return ""
	}
	return d
}

// resolvePythonImport resolves a dotted module path (or a relative
// "."-prefixed one) to a file in fileSet.
func resolvePythonImport(target, sourceFile string, fileSet map[string]bool) (string, bool) {
	if strings.HasPrefix(target, ".") {
		return resolvePythonRelative(target, sourceFile, fileSet)
	}

	p := strings.ReplaceAll(target, ".", "/")
	if fileSet[p+".py"] {
		return p + ".py", true
	}
	if fileSet[p+"/__init__.py"] {
		return p + "/__init__.py", true
	}
	return "", false
}

func resolvePythonRelative(target, sourceFile string, fileSet map[string]bool) (string, bool) {
	dots := 0
	for dots < len(target) && target[dots] == '.' {
		dots++
	}
	remainder := target[dots:]

	base := dirOf(sourceFile)
	for i := 0; i < dots-1; i++ {
		base = dirOf(base)
	}

	var p string
	if remainder == "" {
		if base == "" {
			return "", false
		}
		candidate := base + "/__init__.py"
		if fileSet[candidate] {
			return candidate, true
		}
		return "", false
	}
	rel := strings.ReplaceAll(remainder, ".", "/")
	if base == "" {
		p = rel
	} else {
		p = base + "/" + rel
	}

	if fileSet[p+".py"] {
		return p + ".py", true
	}
	if fileSet[p+"/__init__.py"] {
		return p + "/__init__.py", true
	}
	return "", false
}

var tsExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// resolveTSImport resolves a relative TS/JS specifier ("./x", "../x")
// to a file in fileSet; bare specifiers are handled by
// resolveTSPathAlias instead, since only tsconfig.json's paths table
// (not this function) knows how to root them.
func resolveTSImport(target, sourceFile string, fileSet map[string]bool) (string, bool) {
	if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
		return "", false
	}

	resolved := normalizePath(dirOf(sourceFile) + "/" + target)
	return probeTSFile(resolved, fileSet)
}

// probeTSFile tries path as-is, then with each TS/JS extension, then as
// a directory's index file, per Node's module resolution algorithm.
func probeTSFile(p string, fileSet map[string]bool) (string, bool) {
	if fileSet[p] {
		return p, true
	}
	for _, ext := range tsExtensions {
		if fileSet[p+ext] {
			return p + ext, true
		}
	}
	for _, ext := range tsExtensions {
		candidate := p + "/index" + ext
		if fileSet[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// resolveJavaImport resolves a dotted Java import, falling back to a
// basename lookup by simple class name when the dotted path doesn't
// match a file (package/directory layout mismatch).
func resolveJavaImport(target, sourceFile string, fileSet map[string]bool, basenameIndex map[string][]string) (string, bool) {
	p := strings.ReplaceAll(target, ".", "/") + ".java"
	if fileSet[p] {
		return p, true
	}

	className := target
	if idx := strings.LastIndex(target, "."); idx >= 0 {
		className = target[idx+1:]
	}
	for _, candidate := range basenameIndex[className+".java"] {
		if candidate != sourceFile {
			return candidate, true
		}
	}
	return "", false
}

func parseGoMod(fileSet map[string]bool, repoRoot string, readFile func(string) (string, error)) (string, bool) {
	for filePath := range fileSet {
		if path.Base(filePath) != "go.mod" {
			continue
		}
		content, err := readFile(path.Join(repoRoot, filePath))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			if after, ok := strings.CutPrefix(line, "module "); ok {
				return strings.TrimSpace(after), true
			}
		}
	}
	return "", false
}

func buildGoDirIndex(fileSet map[string]bool) map[string][]string {
	index := make(map[string][]string)
	for filePath := range fileSet {
		if !strings.HasSuffix(filePath, ".go") {
			continue
		}
		index[dirOf(filePath)] = append(index[dirOf(filePath)], filePath)
	}
	return index
}

// resolveGoImport resolves an import path belonging to the current
// module (by module-path prefix) to every .go file in its package
// directory; stdlib and third-party imports resolve to nothing.
func resolveGoImport(target, goModule string, goDirIndex map[string][]string) []string {
	if goModule == "" || !strings.Contains(target, "/") {
		return nil
	}
	if !strings.HasPrefix(target, goModule) {
		return nil
	}
	relDir := strings.TrimPrefix(target[len(goModule):], "/")
	return goDirIndex[relDir]
}

var rustExternalPrefixes = []string{"std::", "core::", "alloc::"}

// resolveRustImport resolves crate-relative Rust use paths, handling
// crate::/super::/self:: prefixes and progressively shortening the
// remaining path segments to find a matching module file. crateRoot is
// the source directory of the nearest enclosing Cargo.toml (seeded by
// buildCargoIndex/crateRootFor), used as the base for "crate::" paths
// instead of assuming the repo root is always the crate root.
func resolveRustImport(target, sourceFile string, fileSet map[string]bool, crateRoot string) (string, bool) {
	for _, prefix := range rustExternalPrefixes {
		if strings.HasPrefix(target, prefix) {
			return "", false
		}
	}

	sourceDir := dirOf(sourceFile)
	var base, remainder string
	switch {
	case strings.HasPrefix(target, "crate::"):
		base, remainder = crateRoot, strings.TrimPrefix(target, "crate::")
	case strings.HasPrefix(target, "super::"):
		rem := target
		b := sourceDir
		for strings.HasPrefix(rem, "super::") {
			rem = strings.TrimPrefix(rem, "super::")
			b = dirOf(b)
		}
		base, remainder = b, rem
	case strings.HasPrefix(target, "self::"):
		base, remainder = sourceDir, strings.TrimPrefix(target, "self::")
	default:
		base, remainder = sourceDir, target
	}

	segments := strings.Split(remainder, "::")
	for end := len(segments); end >= 1; end-- {
		relPath := strings.Join(segments[:end], "/")
		fullRel := relPath
		if base != "" {
			fullRel = base + "/" + relPath
		}
		if fileSet[fullRel+".rs"] {
			return fullRel + ".rs", true
		}
		if fileSet[fullRel+"/mod.rs"] {
			return fullRel + "/mod.rs", true
		}
	}
	return "", false
}

// resolveCInclude resolves a #include/using target relative to the
// source file's directory, falling back to repo-root relative.
// Angle-bracket (system) includes are never resolved.
func resolveCInclude(target, statement, sourceFile string, fileSet map[string]bool) (string, bool) {
	if strings.Contains(statement, "<") {
		return "", false
	}

	sourceDir := dirOf(sourceFile)
	candidate := target
	if sourceDir != "" {
		candidate = normalizePath(sourceDir + "/" + target)
	}
	if fileSet[candidate] {
		return candidate, true
	}

	candidate = normalizePath(target)
	if fileSet[candidate] {
		return candidate, true
	}
	return "", false
}
