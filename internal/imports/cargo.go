package imports

import (
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// cargoManifest mirrors the subset of Cargo.toml fields needed to seed
// crate-root resolution, the way parseGoMod reads go.mod's module line.
type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// buildCargoIndex finds every Cargo.toml in fileSet and maps each
// crate's source directory (the manifest's directory, or its "src"
// subdirectory when present) to the crate name, so resolveRustImport
// can root a "crate::" path at the nearest enclosing crate instead of
// always assuming the repo root is the crate root.
func buildCargoIndex(fileSet map[string]bool, repoRoot string, readFile func(string) (string, error)) map[string]string {
	index := make(map[string]string)
	for filePath := range fileSet {
		if path.Base(filePath) != "Cargo.toml" {
			continue
		}
		content, err := readFile(path.Join(repoRoot, filePath))
		if err != nil {
			continue
		}
		var manifest cargoManifest
		if err := toml.Unmarshal([]byte(content), &manifest); err != nil {
			continue
		}

		crateDir := dirOf(filePath)
		srcDir := "src"
		if crateDir != "" {
			srcDir = crateDir + "/src"
		}
		if !dirHasRustFiles(fileSet, srcDir) {
			srcDir = crateDir
		}
		index[srcDir] = manifest.Package.Name
	}
	return index
}

func dirHasRustFiles(fileSet map[string]bool, dir string) bool {
	prefix := dir + "/"
	for filePath := range fileSet {
		if strings.HasPrefix(filePath, prefix) && strings.HasSuffix(filePath, ".rs") {
			return true
		}
	}
	return false
}

// crateRootFor returns the longest cargoIndex source directory that
// contains sourceFile, i.e. the crate root nearest to it.
func crateRootFor(sourceFile string, cargoIndex map[string]string) string {
	dir := dirOf(sourceFile)
	var candidates []string
	for srcDir := range cargoIndex {
		if srcDir == dir || strings.HasPrefix(dir, srcDir+"/") {
			candidates = append(candidates, srcDir)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })
	return candidates[0]
}
