package communities

import (
	"fmt"
	"sort"
	"strings"

	"github.com/surgebase/porter2"

	"github.com/ScottRBK/mycelium/internal/graph"
)

// genericDirSegments are path segments too generic to stand alone as a
// community label, borrowed from original_source's STRIP_DIR_SEGMENTS so
// a community of "everything under src/" doesn't get labelled "src".
var genericDirSegments = map[string]bool{
	"src": true, "source": true, "sourcecode": true, "lib": true, "app": true,
}

// generateLabel implements spec §4.6's label algorithm: longest common
// path-segment prefix of member declaring files; if ambiguous or
// trivially short, the longest common (stemmed) prefix of member names;
// otherwise "Community (N members)", where N is the member count.
func generateLabel(members []string, kg *graph.KnowledgeGraph) string {
	dirSegs, names := memberDirsAndNames(members, kg)

	if prefix := commonPathPrefix(dirSegs); len(prefix) > 0 && !isTrivialPrefix(prefix) {
		return strings.Join(prefix, "/")
	}

	if len(names) > 0 {
		stemmed := make([]string, len(names))
		for i, n := range names {
			stemmed[i] = porter2.Stem(n)
		}
		prefix := commonStringPrefix(stemmed)
		if len(prefix) >= 3 {
			return prefix
		}
	}

	return fmt.Sprintf("Community (%d members)", len(members))
}

func memberDirsAndNames(members []string, kg *graph.KnowledgeGraph) ([][]string, []string) {
	var dirSegs [][]string
	var names []string
	for _, id := range members {
		sym, ok := kg.Symbols[id]
		if !ok {
			continue
		}
		names = append(names, sym.Name)
		dir := dirOf(sym.File)
		if dir != "" {
			dirSegs = append(dirSegs, strings.Split(dir, "/"))
		}
	}
	return dirSegs, names
}

func dirOf(filePath string) string {
	idx := strings.LastIndex(filePath, "/")
	if idx < 0 {
		return ""
	}
	return filePath[:idx]
}

// commonPathPrefix returns the longest shared leading sequence of path
// segments across every member's directory, or nil if members don't
// share a common root directory (ambiguous).
func commonPathPrefix(dirSegs [][]string) []string {
	if len(dirSegs) == 0 {
		return nil
	}
	prefix := dirSegs[0]
	for _, segs := range dirSegs[1:] {
		prefix = commonSlicePrefix(prefix, segs)
		if len(prefix) == 0 {
			return nil
		}
	}
	return prefix
}

func commonSlicePrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// isTrivialPrefix reports whether a common path prefix is too generic to
// be a useful label on its own (a single segment like "src" or "lib").
func isTrivialPrefix(prefix []string) bool {
	if len(prefix) != 1 {
		return false
	}
	return genericDirSegments[strings.ToLower(prefix[0])]
}

func commonStringPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	prefix := strs[0]
	for _, s := range strs[1:] {
		n := len(prefix)
		if len(s) < n {
			n = len(s)
		}
		i := 0
		for i < n && prefix[i] == s[i] {
			i++
		}
		prefix = prefix[:i]
		if prefix == "" {
			break
		}
	}
	return prefix
}

// disambiguateLabel appends the next distinguishing path segment beyond
// a colliding label's common prefix (spec §4.6); if every member's
// directory is exhausted or still collides, it tries a ":<member name>"
// suffix for each member name in sorted order, and finally an ordinal
// suffix guarantees uniqueness deterministically.
func disambiguateLabel(label string, members []string, kg *graph.KnowledgeGraph, used map[string]bool) string {
	dirSegs, names := memberDirsAndNames(members, kg)
	labelSegs := strings.Split(label, "/")

	nextSegCounts := make(map[string]int)
	for _, segs := range dirSegs {
		if len(segs) > len(labelSegs) && samePrefix(segs, labelSegs) {
			nextSegCounts[segs[len(labelSegs)]]++
		}
	}
	if best, ok := mostCommon(nextSegCounts); ok {
		candidate := label + "/" + best
		if !used[candidate] {
			return candidate
		}
	}

	sort.Strings(names)
	for _, name := range names {
		candidate := label + ":" + name
		if !used[candidate] {
			return candidate
		}
	}

	for idx := 1; ; idx++ {
		candidate := fmt.Sprintf("%s #%d", label, idx)
		if !used[candidate] {
			return candidate
		}
	}
}

func samePrefix(segs, prefix []string) bool {
	if len(segs) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if segs[i] != p {
			return false
		}
	}
	return true
}

func mostCommon(counts map[string]int) (string, bool) {
	best := ""
	bestCount := 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best = k
			bestCount = c
		}
	}
	return best, bestCount > 0
}
