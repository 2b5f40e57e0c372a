package processes

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/model"
)

// entryPatterns are the name shapes spec §4.7 lists as suggestive of an
// entry point (controllers, handlers, framework lifecycle hooks, event
// callbacks), ported from original_source/graph/scoring.rs's
// ENTRY_PATTERNS.
var entryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i).*Controller$`),
	regexp.MustCompile(`(?i).*Handler$`),
	regexp.MustCompile(`(?i).*Endpoint$`),
	regexp.MustCompile(`(?i).*Middleware$`),
	regexp.MustCompile(`(?i)^Main$`),
	regexp.MustCompile(`(?i)^Startup$`),
	regexp.MustCompile(`(?i)^Configure.*$`),
	regexp.MustCompile(`(?i)^Map.*Endpoints$`),
	regexp.MustCompile(`(?i).*Route$`),
	regexp.MustCompile(`(?i).*Listener$`),
	regexp.MustCompile(`(?i)^handle.*$`),
	regexp.MustCompile(`^on[A-Z].*$`),
	regexp.MustCompile(`(?i)^process.*$`),
}

var utilitySegments = map[string]bool{
	"utils": true, "helpers": true, "extensions": true, "common": true,
}

var testPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:^|[/\\])tests?[/\\]`),
	regexp.MustCompile(`(?i)(?:^|[/\\])specs?[/\\]`),
	regexp.MustCompile(`(?i)(?:^|[/\\])__tests__[/\\]`),
	regexp.MustCompile(`(?i)(?:Tests?|Specs?|_test|_spec)\.`),
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func isTestFile(filePath string) bool {
	return matchesAny(testPathPatterns, filePath)
}

func isUtilityPath(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, seg := range strings.Split(lower, "/") {
		if utilitySegments[seg] {
			return true
		}
	}
	return false
}

// scoredEntry pairs a symbol id with its entry-point score.
type scoredEntry struct {
	id    string
	score float64
}

// scoreEntryPoints computes spec §4.7's entry-point score for every
// eligible symbol (functions, methods, constructors outside test files)
// and returns them sorted by descending score.
func scoreEntryPoints(kg *graph.KnowledgeGraph) []scoredEntry {
	depthCache := make(map[string]int)
	var scores []scoredEntry

	for id, sym := range kg.Symbols {
		if sym.Kind != model.KindFunction && sym.Kind != model.KindMethod && sym.Kind != model.KindConstructor {
			continue
		}
		if isTestFile(sym.File) {
			continue
		}

		outDegree := float64(len(kg.Callees(id)))
		inDegree := float64(len(kg.Callers(id)))
		baseScore := outDegree / (inDegree + 1.0)
		if baseScore == 0 {
			continue
		}

		exportMult := 1.0
		if sym.Exported {
			exportMult = 2.0
		}

		nameMult := 1.0
		if matchesAny(entryPatterns, sym.Name) {
			nameMult = 1.5
		}

		frameworkMult := 1.0
		if len(sym.Frameworks) > 0 {
			frameworkMult = 1.8
		}

		utilityPenalty := 1.0
		if isUtilityPath(sym.File) {
			utilityPenalty = 0.3
		}

		depth := probeDepth(kg, id, depthCache)
		depthBonus := 1.0 + float64(depth)*0.1

		score := baseScore * exportMult * nameMult * frameworkMult * utilityPenalty * depthBonus
		scores = append(scores, scoredEntry{id: id, score: score})
	}

	sortScoresDescending(scores)
	return scores
}

// probeDepth returns the length of the longest simple outgoing call
// chain from sym, bounded to 5 hops and memoised per symbol (spec
// §4.7's "single bounded DFS, memoised").
func probeDepth(kg *graph.KnowledgeGraph, sym string, cache map[string]int) int {
	if d, ok := cache[sym]; ok {
		return d
	}
	cache[sym] = 0 // placeholder until the DFS returns; dfsDepth breaks cycles with its own visited set
	depth := dfsDepth(kg, sym, map[string]bool{sym: true}, 0)
	cache[sym] = depth
	return depth
}

func dfsDepth(kg *graph.KnowledgeGraph, sym string, visited map[string]bool, hops int) int {
	if hops >= 5 {
		return hops
	}
	best := hops
	for _, callee := range kg.Callees(sym) {
		if visited[callee] {
			continue
		}
		visited[callee] = true
		d := dfsDepth(kg, callee, visited, hops+1)
		if d > best {
			best = d
		}
		delete(visited, callee)
	}
	return best
}

func sortScoresDescending(scores []scoredEntry) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score != scores[j].score {
			return scores[i].score > scores[j].score
		}
		return scores[i].id < scores[j].id
	})
}
