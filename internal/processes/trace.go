package processes

import (
	"sort"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/model"
)

// candidate is a traced path before ranking and id assignment.
type candidate struct {
	steps      []string
	confidence float64
}

// traceFromEntry performs a bounded, branch-limited BFS along CALLS
// edges from entry, emitting a candidate process every time a node is
// exited (spec §4.7's "BFS trace"). Outgoing edges at each node are
// considered in descending confidence order, capped at maxBranching;
// the walk never revisits a symbol already on the current path.
func traceFromEntry(kg *graph.KnowledgeGraph, entry string, cfg *config.Config) []candidate {
	var out []candidate
	visited := map[string]bool{entry: true}
	walk(kg, entry, []string{entry}, 1.0, visited, cfg, &out)
	return out
}

func walk(kg *graph.KnowledgeGraph, node string, path []string, pathConfidence float64, visited map[string]bool, cfg *config.Config, out *[]candidate) {
	edges := kg.CalleesDetailed(node)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Confidence > edges[j].Confidence })

	var explored int
	for _, e := range edges {
		if explored >= cfg.MaxBranching {
			break
		}
		if visited[e.To] {
			continue
		}
		if len(path) >= cfg.MaxDepth {
			break
		}
		explored++

		visited[e.To] = true
		walk(kg, e.To, append(path, e.To), pathConfidence*e.Confidence, visited, cfg, out)
		delete(visited, e.To)
	}

	stepsCopy := append([]string(nil), path...)
	*out = append(*out, candidate{steps: stepsCopy, confidence: pathConfidence})
}

// filterByMinSteps drops candidates shorter than cfg.MinSteps.
func filterByMinSteps(candidates []candidate, minSteps int) []candidate {
	out := candidates[:0]
	for _, c := range candidates {
		if len(c.steps) >= minSteps {
			out = append(out, c)
		}
	}
	return out
}

// dedupContiguous removes any candidate whose step list is a strict
// contiguous subsequence of a longer candidate's step list (spec §4.7,
// SPEC_FULL.md's resolved "strict contiguous-subsequence containment"
// over the original's unordered set-subset check).
func dedupContiguous(candidates []candidate) []candidate {
	sorted := append([]candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].steps) > len(sorted[j].steps) })

	var kept []candidate
	for _, c := range sorted {
		subsumed := false
		for _, k := range kept {
			if len(c.steps) < len(k.steps) && isContiguousSubsequence(c.steps, k.steps) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			kept = append(kept, c)
		}
	}
	return kept
}

func isContiguousSubsequence(short, long []string) bool {
	if len(short) == 0 || len(short) > len(long) {
		return false
	}
	for start := 0; start+len(short) <= len(long); start++ {
		match := true
		for i, s := range short {
			if long[start+i] != s {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// rankAndCap sorts candidates by descending total confidence and keeps
// the top maxProcesses (spec §4.7's "Rank and cap").
func rankAndCap(candidates []candidate, maxProcesses int) []candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].confidence != candidates[j].confidence {
			return candidates[i].confidence > candidates[j].confidence
		}
		return joinSteps(candidates[i].steps) < joinSteps(candidates[j].steps)
	})
	if len(candidates) > maxProcesses {
		candidates = candidates[:maxProcesses]
	}
	return candidates
}

func joinSteps(steps []string) string {
	out := ""
	for i, s := range steps {
		if i > 0 {
			out += ">"
		}
		out += s
	}
	return out
}

// classify returns intra_community when every step maps to the same
// community, cross_community otherwise; a step with no community
// membership counts as distinct from every community and from every
// other unmapped step, so its presence always forces cross_community
// (SPEC_FULL.md's resolved "unmapped-symbol classification").
func classify(steps []string, memberCommunity map[string]string) model.ProcessClass {
	if len(steps) == 0 {
		return model.ClassCrossCommunity
	}
	first, firstOK := memberCommunity[steps[0]]
	if !firstOK {
		return model.ClassCrossCommunity
	}
	for _, s := range steps[1:] {
		comm, ok := memberCommunity[s]
		if !ok || comm != first {
			return model.ClassCrossCommunity
		}
	}
	return model.ClassIntraCommunity
}
