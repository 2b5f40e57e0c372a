// Package processes implements Phase 6 (spec §4.7): entry-point scoring,
// bounded multi-branch BFS tracing from the highest-scored entries,
// strict-contiguous-subsequence deduplication, confidence ranking/cap,
// and intra/cross-community classification.
//
// Grounded on
// original_source/crates/mycelium-core/src/phases/processes.rs for the
// BFS/rank/cap shape and
// original_source/crates/mycelium-core/src/graph/scoring.rs for the
// entry-point scoring formula, adapted where SPEC_FULL.md's Resolved
// Open Questions redefine a detail (the depth bonus formula and
// contiguous-subsequence dedup rule follow spec.md, not the original).
package processes

import (
	"strconv"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/model"
)

// Run traces candidate processes from scored entry points and appends
// the surviving, ranked set to kg via kg.AddProcess.
func Run(cfg *config.Config, kg *graph.KnowledgeGraph) {
	scored := scoreEntryPoints(kg)
	if len(scored) == 0 {
		return
	}

	topN := 2 * cfg.MaxProcesses
	if topN > len(scored) {
		topN = len(scored)
	}

	var all []candidate
	for _, s := range scored[:topN] {
		all = append(all, traceFromEntry(kg, s.id, cfg)...)
	}

	all = filterByMinSteps(all, cfg.MinSteps)
	all = dedupContiguous(all)
	all = rankAndCap(all, cfg.MaxProcesses)

	memberCommunity := buildMembershipIndex(kg)
	for i, c := range all {
		kg.AddProcess(&model.Process{
			ID:              "process_" + strconv.Itoa(i),
			Entry:           c.steps[0],
			Terminal:        c.steps[len(c.steps)-1],
			Steps:           c.steps,
			Classification:  classify(c.steps, memberCommunity),
			TotalConfidence: c.confidence,
		})
	}
}

func buildMembershipIndex(kg *graph.KnowledgeGraph) map[string]string {
	idx := make(map[string]string)
	for _, comm := range kg.Communities() {
		for _, member := range comm.Members {
			idx[member] = comm.ID
		}
	}
	return idx
}
