// Package graph implements the C2/C3 shared state the pipeline's later
// phases read and append to: a knowledge graph over the artifact's node
// and edge kinds, a symbol table for exact/fuzzy name lookup, and a
// namespace index for .NET assembly resolution.
//
// original_source/crates/mycelium-core/src/graph/knowledge_graph.rs
// backs this with petgraph::DiGraph; the teacher has no graph library
// in its dependency set and hand-rolls its own id-indexed structures
// (internal/core/dense_object_id.go) rather than reaching for one, so
// this follows that precedent: adjacency maps keyed by string id, not
// a generic graph package.
package graph

import "github.com/ScottRBK/mycelium/internal/model"

type CallEdgeData struct {
	Confidence float64
	Tier       model.Tier
	Reason     string
	Line       int
}

// KnowledgeGraph accumulates DEFINES/IMPORTS/CALLS/PROJECT_REFERENCE/
// PACKAGE_REFERENCE/MEMBER_OF/STEP/CONTAINS edges over the run.
type KnowledgeGraph struct {
	Files     map[string]*model.FileNode
	Folders   map[string]*model.FolderNode
	Symbols   map[string]*model.Symbol
	Symbolsby map[string][]*model.Symbol // by file path, in extraction order

	callEdges    []model.CallEdge
	importEdges  []model.ImportEdge
	projectRefs  []model.ProjectReference
	packageRefs  []model.PackageReference
	communities  map[string]*model.Community
	processes    map[string]*model.Process
	callersOf    map[string][]CallEdgeData // to symbol id -> incoming (with from id folded in via parallel slice)
	callersFrom  map[string][]string
	calleesOf    map[string][]CallEdgeData
	calleesTo    map[string][]string
}

func New() *KnowledgeGraph {
	return &KnowledgeGraph{
		Files:       make(map[string]*model.FileNode),
		Folders:     make(map[string]*model.FolderNode),
		Symbols:     make(map[string]*model.Symbol),
		Symbolsby:   make(map[string][]*model.Symbol),
		communities: make(map[string]*model.Community),
		processes:   make(map[string]*model.Process),
		callersOf:   make(map[string][]CallEdgeData),
		callersFrom: make(map[string][]string),
		calleesOf:   make(map[string][]CallEdgeData),
		calleesTo:   make(map[string][]string),
	}
}

func (g *KnowledgeGraph) AddFile(f *model.FileNode) { g.Files[f.Path] = f }

func (g *KnowledgeGraph) AddFolder(f *model.FolderNode) { g.Folders[f.Path] = f }

func (g *KnowledgeGraph) AddSymbol(s *model.Symbol) {
	g.Symbols[s.ID] = s
	g.Symbolsby[s.File] = append(g.Symbolsby[s.File], s)
}

func (g *KnowledgeGraph) AddCall(e model.CallEdge) {
	g.callEdges = append(g.callEdges, e)
	data := CallEdgeData{Confidence: e.Confidence, Tier: e.Tier, Reason: e.Reason, Line: e.Line}
	g.callersOf[e.To] = append(g.callersOf[e.To], data)
	g.callersFrom[e.To] = append(g.callersFrom[e.To], e.From)
	g.calleesOf[e.From] = append(g.calleesOf[e.From], data)
	g.calleesTo[e.From] = append(g.calleesTo[e.From], e.To)
}

func (g *KnowledgeGraph) AddImport(e model.ImportEdge) { g.importEdges = append(g.importEdges, e) }

func (g *KnowledgeGraph) AddProjectReference(r model.ProjectReference) {
	g.projectRefs = append(g.projectRefs, r)
}

func (g *KnowledgeGraph) AddPackageReference(r model.PackageReference) {
	g.packageRefs = append(g.packageRefs, r)
}

func (g *KnowledgeGraph) AddCommunity(c *model.Community) { g.communities[c.ID] = c }

func (g *KnowledgeGraph) AddProcess(p *model.Process) { g.processes[p.ID] = p }

func (g *KnowledgeGraph) CallEdges() []model.CallEdge       { return g.callEdges }
func (g *KnowledgeGraph) ImportEdges() []model.ImportEdge   { return g.importEdges }
func (g *KnowledgeGraph) ProjectReferences() []model.ProjectReference { return g.projectRefs }
func (g *KnowledgeGraph) PackageReferences() []model.PackageReference { return g.packageRefs }

func (g *KnowledgeGraph) SymbolsInFile(path string) []*model.Symbol { return g.Symbolsby[path] }

// Callers returns the symbol ids with an edge into symbolID.
func (g *KnowledgeGraph) Callers(symbolID string) []string { return g.callersFrom[symbolID] }

// Callees returns the symbol ids symbolID has an edge into.
func (g *KnowledgeGraph) Callees(symbolID string) []string { return g.calleesTo[symbolID] }

// CalleeEdge pairs a callee symbol id with its call edge's confidence
// data, for callers (Phase 6's BFS tracer) that need to rank outgoing
// edges rather than just enumerate targets.
type CalleeEdge struct {
	To         string
	Confidence float64
	Tier       model.Tier
	Reason     string
	Line       int
}

// CalleesDetailed returns symbolID's outgoing call edges paired with
// their confidence data, in insertion order.
func (g *KnowledgeGraph) CalleesDetailed(symbolID string) []CalleeEdge {
	tos := g.calleesTo[symbolID]
	datas := g.calleesOf[symbolID]
	out := make([]CalleeEdge, len(tos))
	for i := range tos {
		out[i] = CalleeEdge{To: tos[i], Confidence: datas[i].Confidence, Tier: datas[i].Tier, Reason: datas[i].Reason, Line: datas[i].Line}
	}
	return out
}

func (g *KnowledgeGraph) SymbolCount() int { return len(g.Symbols) }
func (g *KnowledgeGraph) FileCount() int   { return len(g.Files) }
func (g *KnowledgeGraph) FolderCount() int { return len(g.Folders) }

func (g *KnowledgeGraph) Communities() []*model.Community {
	out := make([]*model.Community, 0, len(g.communities))
	for _, c := range g.communities {
		out = append(out, c)
	}
	return out
}

func (g *KnowledgeGraph) Processes() []*model.Process {
	out := make([]*model.Process, 0, len(g.processes))
	for _, p := range g.processes {
		out = append(out, p)
	}
	return out
}
