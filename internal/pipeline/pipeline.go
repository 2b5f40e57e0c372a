// Package pipeline implements C9: the sequential six-phase orchestrator
// that runs structure walking, parsing, import resolution, call
// resolution, community detection, and process tracing in order over a
// shared KnowledgeGraph/SymbolTable/NamespaceIndex, collecting per-phase
// timings.
//
// Grounded on original_source/crates/mycelium-core/src/pipeline.rs for
// the phase sequencing/timing shape (its PHASE_LABELS table, serial
// phase_fns loop, total_start timing) and on
// _examples/standardbeagle-lci/internal/indexing's coordinator pattern
// for how the teacher structures a multi-stage Go orchestrator run
// (a single Run entry point owning shared state, invoked once per
// process). golang.org/x/sync/errgroup (teacher) parallelises Phase 2's
// per-file parse+extract step; symbol id assignment and call-site
// resolution remain a serial pass afterward per spec §5's ordering
// contract.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/ScottRBK/mycelium/internal/calls"
	"github.com/ScottRBK/mycelium/internal/communities"
	"github.com/ScottRBK/mycelium/internal/config"
	analysiserrors "github.com/ScottRBK/mycelium/internal/errors"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/imports"
	"github.com/ScottRBK/mycelium/internal/languages"
	"github.com/ScottRBK/mycelium/internal/model"
	"github.com/ScottRBK/mycelium/internal/observe"
	"github.com/ScottRBK/mycelium/internal/processes"
	"github.com/ScottRBK/mycelium/internal/structurewalk"
)

// phaseLabels mirrors pipeline.rs's PHASE_LABELS: a progress line per
// phase, reported before that phase starts.
var phaseLabels = []struct{ name, label string }{
	{"structure", "Mapping file tree"},
	{"parsing", "Parsing source files"},
	{"imports", "Resolving imports"},
	{"calls", "Building call graph"},
	{"communities", "Detecting communities"},
	{"processes", "Tracing execution flows"},
}

// Timings maps phase name to elapsed seconds, in the order run.
type Timings struct {
	order  []string
	byName map[string]float64
}

func newTimings() *Timings { return &Timings{byName: make(map[string]float64)} }

func (t *Timings) record(name string, d time.Duration) {
	if _, seen := t.byName[name]; !seen {
		t.order = append(t.order, name)
	}
	t.byName[name] = d.Seconds()
}

// Ordered returns phase names in run order, each paired with its elapsed
// seconds.
func (t *Timings) Ordered() []struct {
	Name    string
	Seconds float64
} {
	out := make([]struct {
		Name    string
		Seconds float64
	}, len(t.order))
	for i, name := range t.order {
		out[i] = struct {
			Name    string
			Seconds float64
		}{Name: name, Seconds: t.byName[name]}
	}
	return out
}

// Result bundles the populated graph with run metadata the output
// builder needs.
type Result struct {
	Graph   *graph.KnowledgeGraph
	Timings *Timings
	TotalMS float64
}

// Run executes the six phases strictly sequentially, cancellation
// checked between phases (spec §5). Per-file failures inside a phase are
// recoverable and logged; only a cancelled context aborts the run early,
// in which case no Result is returned, matching spec §5's "partial
// results are discarded on cancellation".
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	kg := graph.New()
	st := graph.NewSymbolTable()
	ns := graph.NewNamespaceIndex()
	registry := languages.NewDefaultRegistry()
	timings := newTimings()
	totalStart := time.Now()

	var rawImports []model.RawImport
	var rawCalls []model.RawCall

	steps := []struct {
		name string
		run  func() error
	}{
		{"structure", func() error {
			return structurewalk.Run(cfg, kg, registry)
		}},
		{"parsing", func() error {
			ris, rcs, err := runParsingPhase(ctx, cfg, kg, st, ns, registry)
			rawImports, rawCalls = ris, rcs
			return err
		}},
		{"imports", func() error {
			imports.Run(cfg, kg, st, ns, rawImports)
			return nil
		}},
		{"calls", func() error {
			calls.Run(cfg, kg, st, registry, rawCalls)
			return nil
		}},
		{"communities", func() error {
			communities.Run(cfg, kg)
			return nil
		}},
		{"processes", func() error {
			processes.Run(cfg, kg)
			return nil
		}},
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		observe.Progress("%s", phaseLabels[i].label)

		start := time.Now()
		if err := step.run(); err != nil {
			return nil, analysiserrors.NewPhaseError(step.name, "run", err)
		}
		timings.record(step.name, time.Since(start))
	}

	return &Result{Graph: kg, Timings: timings, TotalMS: float64(time.Since(totalStart).Microseconds()) / 1000.0}, nil
}

// parsedFile holds one file's extraction output before symbols have
// stable ids.
type parsedFile struct {
	path     string
	analyser languages.Analyser
	ast      *languages.AST
	symbols  []*model.Symbol
}

// runParsingPhase implements spec §4.3 (C9+C1): parse every parseable
// file and extract symbols in parallel (spec §5's permitted Phase 2
// concurrency), then, in a single serial pass over files sorted by path,
// assign ids, register every symbol into the knowledge graph, the symbol
// table and (for Namespace symbols) the namespace index, and collect each
// file's imports; finally invoke each analyser's ExtractCalls with the
// now-id-bearing symbol slice so EnclosingSymbol can attribute call
// sites.
func runParsingPhase(ctx context.Context, cfg *config.Config, kg *graph.KnowledgeGraph, st *graph.SymbolTable, ns *graph.NamespaceIndex, registry *languages.Registry) ([]model.RawImport, []model.RawCall, error) {
	var paths []string
	for path, f := range kg.Files {
		if f.Parseable {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	parsed := make([]*parsedFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, relPath := range paths {
		i, relPath := i, relPath
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pf, err := parseOneFile(cfg, relPath, registry)
			if err != nil {
				observe.Warnf("parsing %s: %v", relPath, err)
				return nil
			}
			parsed[i] = pf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	nextSeq := 1
	var rawImports []model.RawImport
	for _, pf := range parsed {
		if pf == nil {
			continue
		}
		for _, sym := range pf.symbols {
			sym.ID = fmt.Sprintf("sym_%06d", nextSeq)
			nextSeq++
		}

		for _, sym := range pf.symbols {
			kg.AddSymbol(sym)
			st.Add(sym)
			if sym.Kind == model.KindNamespace {
				ns.Register(sym.Name, sym.File)
			}
		}

		rawImports = append(rawImports, pf.analyser.ExtractImports(pf.path, pf.ast)...)
	}

	var rawCalls []model.RawCall
	for _, pf := range parsed {
		if pf == nil {
			continue
		}
		// ExtractCalls resolves each call site's enclosing symbol itself
		// (via EnclosingSymbol, by byte containment), which only works
		// once pf.symbols carry their assigned ids — hence the second
		// pass, per spec §5's serial-id-then-reresolve ordering.
		rawCalls = append(rawCalls, pf.analyser.ExtractCalls(pf.path, pf.ast, pf.symbols)...)
	}

	return rawImports, rawCalls, nil
}

func parseOneFile(cfg *config.Config, relPath string, registry *languages.Registry) (*parsedFile, error) {
	absPath := filepath.Join(cfg.RepoPath, relPath)
	analyser := registry.For(absPath)
	if analyser == nil || !analyser.IsAvailable() {
		return nil, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}

	// A nil grammar means the analyser has no tree-sitter binding and
	// extracts directly off ast.Content instead (e.g. VBNetAnalyser's
	// line-scanning extractor), so the tree-sitter parse is skipped
	// entirely rather than handed a nil language.
	var ast *languages.AST
	if analyser.Grammar() == nil {
		ast = &languages.AST{Content: content}
	} else {
		parser := sitter.NewParser()
		defer parser.Close()
		if err := parser.SetLanguage(analyser.Grammar()); err != nil {
			return nil, fmt.Errorf("set grammar for %s: %w", relPath, err)
		}
		tree := parser.Parse(content, nil)
		if tree == nil {
			return nil, fmt.Errorf("parse %s: tree-sitter returned no tree", relPath)
		}
		ast = &languages.AST{Tree: tree, Content: content}
	}
	symbols := analyser.ExtractSymbols(relPath, ast)

	return &parsedFile{path: relPath, analyser: analyser, ast: ast, symbols: symbols}, nil
}
