// Package languages implements the ten per-language analysers (spec §2
// C1, §4.2) as a capability set over an opaque tree-sitter AST handle,
// following the SymbolExtractor shape from the teacher's
// internal/symbollinker/extractor.go (BaseExtractor, ASTTraversal,
// GetNodeText/FindChildByType helpers), generalised to the four
// operations spec.md §9 "Polymorphic language analysers" names:
// extract_symbols, extract_imports, extract_calls, builtin_exclusions.
package languages

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ScottRBK/mycelium/internal/model"
)

// AST wraps a parsed file: its tree-sitter tree and source bytes.
type AST struct {
	Tree    *sitter.Tree
	Content []byte
}

// Analyser is the capability set a language implementation exposes.
// Analysers must be total (spec §4.2): a malformed/partial AST yields
// whatever was recoverable, never an error that aborts the phase.
type Analyser interface {
	Language() string
	Extensions() []string
	CanHandle(path string) bool
	IsAvailable() bool
	Grammar() *sitter.Language

	ExtractSymbols(filePath string, ast *AST) []*model.Symbol
	ExtractImports(filePath string, ast *AST) []model.RawImport
	ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall
	BuiltinExclusions() map[string]bool
}

// BaseAnalyser provides the extension-matching boilerplate every
// language analyser needs, per BaseExtractor in the teacher's
// extractor.go.
type BaseAnalyser struct {
	language string
	exts     []string
}

func NewBaseAnalyser(language string, exts []string) BaseAnalyser {
	return BaseAnalyser{language: language, exts: exts}
}

func (b BaseAnalyser) Language() string     { return b.language }
func (b BaseAnalyser) Extensions() []string { return b.exts }

func (b BaseAnalyser) CanHandle(path string) bool {
	for _, ext := range b.exts {
		if hasExtension(path, ext) {
			return true
		}
	}
	return false
}

func hasExtension(path, ext string) bool {
	if len(path) < len(ext) {
		return false
	}
	return path[len(path)-len(ext):] == ext
}

// Registry maps extensions to analysers, lazily available (spec §9:
// "lazy initialisation avoids loading unused grammars").
type Registry struct {
	mu        sync.RWMutex
	analysers []Analyser
	byExt     map[string]Analyser
}

func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Analyser)}
}

func (r *Registry) Register(a Analyser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analysers = append(r.analysers, a)
	for _, ext := range a.Extensions() {
		r.byExt[ext] = a
	}
}

// For returns the analyser registered for path's extension, or nil.
func (r *Registry) For(path string) Analyser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.analysers {
		if a.CanHandle(path) {
			return a
		}
	}
	return nil
}

func (r *Registry) All() []Analyser {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Analyser, len(r.analysers))
	copy(out, r.analysers)
	return out
}

// NewDefaultRegistry registers all ten language analysers spec §2 C1
// requires.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewGoAnalyser())
	r.Register(NewPythonAnalyser())
	r.Register(NewTypeScriptAnalyser())
	r.Register(NewJavaScriptAnalyser())
	r.Register(NewJavaAnalyser())
	r.Register(NewCSharpAnalyser())
	r.Register(NewVBNetAnalyser())
	r.Register(NewRustAnalyser())
	r.Register(NewCAnalyser())
	r.Register(NewCppAnalyser())
	return r
}

// --- AST traversal helpers, generalised from extractor.go ---

// GetNodeText extracts the source text spanned by node.
func GetNodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > uint(len(content)) || end > uint(len(content)) || start > end {
		return ""
	}
	return string(content[start:end])
}

// NodeLine returns node's 1-based source line.
func NodeLine(node *sitter.Node) int {
	if node == nil {
		return 0
	}
	return int(node.StartPosition().Row) + 1
}

// FindChildByType returns the first direct child of the given kind.
func FindChildByType(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// FindChildrenByType returns every direct child of the given kind.
func FindChildrenByType(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// Walk depth-first visits node and its descendants; visit returning
// false stops descent into that subtree (siblings are still visited).
func Walk(node *sitter.Node, visit func(n *sitter.Node, depth int) bool) {
	walk(node, 0, visit)
}

func walk(node *sitter.Node, depth int, visit func(n *sitter.Node, depth int) bool) {
	if node == nil {
		return
	}
	if !visit(node, depth) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), depth+1, visit)
	}
}

// EnclosingSymbol returns the innermost symbol whose byte range contains
// pos, or "" if none (spec §4.5: "resolved by finding the innermost
// enclosing function/method symbol by line containment"). Symbol.ByteEnd
// is the subtree span the analyser recorded at extraction time, so this
// needs no separate line-range bookkeeping.
func EnclosingSymbol(symbols []*model.Symbol, pos int) string {
	best := ""
	bestSpan := -1
	for _, s := range symbols {
		if s.ByteEnd == 0 {
			continue
		}
		if s.ByteStart <= pos && pos <= s.ByteEnd {
			span := s.ByteEnd - s.ByteStart
			if bestSpan == -1 || span < bestSpan {
				bestSpan = span
				best = s.ID
			}
		}
	}
	return best
}
