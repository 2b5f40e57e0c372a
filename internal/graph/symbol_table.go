package graph

import (
	"github.com/cespare/xxhash/v2"

	"github.com/ScottRBK/mycelium/internal/model"
)

// SymbolDefinition is a lightweight record held in the global index,
// grounded on original_source/graph/symbol_table.rs's SymbolDefinition.
type SymbolDefinition struct {
	SymbolID string
	Name     string
	File     string
	Kind     model.SymbolKind
	Language string
}

// SymbolTable is a dual index over symbols: an exact file-scoped lookup
// (hashed (file,name) -> id) and a fuzzy global lookup (name -> every
// definition sharing that name), feeding Phase 4's same-file (Tier B)
// and fuzzy (Tier C) call resolution respectively.
type SymbolTable struct {
	exactIndex  map[uint64]string
	byFile      map[string]map[string]string
	globalIndex map[string][]SymbolDefinition
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		exactIndex:  make(map[uint64]string),
		byFile:      make(map[string]map[string]string),
		globalIndex: make(map[string][]SymbolDefinition),
	}
}

// exactKey hashes the composite (file,name) key with xxhash rather than
// nesting a second map per file, so LookupExact is a single map probe.
func exactKey(file, name string) uint64 {
	return xxhash.Sum64String(file + "\x00" + name)
}

func (t *SymbolTable) Add(s *model.Symbol) {
	t.exactIndex[exactKey(s.File, s.Name)] = s.ID

	names, ok := t.byFile[s.File]
	if !ok {
		names = make(map[string]string)
		t.byFile[s.File] = names
	}
	names[s.Name] = s.ID

	t.globalIndex[s.Name] = append(t.globalIndex[s.Name], SymbolDefinition{
		SymbolID: s.ID,
		Name:     s.Name,
		File:     s.File,
		Kind:     s.Kind,
		Language: s.Language,
	})
}

// LookupExact returns the symbol id declared as name in filePath, or ""
// if none.
func (t *SymbolTable) LookupExact(filePath, name string) string {
	return t.exactIndex[exactKey(filePath, name)]
}

// LookupFuzzy returns every definition sharing name, across all files.
func (t *SymbolTable) LookupFuzzy(name string) []SymbolDefinition {
	return t.globalIndex[name]
}

// SymbolsInFile returns the name -> id map declared in filePath.
func (t *SymbolTable) SymbolsInFile(filePath string) map[string]string {
	return t.byFile[filePath]
}
