// Package calls implements Phase 4 (spec §4.5): resolving each raw call
// site collected during Phase 2 to zero or more CallEdges, using the
// three-tier confidence model (Tier A import/DI/impl-resolved, Tier B
// same-file, Tier C fuzzy).
//
// Grounded on
// original_source/crates/mycelium-core/src/phases/calls.rs. Builtin-name
// filtering, which the original applies inside each language's
// extract_calls, happens here instead since this module's analysers
// (internal/languages) report every raw call and expose
// BuiltinExclusions() as a separate capability — filtering at
// resolution time keeps the analyser interface a pure "what did I see"
// reporter.
package calls

import (
	"sort"

	"github.com/hbollon/go-edlib"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/languages"
	"github.com/ScottRBK/mycelium/internal/model"
)

// Run resolves rawCalls collected during Phase 2 into CallEdges,
// appending them to kg.
func Run(cfg *config.Config, kg *graph.KnowledgeGraph, st *graph.SymbolTable, registry *languages.Registry, rawCalls []model.RawCall) {
	importMap := buildImportMap(kg)
	fieldTypeMaps := make(map[string]map[string]string)
	exclusionsByFile := make(map[string]map[string]bool)

	for _, raw := range rawCalls {
		if _, ok := kg.Files[raw.CallerFile]; !ok || raw.CallerSymbol == "" {
			continue
		}

		exclusions, ok := exclusionsByFile[raw.CallerFile]
		if !ok {
			exclusions = map[string]bool{}
			if a := registry.For(raw.CallerFile); a != nil {
				exclusions = a.BuiltinExclusions()
			}
			exclusionsByFile[raw.CallerFile] = exclusions
		}
		if exclusions[raw.CalleeName] {
			continue
		}

		ftm, ok := fieldTypeMaps[raw.CallerFile]
		if !ok {
			ftm = buildFieldTypeMap(raw.CallerFile, kg)
			fieldTypeMaps[raw.CallerFile] = ftm
		}

		for _, edge := range resolveCall(raw, st, importMap, kg, ftm) {
			kg.AddCall(edge)
		}
	}
}

// buildImportMap maps a source file to the files it imports, for Tier A
// resolution.
func buildImportMap(kg *graph.KnowledgeGraph) map[string][]string {
	out := make(map[string][]string)
	for _, e := range kg.ImportEdges() {
		out[e.From] = append(out[e.From], e.To)
	}
	return out
}

// buildFieldTypeMap maps a constructor parameter/field name to its
// declared type for DI-resolved Tier A edges (spec §9's "qualifier
// resolution for DI"), including the "_paramName" backing-field
// convention.
func buildFieldTypeMap(filePath string, kg *graph.KnowledgeGraph) map[string]string {
	out := make(map[string]string)
	for _, sym := range kg.SymbolsInFile(filePath) {
		for param, typeName := range sym.ParameterTypes {
			out[param] = typeName
			out["_"+param] = typeName
		}
	}
	return out
}

func findSymbol(kg *graph.KnowledgeGraph, id string) (*model.Symbol, bool) {
	sym, ok := kg.Symbols[id]
	return sym, ok
}

// isInterfaceMethod reports whether target is a method declared inside
// an interface symbol.
func isInterfaceMethod(targetID string, kg *graph.KnowledgeGraph) bool {
	target, ok := findSymbol(kg, targetID)
	if !ok || target.Parent == "" {
		return false
	}
	parent, ok := findSymbol(kg, target.Parent)
	return ok && parent.Kind == model.KindInterface
}

// isInterfaceSelfCall reports whether a call appears to be an
// interface's method calling its own declaration (a spurious self-edge
// that import-resolution can otherwise manufacture).
func isInterfaceSelfCall(callerName, calleeName, targetID string, kg *graph.KnowledgeGraph) bool {
	if callerName != calleeName {
		return false
	}
	return isInterfaceMethod(targetID, kg)
}

// findImplementation looks for a concrete implementation of an
// interface method named calleeName, first among the caller file's
// direct imports, then via a global fuzzy lookup.
func findImplementation(calleeName, interfaceTargetID string, st *graph.SymbolTable, importMap map[string][]string, filePath string, kg *graph.KnowledgeGraph) (string, bool) {
	interfaceFile := ""
	if sym, ok := findSymbol(kg, interfaceTargetID); ok {
		interfaceFile = sym.File
	}

	for _, imported := range importMap[filePath] {
		if imported == interfaceFile {
			continue
		}
		if targetID := st.LookupExact(imported, calleeName); targetID != "" {
			if targetID != interfaceTargetID && !isInterfaceMethod(targetID, kg) {
				return targetID, true
			}
		}
	}

	for _, m := range st.LookupFuzzy(calleeName) {
		if m.SymbolID != interfaceTargetID && m.File != interfaceFile && !isInterfaceMethod(m.SymbolID, kg) {
			return m.SymbolID, true
		}
	}
	return "", false
}

// resolveCall applies the three-tier confidence model to a single raw
// call, returning zero or more edges (Tier C fuzzy-ambiguous emits one
// edge per candidate, per spec.md's explicit widening over a
// single-edge shortcut).
func resolveCall(raw model.RawCall, st *graph.SymbolTable, importMap map[string][]string, kg *graph.KnowledgeGraph, fieldTypeMap map[string]string) []model.CallEdge {
	callerID := raw.CallerSymbol
	filePath := raw.CallerFile
	callerName := callerNameOf(kg, callerID)

	// Tier A-DI: the call's qualifier names a DI-injected field/parameter,
	// checked ahead of the plain lookup below so a qualified call through
	// a known-typed field is attributed to DI resolution rather than
	// incidentally falling out of the unqualified name search.
	if raw.Qualifier != "" {
		if typeName, ok := fieldTypeMap[raw.Qualifier]; ok {
			for _, imported := range importMap[filePath] {
				if st.LookupExact(imported, typeName) == "" {
					continue
				}
				targetID := st.LookupExact(imported, raw.CalleeName)
				if targetID == "" || targetID == callerID {
					continue
				}
				if isInterfaceSelfCall(callerName, raw.CalleeName, targetID, kg) {
					continue
				}
				if isInterfaceMethod(targetID, kg) {
					if implID, ok := findImplementation(raw.CalleeName, targetID, st, importMap, filePath, kg); ok {
						return []model.CallEdge{{From: callerID, To: implID, Confidence: 0.85, Tier: model.TierA, Reason: "di-impl-resolved", Line: raw.Line}}
					}
				}
				return []model.CallEdge{{From: callerID, To: targetID, Confidence: 0.85, Tier: model.TierA, Reason: "di-resolved", Line: raw.Line}}
			}
		}
	}

	// Tier A: import-resolved.
	for _, imported := range importMap[filePath] {
		targetID := st.LookupExact(imported, raw.CalleeName)
		if targetID == "" || targetID == callerID {
			continue
		}
		if isInterfaceSelfCall(callerName, raw.CalleeName, targetID, kg) {
			continue
		}
		if isInterfaceMethod(targetID, kg) {
			if implID, ok := findImplementation(raw.CalleeName, targetID, st, importMap, filePath, kg); ok {
				return []model.CallEdge{{From: callerID, To: implID, Confidence: 0.85, Tier: model.TierA, Reason: "impl-resolved", Line: raw.Line}}
			}
		}
		return []model.CallEdge{{From: callerID, To: targetID, Confidence: 0.9, Tier: model.TierA, Reason: "import-resolved", Line: raw.Line}}
	}

	// Tier B: same-file.
	if targetID := st.LookupExact(filePath, raw.CalleeName); targetID != "" && targetID != callerID {
		return []model.CallEdge{{From: callerID, To: targetID, Confidence: 0.85, Tier: model.TierB, Reason: "same-file", Line: raw.Line}}
	}

	// Tier C: fuzzy global.
	var filtered []graph.SymbolDefinition
	for _, m := range st.LookupFuzzy(raw.CalleeName) {
		if m.File != filePath {
			filtered = append(filtered, m)
		}
	}
	filtered = orderByPathSimilarity(filtered, filePath)

	switch len(filtered) {
	case 0:
		return nil
	case 1:
		if isInterfaceSelfCall(callerName, raw.CalleeName, filtered[0].SymbolID, kg) {
			return nil
		}
		return []model.CallEdge{{From: callerID, To: filtered[0].SymbolID, Confidence: 0.5, Tier: model.TierC, Reason: "fuzzy-unique", Line: raw.Line}}
	default:
		var edges []model.CallEdge
		for _, m := range filtered {
			if isInterfaceSelfCall(callerName, raw.CalleeName, m.SymbolID, kg) {
				continue
			}
			edges = append(edges, model.CallEdge{From: callerID, To: m.SymbolID, Confidence: 0.3, Tier: model.TierC, Reason: "fuzzy-ambiguous", Line: raw.Line})
		}
		return edges
	}
}

func callerNameOf(kg *graph.KnowledgeGraph, callerID string) string {
	if sym, ok := findSymbol(kg, callerID); ok {
		return sym.Name
	}
	return ""
}

// orderByPathSimilarity sorts fuzzy candidates deterministically by
// Levenshtein distance from the caller's file path, closest first, so
// Tier C's ambiguous-edge emission order does not depend on map
// iteration order. Ties break on symbol id.
func orderByPathSimilarity(candidates []graph.SymbolDefinition, callerFile string) []graph.SymbolDefinition {
	sort.SliceStable(candidates, func(i, j int) bool {
		di := edlib.LevenshteinDistance(callerFile, candidates[i].File)
		dj := edlib.LevenshteinDistance(callerFile, candidates[j].File)
		if di != dj {
			return di < dj
		}
		return candidates[i].SymbolID < candidates[j].SymbolID
	})
	return candidates
}
