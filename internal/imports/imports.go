// Package imports implements Phase 3 (spec §4.4): resolving each raw
// import/using/include statement collected during Phase 2 to the file(s)
// it targets, plus .NET project/package reference extraction from
// .sln/.csproj/.vbproj files.
//
// Grounded on
// original_source/crates/mycelium-core/src/phases/imports.rs for the
// per-language resolution strategies, and
// original_source/crates/mycelium-core/src/dotnet/{solution,project,
// assembly}.rs for .NET project parsing (ported from Rust string
// scanning to Go string scanning, keeping the original's own "avoid a
// full XML library" design choice — see SPEC_FULL.md SUPPLEMENTED
// FEATURES).
package imports

import (
	"os"
	"path"
	"strings"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/model"
	"github.com/ScottRBK/mycelium/internal/observe"
)

// Run resolves rawImports (collected per file during Phase 2) against
// kg's file set, recording ImportEdges, and processes any .NET project
// files present in kg into ProjectReference/PackageReference edges and
// an assembly index (RootNamespace -> project file) that C#/VB.NET
// imports fall back on when ns has no match. Project files do not add
// entries to ns.
func Run(cfg *config.Config, kg *graph.KnowledgeGraph, st *graph.SymbolTable, ns *graph.NamespaceIndex, rawImports []model.RawImport) {
	asm := newAssemblyIndex()
	processDotnetProjects(cfg, kg, asm)
	processSourceImports(cfg, kg, st, asm, ns, rawImports)
}

func processDotnetProjects(cfg *config.Config, kg *graph.KnowledgeGraph, asm *assemblyIndex) {
	for filePath := range kg.Files {
		if strings.HasSuffix(filePath, ".sln") {
			content, err := os.ReadFile(path.Join(cfg.RepoPath, filePath))
			if err != nil {
				continue
			}
			parseSolution(string(content)) // parsed for discovery only; the result is not used further
		}
	}

	for filePath := range kg.Files {
		if !strings.HasSuffix(filePath, ".csproj") && !strings.HasSuffix(filePath, ".vbproj") {
			continue
		}
		content, err := os.ReadFile(path.Join(cfg.RepoPath, filePath))
		if err != nil {
			observe.Warnf("reading project file %s: %v", filePath, err)
			continue
		}

		info := parseProjectFile(string(content), filePath)
		asm.register(info.RootNamespace, filePath)

		projDir := dirOf(filePath)
		for _, ref := range info.ProjectReferences {
			resolved := normalizePath(path.Join(projDir, ref))
			kg.AddProjectReference(model.ProjectReference{From: filePath, To: resolved, Kind: "ProjectReference"})
		}
		for _, pkg := range info.PackageReferences {
			kg.AddPackageReference(model.PackageReference{Project: filePath, Package: pkg.Name, Version: pkg.Version})
		}
	}
}

func processSourceImports(cfg *config.Config, kg *graph.KnowledgeGraph, st *graph.SymbolTable, asm *assemblyIndex, ns *graph.NamespaceIndex, rawImports []model.RawImport) {
	fileSet := make(map[string]bool, len(kg.Files))
	for filePath := range kg.Files {
		fileSet[filePath] = true
	}

	goModule, hasGoModule := parseGoMod(fileSet, cfg.RepoPath, func(p string) (string, error) {
		b, err := os.ReadFile(p)
		return string(b), err
	})
	var goDirIndex map[string][]string
	if hasGoModule {
		goDirIndex = buildGoDirIndex(fileSet)
	}

	cargoIndex := buildCargoIndex(fileSet, cfg.RepoPath, func(p string) (string, error) {
		b, err := os.ReadFile(p)
		return string(b), err
	})

	tsconfigIndex := buildTSConfigIndex(fileSet, cfg.RepoPath, func(p string) (string, error) {
		b, err := os.ReadFile(p)
		return string(b), err
	})

	javaBasenameIndex := make(map[string][]string)
	for filePath := range fileSet {
		if strings.HasSuffix(filePath, ".java") {
			basename := path.Base(filePath)
			javaBasenameIndex[basename] = append(javaBasenameIndex[basename], filePath)
		}
	}

	for _, imp := range rawImports {
		file, ok := kg.Files[imp.FromFile]
		if !ok {
			continue
		}
		lang := file.Language
		addEdge := func(to string) {
			if to != imp.FromFile {
				kg.AddImport(model.ImportEdge{From: imp.FromFile, To: to, Statement: imp.Statement})
			}
		}

		switch lang {
		case "csharp", "vbnet":
			resolveDotnetImport(imp, asm, st, kg, ns, addEdge)
		case "python":
			if target, ok := resolvePythonImport(imp.Target, imp.FromFile, fileSet); ok {
				addEdge(target)
			}
		case "typescript", "javascript":
			if target, ok := resolveTSImport(imp.Target, imp.FromFile, fileSet); ok {
				addEdge(target)
			} else if target, ok := resolveTSPathAlias(imp.Target, imp.FromFile, fileSet, tsconfigIndex); ok {
				addEdge(target)
			}
		case "java":
			if target, ok := resolveJavaImport(imp.Target, imp.FromFile, fileSet, javaBasenameIndex); ok {
				addEdge(target)
			}
		case "go":
			for _, target := range resolveGoImport(imp.Target, goModule, goDirIndex) {
				addEdge(target)
			}
		case "rust":
			crateRoot := crateRootFor(imp.FromFile, cargoIndex)
			if target, ok := resolveRustImport(imp.Target, imp.FromFile, fileSet, crateRoot); ok {
				addEdge(target)
			}
		case "c", "cpp":
			if target, ok := resolveCInclude(imp.Target, imp.Statement, imp.FromFile, fileSet); ok {
				addEdge(target)
			}
		}
	}
}

func resolveDotnetImport(imp model.RawImport, asm *assemblyIndex, st *graph.SymbolTable, kg *graph.KnowledgeGraph, ns *graph.NamespaceIndex, addEdge func(string)) {
	nsFiles := ns.FilesForNamespace(imp.Target)
	if len(nsFiles) > 0 {
		ns.RegisterFileImport(imp.FromFile, imp.Target)
		for _, target := range nsFiles {
			addEdge(target)
		}
		return
	}

	if target, ok := resolveDotnetFallback(imp.Target, st, asm, kg); ok {
		addEdge(target)
		ns.RegisterFileImport(imp.FromFile, imp.Target)
	}
}

// resolveDotnetFallback is used when the namespace index has no direct
// registration for the imported namespace: first a fuzzy symbol-name
// lookup, then the assembly index's project-prefix resolution.
func resolveDotnetFallback(target string, st *graph.SymbolTable, asm *assemblyIndex, kg *graph.KnowledgeGraph) (string, bool) {
	if matches := st.LookupFuzzy(target); len(matches) > 0 {
		return matches[0].File, true
	}

	project, ok := asm.resolveNamespace(target)
	if !ok {
		return "", false
	}
	projDir := dirOf(project)
	for filePath := range kg.Files {
		if !strings.HasSuffix(filePath, ".cs") && !strings.HasSuffix(filePath, ".vb") {
			continue
		}
		if projDir != "" && !strings.HasPrefix(filePath, projDir) {
			continue
		}
		if len(st.SymbolsInFile(filePath)) > 0 {
			return filePath, true
		}
	}
	return "", false
}
