package imports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/model"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestResolvePythonImport(t *testing.T) {
	fileSet := map[string]bool{"pkg/util.py": true, "pkg/__init__.py": true}
	target, ok := resolvePythonImport("pkg.util", "main.py", fileSet)
	assert.True(t, ok)
	assert.Equal(t, "pkg/util.py", target)
}

func TestResolvePythonRelativeImport(t *testing.T) {
	fileSet := map[string]bool{"pkg/sibling.py": true}
	target, ok := resolvePythonImport(".sibling", "pkg/main.py", fileSet)
	assert.True(t, ok)
	assert.Equal(t, "pkg/sibling.py", target)
}

func TestResolveTSImportExtensionProbing(t *testing.T) {
	fileSet := map[string]bool{"src/util.ts": true}
	target, ok := resolveTSImport("./util", "src/main.ts", fileSet)
	assert.True(t, ok)
	assert.Equal(t, "src/util.ts", target)
}

func TestResolveTSImportBareSpecifierIsExternal(t *testing.T) {
	fileSet := map[string]bool{"node_modules/react/index.js": true}
	_, ok := resolveTSImport("react", "src/main.ts", fileSet)
	assert.False(t, ok)
}

func TestResolveTSPathAliasMatchesWildcard(t *testing.T) {
	fileSet := map[string]bool{"src/app/widget.ts": true}
	index := map[string]tsconfigEntry{
		"": {baseDir: "", aliases: map[string][]string{"@app/*": {"src/app/*"}}},
	}
	target, ok := resolveTSPathAlias("@app/widget", "src/main.ts", fileSet, index)
	assert.True(t, ok)
	assert.Equal(t, "src/app/widget.ts", target)
}

func TestResolveTSPathAliasHonoursBaseURL(t *testing.T) {
	fileSet := map[string]bool{"src/shared/util.ts": true}
	index := map[string]tsconfigEntry{
		"": {baseDir: "src", aliases: map[string][]string{"shared/*": {"shared/*"}}},
	}
	target, ok := resolveTSPathAlias("shared/util", "src/app/main.ts", fileSet, index)
	assert.True(t, ok)
	assert.Equal(t, "src/shared/util.ts", target)
}

func TestResolveTSPathAliasNoMatchReturnsFalse(t *testing.T) {
	index := map[string]tsconfigEntry{
		"": {baseDir: "", aliases: map[string][]string{"@app/*": {"src/app/*"}}},
	}
	_, ok := resolveTSPathAlias("react", "src/main.ts", map[string]bool{}, index)
	assert.False(t, ok)
}

func TestBuildTSConfigIndexParsesPathsAndBaseURL(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "tsconfig.json"), `{
		"compilerOptions": {
			"baseUrl": "src",
			"paths": { "@app/*": ["app/*"] }
		}
	}`)
	fileSet := map[string]bool{"tsconfig.json": true}

	index := buildTSConfigIndex(fileSet, dir, func(p string) (string, error) {
		b, err := os.ReadFile(p)
		return string(b), err
	})

	entry, ok := index[""]
	require.True(t, ok)
	assert.Equal(t, "src", entry.baseDir)
	assert.Equal(t, []string{"app/*"}, entry.aliases["@app/*"])
}

func TestResolveJavaImportFallsBackToBasename(t *testing.T) {
	fileSet := map[string]bool{}
	basenameIndex := map[string][]string{"Widget.java": {"ui/widgets/Widget.java"}}
	target, ok := resolveJavaImport("com.example.Widget", "ui/main/App.java", fileSet, basenameIndex)
	assert.True(t, ok)
	assert.Equal(t, "ui/widgets/Widget.java", target)
}

func TestResolveGoImportWithinModule(t *testing.T) {
	goDirIndex := map[string][]string{"internal/util": {"internal/util/util.go"}}
	targets := resolveGoImport("example.com/app/internal/util", "example.com/app", goDirIndex)
	assert.Equal(t, []string{"internal/util/util.go"}, targets)
}

func TestResolveGoImportStdlibResolvesToNothing(t *testing.T) {
	targets := resolveGoImport("fmt", "example.com/app", map[string][]string{})
	assert.Empty(t, targets)
}

func TestResolveRustImportCrateRelative(t *testing.T) {
	fileSet := map[string]bool{"src/util.rs": true}
	target, ok := resolveRustImport("crate::util::Helper", "src/main.rs", fileSet, "")
	assert.True(t, ok)
	assert.Equal(t, "src/util.rs", target)
}

func TestResolveRustImportExternalCrateSkipped(t *testing.T) {
	_, ok := resolveRustImport("std::collections::HashMap", "src/main.rs", map[string]bool{}, "")
	assert.False(t, ok)
}

func TestResolveRustImportCrateRelativeWithCrateRoot(t *testing.T) {
	fileSet := map[string]bool{"crates/engine/src/util.rs": true}
	target, ok := resolveRustImport("crate::util::Helper", "crates/engine/src/main.rs", fileSet, "crates/engine/src")
	assert.True(t, ok)
	assert.Equal(t, "crates/engine/src/util.rs", target)
}

func TestBuildCargoIndexMapsSrcDirToCrateName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "crates/engine/Cargo.toml"), "[package]\nname = \"engine\"\nversion = \"0.1.0\"\n")
	fileSet := map[string]bool{
		"crates/engine/Cargo.toml": true,
		"crates/engine/src/lib.rs": true,
	}

	index := buildCargoIndex(fileSet, dir, func(p string) (string, error) {
		b, err := os.ReadFile(p)
		return string(b), err
	})

	assert.Equal(t, "engine", index["crates/engine/src"])
}

func TestCrateRootForPicksLongestEnclosingMatch(t *testing.T) {
	index := map[string]string{
		"src":                "root",
		"crates/engine/src":  "engine",
	}
	assert.Equal(t, "crates/engine/src", crateRootFor("crates/engine/src/util.rs", index))
	assert.Equal(t, "src", crateRootFor("src/main.rs", index))
}

func TestResolveCIncludeSystemHeaderSkipped(t *testing.T) {
	_, ok := resolveCInclude("stdio.h", `#include <stdio.h>`, "src/main.c", map[string]bool{})
	assert.False(t, ok)
}

func TestResolveCIncludeRelative(t *testing.T) {
	fileSet := map[string]bool{"src/util.h": true}
	target, ok := resolveCInclude("util.h", `#include "util.h"`, "src/main.c", fileSet)
	assert.True(t, ok)
	assert.Equal(t, "src/util.h", target)
}

func TestParseSolutionSkipsFolders(t *testing.T) {
	sln := `
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "WebApp", "src\WebApp\WebApp.csproj", "{12345678-1234-1234-1234-123456789ABC}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{AAAA1111-BBBB-CCCC-DDDD-EEEE22223333}"
EndProject
`
	projects := parseSolution(sln)
	require.Len(t, projects, 1)
	assert.Equal(t, "WebApp", projects[0].Name)
	assert.Equal(t, "src/WebApp/WebApp.csproj", projects[0].Path)
}

func TestParseProjectFile(t *testing.T) {
	csproj := `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <RootNamespace>Absence.Services</RootNamespace>
  </PropertyGroup>
  <ItemGroup>
    <ProjectReference Include="..\Absence.Core\Absence.Core.csproj" />
    <PackageReference Include="Newtonsoft.Json" Version="13.0.1" />
  </ItemGroup>
</Project>`
	info := parseProjectFile(csproj, "Services/Services.csproj")
	assert.Equal(t, "Absence.Services", info.RootNamespace)
	require.Len(t, info.ProjectReferences, 1)
	assert.Contains(t, info.ProjectReferences[0], "Absence.Core")
	require.Len(t, info.PackageReferences, 1)
	assert.Equal(t, "Newtonsoft.Json", info.PackageReferences[0].Name)
	assert.Equal(t, "13.0.1", info.PackageReferences[0].Version)
}

func TestAssemblyIndexLongestPrefixWins(t *testing.T) {
	idx := newAssemblyIndex()
	idx.register("Absence", "Core.csproj")
	idx.register("Absence.Services", "Services.csproj")

	project, ok := idx.resolveNamespace("Absence.Services.Internal")
	assert.True(t, ok)
	assert.Equal(t, "Services.csproj", project)
}

func TestRunResolvesCrossFileGoImport(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n\ngo 1.24\n")
	writeFile(t, filepath.Join(root, "main.go"), "package main\n")
	writeFile(t, filepath.Join(root, "internal/util/util.go"), "package util\n")

	cfg := config.Default(root)
	kg := graph.New()
	kg.AddFile(&model.FileNode{Path: "go.mod", Language: ""})
	kg.AddFile(&model.FileNode{Path: "main.go", Language: "go"})
	kg.AddFile(&model.FileNode{Path: "internal/util/util.go", Language: "go"})

	st := graph.NewSymbolTable()
	ns := graph.NewNamespaceIndex()
	raw := []model.RawImport{{FromFile: "main.go", Statement: `"example.com/app/internal/util"`, Target: "example.com/app/internal/util"}}

	Run(cfg, kg, st, ns, raw)

	edges := kg.ImportEdges()
	require.Len(t, edges, 1)
	assert.Equal(t, "internal/util/util.go", edges[0].To)
}
