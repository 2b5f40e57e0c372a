package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ScottRBK/mycelium/internal/model"
)

func TestAddFileAndQuery(t *testing.T) {
	g := New()
	g.AddFile(&model.FileNode{Path: "main.go", Language: "go", Size: 10, Lines: 1, Parseable: true})
	assert.Equal(t, 1, g.FileCount())
	assert.Equal(t, "go", g.Files["main.go"].Language)
}

func TestAddFolderAndQuery(t *testing.T) {
	g := New()
	g.AddFolder(&model.FolderNode{Path: "internal/", FileCount: 3})
	assert.Equal(t, 1, g.FolderCount())
}

func TestAddSymbolTracksByFile(t *testing.T) {
	g := New()
	g.AddSymbol(&model.Symbol{ID: "sym_1", Name: "Run", File: "main.go", Kind: model.KindFunction})
	g.AddSymbol(&model.Symbol{ID: "sym_2", Name: "Stop", File: "main.go", Kind: model.KindFunction})
	assert.Equal(t, 2, g.SymbolCount())
	assert.Len(t, g.SymbolsInFile("main.go"), 2)
}

func TestAddCallAndQuery(t *testing.T) {
	g := New()
	g.AddCall(model.CallEdge{From: "sym_1", To: "sym_2", Confidence: 0.9, Tier: model.TierA, Reason: "import-resolved", Line: 5})
	assert.Equal(t, []string{"sym_2"}, g.Callees("sym_1"))
	assert.Equal(t, []string{"sym_1"}, g.Callers("sym_2"))
	assert.Len(t, g.CallEdges(), 1)
}

func TestAddImportAndQuery(t *testing.T) {
	g := New()
	g.AddImport(model.ImportEdge{From: "a.go", To: "b.go", Statement: `"pkg/b"`})
	assert.Len(t, g.ImportEdges(), 1)
}

func TestAddProjectReferenceAndQuery(t *testing.T) {
	g := New()
	g.AddProjectReference(model.ProjectReference{From: "App.csproj", To: "Lib.csproj", Kind: "ProjectReference"})
	assert.Len(t, g.ProjectReferences(), 1)
}

func TestAddPackageReferenceAndQuery(t *testing.T) {
	g := New()
	g.AddPackageReference(model.PackageReference{Project: "App.csproj", Package: "Newtonsoft.Json", Version: "13.0.1"})
	assert.Len(t, g.PackageReferences(), 1)
}

func TestAddCommunityAndQuery(t *testing.T) {
	g := New()
	g.AddCommunity(&model.Community{ID: "community_0", Label: "auth", Members: []string{"sym_1", "sym_2"}})
	assert.Len(t, g.Communities(), 1)
}

func TestAddProcessAndQuery(t *testing.T) {
	g := New()
	g.AddProcess(&model.Process{ID: "process_0", Entry: "sym_1", Terminal: "sym_3", Steps: []string{"sym_1", "sym_2", "sym_3"}})
	assert.Len(t, g.Processes(), 1)
}
