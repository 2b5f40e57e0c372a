package languages

import (
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseWith(t *testing.T, a Analyser, source string) *AST {
	t.Helper()
	parser := sitter.NewParser()
	defer parser.Close()
	require.NoError(t, parser.SetLanguage(a.Grammar()))
	tree := parser.Parse([]byte(source), nil)
	require.NotNil(t, tree)
	return &AST{Tree: tree, Content: []byte(source)}
}

const goFixture = `package pkg

import (
	"fmt"
	"myapp/service"
)

type Widget struct {
	Name string
}

func Run() int {
	fmt.Println("hi")
	return service.Create()
}

func (w Widget) Describe() string {
	return w.Name
}
`

func TestGoExtractSymbolsFindsDeclarations(t *testing.T) {
	g := NewGoAnalyser()
	ast := parseWith(t, g, goFixture)

	symbols := g.ExtractSymbols("pkg/widget.go", ast)

	var names []string
	for _, s := range symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "Run")
	assert.Contains(t, names, "Widget.Describe")
}

func TestGoExtractSymbolsSetsExportedFromCase(t *testing.T) {
	g := NewGoAnalyser()
	ast := parseWith(t, g, goFixture)
	symbols := g.ExtractSymbols("pkg/widget.go", ast)

	for _, s := range symbols {
		if s.Name == "Run" {
			assert.True(t, s.Exported)
		}
	}
}

func TestGoExtractImportsReturnsTargetPaths(t *testing.T) {
	g := NewGoAnalyser()
	ast := parseWith(t, g, goFixture)
	imports := g.ExtractImports("pkg/widget.go", ast)

	var targets []string
	for _, imp := range imports {
		targets = append(targets, imp.Target)
	}
	assert.Contains(t, targets, "fmt")
	assert.Contains(t, targets, "myapp/service")
}

func TestGoExtractCallsAttributesEnclosingSymbol(t *testing.T) {
	g := NewGoAnalyser()
	ast := parseWith(t, g, goFixture)
	symbols := g.ExtractSymbols("pkg/widget.go", ast)
	for i, s := range symbols {
		s.ID = "sym_" + string(rune('a'+i))
	}

	calls := g.ExtractCalls("pkg/widget.go", ast, symbols)

	found := false
	for _, c := range calls {
		if c.CalleeName == "Create" && c.Qualifier == "service" {
			found = true
			assert.NotEmpty(t, c.CallerSymbol)
		}
	}
	assert.True(t, found)
}

func TestGoBuiltinExclusionsContainsPrintln(t *testing.T) {
	g := NewGoAnalyser()
	assert.True(t, g.BuiltinExclusions()["Println"])
	assert.False(t, g.BuiltinExclusions()["Create"])
}
