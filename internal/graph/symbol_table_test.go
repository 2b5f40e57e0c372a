package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ScottRBK/mycelium/internal/model"
)

func TestSymbolTableExactLookup(t *testing.T) {
	st := NewSymbolTable()
	st.Add(&model.Symbol{ID: "sym_1", Name: "Bar", File: "foo.cs", Kind: model.KindMethod})
	assert.Equal(t, "sym_1", st.LookupExact("foo.cs", "Bar"))
	assert.Equal(t, "", st.LookupExact("other.cs", "Bar"))
}

func TestSymbolTableFuzzyLookup(t *testing.T) {
	st := NewSymbolTable()
	st.Add(&model.Symbol{ID: "sym_1", Name: "Run", File: "a.cs", Kind: model.KindMethod})
	st.Add(&model.Symbol{ID: "sym_2", Name: "Run", File: "b.cs", Kind: model.KindMethod})
	assert.Len(t, st.LookupFuzzy("Run"), 2)
}

func TestSymbolTableSymbolsInFile(t *testing.T) {
	st := NewSymbolTable()
	st.Add(&model.Symbol{ID: "sym_1", Name: "X", File: "a.cs"})
	st.Add(&model.Symbol{ID: "sym_2", Name: "Y", File: "a.cs"})
	syms := st.SymbolsInFile("a.cs")
	assert.Len(t, syms, 2)
	assert.Contains(t, syms, "X")
	assert.Contains(t, syms, "Y")
}
