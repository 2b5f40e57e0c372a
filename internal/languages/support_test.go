package languages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ScottRBK/mycelium/internal/model"
)

func TestRegistryForDispatchesByExtension(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, "go", r.For("main.go").Language())
	assert.Equal(t, "python", r.For("script.py").Language())
	assert.Equal(t, "typescript", r.For("app.ts").Language())
	assert.Equal(t, "javascript", r.For("app.js").Language())
	assert.Equal(t, "java", r.For("Main.java").Language())
	assert.Equal(t, "csharp", r.For("Program.cs").Language())
	assert.Equal(t, "vbnet", r.For("Module1.vb").Language())
	assert.Equal(t, "rust", r.For("main.rs").Language())
}

func TestRegistryForReturnsNilForUnknownExtension(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Nil(t, r.For("README.md"))
}

func TestVBNetAnalyserIsAvailableWithoutAGrammar(t *testing.T) {
	r := NewDefaultRegistry()
	a := r.For("Module1.vb")
	if assert.NotNil(t, a) {
		assert.True(t, a.IsAvailable())
		assert.Nil(t, a.Grammar())
	}
}

func TestEnclosingSymbolPicksInnermostByByteRange(t *testing.T) {
	outer := &model.Symbol{ID: "sym_outer", ByteStart: 0, ByteEnd: 100}
	inner := &model.Symbol{ID: "sym_inner", ByteStart: 20, ByteEnd: 40}
	symbols := []*model.Symbol{outer, inner}

	assert.Equal(t, "sym_inner", EnclosingSymbol(symbols, 30))
	assert.Equal(t, "sym_outer", EnclosingSymbol(symbols, 60))
}

func TestEnclosingSymbolReturnsEmptyWhenNoneContainPos(t *testing.T) {
	symbols := []*model.Symbol{{ID: "sym_a", ByteStart: 0, ByteEnd: 10}}
	assert.Equal(t, "", EnclosingSymbol(symbols, 50))
}

func TestEnclosingSymbolSkipsZeroByteEndSymbols(t *testing.T) {
	symbols := []*model.Symbol{{ID: "sym_a", ByteStart: 0, ByteEnd: 0}}
	assert.Equal(t, "", EnclosingSymbol(symbols, 0))
}
