package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespaceIndexRegisterAndLookup(t *testing.T) {
	idx := NewNamespaceIndex()
	idx.Register("MyApp.Services", "Services/UserService.cs")
	idx.Register("MyApp.Services", "Services/OrderService.cs")

	files := idx.FilesForNamespace("MyApp.Services")
	assert.Len(t, files, 2)
	assert.Contains(t, files, "Services/UserService.cs")
}

func TestNamespaceIndexNoDuplicates(t *testing.T) {
	idx := NewNamespaceIndex()
	idx.Register("MyApp", "a.cs")
	idx.Register("MyApp", "a.cs")
	assert.Len(t, idx.FilesForNamespace("MyApp"), 1)
}

func TestNamespaceIndexFileImports(t *testing.T) {
	idx := NewNamespaceIndex()
	idx.RegisterFileImport("main.cs", "MyApp.Services")
	idx.RegisterFileImport("main.cs", "MyApp.Models")

	assert.Len(t, idx.ImportedNamespaces("main.cs"), 2)
}
