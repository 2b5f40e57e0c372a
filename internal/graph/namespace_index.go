package graph

// NamespaceIndex maps namespaces/packages to the files that declare
// them and tracks each file's imported namespaces, used by Phase 3's
// namespace-aware resolution of C# and VB.NET using/Imports targets,
// where a raw import target names a namespace rather than a file path
// directly. It is filled from Namespace symbols (C# and C++ namespace
// declarations); Java and Go package declarations and VB.NET namespaces
// are not registered. Grounded on
// original_source/graph/namespace_index.rs.
type NamespaceIndex struct {
	nsToFiles   map[string][]string
	fileToNS    map[string][]string
	fileImports map[string][]string
}

func NewNamespaceIndex() *NamespaceIndex {
	return &NamespaceIndex{
		nsToFiles:   make(map[string][]string),
		fileToNS:    make(map[string][]string),
		fileImports: make(map[string][]string),
	}
}

// Register records that filePath declares namespace.
func (n *NamespaceIndex) Register(namespace, filePath string) {
	if !containsStr(n.nsToFiles[namespace], filePath) {
		n.nsToFiles[namespace] = append(n.nsToFiles[namespace], filePath)
	}
	if !containsStr(n.fileToNS[filePath], namespace) {
		n.fileToNS[filePath] = append(n.fileToNS[filePath], namespace)
	}
}

// FilesForNamespace returns every file declaring namespace.
func (n *NamespaceIndex) FilesForNamespace(namespace string) []string {
	return n.nsToFiles[namespace]
}

// RegisterFileImport records that filePath imports namespace.
func (n *NamespaceIndex) RegisterFileImport(filePath, namespace string) {
	if !containsStr(n.fileImports[filePath], namespace) {
		n.fileImports[filePath] = append(n.fileImports[filePath], namespace)
	}
}

// ImportedNamespaces returns every namespace filePath imports.
func (n *NamespaceIndex) ImportedNamespaces(filePath string) []string {
	return n.fileImports[filePath]
}

// NamespacesForFile returns every namespace filePath declares.
func (n *NamespaceIndex) NamespacesForFile(filePath string) []string {
	return n.fileToNS[filePath]
}

func containsStr(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
