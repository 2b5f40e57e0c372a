// Package model defines the data structures the analysis pipeline
// constructs and mutates: spec.md §3's FileNode, FolderNode, Symbol,
// CallEdge, ImportEdge, ProjectReference, PackageReference, Community
// and Process. Field sets follow spec.md §3 exactly; naming follows the
// original_source Rust implementation's config.rs for parity of detail
// (byte_range, parameter_types) where spec.md is silent.
package model

// SymbolKind enumerates the declaration kinds spec.md §3 names.
type SymbolKind string

const (
	KindClass       SymbolKind = "Class"
	KindFunction    SymbolKind = "Function"
	KindMethod      SymbolKind = "Method"
	KindInterface   SymbolKind = "Interface"
	KindStruct      SymbolKind = "Struct"
	KindEnum        SymbolKind = "Enum"
	KindNamespace   SymbolKind = "Namespace"
	KindProperty    SymbolKind = "Property"
	KindConstructor SymbolKind = "Constructor"
	KindModule      SymbolKind = "Module"
	KindRecord      SymbolKind = "Record"
	KindDelegate    SymbolKind = "Delegate"
	KindTypeAlias   SymbolKind = "TypeAlias"
	KindConstant    SymbolKind = "Constant"
	KindVariable    SymbolKind = "Variable"
	KindTrait       SymbolKind = "Trait"
	KindImpl        SymbolKind = "Impl"
	KindMacro       SymbolKind = "Macro"
	KindTemplate    SymbolKind = "Template"
	KindTypedef     SymbolKind = "Typedef"
	KindAnnotation  SymbolKind = "Annotation"
	KindStatic      SymbolKind = "Static"
)

// Visibility enumerates spec.md §3's four values plus VisibilityUnknown.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityInternal  Visibility = "internal"
	VisibilityProtected Visibility = "protected"
	VisibilityUnknown   Visibility = "unknown"
)

// Tier is a call edge's confidence bucket (spec §4.5 / GLOSSARY).
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

// ProcessClass classifies a traced process (spec §4.7).
type ProcessClass string

const (
	ClassIntraCommunity  ProcessClass = "intra_community"
	ClassCrossCommunity  ProcessClass = "cross_community"
)

// FileNode is created in Phase 1 and is immutable thereafter.
type FileNode struct {
	Path       string // repo-relative, forward-slash
	Language   string // lowercase extension without leading dot, or "" if unrecognised
	Size       int64
	Lines      int
	Parseable  bool // false when the file exceeds the size threshold or fails binary detection
}

// FolderNode is created in Phase 1 and is immutable.
type FolderNode struct {
	Path      string // repo-relative, trailing slash
	FileCount int
}

// FrameworkTag records a framework-specific marker recorded during Phase
// 2 and consumed by Phase 6's entry-point scoring (SPEC_FULL §4.8).
type FrameworkTag string

const (
	FrameworkHTTPGet         FrameworkTag = "http_get"
	FrameworkHTTPPost        FrameworkTag = "http_post"
	FrameworkHTTPPut         FrameworkTag = "http_put"
	FrameworkHTTPDelete      FrameworkTag = "http_delete"
	FrameworkRoute           FrameworkTag = "route"
	FrameworkControllerBase  FrameworkTag = "controller_base"
	FrameworkHostedService   FrameworkTag = "hosted_service"
)

// Symbol is created in Phase 2 and is immutable thereafter.
type Symbol struct {
	ID         string // "sym_<zero-padded sequence>"
	Name       string
	Kind       SymbolKind
	File       string // declaring file's repo-relative path
	Line       int    // 1-based
	Visibility Visibility
	Exported   bool
	Parent     string // parent symbol id, or "" if none
	Language   string

	// Extraction-time detail carried through to later phases; not part
	// of the output artifact's symbol schema but required internally.
	ByteStart int
	ByteEnd   int
	// ParameterTypes maps a C# constructor parameter/field name to its
	// declared type, enabling Phase 4's DI-resolved Tier A edges
	// (spec §4.5, §9 "Qualifier resolution for DI").
	ParameterTypes map[string]string
	// Bases lists declared base classes/implemented interfaces, used by
	// Phase 4's impl-resolved fan-out and Phase 6's framework multiplier.
	Bases []string
	// Frameworks records framework markers observed on this symbol.
	Frameworks []FrameworkTag
}

// CallEdge is created in Phase 4. Multiple edges may exist between the
// same pair when distinct call sites or ambiguous fuzzy resolutions
// produce them.
type CallEdge struct {
	From       string // caller symbol id
	To         string // callee symbol id
	Confidence float64
	Tier       Tier
	Reason     string
	Line       int
}

// ImportEdge is created in Phase 3.
type ImportEdge struct {
	From      string // importing file path
	To        string // resolved file path
	Statement string // raw import statement text
}

// ProjectReference links two .NET project files (spec §3).
type ProjectReference struct {
	From string
	To   string
	Kind string
}

// PackageReference names an external package dependency of a .NET
// project (spec §3).
type PackageReference struct {
	Project string
	Package string
	Version string
}

// Community is created in Phase 5.
type Community struct {
	ID              string // "community_<n>"
	Label           string
	Members         []string // ordered symbol ids
	Cohesion        float64
	PrimaryLanguage string
}

// Process is created in Phase 6.
type Process struct {
	ID               string // "process_<n>"
	Entry            string // entry symbol id
	Terminal         string // terminal symbol id
	Steps            []string // ordered symbol ids, simple path
	Classification   ProcessClass
	TotalConfidence  float64
}

// RawCall is a call site as reported by a language analyser, before
// Phase 4 resolves it to zero or more CallEdges (spec §4.5).
type RawCall struct {
	CallerFile   string
	CallerSymbol string // resolved enclosing symbol id, or "" if none found
	CalleeName   string
	Qualifier    string // e.g. "svc" or "Foo" in "Foo.Bar()"; "" if unqualified
	Line         int
}

// RawImport is an unresolved import/using/include statement as reported
// by a language analyser, before Phase 3 resolves it to file paths.
type RawImport struct {
	FromFile  string
	Statement string
	// Target is the parsed module/namespace/path specifier, stripped of
	// language-specific decoration (quotes, "using ", etc.).
	Target string
}
