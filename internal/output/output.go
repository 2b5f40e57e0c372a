// Package output builds and serialises the run's JSON artifact: an
// explicit-field-order struct (Go's encoder emits object keys in struct
// declaration order) rather than a map, so the artifact's top-level key
// order (version, metadata, stats, structure, symbols, imports, calls,
// communities, processes) is stable without a custom marshaler.
//
// Grounded on original_source/crates/mycelium-core/src/output.rs's
// build_result/get_commit_hash/write_output and on
// _examples/standardbeagle-lci/internal/git/provider.go's
// exec.CommandContext git-shell-out idiom for commit hash lookup.
package output

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/ScottRBK/mycelium/internal/config"
	"github.com/ScottRBK/mycelium/internal/graph"
	"github.com/ScottRBK/mycelium/internal/pipeline"
	"github.com/ScottRBK/mycelium/internal/version"
)

// Artifact is the top-level output document (spec §6).
type Artifact struct {
	Version     string      `json:"version"`
	Metadata    Metadata    `json:"metadata"`
	Stats       Stats       `json:"stats"`
	Structure   Structure   `json:"structure"`
	Symbols     []Symbol    `json:"symbols"`
	Imports     Imports     `json:"imports"`
	Calls       []Call      `json:"calls"`
	Communities []Community `json:"communities"`
	Processes   []Process   `json:"processes"`
}

type Metadata struct {
	RepoName            string             `json:"repo_name"`
	RepoPath            string             `json:"repo_path"`
	AnalysedAt          string             `json:"analysed_at"`
	MyceliumVersion     string             `json:"mycelium_version"`
	CommitHash          *string            `json:"commit_hash"`
	AnalysisDurationMS  float64            `json:"analysis_duration_ms"`
	PhaseTimings        map[string]float64 `json:"phase_timings"`
}

type Stats struct {
	Files       int            `json:"files"`
	Folders     int            `json:"folders"`
	Symbols     int            `json:"symbols"`
	Calls       int            `json:"calls"`
	Imports     int            `json:"imports"`
	Communities int            `json:"communities"`
	Processes   int            `json:"processes"`
	Languages   map[string]int `json:"languages"`
}

type Structure struct {
	Files   []File   `json:"files"`
	Folders []Folder `json:"folders"`
}

type File struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Size     int64  `json:"size"`
	Lines    int    `json:"lines"`
}

type Folder struct {
	Path      string `json:"path"`
	FileCount int    `json:"file_count"`
}

type Symbol struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Visibility string `json:"visibility"`
	Exported   bool   `json:"exported"`
	Parent     string `json:"parent,omitempty"`
	Language   string `json:"language"`
}

type Imports struct {
	FileImports        []FileImport        `json:"file_imports"`
	ProjectReferences  []ProjectReference  `json:"project_references"`
	PackageReferences  []PackageReference  `json:"package_references"`
}

type FileImport struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Statement string `json:"statement"`
}

type ProjectReference struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"ref_type"`
}

type PackageReference struct {
	Project string `json:"project"`
	Package string `json:"package"`
	Version string `json:"version"`
}

type Call struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
	Reason     string  `json:"reason"`
	Line       int     `json:"line"`
}

type Community struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	Members         []string `json:"members"`
	Cohesion        float64  `json:"cohesion"`
	PrimaryLanguage string   `json:"primary_language"`
}

type Process struct {
	ID              string   `json:"id"`
	Entry           string   `json:"entry"`
	Terminal        string   `json:"terminal"`
	Steps           []string `json:"steps"`
	Type            string   `json:"process_type"`
	TotalConfidence float64  `json:"total_confidence"`
}

// Build assembles the artifact from a completed pipeline result. now is
// the analysis timestamp, passed in rather than read from the clock
// here so callers control determinism in tests.
func Build(cfg *config.Config, result *pipeline.Result, now time.Time) *Artifact {
	kg := result.Graph

	repoAbs, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		repoAbs = cfg.RepoPath
	}

	timings := make(map[string]float64)
	if result.Timings != nil {
		for _, t := range result.Timings.Ordered() {
			timings[t.Name] = t.Seconds
		}
	}

	return &Artifact{
		Version: "1.0",
		Metadata: Metadata{
			RepoName:           filepath.Base(repoAbs),
			RepoPath:           repoAbs,
			AnalysedAt:         now.UTC().Format(time.RFC3339),
			MyceliumVersion:    version.Version,
			CommitHash:         commitHash(cfg.RepoPath),
			AnalysisDurationMS: roundMS(result.TotalMS),
			PhaseTimings:       timings,
		},
		Stats:       buildStats(kg),
		Structure:   buildStructure(kg),
		Symbols:     buildSymbols(kg),
		Imports:     buildImports(kg),
		Calls:       buildCalls(kg),
		Communities: buildCommunities(kg),
		Processes:   buildProcesses(kg),
	}
}

func roundMS(ms float64) float64 {
	return float64(int64(ms*10+0.5)) / 10
}

// commitHash resolves the current commit for metadata.commit_hash: the
// GIT_COMMIT environment variable first, else `git rev-parse HEAD` run
// in the repo (best-effort, spec §6.3); nil if neither is available.
func commitHash(repoPath string) *string {
	if v := os.Getenv("GIT_COMMIT"); v != "" {
		return &v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = repoPath
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	hash := strings.TrimSpace(string(out))
	if hash == "" {
		return nil
	}
	return &hash
}

func buildStats(kg *graph.KnowledgeGraph) Stats {
	languages := make(map[string]int)
	for _, f := range kg.Files {
		if f.Language != "" {
			languages[f.Language]++
		}
	}
	return Stats{
		Files:       kg.FileCount(),
		Folders:     kg.FolderCount(),
		Symbols:     kg.SymbolCount(),
		Calls:       len(kg.CallEdges()),
		Imports:     len(kg.ImportEdges()),
		Communities: len(kg.Communities()),
		Processes:   len(kg.Processes()),
		Languages:   languages,
	}
}

func buildStructure(kg *graph.KnowledgeGraph) Structure {
	var paths []string
	for path := range kg.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, path := range paths {
		f := kg.Files[path]
		files = append(files, File{Path: f.Path, Language: f.Language, Size: f.Size, Lines: f.Lines})
	}

	var folderPaths []string
	for path := range kg.Folders {
		folderPaths = append(folderPaths, path)
	}
	sort.Strings(folderPaths)

	folders := make([]Folder, 0, len(folderPaths))
	for _, path := range folderPaths {
		fo := kg.Folders[path]
		folders = append(folders, Folder{Path: fo.Path, FileCount: fo.FileCount})
	}

	return Structure{Files: files, Folders: folders}
}

func buildSymbols(kg *graph.KnowledgeGraph) []Symbol {
	ids := make([]string, 0, len(kg.Symbols))
	for id := range kg.Symbols {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Symbol, 0, len(ids))
	for _, id := range ids {
		s := kg.Symbols[id]
		out = append(out, Symbol{
			ID:         s.ID,
			Name:       s.Name,
			Type:       string(s.Kind),
			File:       s.File,
			Line:       s.Line,
			Visibility: string(s.Visibility),
			Exported:   s.Exported,
			Parent:     s.Parent,
			Language:   s.Language,
		})
	}
	return out
}

func buildImports(kg *graph.KnowledgeGraph) Imports {
	edges := kg.ImportEdges()
	fileImports := make([]FileImport, 0, len(edges))
	for _, e := range edges {
		fileImports = append(fileImports, FileImport{From: e.From, To: e.To, Statement: e.Statement})
	}

	projectRefs := kg.ProjectReferences()
	projOut := make([]ProjectReference, 0, len(projectRefs))
	for _, r := range projectRefs {
		projOut = append(projOut, ProjectReference{From: r.From, To: r.To, Type: r.Kind})
	}

	packageRefs := kg.PackageReferences()
	pkgOut := make([]PackageReference, 0, len(packageRefs))
	for _, r := range packageRefs {
		pkgOut = append(pkgOut, PackageReference{Project: r.Project, Package: r.Package, Version: r.Version})
	}

	return Imports{FileImports: fileImports, ProjectReferences: projOut, PackageReferences: pkgOut}
}

func buildCalls(kg *graph.KnowledgeGraph) []Call {
	edges := kg.CallEdges()
	out := make([]Call, 0, len(edges))
	for _, e := range edges {
		out = append(out, Call{From: e.From, To: e.To, Confidence: e.Confidence, Tier: string(e.Tier), Reason: e.Reason, Line: e.Line})
	}
	return out
}

// buildCommunities and buildProcesses sort by the numeric suffix their
// ids were assigned in (community_<n>/process_<n>), since
// KnowledgeGraph.Communities/Processes iterate an unordered map;
// ascending numeric order reflects the rank order they were assigned in
// (spec §5's "ids reflect rank order").
func buildCommunities(kg *graph.KnowledgeGraph) []Community {
	comms := kg.Communities()
	sort.Slice(comms, func(i, j int) bool { return idSeq(comms[i].ID) < idSeq(comms[j].ID) })

	out := make([]Community, 0, len(comms))
	for _, c := range comms {
		out = append(out, Community{ID: c.ID, Label: c.Label, Members: c.Members, Cohesion: c.Cohesion, PrimaryLanguage: c.PrimaryLanguage})
	}
	return out
}

func buildProcesses(kg *graph.KnowledgeGraph) []Process {
	procs := kg.Processes()
	sort.Slice(procs, func(i, j int) bool { return idSeq(procs[i].ID) < idSeq(procs[j].ID) })

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		out = append(out, Process{ID: p.ID, Entry: p.Entry, Terminal: p.Terminal, Steps: p.Steps, Type: string(p.Classification), TotalConfidence: p.TotalConfidence})
	}
	return out
}

// idSeq extracts the trailing "_<n>" sequence number from a community or
// process id, returning -1 if the id doesn't carry one (sorts it first,
// which should never happen for ids this package itself assigns).
func idSeq(id string) int {
	idx := strings.LastIndex(id, "_")
	if idx < 0 {
		return -1
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return -1
	}
	return n
}

// ContentHash hashes the parts of the artifact that a run's inputs
// determine, excluding Metadata's wall-clock timestamp and phase
// timings, so two runs over the same repo can be compared for
// determinism without false negatives from timing noise.
func ContentHash(a *Artifact) (uint64, error) {
	content := struct {
		Structure   Structure   `json:"structure"`
		Symbols     []Symbol    `json:"symbols"`
		Imports     Imports     `json:"imports"`
		Calls       []Call      `json:"calls"`
		Communities []Community `json:"communities"`
		Processes   []Process   `json:"processes"`
	}{a.Structure, a.Symbols, a.Imports, a.Calls, a.Communities, a.Processes}

	data, err := json.Marshal(content)
	if err != nil {
		return 0, err
	}
	return xxhash.Sum64(data), nil
}

// Write serialises the artifact to outputPath as indented JSON,
// creating parent directories as needed (spec §6's single JSON
// document).
func Write(a *Artifact, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
