package imports

import (
	"path"
	"regexp"
	"strings"
)

// slnProject is a project entry parsed from a .sln file.
type slnProject struct {
	Name            string
	Path            string
	ProjectTypeGUID string
	ProjectGUID     string
}

const solutionFolderGUID = "2150E333-8FDC-42A3-9474-1A3956D46DE8"

var slnProjectRe = regexp.MustCompile(`(?m)^Project\("\{([^}]+)\}"\)\s*=\s*"([^"]+)"\s*,\s*"([^"]+)"\s*,\s*"\{([^}]+)\}"`)

// parseSolution extracts project entries from a .sln file's content,
// excluding virtual solution folders.
func parseSolution(content string) []slnProject {
	var out []slnProject
	for _, m := range slnProjectRe.FindAllStringSubmatch(content, -1) {
		typeGUID := strings.ToUpper(m[1])
		if typeGUID == solutionFolderGUID {
			continue
		}
		out = append(out, slnProject{
			Name:            m[2],
			Path:            strings.ReplaceAll(m[3], `\`, "/"),
			ProjectTypeGUID: typeGUID,
			ProjectGUID:     strings.ToUpper(m[4]),
		})
	}
	return out
}

// projectFile is parsed data from a .csproj/.vbproj.
type projectFile struct {
	Name              string
	RootNamespace     string
	AssemblyName      string
	ProjectReferences []string
	PackageReferences []packageRef
}

type packageRef struct {
	Name    string
	Version string
}

// parseProjectFile performs the teacher-precedent-free, original-source-
// precedent string scan over .csproj/.vbproj XML: a handful of known
// elements/attributes, not a general XML parser (original_source's own
// design note: "avoid pulling in a full XML library").
func parseProjectFile(content, projectPath string) projectFile {
	name := strings.TrimSuffix(path.Base(projectPath), path.Ext(projectPath))
	info := projectFile{Name: name}

	if v, ok := extractElementText(content, "RootNamespace"); ok {
		info.RootNamespace = v
	}
	if v, ok := extractElementText(content, "AssemblyName"); ok {
		info.AssemblyName = v
	}

	for _, include := range extractIncludeAttrs(content, "ProjectReference") {
		info.ProjectReferences = append(info.ProjectReferences, strings.ReplaceAll(include, `\`, "/"))
	}
	info.PackageReferences = extractPackageRefs(content)

	if info.RootNamespace == "" {
		info.RootNamespace = name
	}
	if info.AssemblyName == "" {
		info.AssemblyName = name
	}
	return info
}

func extractElementText(content, tag string) (string, bool) {
	open := "<" + tag + ">"
	closeTag := "</" + tag + ">"
	start := strings.Index(content, open)
	if start < 0 {
		return "", false
	}
	after := start + len(open)
	end := strings.Index(content[after:], closeTag)
	if end < 0 {
		return "", false
	}
	text := strings.TrimSpace(content[after : after+end])
	if text == "" {
		return "", false
	}
	return text, true
}

func extractIncludeAttrs(content, tag string) []string {
	var out []string
	pattern := "<" + tag
	searchFrom := 0
	for {
		idx := strings.Index(content[searchFrom:], pattern)
		if idx < 0 {
			break
		}
		abs := searchFrom + idx
		rest := content[abs:]
		end := strings.Index(rest, ">")
		if end < 0 {
			break
		}
		element := rest[:end+1]
		if v, ok := extractAttr(element, "Include"); ok {
			out = append(out, v)
		}
		searchFrom = abs + len(pattern)
	}
	return out
}

func extractPackageRefs(content string) []packageRef {
	var out []packageRef
	pattern := "<PackageReference"
	searchFrom := 0
	for {
		idx := strings.Index(content[searchFrom:], pattern)
		if idx < 0 {
			break
		}
		abs := searchFrom + idx
		rest := content[abs:]

		var endPos int
		sc := strings.Index(rest, "/>")
		gt := strings.Index(rest, ">")
		switch {
		case sc >= 0 && (gt < 0 || sc < gt):
			endPos = sc + 2
		case gt >= 0:
			endPos = gt + 1
		default:
			searchFrom = abs + len(pattern)
			continue
		}

		element := rest[:endPos]
		name, _ := extractAttr(element, "Include")
		version, hasVersion := extractAttr(element, "Version")

		if !hasVersion {
			if closePos := strings.Index(rest, "</PackageReference>"); closePos >= 0 {
				inner := rest[endPos:closePos]
				if v, ok := extractElementText(inner, "Version"); ok {
					version = v
				}
			}
		}

		if name != "" {
			out = append(out, packageRef{Name: name, Version: version})
		}
		searchFrom = abs + len(pattern)
	}
	return out
}

func extractAttr(element, attr string) (string, bool) {
	for _, quote := range []byte{'"', '\''} {
		pat := attr + "=" + string(quote)
		start := strings.Index(element, pat)
		if start < 0 {
			continue
		}
		after := start + len(pat)
		end := strings.IndexByte(element[after:], quote)
		if end < 0 {
			continue
		}
		return element[after : after+end], true
	}
	return "", false
}

// assemblyIndex maps .NET namespaces to the project file that declares
// them, seeded from each project's RootNamespace and resolved by exact
// match or longest dotted-prefix match.
type assemblyIndex struct {
	nsToProject map[string]string
}

func newAssemblyIndex() *assemblyIndex {
	return &assemblyIndex{nsToProject: make(map[string]string)}
}

func (a *assemblyIndex) register(namespace, project string) {
	a.nsToProject[namespace] = project
}

func (a *assemblyIndex) resolveNamespace(namespace string) (string, bool) {
	if project, ok := a.nsToProject[namespace]; ok {
		return project, true
	}
	best := ""
	bestLen := 0
	for ns, project := range a.nsToProject {
		if strings.HasPrefix(namespace, ns) && len(ns) > bestLen {
			if len(namespace) == len(ns) || namespace[len(ns)] == '.' {
				best = project
				bestLen = len(ns)
			}
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return best, true
}
