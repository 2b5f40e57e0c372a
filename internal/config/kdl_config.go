package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// DefaultConfigFileName is the KDL config file looked up in the
// repository root, following the teacher's `.lci.kdl` convention.
const DefaultConfigFileName = ".mycelium.kdl"

// LoadKDL loads DefaultConfigFileName from projectRoot, layered on top
// of Default(projectRoot). Returns Default(projectRoot) unmodified, with
// no error, when the file does not exist.
func LoadKDL(projectRoot string) (*Config, error) {
	return LoadKDLFile(filepath.Join(projectRoot, DefaultConfigFileName), projectRoot)
}

// LoadKDLFile loads a KDL config from an explicit path, layered on top
// of Default(projectRoot). A missing file is only tolerated when
// configPath's basename is DefaultConfigFileName (the CLI's --config
// default); an explicitly-named missing file is an error.
func LoadKDLFile(configPath, projectRoot string) (*Config, error) {
	cfg := Default(projectRoot)

	content, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		if filepath.Base(configPath) == DefaultConfigFileName {
			return cfg, nil
		}
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", configPath, err)
	}

	if err := parseKDL(string(content), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseKDL(content string, cfg *Config) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", DefaultConfigFileName, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "root":
			if s, ok := firstStringArg(n); ok {
				cfg.RepoPath = s
			}
		case "output":
			if s, ok := firstStringArg(n); ok {
				cfg.OutputPath = s
			}
		case "languages":
			cfg.Languages = collectStringArgs(n)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		case "resolution":
			if f, ok := firstFloatArg(n); ok {
				cfg.Resolution = f
			}
		case "max-processes", "max_processes":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxProcesses = v
			}
		case "max-depth", "max_depth":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxDepth = v
			}
		case "max-branching", "max_branching":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxBranching = v
			}
		case "min-steps", "min_steps":
			if v, ok := firstIntArg(n); ok {
				cfg.MinSteps = v
			}
		case "max-community-size", "max_community_size":
			if v, ok := firstIntArg(n); ok {
				cfg.MaxCommunitySize = v
			}
		case "max-file-size", "max_file_size":
			if s, ok := firstStringArg(n); ok {
				if sz, err := parseSize(s); err == nil {
					cfg.MaxFileSize = sz
				}
			} else if v, ok := firstIntArg(n); ok {
				cfg.MaxFileSize = int64(v)
			}
		}
	}

	return nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	var num int64
	_, err := fmt.Sscanf(strings.TrimSpace(numStr), "%d", &num)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}
