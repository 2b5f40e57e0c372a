package languages

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ScottRBK/mycelium/internal/model"
)

// VBNetAnalyser has no tree-sitter grammar behind it: the original
// implementation links a Rust-only grammar crate (tree-sitter-vb-dotnet)
// with a hand patched extern symbol, and no Go binding for a VB.NET
// tree-sitter grammar exists in this module's dependency set. Rather than
// disable the language, it extracts directly off the source text the way
// internal/imports/dotnet.go scans .csproj/.vbproj XML without a full
// parser: a handful of line patterns (Module/Class/Structure/Sub/
// Function/End/Imports/RaiseEvent/Call) recognised with regexp, enough to
// resolve a Module.Sub -> Class.Method -> Class.Method call chain. Grammar
// stays nil; the pipeline routes such analysers around tree-sitter
// entirely (see parseOneFile).
type VBNetAnalyser struct {
	BaseAnalyser
}

func NewVBNetAnalyser() *VBNetAnalyser {
	return &VBNetAnalyser{BaseAnalyser: NewBaseAnalyser("vbnet", []string{".vb"})}
}

func (v *VBNetAnalyser) IsAvailable() bool { return true }

func (v *VBNetAnalyser) Grammar() *sitter.Language { return nil }

var (
	vbModuleRe     = regexp.MustCompile(`(?i)^\s*(?:Public\s+|Friend\s+)?Module\s+(\w+)`)
	vbClassRe      = regexp.MustCompile(`(?i)^\s*(?:Public\s+|Private\s+|Friend\s+|NotInheritable\s+|MustInherit\s+|Partial\s+)*Class\s+(\w+)`)
	vbStructRe     = regexp.MustCompile(`(?i)^\s*(?:Public\s+|Private\s+|Friend\s+)?Structure\s+(\w+)`)
	vbSubFuncRe    = regexp.MustCompile(`(?i)^\s*(?:Public\s+|Private\s+|Protected\s+|Friend\s+)?(?:Shared\s+|Overridable\s+|Overrides\s+|MustOverride\s+|Async\s+)*(Sub|Function)\s+(\w+)\s*\(`)
	vbEndRe        = regexp.MustCompile(`(?i)^\s*End\s+(Module|Class|Structure|Sub|Function)\b`)
	vbImportsRe    = regexp.MustCompile(`(?i)^\s*Imports\s+([\w.]+)`)
	vbVisibilityRe = regexp.MustCompile(`(?i)^\s*(Public|Private|Protected|Friend)\b`)
	vbRaiseEventRe = regexp.MustCompile(`(?i)^\s*RaiseEvent\s+(\w+)`)
	vbCallRe       = regexp.MustCompile(`(?i)(?:\bCall\s+)?\b([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)?)\s*\(`)
)

// vbFrame tracks one open Module/Class/Structure/Sub/Function block while
// scanning line by line, so ExtractSymbols can fill in ByteEnd once the
// matching End line is seen.
type vbFrame struct {
	kind string
	sym  *model.Symbol
}

func (v *VBNetAnalyser) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
	if ast == nil {
		return nil
	}
	lines, offsets := vbSplitLines(ast.Content)

	var out []*model.Symbol
	var stack []vbFrame
	containerName := func() string {
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].kind == "Module" || stack[i].kind == "Class" || stack[i].kind == "Structure" {
				return stack[i].sym.Name
			}
		}
		return ""
	}

	for i, line := range lines {
		start := offsets[i]
		lineNo := i + 1

		if m := vbEndRe.FindStringSubmatch(line); m != nil && len(stack) > 0 {
			top := stack[len(stack)-1]
			top.sym.ByteEnd = start + len(line)
			stack = stack[:len(stack)-1]
			continue
		}

		if m := vbModuleRe.FindStringSubmatch(line); m != nil {
			sym := vbNewSymbol(m[1], model.KindModule, filePath, lineNo, start, line)
			out = append(out, sym)
			stack = append(stack, vbFrame{kind: "Module", sym: sym})
			continue
		}
		if m := vbClassRe.FindStringSubmatch(line); m != nil {
			sym := vbNewSymbol(m[1], model.KindClass, filePath, lineNo, start, line)
			out = append(out, sym)
			stack = append(stack, vbFrame{kind: "Class", sym: sym})
			continue
		}
		if m := vbStructRe.FindStringSubmatch(line); m != nil {
			sym := vbNewSymbol(m[1], model.KindStruct, filePath, lineNo, start, line)
			out = append(out, sym)
			stack = append(stack, vbFrame{kind: "Structure", sym: sym})
			continue
		}
		if m := vbSubFuncRe.FindStringSubmatch(line); m != nil {
			name := m[2]
			if c := containerName(); c != "" {
				name = c + "." + name
			}
			sym := vbNewSymbol(name, model.KindFunction, filePath, lineNo, start, line)
			out = append(out, sym)
			stack = append(stack, vbFrame{kind: m[1], sym: sym})
			continue
		}
	}

	// Any block left open at EOF (malformed source) still gets a byte
	// range, per the "analysers must be total" contract.
	for _, frame := range stack {
		frame.sym.ByteEnd = len(ast.Content)
	}
	return out
}

func vbNewSymbol(name string, kind model.SymbolKind, filePath string, line, byteStart int, declLine string) *model.Symbol {
	vis := model.VisibilityPrivate
	if m := vbVisibilityRe.FindStringSubmatch(declLine); m != nil {
		switch strings.ToLower(m[1]) {
		case "public":
			vis = model.VisibilityPublic
		case "protected":
			vis = model.VisibilityProtected
		case "friend":
			vis = model.VisibilityInternal
		}
	} else if kind == model.KindModule {
		// Modules default to Friend-equivalent visibility in practice,
		// but most fixtures declare Public explicitly; fall back to
		// public so a bare "Module Foo" still counts as an entry point.
		vis = model.VisibilityPublic
	}
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       line,
		Visibility: vis,
		Exported:   vis == model.VisibilityPublic,
		Language:   "vbnet",
		ByteStart:  byteStart,
	}
}

func (v *VBNetAnalyser) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil {
		return nil
	}
	lines, _ := vbSplitLines(ast.Content)
	var out []model.RawImport
	for _, line := range lines {
		m := vbImportsRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, model.RawImport{FromFile: filePath, Statement: strings.TrimSpace(line), Target: m[1]})
	}
	return out
}

func (v *VBNetAnalyser) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
	if ast == nil {
		return nil
	}
	lines, offsets := vbSplitLines(ast.Content)
	var out []model.RawCall

	isDeclLine := func(line string) bool {
		return vbModuleRe.MatchString(line) || vbClassRe.MatchString(line) || vbStructRe.MatchString(line) ||
			vbSubFuncRe.MatchString(line) || vbEndRe.MatchString(line) || vbImportsRe.MatchString(line)
	}

	for i, line := range lines {
		start := offsets[i]
		lineNo := i + 1

		if m := vbRaiseEventRe.FindStringSubmatch(line); m != nil {
			out = append(out, model.RawCall{
				CallerFile:   filePath,
				CallerSymbol: EnclosingSymbol(symbols, start),
				CalleeName:   m[1],
				Line:         lineNo,
			})
			continue
		}

		if isDeclLine(line) {
			continue
		}

		for _, m := range vbCallRe.FindAllStringSubmatch(line, -1) {
			ref := m[1]
			qualifier, name := "", ref
			if idx := strings.LastIndexByte(ref, '.'); idx >= 0 {
				qualifier, name = ref[:idx], ref[idx+1:]
			}
			out = append(out, model.RawCall{
				CallerFile:   filePath,
				CallerSymbol: EnclosingSymbol(symbols, start),
				CalleeName:   name,
				Qualifier:    qualifier,
				Line:         lineNo,
			})
		}
	}
	return out
}

// vbSplitLines splits content into lines alongside each line's starting
// byte offset in content, since there is no tree-sitter tree to recover
// positions from.
func vbSplitLines(content []byte) ([]string, []int) {
	text := string(content)
	parts := strings.Split(text, "\n")
	offsets := make([]int, len(parts))
	pos := 0
	for i, p := range parts {
		offsets[i] = pos
		pos += len(p) + 1
	}
	return parts, offsets
}

func (v *VBNetAnalyser) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"Console.WriteLine": true, "Console.Write": true, "MsgBox": true,
		"CStr": true, "CInt": true, "CDbl": true, "CBool": true, "CType": true,
		"WriteLine": true, "Write": true, "New": true,
	}
}
