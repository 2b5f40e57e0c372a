package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/ScottRBK/mycelium/internal/model"
)

// PythonAnalyser is grounded on the teacher's setupPython capture set
// (class_definition/function_definition/import_statement/
// import_from_statement) in internal/parser/parser_language_setup.go,
// walked manually rather than through the query/cursor API.
type PythonAnalyser struct {
	BaseAnalyser
}

func NewPythonAnalyser() *PythonAnalyser {
	return &PythonAnalyser{BaseAnalyser: NewBaseAnalyser("python", []string{".py"})}
}

func (p *PythonAnalyser) IsAvailable() bool { return true }

func (p *PythonAnalyser) Grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_python.Language())
}

func (p *PythonAnalyser) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []*model.Symbol
	var walk func(node *sitter.Node, className string)
	walk = func(node *sitter.Node, className string) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case "class_definition":
			nameNode := FindChildByType(node, "identifier")
			if nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				out = append(out, pySymbol(node, nameNode, name, model.KindClass, filePath))
				if body := FindChildByType(node, "block"); body != nil {
					for i := uint(0); i < body.ChildCount(); i++ {
						walk(body.Child(i), name)
					}
				}
				return
			}
		case "function_definition":
			nameNode := FindChildByType(node, "identifier")
			if nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				kind := model.KindFunction
				qualified := name
				if className != "" {
					kind = model.KindMethod
					qualified = className + "." + name
				}
				out = append(out, pySymbol(node, nameNode, qualified, kind, filePath))
			}
			if body := FindChildByType(node, "block"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), "")
				}
			}
			return
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), className)
		}
	}
	walk(ast.Tree.RootNode(), "")
	return out
}

func pySymbol(decl, nameNode *sitter.Node, name string, kind model.SymbolKind, filePath string) *model.Symbol {
	vis := model.VisibilityPublic
	if strings.HasPrefix(lastSegment(name), "_") {
		vis = model.VisibilityPrivate
	}
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: vis,
		Exported:   vis == model.VisibilityPublic,
		Language:   "python",
		ByteStart:  int(decl.StartByte()),
		ByteEnd:    int(decl.EndByte()),
	}
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func (p *PythonAnalyser) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawImport
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		switch n.Kind() {
		case "import_statement", "import_from_statement":
			text := GetNodeText(n, ast.Content)
			target := text
			if n.Kind() == "import_from_statement" {
				if mod := FindChildByType(n, "dotted_name"); mod != nil {
					target = GetNodeText(mod, ast.Content)
				}
			} else if mod := FindChildByType(n, "dotted_name"); mod != nil {
				target = GetNodeText(mod, ast.Content)
			}
			out = append(out, model.RawImport{FromFile: filePath, Statement: text, Target: target})
			return false
		}
		return true
	})
	return out
}

func (p *PythonAnalyser) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawCall
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "call" {
			return true
		}
		fn := n.Child(0)
		if fn == nil {
			return true
		}
		var name, qualifier string
		switch fn.Kind() {
		case "identifier":
			name = GetNodeText(fn, ast.Content)
		case "attribute":
			attr := FindChildByType(fn, "identifier")
			if attr != nil {
				attrs := FindChildrenByType(fn, "identifier")
				if len(attrs) > 0 {
					attr = attrs[len(attrs)-1]
				}
				name = GetNodeText(attr, ast.Content)
			}
			if obj := fn.Child(0); obj != nil {
				qualifier = GetNodeText(obj, ast.Content)
			}
		default:
			return true
		}
		if name == "" {
			return true
		}
		pos := int(n.StartByte())
		out = append(out, model.RawCall{
			CallerFile:   filePath,
			CallerSymbol: EnclosingSymbol(symbols, pos),
			CalleeName:   name,
			Qualifier:    qualifier,
			Line:         NodeLine(n),
		})
		return true
	})
	return out
}

func (p *PythonAnalyser) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"print": true, "len": true, "range": true, "str": true, "int": true,
		"float": true, "bool": true, "list": true, "dict": true, "set": true,
		"tuple": true, "isinstance": true, "super": true, "enumerate": true,
		"zip": true, "map": true, "filter": true, "sorted": true, "open": true,
		"getattr": true, "setattr": true, "hasattr": true, "type": true,
	}
}
