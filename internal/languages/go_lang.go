package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/ScottRBK/mycelium/internal/model"
)

// GoAnalyser extracts symbols, imports and calls from Go source,
// grounded on the teacher's internal/symbollinker/go_extractor.go node-
// kind walk (package_clause, import_declaration, function_declaration,
// method_declaration, type_declaration, var/const/short_var_declaration).
type GoAnalyser struct {
	BaseAnalyser
}

func NewGoAnalyser() *GoAnalyser {
	return &GoAnalyser{BaseAnalyser: NewBaseAnalyser("go", []string{".go"})}
}

func (g *GoAnalyser) IsAvailable() bool { return true }

func (g *GoAnalyser) Grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_go.Language())
}

func (g *GoAnalyser) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	root := ast.Tree.RootNode()
	var out []*model.Symbol
	var walkDecls func(node *sitter.Node, parent string)
	walkDecls = func(node *sitter.Node, parent string) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case "function_declaration":
			if s := goFuncSymbol(node, ast.Content, filePath, model.KindFunction, ""); s != nil {
				out = append(out, s)
			}
		case "method_declaration":
			recv := goReceiverType(node, ast.Content)
			if s := goFuncSymbol(node, ast.Content, filePath, model.KindMethod, recv); s != nil {
				out = append(out, s)
			}
		case "type_declaration":
			out = append(out, goTypeSymbols(node, ast.Content, filePath)...)
		case "var_declaration", "const_declaration":
			out = append(out, goVarSymbols(node, ast.Content, filePath, node.Kind() == "const_declaration")...)
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walkDecls(node.Child(i), parent)
		}
	}
	walkDecls(root, "")
	return out
}

func goFuncSymbol(node *sitter.Node, content []byte, filePath string, kind model.SymbolKind, recv string) *model.Symbol {
	nameNode := FindChildByType(node, "identifier")
	if nameNode == nil {
		nameNode = FindChildByType(node, "field_identifier")
	}
	if nameNode == nil {
		return nil
	}
	name := GetNodeText(nameNode, content)
	if recv != "" {
		name = recv + "." + name
	}
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: goVisibility(strings.TrimPrefix(name, recv+".")),
		Exported:   isGoExported(strings.TrimPrefix(name, recv+".")),
		Language:   "go",
		ByteStart:  int(node.StartByte()),
		ByteEnd:    int(node.EndByte()),
	}
}

func goReceiverType(method *sitter.Node, content []byte) string {
	var firstParamList *sitter.Node
	for i := uint(0); i < method.ChildCount(); i++ {
		child := method.Child(i)
		if child != nil && child.Kind() == "parameter_list" {
			firstParamList = child
			break
		}
	}
	if firstParamList == nil {
		return ""
	}
	for i := uint(0); i < firstParamList.ChildCount(); i++ {
		param := firstParamList.Child(i)
		if param == nil || param.Kind() != "parameter_declaration" {
			continue
		}
		if t := FindChildByType(param, "type_identifier"); t != nil {
			return GetNodeText(t, content)
		}
		if ptr := FindChildByType(param, "pointer_type"); ptr != nil {
			if t := FindChildByType(ptr, "type_identifier"); t != nil {
				return GetNodeText(t, content)
			}
		}
	}
	return ""
}

func goTypeSymbols(decl *sitter.Node, content []byte, filePath string) []*model.Symbol {
	spec := FindChildByType(decl, "type_spec")
	if spec == nil {
		spec = FindChildByType(decl, "type_alias")
	}
	if spec == nil {
		return nil
	}
	nameNode := FindChildByType(spec, "type_identifier")
	if nameNode == nil {
		return nil
	}
	name := GetNodeText(nameNode, content)
	kind := model.KindTypeAlias
	for i := uint(0); i < spec.ChildCount(); i++ {
		child := spec.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "struct_type":
			kind = model.KindStruct
		case "interface_type":
			kind = model.KindInterface
		}
	}
	return []*model.Symbol{{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: goVisibility(name),
		Exported:   isGoExported(name),
		Language:   "go",
		ByteStart:  int(decl.StartByte()),
		ByteEnd:    int(decl.EndByte()),
	}}
}

func goVarSymbols(decl *sitter.Node, content []byte, filePath string, isConst bool) []*model.Symbol {
	var out []*model.Symbol
	kind := model.KindVariable
	if isConst {
		kind = model.KindConstant
	}
	Walk(decl, func(n *sitter.Node, depth int) bool {
		if n.Kind() == "var_spec" || n.Kind() == "const_spec" {
			for i := uint(0); i < n.ChildCount(); i++ {
				id := n.Child(i)
				if id != nil && id.Kind() == "identifier" {
					name := GetNodeText(id, content)
					out = append(out, &model.Symbol{
						Name:       name,
						Kind:       kind,
						File:       filePath,
						Line:       NodeLine(id),
						Visibility: goVisibility(name),
						Exported:   isGoExported(name),
						Language:   "go",
						ByteStart:  int(decl.StartByte()),
						ByteEnd:    int(decl.EndByte()),
					})
				}
			}
			return false
		}
		return true
	})
	return out
}

func isGoExported(name string) bool {
	return name != "" && strings.ToUpper(name[:1]) == name[:1]
}

func goVisibility(name string) model.Visibility {
	if isGoExported(name) {
		return model.VisibilityPublic
	}
	return model.VisibilityPrivate
}

func (g *GoAnalyser) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	root := ast.Tree.RootNode()
	var out []model.RawImport
	for i := uint(0); i < root.ChildCount(); i++ {
		decl := root.Child(i)
		if decl == nil || decl.Kind() != "import_declaration" {
			continue
		}
		specs := FindChildrenByType(decl, "import_spec_list")
		var specNodes []*sitter.Node
		if len(specs) > 0 {
			specNodes = FindChildrenByType(specs[0], "import_spec")
		} else if spec := FindChildByType(decl, "import_spec"); spec != nil {
			specNodes = []*sitter.Node{spec}
		}
		for _, spec := range specNodes {
			lit := FindChildByType(spec, "interpreted_string_literal")
			if lit == nil {
				continue
			}
			raw := GetNodeText(lit, ast.Content)
			path := strings.Trim(raw, "\"")
			out = append(out, model.RawImport{
				FromFile:  filePath,
				Statement: GetNodeText(spec, ast.Content),
				Target:    path,
			})
		}
	}
	return out
}

func (g *GoAnalyser) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawCall
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "call_expression" {
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
		case "selector_expression":
			sel := FindChildByType(fn, "field_identifier")
			operand := fn.Child(0)
			if sel != nil {
				name = GetNodeText(sel, ast.Content)
			}
			if operand != nil {
				qualifier = GetNodeText(operand, ast.Content)
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

func (g *GoAnalyser) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"make": true, "len": true, "cap": true, "append": true, "copy": true,
		"delete": true, "panic": true, "recover": true, "print": true,
		"println": true, "new": true, "close": true, "complex": true,
		"real": true, "imag": true, "min": true, "max": true, "clear": true,
		"Println": true, "Printf": true, "Print": true, "Sprintf": true,
		"Errorf": true, "Fatal": true, "Fatalf": true,
	}
}
