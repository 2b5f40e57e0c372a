package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/ScottRBK/mycelium/internal/model"
)

// cppCore implements both the C and C++ analysers off the single cpp
// grammar, following the teacher's own setupCpp, which registers
// tree_sitter_cpp for .c/.h alongside .cpp/.cc/.cxx/.hpp — the C
// grammar has no separate Go binding in the example pack, so C is
// parsed as a (permissive) subset of C++, exactly as the teacher does.
type cppCore struct {
	BaseAnalyser
	language string
}

func (c *cppCore) IsAvailable() bool { return true }

func (c *cppCore) Grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_cpp.Language())
}

func (c *cppCore) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []*model.Symbol
	var walk func(node *sitter.Node, enclosing string)
	walk = func(node *sitter.Node, enclosing string) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case "function_definition":
			decl := FindChildByType(node, "function_declarator")
			if decl != nil {
				if nameNode := FindChildByType(decl, "identifier"); nameNode != nil {
					name := GetNodeText(nameNode, ast.Content)
					kind := model.KindFunction
					if enclosing != "" {
						kind = model.KindMethod
						name = enclosing + "." + name
					}
					out = append(out, cppSymbol(node, nameNode, name, kind, filePath, c.language))
				} else if qual := FindChildByType(decl, "qualified_identifier"); qual != nil {
					parts := FindChildrenByType(qual, "identifier")
					if len(parts) > 0 {
						nameNode := parts[len(parts)-1]
						recv := ""
						if len(parts) > 1 {
							recv = GetNodeText(parts[len(parts)-2], ast.Content)
						}
						name := GetNodeText(nameNode, ast.Content)
						if recv != "" {
							name = recv + "." + name
						}
						out = append(out, cppSymbol(node, nameNode, name, model.KindMethod, filePath, c.language))
					}
				}
			}
		case "class_specifier":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				out = append(out, cppSymbol(node, nameNode, name, model.KindClass, filePath, c.language))
				if body := FindChildByType(node, "field_declaration_list"); body != nil {
					for i := uint(0); i < body.ChildCount(); i++ {
						walk(body.Child(i), name)
					}
				}
				return
			}
		case "struct_specifier":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				out = append(out, cppSymbol(node, nameNode, name, model.KindStruct, filePath, c.language))
				if body := FindChildByType(node, "field_declaration_list"); body != nil {
					for i := uint(0); i < body.ChildCount(); i++ {
						walk(body.Child(i), name)
					}
				}
				return
			}
		case "enum_specifier":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				out = append(out, cppSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindEnum, filePath, c.language))
			}
		case "namespace_definition":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				out = append(out, cppSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindNamespace, filePath, c.language))
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), enclosing)
		}
	}
	walk(ast.Tree.RootNode(), "")
	return out
}

func cppSymbol(decl, nameNode *sitter.Node, name string, kind model.SymbolKind, filePath, language string) *model.Symbol {
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: model.VisibilityPublic,
		Exported:   true,
		Language:   language,
		ByteStart:  int(decl.StartByte()),
		ByteEnd:    int(decl.EndByte()),
	}
}

func (c *cppCore) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawImport
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		switch n.Kind() {
		case "preproc_include":
			text := GetNodeText(n, ast.Content)
			target := strings.TrimSpace(strings.TrimPrefix(text, "#include"))
			target = strings.Trim(target, "<>\" \t\n")
			out = append(out, model.RawImport{FromFile: filePath, Statement: text, Target: target})
			return false
		case "using_declaration":
			text := GetNodeText(n, ast.Content)
			out = append(out, model.RawImport{FromFile: filePath, Statement: text, Target: text})
			return false
		}
		return true
	})
	return out
}

func (c *cppCore) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
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
		case "field_expression":
			if field := FindChildByType(fn, "field_identifier"); field != nil {
				name = GetNodeText(field, ast.Content)
			}
			if obj := fn.Child(0); obj != nil {
				qualifier = GetNodeText(obj, ast.Content)
			}
		case "qualified_identifier":
			parts := FindChildrenByType(fn, "identifier")
			if len(parts) > 0 {
				name = GetNodeText(parts[len(parts)-1], ast.Content)
			}
			if len(parts) > 1 {
				qualifier = GetNodeText(parts[len(parts)-2], ast.Content)
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

func (c *cppCore) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"printf": true, "sprintf": true, "scanf": true, "malloc": true,
		"free": true, "memcpy": true, "memset": true, "strlen": true,
		"strcpy": true, "strcmp": true, "cout": true, "endl": true,
		"push_back": true, "emplace_back": true, "size": true, "begin": true,
		"end": true,
	}
}

// CAnalyser handles .c/.h files via the cpp grammar (see cppCore doc).
type CAnalyser struct{ cppCore }

func NewCAnalyser() *CAnalyser {
	return &CAnalyser{cppCore{
		BaseAnalyser: NewBaseAnalyser("c", []string{".c", ".h"}),
		language:     "c",
	}}
}

// CppAnalyser handles .cpp/.cc/.cxx/.hpp files.
type CppAnalyser struct{ cppCore }

func NewCppAnalyser() *CppAnalyser {
	return &CppAnalyser{cppCore{
		BaseAnalyser: NewBaseAnalyser("cpp", []string{".cpp", ".cc", ".cxx", ".hpp"}),
		language:     "cpp",
	}}
}
