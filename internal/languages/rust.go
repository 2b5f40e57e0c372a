package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/ScottRBK/mycelium/internal/model"
)

// RustAnalyser follows the teacher's setupRust capture set: function_item,
// struct_item, enum_item, trait_item, impl_item/trait_item method bodies,
// type_item, use_declaration, mod_item.
type RustAnalyser struct {
	BaseAnalyser
}

func NewRustAnalyser() *RustAnalyser {
	return &RustAnalyser{BaseAnalyser: NewBaseAnalyser("rust", []string{".rs"})}
}

func (r *RustAnalyser) IsAvailable() bool { return true }

func (r *RustAnalyser) Grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_rust.Language())
}

func (r *RustAnalyser) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []*model.Symbol
	var walk func(node *sitter.Node, implType string)
	walk = func(node *sitter.Node, implType string) {
		if node == nil {
			return
		}
		switch node.Kind() {
		case "function_item":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				kind := model.KindFunction
				if implType != "" {
					kind = model.KindMethod
					name = implType + "." + name
				}
				out = append(out, rustSymbol(node, nameNode, name, kind, filePath))
			}
		case "struct_item":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				out = append(out, rustSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindStruct, filePath))
			}
		case "enum_item":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				out = append(out, rustSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindEnum, filePath))
			}
		case "trait_item":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				out = append(out, rustSymbol(node, nameNode, name, model.KindTrait, filePath))
				if body := FindChildByType(node, "declaration_list"); body != nil {
					for i := uint(0); i < body.ChildCount(); i++ {
						walk(body.Child(i), name)
					}
				}
				return
			}
		case "impl_item":
			typeNode := FindChildByType(node, "type_identifier")
			name := ""
			if typeNode != nil {
				name = GetNodeText(typeNode, ast.Content)
				out = append(out, &model.Symbol{
					Name: name, Kind: model.KindImpl, File: filePath,
					Line: NodeLine(node), Visibility: model.VisibilityPublic,
					Exported: true, Language: "rust",
					ByteStart: int(node.StartByte()), ByteEnd: int(node.EndByte()),
				})
			}
			if body := FindChildByType(node, "declaration_list"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), name)
				}
			}
			return
		case "type_item":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				out = append(out, rustSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindTypeAlias, filePath))
			}
		case "mod_item":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				out = append(out, rustSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindModule, filePath))
			}
		case "macro_definition":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				out = append(out, rustSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindMacro, filePath))
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), implType)
		}
	}
	walk(ast.Tree.RootNode(), "")
	return out
}

func rustSymbol(decl, nameNode *sitter.Node, name string, kind model.SymbolKind, filePath string) *model.Symbol {
	pub := isRustPublic(decl)
	vis := model.VisibilityPrivate
	if pub {
		vis = model.VisibilityPublic
	}
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: vis,
		Exported:   pub,
		Language:   "rust",
		ByteStart:  int(decl.StartByte()),
		ByteEnd:    int(decl.EndByte()),
	}
}

func isRustPublic(decl *sitter.Node) bool {
	for i := uint(0); i < decl.ChildCount(); i++ {
		child := decl.Child(i)
		if child != nil && child.Kind() == "visibility_modifier" {
			return true
		}
	}
	return false
}

func (r *RustAnalyser) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawImport
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "use_declaration" {
			return true
		}
		text := GetNodeText(n, ast.Content)
		target := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(text), "use "), ";")
		out = append(out, model.RawImport{FromFile: filePath, Statement: text, Target: target})
		return false
	})
	return out
}

func (r *RustAnalyser) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
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
		case "scoped_identifier":
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

func (r *RustAnalyser) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"println": true, "print": true, "eprintln": true, "eprint": true,
		"format": true, "vec": true, "panic": true, "assert": true,
		"assert_eq": true, "assert_ne": true, "unwrap": true, "expect": true,
		"clone": true, "into": true, "from": true, "unwrap_or": true,
		"unwrap_or_else": true, "map": true, "and_then": true,
	}
}
