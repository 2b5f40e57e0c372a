package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/ScottRBK/mycelium/internal/model"
)

// jsCore covers the shared JavaScript/TypeScript extraction logic,
// grounded on the teacher's internal/symbollinker/js_extractor.go node
// walk (function_declaration/class_declaration/method_definition, plus
// TypeScript's interface_declaration/type_alias_declaration/
// enum_declaration) and its isExported sibling-scan pattern.
type jsCore struct {
	BaseAnalyser
	language string
	grammar  func() *sitter.Language
}

func (j *jsCore) IsAvailable() bool { return true }

func (j *jsCore) Grammar() *sitter.Language { return j.grammar() }

func (j *jsCore) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
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
		case "function_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				out = append(out, jsSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindFunction, filePath, j.language))
			}
		case "class_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				out = append(out, jsSymbol(node, nameNode, name, model.KindClass, filePath, j.language))
				if body := FindChildByType(node, "class_body"); body != nil {
					for i := uint(0); i < body.ChildCount(); i++ {
						walk(body.Child(i), name)
					}
				}
				return
			}
		case "method_definition":
			nameNode := FindChildByType(node, "property_identifier")
			if nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				if className != "" {
					name = className + "." + name
				}
				out = append(out, jsSymbol(node, nameNode, name, model.KindMethod, filePath, j.language))
			}
		case "interface_declaration":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				out = append(out, jsSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindInterface, filePath, j.language))
			}
		case "type_alias_declaration":
			if nameNode := FindChildByType(node, "type_identifier"); nameNode != nil {
				out = append(out, jsSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindTypeAlias, filePath, j.language))
			}
		case "enum_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				out = append(out, jsSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindEnum, filePath, j.language))
			}
		case "variable_declarator":
			nameNode := FindChildByType(node, "identifier")
			valueNode := node.Child(uint(node.ChildCount()) - 1)
			if nameNode != nil && valueNode != nil && (valueNode.Kind() == "arrow_function" || valueNode.Kind() == "function_expression") {
				out = append(out, jsSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindFunction, filePath, j.language))
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), className)
		}
	}
	walk(ast.Tree.RootNode(), "")
	return out
}

func jsSymbol(decl, nameNode *sitter.Node, name string, kind model.SymbolKind, filePath, language string) *model.Symbol {
	exported := jsIsExported(decl)
	vis := model.VisibilityPrivate
	if exported {
		vis = model.VisibilityPublic
	}
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: vis,
		Exported:   exported,
		Language:   language,
		ByteStart:  int(decl.StartByte()),
		ByteEnd:    int(decl.EndByte()),
	}
}

func jsIsExported(node *sitter.Node) bool {
	parent := node.Parent()
	if parent == nil {
		return false
	}
	return parent.Kind() == "export_statement" || parent.Kind() == "export_default_declaration"
}

func (j *jsCore) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawImport
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "import_statement" {
			return true
		}
		text := GetNodeText(n, ast.Content)
		target := text
		if src := FindChildByType(n, "string"); src != nil {
			target = strings.Trim(GetNodeText(src, ast.Content), "'\"")
		}
		out = append(out, model.RawImport{FromFile: filePath, Statement: text, Target: target})
		return false
	})
	return out
}

func (j *jsCore) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
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
		case "member_expression":
			if prop := FindChildByType(fn, "property_identifier"); prop != nil {
				name = GetNodeText(prop, ast.Content)
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

func (j *jsCore) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"log": true, "warn": true, "error": true, "info": true,
		"parseInt": true, "parseFloat": true, "isNaN": true, "map": true,
		"filter": true, "reduce": true, "forEach": true, "push": true,
		"pop": true, "slice": true, "splice": true, "join": true,
		"stringify": true, "parse": true, "then": true, "catch": true,
		"require": true,
	}
}

// TypeScriptAnalyser handles .ts/.tsx via the TypeScript grammar
// variant (tree_sitter_typescript.LanguageTypescript), following the
// teacher's setupTypeScript.
type TypeScriptAnalyser struct{ jsCore }

func NewTypeScriptAnalyser() *TypeScriptAnalyser {
	return &TypeScriptAnalyser{jsCore{
		BaseAnalyser: NewBaseAnalyser("typescript", []string{".ts", ".tsx"}),
		language:     "typescript",
		grammar:      func() *sitter.Language { return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()) },
	}}
}

// JavaScriptAnalyser handles .js/.jsx via the plain JavaScript grammar,
// following the teacher's setupJavaScript.
type JavaScriptAnalyser struct{ jsCore }

func NewJavaScriptAnalyser() *JavaScriptAnalyser {
	return &JavaScriptAnalyser{jsCore{
		BaseAnalyser: NewBaseAnalyser("javascript", []string{".js", ".jsx"}),
		language:     "javascript",
		grammar:      func() *sitter.Language { return sitter.NewLanguage(tree_sitter_javascript.Language()) },
	}}
}
