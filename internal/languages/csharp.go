package languages

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/ScottRBK/mycelium/internal/model"
)

// CSharpAnalyser follows the teacher's csharp_extractor.go node-kind
// walk (modifiers/attribute_list/parameter_list/base_list) with two
// additions the teacher does not need: constructor parameter types, for
// SPEC_FULL §4.8's DI-resolved Tier A edges, and attribute/base-class
// recording, for its framework multiplier.
type CSharpAnalyser struct {
	BaseAnalyser
}

func NewCSharpAnalyser() *CSharpAnalyser {
	return &CSharpAnalyser{BaseAnalyser: NewBaseAnalyser("csharp", []string{".cs"})}
}

func (c *CSharpAnalyser) IsAvailable() bool { return true }

func (c *CSharpAnalyser) Grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_csharp.Language())
}

var frameworkAttributes = map[string]model.FrameworkTag{
	"HttpGet":    model.FrameworkHTTPGet,
	"HttpPost":   model.FrameworkHTTPPost,
	"HttpPut":    model.FrameworkHTTPPut,
	"HttpDelete": model.FrameworkHTTPDelete,
	"Route":      model.FrameworkRoute,
}

func (c *CSharpAnalyser) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
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
		case "class_declaration", "interface_declaration", "struct_declaration", "record_declaration", "enum_declaration":
			nameNode := FindChildByType(node, "identifier")
			if nameNode == nil {
				break
			}
			name := GetNodeText(nameNode, ast.Content)
			sym := csharpSymbol(node, nameNode, name, csharpTypeKind(node.Kind()), filePath)
			sym.Bases = csharpBases(node, ast.Content)
			if base := FindChildByType(node, "base_list"); base != nil {
				for _, b := range sym.Bases {
					if strings.HasSuffix(b, "Controller") {
						sym.Frameworks = append(sym.Frameworks, model.FrameworkControllerBase)
					}
					if b == "IHostedService" || b == "BackgroundService" {
						sym.Frameworks = append(sym.Frameworks, model.FrameworkHostedService)
					}
				}
			}
			out = append(out, sym)
			if body := FindChildByType(node, "declaration_list"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), name)
				}
			} else if body := FindChildByType(node, "enum_member_declaration_list"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), name)
				}
			}
			return
		case "namespace_declaration":
			nameNode := FindChildByType(node, "qualified_name")
			if nameNode == nil {
				nameNode = FindChildByType(node, "identifier")
			}
			if nameNode != nil {
				out = append(out, csharpSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindNamespace, filePath))
			}
			if body := FindChildByType(node, "declaration_list"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), "")
				}
				_ = nameNode
				return
			}
		case "method_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				if className != "" {
					name = className + "." + name
				}
				sym := csharpSymbol(node, nameNode, name, model.KindMethod, filePath)
				sym.Frameworks = csharpAttributeFrameworks(node, ast.Content)
				out = append(out, sym)
			}
		case "constructor_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				if className != "" {
					name = className + "." + name
				}
				sym := csharpSymbol(node, nameNode, name, model.KindConstructor, filePath)
				sym.ParameterTypes = csharpParameterTypes(node, ast.Content)
				out = append(out, sym)
			}
		case "property_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				if className != "" {
					name = className + "." + name
				}
				out = append(out, csharpSymbol(node, nameNode, name, model.KindProperty, filePath))
			}
		case "delegate_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				out = append(out, csharpSymbol(node, nameNode, GetNodeText(nameNode, ast.Content), model.KindDelegate, filePath))
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), className)
		}
	}
	walk(ast.Tree.RootNode(), "")
	return out
}

func csharpTypeKind(nodeKind string) model.SymbolKind {
	switch nodeKind {
	case "interface_declaration":
		return model.KindInterface
	case "struct_declaration":
		return model.KindStruct
	case "record_declaration":
		return model.KindRecord
	case "enum_declaration":
		return model.KindEnum
	default:
		return model.KindClass
	}
}

func csharpSymbol(decl, nameNode *sitter.Node, name string, kind model.SymbolKind, filePath string) *model.Symbol {
	vis := csharpVisibility(decl)
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: vis,
		Exported:   vis == model.VisibilityPublic,
		Language:   "csharp",
		ByteStart:  int(decl.StartByte()),
		ByteEnd:    int(decl.EndByte()),
	}
}

func csharpVisibility(decl *sitter.Node) model.Visibility {
	for i := uint(0); i < decl.ChildCount(); i++ {
		child := decl.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "public":
			return model.VisibilityPublic
		case "private":
			return model.VisibilityPrivate
		case "protected":
			return model.VisibilityProtected
		case "internal":
			return model.VisibilityInternal
		case "modifier":
			for j := uint(0); j < child.ChildCount(); j++ {
				switch child.Child(j).Kind() {
				case "public":
					return model.VisibilityPublic
				case "private":
					return model.VisibilityPrivate
				case "protected":
					return model.VisibilityProtected
				case "internal":
					return model.VisibilityInternal
				}
			}
		}
	}
	return model.VisibilityPrivate
}

func csharpBases(decl *sitter.Node, content []byte) []string {
	baseList := FindChildByType(decl, "base_list")
	if baseList == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < baseList.ChildCount(); i++ {
		child := baseList.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier", "qualified_name", "generic_name":
			out = append(out, GetNodeText(child, content))
		}
	}
	return out
}

func csharpParameterTypes(ctor *sitter.Node, content []byte) map[string]string {
	paramList := FindChildByType(ctor, "parameter_list")
	if paramList == nil {
		return nil
	}
	out := make(map[string]string)
	for i := uint(0); i < paramList.ChildCount(); i++ {
		param := paramList.Child(i)
		if param == nil || param.Kind() != "parameter" {
			continue
		}
		nameNode := FindChildByType(param, "identifier")
		typeNode := csharpFindTypeNode(param)
		if nameNode != nil && typeNode != nil {
			out[GetNodeText(nameNode, content)] = GetNodeText(typeNode, content)
		}
	}
	return out
}

func csharpFindTypeNode(param *sitter.Node) *sitter.Node {
	for i := uint(0); i < param.ChildCount(); i++ {
		child := param.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "predefined_type", "identifier_name", "generic_name", "qualified_name", "nullable_type", "array_type":
			return child
		}
	}
	return nil
}

func csharpAttributeFrameworks(decl *sitter.Node, content []byte) []model.FrameworkTag {
	parent := decl.Parent()
	if parent == nil {
		return nil
	}
	var out []model.FrameworkTag
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child == nil {
			continue
		}
		if child == decl {
			break
		}
		if child.Kind() != "attribute_list" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			attr := child.Child(j)
			if attr == nil || attr.Kind() != "attribute" {
				continue
			}
			nameNode := FindChildByType(attr, "identifier")
			if nameNode == nil {
				nameNode = FindChildByType(attr, "qualified_name")
			}
			if nameNode == nil {
				continue
			}
			if tag, ok := frameworkAttributes[GetNodeText(nameNode, content)]; ok {
				out = append(out, tag)
			}
		}
	}
	return out
}

func (c *CSharpAnalyser) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawImport
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "using_directive" {
			return true
		}
		text := GetNodeText(n, ast.Content)
		target := text
		if q := FindChildByType(n, "qualified_name"); q != nil {
			target = GetNodeText(q, ast.Content)
		} else if id := FindChildByType(n, "identifier"); id != nil {
			target = GetNodeText(id, ast.Content)
		}
		out = append(out, model.RawImport{FromFile: filePath, Statement: text, Target: target})
		return false
	})
	return out
}

func (c *CSharpAnalyser) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawCall
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "invocation_expression" {
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
		case "member_access_expression":
			names := FindChildrenByType(fn, "identifier")
			if len(names) > 0 {
				name = GetNodeText(names[len(names)-1], ast.Content)
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

func (c *CSharpAnalyser) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"WriteLine": true, "Write": true, "ReadLine": true, "Format": true,
		"IsNullOrEmpty": true, "IsNullOrWhiteSpace": true, "Join": true,
		"Concat": true, "ToString": true, "Equals": true, "GetHashCode": true,
		"Max": true, "Min": true, "Abs": true, "ToList": true, "ToArray": true,
		"Select": true, "Where": true, "FirstOrDefault": true,
	}
}
