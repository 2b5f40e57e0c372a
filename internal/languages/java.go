package languages

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/ScottRBK/mycelium/internal/model"
)

// JavaAnalyser follows the teacher's setupJava capture set:
// method_declaration, constructor_declaration, class/interface/enum/
// record/annotation_type declarations, field_declaration.
type JavaAnalyser struct {
	BaseAnalyser
}

func NewJavaAnalyser() *JavaAnalyser {
	return &JavaAnalyser{BaseAnalyser: NewBaseAnalyser("java", []string{".java"})}
}

func (j *JavaAnalyser) IsAvailable() bool { return true }

func (j *JavaAnalyser) Grammar() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_java.Language())
}

func (j *JavaAnalyser) ExtractSymbols(filePath string, ast *AST) []*model.Symbol {
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
		case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration", "annotation_type_declaration":
			nameNode := FindChildByType(node, "identifier")
			if nameNode == nil {
				break
			}
			name := GetNodeText(nameNode, ast.Content)
			qualified := name
			if enclosing != "" {
				qualified = enclosing + "." + name
			}
			kind := javaTypeKind(node.Kind())
			out = append(out, javaSymbol(node, nameNode, qualified, kind, filePath))
			if body := FindChildByType(node, "class_body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), qualified)
				}
			} else if body := FindChildByType(node, "interface_body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), qualified)
				}
			} else if body := FindChildByType(node, "enum_body"); body != nil {
				for i := uint(0); i < body.ChildCount(); i++ {
					walk(body.Child(i), qualified)
				}
			}
			return
		case "method_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				if enclosing != "" {
					name = enclosing + "." + name
				}
				out = append(out, javaSymbol(node, nameNode, name, model.KindMethod, filePath))
			}
		case "constructor_declaration":
			if nameNode := FindChildByType(node, "identifier"); nameNode != nil {
				name := GetNodeText(nameNode, ast.Content)
				if enclosing != "" {
					name = enclosing + "." + name
				}
				out = append(out, javaSymbol(node, nameNode, name, model.KindConstructor, filePath))
			}
		case "field_declaration":
			if decl := FindChildByType(node, "variable_declarator"); decl != nil {
				if nameNode := FindChildByType(decl, "identifier"); nameNode != nil {
					name := GetNodeText(nameNode, ast.Content)
					if enclosing != "" {
						name = enclosing + "." + name
					}
					out = append(out, javaSymbol(node, nameNode, name, model.KindProperty, filePath))
				}
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), enclosing)
		}
	}
	walk(ast.Tree.RootNode(), "")
	return out
}

func javaTypeKind(nodeKind string) model.SymbolKind {
	switch nodeKind {
	case "interface_declaration":
		return model.KindInterface
	case "enum_declaration":
		return model.KindEnum
	case "record_declaration":
		return model.KindRecord
	case "annotation_type_declaration":
		return model.KindAnnotation
	default:
		return model.KindClass
	}
}

func javaSymbol(decl, nameNode *sitter.Node, name string, kind model.SymbolKind, filePath string) *model.Symbol {
	vis := javaVisibility(decl)
	return &model.Symbol{
		Name:       name,
		Kind:       kind,
		File:       filePath,
		Line:       NodeLine(nameNode),
		Visibility: vis,
		Exported:   vis == model.VisibilityPublic,
		Language:   "java",
		ByteStart:  int(decl.StartByte()),
		ByteEnd:    int(decl.EndByte()),
	}
}

func javaVisibility(decl *sitter.Node) model.Visibility {
	mods := FindChildByType(decl, "modifiers")
	if mods == nil {
		return model.VisibilityInternal
	}
	text := ""
	for i := uint(0); i < mods.ChildCount(); i++ {
		child := mods.Child(i)
		if child != nil {
			text += child.Kind() + " "
		}
	}
	switch {
	case containsWord(text, "public"):
		return model.VisibilityPublic
	case containsWord(text, "private"):
		return model.VisibilityPrivate
	case containsWord(text, "protected"):
		return model.VisibilityProtected
	default:
		return model.VisibilityInternal
	}
}

func containsWord(haystack, word string) bool {
	for i := 0; i+len(word) <= len(haystack); i++ {
		if haystack[i:i+len(word)] == word {
			return true
		}
	}
	return false
}

func (j *JavaAnalyser) ExtractImports(filePath string, ast *AST) []model.RawImport {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawImport
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "import_declaration" {
			return true
		}
		text := GetNodeText(n, ast.Content)
		target := text
		if scoped := FindChildByType(n, "scoped_identifier"); scoped != nil {
			target = GetNodeText(scoped, ast.Content)
		}
		out = append(out, model.RawImport{FromFile: filePath, Statement: text, Target: target})
		return false
	})
	return out
}

func (j *JavaAnalyser) ExtractCalls(filePath string, ast *AST, symbols []*model.Symbol) []model.RawCall {
	if ast == nil || ast.Tree == nil {
		return nil
	}
	var out []model.RawCall
	Walk(ast.Tree.RootNode(), func(n *sitter.Node, depth int) bool {
		if n.Kind() != "method_invocation" {
			return true
		}
		nameNode := FindChildByType(n, "identifier")
		if nameNode == nil {
			return true
		}
		names := FindChildrenByType(n, "identifier")
		name := GetNodeText(names[len(names)-1], ast.Content)
		qualifier := ""
		if obj := FindChildByType(n, "field_access"); obj != nil {
			qualifier = GetNodeText(obj, ast.Content)
		} else if len(names) > 1 {
			qualifier = GetNodeText(names[0], ast.Content)
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

func (j *JavaAnalyser) BuiltinExclusions() map[string]bool {
	return map[string]bool{
		"println": true, "print": true, "printf": true, "equals": true,
		"hashCode": true, "toString": true, "getClass": true, "valueOf": true,
		"format": true, "length": true, "size": true, "get": true, "set": true,
		"add": true, "put": true, "asList": true,
	}
}
