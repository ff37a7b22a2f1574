package solid

import (
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// Instantiation is one constructor-style call.
type Instantiation struct {
	TypeName string
	Line     uint32
	Resolved bool // named class exists somewhere in the snapshot
}

// instantiations collects constructor-style calls under a node.
func (d *Detector) instantiations(node *sitter.Node, f *sourcemodel.File) []Instantiation {
	var out []Instantiation

	parser.WalkTyped(node, f.Source, func(n *sitter.Node, nodeType string, source []byte) bool {
		name := calleeTypeName(n, nodeType, source, f.Language)
		if name == "" || !isCapitalized(name) {
			return true
		}
		out = append(out, Instantiation{
			TypeName: name,
			Line:     n.StartPoint().Row + 1,
			Resolved: d.classIndex[name],
		})
		return true
	})

	return out
}

// classLevelInstantiations collects constructor-style calls in class-level
// assignments, skipping anything nested inside a method.
func (d *Detector) classLevelInstantiations(cls parser.ClassNode, f *sourcemodel.File) []string {
	funcTypes := map[string]bool{
		"function_definition":  true,
		"function_declaration": true,
		"method_definition":    true,
		"method_declaration":   true,
		"constructor_declaration": true,
		"method":               true,
	}

	var deps []string
	parser.WalkTyped(cls.Node, f.Source, func(n *sitter.Node, nodeType string, source []byte) bool {
		if funcTypes[nodeType] {
			return false
		}
		if nodeType != "assignment" && nodeType != "field_declaration" &&
			nodeType != "public_field_definition" && nodeType != "field_definition" {
			return true
		}
		parser.WalkTyped(n, source, func(inner *sitter.Node, innerType string, src []byte) bool {
			name := calleeTypeName(inner, innerType, src, f.Language)
			if name != "" && isCapitalized(name) {
				deps = append(deps, name)
			}
			return true
		})
		return false
	})

	return deps
}

// calleeTypeName returns the instantiated type name for constructor-style
// call nodes, or "" for anything else.
func calleeTypeName(n *sitter.Node, nodeType string, source []byte, lang parser.Language) string {
	switch lang {
	case parser.LangPython:
		if nodeType != "call" {
			return ""
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Type() != "identifier" {
			return ""
		}
		return parser.GetNodeText(fn, source)

	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		if nodeType != "new_expression" {
			return ""
		}
		ctor := n.ChildByFieldName("constructor")
		if ctor == nil {
			return ""
		}
		return parser.GetNodeText(ctor, source)

	case parser.LangJava:
		if nodeType != "object_creation_expression" {
			return ""
		}
		typ := n.ChildByFieldName("type")
		if typ == nil {
			return ""
		}
		return parser.GetNodeText(typ, source)

	case parser.LangRuby:
		if nodeType != "call" {
			return ""
		}
		method := n.ChildByFieldName("method")
		recv := n.ChildByFieldName("receiver")
		if method == nil || recv == nil {
			return ""
		}
		if parser.GetNodeText(method, source) != "new" || recv.Type() != "constant" {
			return ""
		}
		return parser.GetNodeText(recv, source)

	default:
		return ""
	}
}

// chainLength measures the length of an if-else-if chain rooted at node.
func chainLength(node *sitter.Node, lang parser.Language) int {
	if lang == parser.LangPython {
		// elif branches are direct children of the if_statement
		chain := 1
		for i := range int(node.NamedChildCount()) {
			if node.NamedChild(i).Type() == "elif_clause" {
				chain++
			}
		}
		return chain
	}

	// Other grammars chain via the alternative field.
	chain := 1
	current := node
	for {
		alt := current.ChildByFieldName("alternative")
		if alt == nil {
			break
		}
		next := alt
		if alt.Type() == "else_clause" {
			found := false
			for i := range int(alt.NamedChildCount()) {
				child := alt.NamedChild(i)
				if child.Type() == "if_statement" {
					next = child
					found = true
					break
				}
			}
			if !found {
				break
			}
		} else if alt.Type() != "if_statement" {
			break
		}
		chain++
		current = next
	}
	return chain
}

func isCapitalized(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
