package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Import is a single import/require statement found in a source file.
type Import struct {
	Path string
	Line uint32
}

// GetImports extracts import targets from parsed code. Paths are returned as
// written in the source (quotes stripped); resolving them against the project
// layout is the caller's job.
func GetImports(result *ParseResult) []Import {
	switch result.Language {
	case LangGo:
		return goImports(result)
	case LangPython:
		return pythonImports(result)
	case LangTypeScript, LangJavaScript, LangTSX:
		return jsImports(result)
	case LangJava:
		return javaImports(result)
	case LangRuby:
		return rubyImports(result)
	default:
		return nil
	}
}

func goImports(result *ParseResult) []Import {
	var imports []Import
	root := result.Tree.RootNode()
	for _, spec := range FindNodesByType(root, result.Source, "import_spec") {
		if pathNode := spec.ChildByFieldName("path"); pathNode != nil {
			imports = append(imports, Import{
				Path: stripQuotes(GetNodeText(pathNode, result.Source)),
				Line: spec.StartPoint().Row + 1,
			})
		}
	}
	return imports
}

func pythonImports(result *ParseResult) []Import {
	var imports []Import
	root := result.Tree.RootNode()

	WalkTyped(root, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch nodeType {
		case "import_statement":
			// import a.b, c
			for i := range int(node.ChildCount()) {
				child := node.Child(i)
				switch child.Type() {
				case "dotted_name":
					imports = append(imports, Import{
						Path: GetNodeText(child, source),
						Line: node.StartPoint().Row + 1,
					})
				case "aliased_import":
					if name := child.ChildByFieldName("name"); name != nil {
						imports = append(imports, Import{
							Path: GetNodeText(name, source),
							Line: node.StartPoint().Row + 1,
						})
					}
				}
			}
			return false
		case "import_from_statement":
			// from a.b import x
			if mod := node.ChildByFieldName("module_name"); mod != nil {
				imports = append(imports, Import{
					Path: GetNodeText(mod, source),
					Line: node.StartPoint().Row + 1,
				})
			}
			return false
		}
		return true
	})

	return imports
}

func jsImports(result *ParseResult) []Import {
	var imports []Import
	root := result.Tree.RootNode()

	WalkTyped(root, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch nodeType {
		case "import_statement", "export_statement":
			if src := node.ChildByFieldName("source"); src != nil {
				imports = append(imports, Import{
					Path: stripQuotes(GetNodeText(src, source)),
					Line: node.StartPoint().Row + 1,
				})
			}
			return false
		case "call_expression":
			// require("x")
			fn := node.ChildByFieldName("function")
			if fn != nil && GetNodeText(fn, source) == "require" {
				if args := node.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
					arg := args.NamedChild(0)
					if arg.Type() == "string" {
						imports = append(imports, Import{
							Path: stripQuotes(GetNodeText(arg, source)),
							Line: node.StartPoint().Row + 1,
						})
					}
				}
			}
		}
		return true
	})

	return imports
}

func javaImports(result *ParseResult) []Import {
	var imports []Import
	root := result.Tree.RootNode()
	for _, decl := range FindNodesByType(root, result.Source, "import_declaration") {
		for i := range int(decl.ChildCount()) {
			child := decl.Child(i)
			if child.Type() == "scoped_identifier" || child.Type() == "identifier" {
				imports = append(imports, Import{
					Path: GetNodeText(child, result.Source),
					Line: decl.StartPoint().Row + 1,
				})
				break
			}
		}
	}
	return imports
}

func rubyImports(result *ParseResult) []Import {
	var imports []Import
	root := result.Tree.RootNode()

	WalkTyped(root, result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if nodeType != "call" {
			return true
		}
		method := node.ChildByFieldName("method")
		if method == nil {
			return true
		}
		name := GetNodeText(method, source)
		if name != "require" && name != "require_relative" {
			return true
		}
		if args := node.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
			arg := args.NamedChild(0)
			if arg.Type() == "string" {
				imports = append(imports, Import{
					Path: stripQuotes(GetNodeText(arg, source)),
					Line: node.StartPoint().Row + 1,
				})
			}
		}
		return false
	})

	return imports
}

func stripQuotes(s string) string {
	return strings.Trim(s, `"'`+"`")
}
