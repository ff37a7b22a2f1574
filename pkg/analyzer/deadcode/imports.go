package deadcode

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// collectImportBindings extracts the local names an import introduces.
// Go is skipped because the compiler already rejects unused imports, and
// Ruby requires load files without binding a name.
func collectImportBindings(f *sourcemodel.File) []importBinding {
	switch f.Language {
	case parser.LangPython:
		return pythonBindings(f)
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return jsBindings(f)
	case parser.LangJava:
		return javaBindings(f)
	default:
		return nil
	}
}

func pythonBindings(f *sourcemodel.File) []importBinding {
	var bindings []importBinding
	root := f.Parse.Tree.RootNode()

	parser.WalkTyped(root, f.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		switch nodeType {
		case "import_statement":
			for i := range int(n.NamedChildCount()) {
				child := n.NamedChild(i)
				switch child.Type() {
				case "dotted_name":
					// "import a.b" binds the top-level package "a"
					name := parser.GetNodeText(child, src)
					bindings = append(bindings, binding(f, n, firstSegment(name)))
				case "aliased_import":
					if alias := child.ChildByFieldName("alias"); alias != nil {
						bindings = append(bindings, binding(f, n, parser.GetNodeText(alias, src)))
					}
				}
			}
			return false
		case "import_from_statement":
			module := n.ChildByFieldName("module_name")
			for i := range int(n.NamedChildCount()) {
				child := n.NamedChild(i)
				if module != nil && child.StartByte() == module.StartByte() {
					continue
				}
				switch child.Type() {
				case "dotted_name":
					bindings = append(bindings, binding(f, n, parser.GetNodeText(child, src)))
				case "aliased_import":
					if alias := child.ChildByFieldName("alias"); alias != nil {
						bindings = append(bindings, binding(f, n, parser.GetNodeText(alias, src)))
					}
				case "wildcard_import":
					// "from x import *" cannot be tracked
				}
			}
			return false
		}
		return true
	})

	return bindings
}

func jsBindings(f *sourcemodel.File) []importBinding {
	var bindings []importBinding
	root := f.Parse.Tree.RootNode()

	parser.WalkTyped(root, f.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if nodeType != "import_statement" {
			return true
		}
		parser.WalkTyped(n, src, func(inner *sitter.Node, innerType string, s []byte) bool {
			switch innerType {
			case "import_specifier":
				name := inner.ChildByFieldName("name")
				if alias := inner.ChildByFieldName("alias"); alias != nil {
					name = alias
				}
				if name != nil {
					bindings = append(bindings, binding(f, n, parser.GetNodeText(name, s)))
				}
				return false
			case "namespace_import":
				for i := range int(inner.NamedChildCount()) {
					if child := inner.NamedChild(i); child.Type() == "identifier" {
						bindings = append(bindings, binding(f, n, parser.GetNodeText(child, s)))
					}
				}
				return false
			case "identifier":
				// default import: "import React from 'react'"
				if inner.Parent() != nil && inner.Parent().Type() == "import_clause" {
					bindings = append(bindings, binding(f, n, parser.GetNodeText(inner, s)))
				}
			}
			return true
		})
		return false
	})

	return bindings
}

func javaBindings(f *sourcemodel.File) []importBinding {
	var bindings []importBinding
	root := f.Parse.Tree.RootNode()

	parser.WalkTyped(root, f.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if nodeType != "import_declaration" {
			return true
		}
		text := parser.GetNodeText(n, src)
		if strings.Contains(text, "*") {
			return false
		}
		for i := range int(n.NamedChildCount()) {
			child := n.NamedChild(i)
			if child.Type() == "scoped_identifier" {
				bindings = append(bindings, binding(f, n, lastSegment(parser.GetNodeText(child, src))))
			}
		}
		return false
	})

	return bindings
}

func binding(f *sourcemodel.File, stmt *sitter.Node, name string) importBinding {
	return importBinding{name: name, file: f.RelPath, line: stmt.StartPoint().Row + 1}
}

func firstSegment(dotted string) string {
	if i := strings.IndexByte(dotted, '.'); i >= 0 {
		return dotted[:i]
	}
	return dotted
}

func lastSegment(dotted string) string {
	if i := strings.LastIndexByte(dotted, '.'); i >= 0 {
		return dotted[i+1:]
	}
	return dotted
}
