// Package deadcode finds imports, functions, and classes that are never
// referenced anywhere in the analyzed tree.
package deadcode

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// DefaultCap bounds the number of reported findings.
const DefaultCap = 100

// entryPointNames are conventional entry points that look unused to a
// reference scan but are invoked by runtimes and frameworks.
var entryPointNames = map[string]bool{
	"main":     true,
	"init":     true,
	"setup":    true,
	"teardown": true,
	"run":      true,
}

type definition struct {
	name string
	kind string // "function" or "class"
	file string
	line uint32
}

type importBinding struct {
	name string
	file string
	line uint32
}

// Analyze scans the whole snapshot: usages are collected globally, so a
// function defined in one file and called from another counts as used.
// Names with a leading underscore are treated as intentionally private
// and skipped. Findings are capped at limit.
func Analyze(snap *sourcemodel.Snapshot, limit int) []models.Issue {
	if limit <= 0 {
		limit = DefaultCap
	}

	usages := make(map[string]struct{})
	var defs []definition
	var imports []importBinding

	for _, f := range snap.Files {
		if f.Parse == nil {
			continue
		}
		collectUsages(f, usages)
		defs = append(defs, collectDefinitions(f)...)
		imports = append(imports, collectImportBindings(f)...)
	}

	var issues []models.Issue
	for _, imp := range imports {
		if _, used := usages[imp.name]; used {
			continue
		}
		issues = append(issues, models.Issue{
			Severity:  models.SeverityLow,
			Dimension: models.DimReusability,
			File:      imp.file,
			Line:      imp.line,
			Message:   fmt.Sprintf("Unused import: %s", imp.name),
			Metrics:   map[string]any{"kind": "unused_import"},
			Automated: true,
			Source:    "static_analysis",
		})
	}

	for _, d := range defs {
		if entryPointNames[d.name] {
			continue
		}
		if _, used := usages[d.name]; used {
			continue
		}
		issues = append(issues, models.Issue{
			Severity:  models.SeverityLow,
			Dimension: models.DimReusability,
			File:      d.file,
			Line:      d.line,
			Message:   fmt.Sprintf("Potentially unused %s: %s", d.kind, d.name),
			Metrics:   map[string]any{"kind": "unused_" + d.kind},
			Automated: true,
			Source:    "static_analysis",
		})
	}

	if len(issues) > limit {
		issues = issues[:limit]
	}
	return issues
}

func collectDefinitions(f *sourcemodel.File) []definition {
	var defs []definition
	for _, fn := range f.Functions {
		if strings.HasPrefix(fn.Name, "_") {
			continue
		}
		defs = append(defs, definition{name: fn.Name, kind: "function", file: f.RelPath, line: fn.StartLine})
	}
	for _, cls := range f.Classes {
		if strings.HasPrefix(cls.Name, "_") {
			continue
		}
		defs = append(defs, definition{name: cls.Name, kind: "class", file: f.RelPath, line: cls.StartLine})
	}
	return defs
}

// collectUsages gathers every identifier reference in the file. Import
// statements and the name tokens of definitions are excluded so that a
// declaration does not count as its own use.
func collectUsages(f *sourcemodel.File, usages map[string]struct{}) {
	defNames := definitionNameOffsets(f)
	importTypes := importNodeTypes(f.Language)
	identTypes := identifierNodeTypes(f.Language)

	parser.WalkTyped(f.Parse.Tree.RootNode(), f.Source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if importTypes[nodeType] {
			return false
		}
		if identTypes[nodeType] {
			if _, isDefName := defNames[n.StartByte()]; !isDefName {
				usages[parser.GetNodeText(n, src)] = struct{}{}
			}
		}
		return true
	})
}

// definitionNameOffsets records the byte offsets of every function and
// class name token so the usage walk can skip them.
func definitionNameOffsets(f *sourcemodel.File) map[uint32]struct{} {
	offsets := make(map[uint32]struct{})
	for _, fn := range f.Functions {
		if name := fn.Node.ChildByFieldName("name"); name != nil {
			offsets[name.StartByte()] = struct{}{}
		}
	}
	for _, cls := range f.Classes {
		if name := cls.Node.ChildByFieldName("name"); name != nil {
			offsets[name.StartByte()] = struct{}{}
		}
	}
	return offsets
}

func importNodeTypes(lang parser.Language) map[string]bool {
	switch lang {
	case parser.LangPython:
		return map[string]bool{"import_statement": true, "import_from_statement": true}
	case parser.LangGo, parser.LangJava:
		return map[string]bool{"import_declaration": true}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return map[string]bool{"import_statement": true}
	default:
		return map[string]bool{}
	}
}

func identifierNodeTypes(lang parser.Language) map[string]bool {
	switch lang {
	case parser.LangGo:
		return map[string]bool{
			"identifier":         true,
			"field_identifier":   true,
			"type_identifier":    true,
			"package_identifier": true,
		}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return map[string]bool{
			"identifier":                    true,
			"property_identifier":           true,
			"type_identifier":               true,
			"shorthand_property_identifier": true,
		}
	case parser.LangJava:
		return map[string]bool{"identifier": true, "type_identifier": true}
	case parser.LangRuby:
		return map[string]bool{"identifier": true, "constant": true}
	default:
		return map[string]bool{"identifier": true}
	}
}
