package patterns

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// loopNodeTypes returns the AST node types for loops in each language.
func loopNodeTypes(lang parser.Language) map[string]bool {
	switch lang {
	case parser.LangGo:
		return map[string]bool{"for_statement": true}
	case parser.LangPython:
		return map[string]bool{"for_statement": true, "while_statement": true}
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return map[string]bool{
			"for_statement":    true,
			"for_in_statement": true,
			"while_statement":  true,
			"do_statement":     true,
		}
	case parser.LangJava:
		return map[string]bool{
			"for_statement":          true,
			"enhanced_for_statement": true,
			"while_statement":        true,
			"do_statement":           true,
		}
	case parser.LangRuby:
		return map[string]bool{"for": true, "while": true, "until": true}
	default:
		return nil
	}
}

// FindNestedLoops flags loops that directly contain another loop. One issue
// is reported per outer loop regardless of how many loops nest inside it.
func FindNestedLoops(f *sourcemodel.File) []models.Issue {
	loopTypes := loopNodeTypes(f.Language)
	if loopTypes == nil {
		return nil
	}

	var issues []models.Issue
	root := f.Parse.Tree.RootNode()

	parser.WalkTyped(root, f.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if !loopTypes[nodeType] {
			return true
		}
		if containsLoop(node, loopTypes) {
			issues = append(issues, models.Issue{
				Severity:  models.SeverityMedium,
				Dimension: models.DimPerformance,
				File:      f.RelPath,
				Line:      node.StartPoint().Row + 1,
				Message:   "Nested loop detected - potential O(n²) complexity",
				Metrics:   map[string]any{"kind": "nested_loop"},
				Automated: true,
				Source:    "static_analysis",
			})
		}
		return true // inner loops are checked for their own nesting too
	})

	return issues
}

// containsLoop reports whether any descendant of node is a loop.
func containsLoop(node *sitter.Node, loopTypes map[string]bool) bool {
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if loopTypes[child.Type()] {
			return true
		}
		if containsLoop(child, loopTypes) {
			return true
		}
	}
	return false
}

// comprehensionRisks flags Python list comprehensions over unbounded ranges.
func comprehensionRisks(f *sourcemodel.File) []models.Issue {
	if f.Language != parser.LangPython {
		return nil
	}

	var issues []models.Issue
	root := f.Parse.Tree.RootNode()

	parser.WalkTyped(root, f.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if nodeType != "list_comprehension" {
			return true
		}
		line := node.StartPoint().Row + 1
		snippet := snippetAt(f.Lines, line)
		if !containsAny(snippet, "range(") || containsAny(snippet, "[:", "limit", "max") {
			return true
		}
		issues = append(issues, models.Issue{
			Severity:  models.SeverityLow,
			Dimension: models.DimPerformance,
			File:      f.RelPath,
			Line:      line,
			Message:   "List comprehension may create large list in memory",
			Metrics:   map[string]any{"kind": "memory_risk", "code": snippet},
			Automated: true,
			Source:    "static_analysis",
		})
		return true
	})

	return issues
}

// loopConcatenation flags augmented string concatenation inside loops.
func loopConcatenation(f *sourcemodel.File) []models.Issue {
	loopTypes := loopNodeTypes(f.Language)
	if loopTypes == nil {
		return nil
	}

	var issues []models.Issue
	root := f.Parse.Tree.RootNode()

	parser.WalkTyped(root, f.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if !loopTypes[nodeType] {
			return true
		}
		parser.WalkTyped(node, source, func(inner *sitter.Node, innerType string, src []byte) bool {
			if innerType != "augmented_assignment" && innerType != "assignment_expression" {
				return true
			}
			text := parser.GetNodeText(inner, src)
			if !containsAny(text, "+=") {
				return true
			}
			issues = append(issues, models.Issue{
				Severity:  models.SeverityLow,
				Dimension: models.DimPerformance,
				File:      f.RelPath,
				Line:      inner.StartPoint().Row + 1,
				Message:   "String concatenation in loop - consider list.append and join",
				Metrics:   map[string]any{"kind": "inefficient_string"},
				Automated: true,
				Source:    "static_analysis",
			})
			return true
		})
		return false // avoid double-reporting assignments in nested loops
	})

	return issues
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
