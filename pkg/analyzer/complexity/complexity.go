// Package complexity computes cyclomatic complexity from the AST. It is the
// internal fallback used when the external complexity tool is unavailable.
package complexity

import (
	sitter "github.com/smacker/go-tree-sitter"
	"gonum.org/v1/gonum/stat"

	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// FunctionResult is the complexity of one function.
type FunctionResult struct {
	File       string `json:"file"`
	Function   string `json:"function"`
	Line       uint32 `json:"line"`
	Cyclomatic uint32 `json:"complexity"`
}

// Analysis aggregates complexity across the snapshot.
type Analysis struct {
	Functions      []FunctionResult
	HighComplexity []FunctionResult // cyclomatic above the threshold
	Average        float64
	StdDev         float64
	Max            uint32
}

// highComplexityThreshold marks functions worth reporting individually.
const highComplexityThreshold = 10

// Analyze computes cyclomatic complexity for every function in the snapshot.
func Analyze(snap *sourcemodel.Snapshot) *Analysis {
	a := &Analysis{}

	var values []float64
	for _, f := range snap.Files {
		for _, fn := range f.Functions {
			cyc := uint32(1)
			if fn.Body != nil {
				cyc += CountDecisionPoints(fn.Body, f.Source, f.Language)
			}

			fr := FunctionResult{
				File:       f.RelPath,
				Function:   fn.Name,
				Line:       fn.StartLine,
				Cyclomatic: cyc,
			}
			a.Functions = append(a.Functions, fr)
			values = append(values, float64(cyc))

			if cyc > highComplexityThreshold {
				a.HighComplexity = append(a.HighComplexity, fr)
			}
			if cyc > a.Max {
				a.Max = cyc
			}
		}
	}

	if len(values) > 0 {
		a.Average = stat.Mean(values, nil)
		if len(values) > 1 {
			a.StdDev = stat.StdDev(values, nil)
		}
	}

	return a
}

// CountDecisionPoints counts branching statements for cyclomatic complexity.
func CountDecisionPoints(node *sitter.Node, source []byte, lang parser.Language) uint32 {
	var count uint32

	decisionTypes := makeSet(getDecisionNodeTypes(lang))

	parser.WalkTyped(node, source, func(n *sitter.Node, nodeType string, src []byte) bool {
		if decisionTypes[nodeType] {
			count++
		}
		// Logical operators (&&, ||) add decision points
		if nodeType == "binary_expression" || nodeType == "boolean_operator" {
			op := getOperator(n, src)
			if op == "&&" || op == "||" || op == "and" || op == "or" {
				count++
			}
		}
		return true
	})

	return count
}

// makeSet converts a slice to a map for O(1) lookups.
func makeSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// getDecisionNodeTypes returns AST node types that represent decision points.
func getDecisionNodeTypes(lang parser.Language) []string {
	common := []string{
		"if_statement",
		"while_statement",
		"for_statement",
		"case_statement",
		"catch_clause",
		"ternary_expression",
		"conditional_expression",
	}

	switch lang {
	case parser.LangGo:
		return append(common, "select_statement", "type_switch_statement", "expression_switch_statement")
	case parser.LangPython:
		return append(common, "elif_clause", "except_clause", "with_statement", "comprehension")
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return append(common, "switch_statement", "do_statement", "for_in_statement")
	case parser.LangJava:
		return append(common, "switch_expression", "do_statement", "enhanced_for_statement")
	case parser.LangRuby:
		return []string{"if", "elsif", "unless", "while", "until", "for", "case", "when", "rescue", "conditional"}
	default:
		return common
	}
}

// getOperator extracts the operator from a binary expression node.
func getOperator(node *sitter.Node, source []byte) string {
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		switch child.Type() {
		case "&&", "||", "and", "or":
			return child.Type()
		}
		if child.IsNamed() && child.Type() == "operator" {
			return parser.GetNodeText(child, source)
		}
	}
	return ""
}
