// Package solid detects SOLID violations: god classes, tight coupling,
// long if-else chains, and concrete class-level dependencies.
package solid

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// Thresholds controls when a finding is reported.
type Thresholds struct {
	GodClassMethods   int
	GodClassLines     int
	TightCoupling     int
	OCPChainLength    int
	DIPInstantiations int
}

// DefaultThresholds returns the canonical detection thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GodClassMethods:   20,
		GodClassLines:     500,
		TightCoupling:     5,
		OCPChainLength:    5,
		DIPInstantiations: 3,
	}
}

// Detector runs the SOLID checks over snapshot files.
//
// Constructor-call classification is two-tier: a capitalized callee whose
// name is a class defined anywhere in the snapshot counts as "resolved",
// any other capitalized callee counts as "lexical". Both tiers are flagged;
// the tier is recorded in the issue metrics.
type Detector struct {
	thresholds Thresholds
	classIndex map[string]bool
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithThresholds overrides the default thresholds.
func WithThresholds(t Thresholds) Option {
	return func(d *Detector) {
		d.thresholds = t
	}
}

// New creates a detector with a class index built from the snapshot.
func New(snap *sourcemodel.Snapshot, opts ...Option) *Detector {
	d := &Detector{
		thresholds: DefaultThresholds(),
		classIndex: make(map[string]bool),
	}
	for _, f := range snap.Files {
		for _, cls := range f.Classes {
			d.classIndex[cls.Name] = true
		}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// GodClasses flags classes with too many methods or too many lines.
// One issue per class.
func (d *Detector) GodClasses(f *sourcemodel.File) []models.Issue {
	var issues []models.Issue

	for _, cls := range f.Classes {
		methods := len(cls.Methods)
		lines := cls.LineSpan()
		if methods <= d.thresholds.GodClassMethods && lines <= d.thresholds.GodClassLines {
			continue
		}
		issues = append(issues, models.Issue{
			Severity:  models.SeverityMedium,
			Dimension: models.DimScalability,
			File:      f.RelPath,
			Line:      cls.StartLine,
			Message:   fmt.Sprintf("Class has %d methods and %d lines - consider splitting", methods, lines),
			Metrics: map[string]any{
				"class":        cls.Name,
				"method_count": methods,
				"class_lines":  lines,
				"violation":    "Single Responsibility Principle",
			},
			Automated: true,
			Source:    "static_analysis",
		})
	}

	return issues
}

// TightCoupling flags classes whose constructor instantiates too many
// collaborators directly.
func (d *Detector) TightCoupling(f *sourcemodel.File) []models.Issue {
	if !supportsCoupling(f.Language) {
		return nil
	}

	var issues []models.Issue

	for _, cls := range f.Classes {
		var ctor *parser.FunctionNode
		for i := range cls.Methods {
			if isConstructor(f.Language, cls.Name, cls.Methods[i].Name) {
				ctor = &cls.Methods[i]
				break
			}
		}
		if ctor == nil || ctor.Node == nil {
			continue
		}

		calls := d.instantiations(ctor.Node, f)
		if len(calls) <= d.thresholds.TightCoupling {
			continue
		}

		resolved := 0
		for _, c := range calls {
			if c.Resolved {
				resolved++
			}
		}

		issues = append(issues, models.Issue{
			Severity:  models.SeverityMedium,
			Dimension: models.DimScalability,
			File:      f.RelPath,
			Line:      cls.StartLine,
			Message:   fmt.Sprintf("Class creates %d dependencies in its constructor - consider dependency injection", len(calls)),
			Metrics: map[string]any{
				"class":          cls.Name,
				"instantiations": len(calls),
				"resolved":       resolved,
				"lexical":        len(calls) - resolved,
			},
			Automated: true,
			Source:    "static_analysis",
		})
	}

	return issues
}

// OCPViolations flags long if-else chains, once per function.
func (d *Detector) OCPViolations(f *sourcemodel.File) []models.Issue {
	var issues []models.Issue

	for _, fn := range f.Functions {
		if fn.Body == nil {
			continue
		}
		found := false
		parser.WalkTyped(fn.Body, f.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
			if found || nodeType != "if_statement" {
				return !found
			}
			chain := chainLength(node, f.Language)
			if chain < d.thresholds.OCPChainLength {
				return true
			}
			found = true
			issues = append(issues, models.Issue{
				Severity:  models.SeverityLow,
				Dimension: models.DimScalability,
				File:      f.RelPath,
				Line:      node.StartPoint().Row + 1,
				Message:   fmt.Sprintf("Long if-elif chain (%d branches) - consider polymorphism or strategy pattern", chain),
				Metrics: map[string]any{
					"function":   fn.Name,
					"elif_count": chain,
					"violation":  "Open/Closed Principle",
				},
				Automated: true,
				Source:    "static_analysis",
			})
			return false
		})
	}

	return issues
}

// DIPViolations flags classes instantiating several concrete types at class
// level, outside any constructor.
func (d *Detector) DIPViolations(f *sourcemodel.File) []models.Issue {
	if !supportsDIP(f.Language) {
		return nil
	}

	var issues []models.Issue

	for _, cls := range f.Classes {
		if cls.Node == nil {
			continue
		}
		deps := d.classLevelInstantiations(cls, f)
		if len(deps) < d.thresholds.DIPInstantiations {
			continue
		}
		issues = append(issues, models.Issue{
			Severity:  models.SeverityLow,
			Dimension: models.DimScalability,
			File:      f.RelPath,
			Line:      cls.StartLine,
			Message:   fmt.Sprintf("Class has %d concrete dependencies at class level - use dependency injection", len(deps)),
			Metrics: map[string]any{
				"class":         cls.Name,
				"concrete_deps": deps,
				"violation":     "Dependency Inversion Principle",
			},
			Automated: true,
			Source:    "static_analysis",
		})
	}

	return issues
}

// supportsCoupling reports whether the language has a constructor
// convention the coupling check can target. Go does not.
func supportsCoupling(lang parser.Language) bool {
	switch lang {
	case parser.LangPython, parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX,
		parser.LangJava, parser.LangRuby:
		return true
	default:
		return false
	}
}

// isConstructor reports whether a method is the class constructor.
func isConstructor(lang parser.Language, className, methodName string) bool {
	switch lang {
	case parser.LangPython:
		return methodName == "__init__"
	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX:
		return methodName == "constructor"
	case parser.LangJava:
		return methodName == className
	case parser.LangRuby:
		return methodName == "initialize"
	default:
		return false
	}
}

func supportsDIP(lang parser.Language) bool {
	switch lang {
	case parser.LangPython, parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX, parser.LangJava:
		return true
	default:
		return false
	}
}
