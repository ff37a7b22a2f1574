package patterns

import (
	"fmt"
	"regexp"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// extractableRules are idioms worth pulling into shared utilities when they
// recur across the project.
var extractableRules = []Rule{
	{Pattern: regexp.MustCompile(`try:\s*\n\s+.*\n\s*except\s+\w+.*:\s*\n\s+pass`), Message: "Silent exception handling - consider logging utility"},
	{Pattern: regexp.MustCompile(`for\s+\w+\s+in\s+range\(len\(\w+\)\):`), Message: "range(len()) pattern - consider enumerate()"},
	{Pattern: regexp.MustCompile(`if\s+\w+\s+is\s+not\s+None\s+and\s+len\(\w+\)\s*>`), Message: "None and length check - consider utility function"},
	{Pattern: regexp.MustCompile(`with\s+open\([^)]+\)\s+as\s+\w+:\s*\n\s+\w+\.read\(\)`), Message: "File read pattern - consider read_file utility"},
	{Pattern: regexp.MustCompile(`datetime\.now\(\)\.strftime`), Message: "DateTime formatting - consider date utility"},
	{Pattern: regexp.MustCompile(`os\.path\.join\([^)]+\)`), Message: "Path joining - consider pathlib.Path"},
	{Pattern: regexp.MustCompile(`json\.loads?\([^)]+\)`), Message: "JSON parsing appears multiple times - consider wrapper"},
}

// location is one occurrence of an extractable idiom.
type location struct {
	File string
	Line uint32
}

// ExtractablePattern is an idiom that recurs often enough to extract.
type ExtractablePattern struct {
	Pattern     string
	Occurrences int
	Locations   []location
}

// FindExtractablePatterns counts idiom occurrences across the whole file
// set and reports those appearing minUses or more times. Only the first
// five locations are kept per pattern.
func FindExtractablePatterns(files []*sourcemodel.File, minUses int) []ExtractablePattern {
	counts := make(map[int][]location)

	for _, f := range files {
		content := string(f.Source)
		for ri, rule := range extractableRules {
			for _, loc := range rule.Pattern.FindAllStringIndex(content, -1) {
				counts[ri] = append(counts[ri], location{
					File: f.RelPath,
					Line: lineAt(content, loc[0]),
				})
			}
		}
	}

	var out []ExtractablePattern
	for ri, rule := range extractableRules {
		occ := counts[ri]
		if len(occ) < minUses {
			continue
		}
		locs := occ
		if len(locs) > 5 {
			locs = locs[:5]
		}
		out = append(out, ExtractablePattern{
			Pattern:     rule.Message,
			Occurrences: len(occ),
			Locations:   locs,
		})
	}

	return out
}

// ExtractableIssues renders recurring idioms as reusability findings.
// These carry a bonus, not a penalty; the scorer treats them specially.
func ExtractableIssues(patterns []ExtractablePattern) []models.Issue {
	issues := make([]models.Issue, 0, len(patterns))
	for _, p := range patterns {
		var file string
		var line uint32
		if len(p.Locations) > 0 {
			file = p.Locations[0].File
			line = p.Locations[0].Line
		}
		issues = append(issues, models.Issue{
			Severity:  models.SeverityLow,
			Dimension: models.DimReusability,
			File:      file,
			Line:      line,
			Message:   fmt.Sprintf("Pattern appears %d times - consider extracting to utility", p.Occurrences),
			Metrics:   map[string]any{"kind": "extractable_pattern", "pattern": p.Pattern, "occurrences": p.Occurrences},
			Automated: true,
			Source:    "static_analysis",
		})
	}
	return issues
}
