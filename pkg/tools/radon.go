package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avelaro/vitals/pkg/models"
)

// CCReport summarizes a radon cyclomatic complexity run.
type CCReport struct {
	Average        float64
	FunctionCount  int
	FileCount      int
	HighComplexity []models.Issue
}

type radonFunc struct {
	Name       string  `json:"name"`
	Lineno     uint32  `json:"lineno"`
	Complexity float64 `json:"complexity"`
	Type       string  `json:"type"`
}

// RadonCC runs "radon cc <path> -a --json" and extracts per-function
// complexity. Functions above 10 become individual findings.
func (r *Runner) RadonCC(ctx context.Context, path string) (*CCReport, Outcome) {
	out, outcome := r.run(ctx, "", r.timeout, "radon", "cc", path, "-a", "--json")
	if outcome.Status != StatusOK {
		return nil, outcome
	}
	report, err := parseRadonCC(out)
	if err != nil {
		return nil, Outcome{Tool: "radon", Status: StatusMalformed, Reason: err.Error()}
	}
	return report, outcome
}

func parseRadonCC(out []byte) (*CCReport, error) {
	if err := validate(radonCCSchema, out); err != nil {
		return nil, err
	}

	var data map[string][]radonFunc
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, err
	}

	report := &CCReport{FileCount: len(data)}
	var total float64
	for file, funcs := range data {
		for _, fn := range funcs {
			total += fn.Complexity
			report.FunctionCount++

			if fn.Complexity > 10 {
				report.HighComplexity = append(report.HighComplexity, models.Issue{
					Severity:  models.SeverityMedium,
					Dimension: models.DimMaintainability,
					File:      file,
					Line:      fn.Lineno,
					Message:   fmt.Sprintf("High complexity: %s (complexity: %.0f)", fn.Name, fn.Complexity),
					Metrics:   map[string]any{"complexity": fn.Complexity},
					Source:    "radon",
				})
			}
		}
	}
	if report.FunctionCount > 0 {
		report.Average = total / float64(report.FunctionCount)
	}
	return report, nil
}

type radonMIEntry struct {
	MI   float64 `json:"mi"`
	Rank string  `json:"rank"`
}

// RadonMI runs "radon mi <path> --json" and returns the average
// maintainability index across files. ok is false when no files were
// measured or the tool was unavailable.
func (r *Runner) RadonMI(ctx context.Context, path string) (avg float64, ok bool) {
	out, outcome := r.run(ctx, "", r.timeout, "radon", "mi", path, "--json")
	if outcome.Status != StatusOK {
		return 0, false
	}
	return parseRadonMI(out)
}

func parseRadonMI(out []byte) (avg float64, ok bool) {
	if err := validate(radonMISchema, out); err != nil {
		return 0, false
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(out, &data); err != nil {
		return 0, false
	}

	var total float64
	var count int
	for _, raw := range data {
		// Older radon versions emit the letter rank as a bare string.
		var entry radonMIEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		total += entry.MI
		count++
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}
