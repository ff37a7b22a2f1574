package tools

import (
	"context"
	"encoding/json"

	"github.com/avelaro/vitals/pkg/models"
)

type pylintMessage struct {
	Symbol  string `json:"symbol"`
	Path    string `json:"path"`
	Line    uint32 `json:"line"`
	Message string `json:"message"`
}

// PylintSimilarities runs pylint with only the similarity checker
// enabled and returns duplicate-code findings.
func (r *Runner) PylintSimilarities(ctx context.Context, path string) ([]models.Issue, Outcome) {
	out, outcome := r.run(ctx, "", r.slowTimeout, "pylint",
		"--disable=all", "--enable=similarities", path, "--output-format=json")
	if outcome.Status != StatusOK {
		return nil, outcome
	}
	issues, err := parsePylint(out)
	if err != nil {
		return nil, Outcome{Tool: "pylint", Status: StatusMalformed, Reason: err.Error()}
	}
	return issues, outcome
}

func parsePylint(out []byte) ([]models.Issue, error) {
	if err := validate(pylintSchema, out); err != nil {
		return nil, err
	}

	var messages []pylintMessage
	if err := json.Unmarshal(out, &messages); err != nil {
		return nil, err
	}

	var issues []models.Issue
	for _, msg := range messages {
		if msg.Symbol != "duplicate-code" {
			continue
		}
		issues = append(issues, models.Issue{
			Severity:  models.SeverityLow,
			Dimension: models.DimReusability,
			File:      msg.Path,
			Line:      msg.Line,
			Message:   msg.Message,
			Metrics:   map[string]any{"kind": "duplicate_block"},
			Automated: true,
			Source:    "pylint",
		})
	}
	return issues, nil
}
