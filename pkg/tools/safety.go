package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avelaro/vitals/pkg/models"
)

// Safety runs "safety check --json" inside the project directory and
// reports one aggregate finding when vulnerable dependencies exist.
// Safety is purely optional: a missing binary is not tracked as a
// degradation.
func (r *Runner) Safety(ctx context.Context, dir string) ([]models.Issue, Outcome) {
	out, outcome := r.run(ctx, dir, r.timeout, "safety", "check", "--json")
	if outcome.Status != StatusOK {
		return nil, outcome
	}
	if err := validate(safetySchema, out); err != nil {
		return nil, Outcome{Tool: "safety", Status: StatusMalformed, Reason: err.Error()}
	}

	count := vulnerabilityCount(out)
	if count == 0 {
		return nil, outcome
	}

	issue := models.Issue{
		Severity:  models.SeverityHigh,
		Dimension: models.DimSecurity,
		Message:   fmt.Sprintf("Found %d vulnerable dependencies", count),
		Metrics:   map[string]any{"kind": "dependency", "count": count},
		Automated: true,
		Source:    "safety",
	}
	return []models.Issue{issue}, outcome
}

// vulnerabilityCount handles both safety output formats: the legacy
// bare array and the newer object with a "vulnerabilities" key.
func vulnerabilityCount(out []byte) int {
	var list []json.RawMessage
	if err := json.Unmarshal(out, &list); err == nil {
		return len(list)
	}

	var wrapped struct {
		Vulnerabilities []json.RawMessage `json:"vulnerabilities"`
	}
	if err := json.Unmarshal(out, &wrapped); err == nil {
		return len(wrapped.Vulnerabilities)
	}
	return 0
}
