package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/avelaro/vitals/pkg/models"
)

type banditResult struct {
	Filename        string `json:"filename"`
	LineNumber      uint32 `json:"line_number"`
	IssueSeverity   string `json:"issue_severity"`
	IssueConfidence string `json:"issue_confidence"`
	IssueText       string `json:"issue_text"`
	TestID          string `json:"test_id"`
	IssueCWE        struct {
		ID int `json:"id"`
	} `json:"issue_cwe"`
}

type banditOutput struct {
	Results []banditResult `json:"results"`
}

// Bandit runs "bandit -r <path> -f json". Bandit exits non-zero when it
// finds issues, so only empty output counts as failure.
func (r *Runner) Bandit(ctx context.Context, path string) ([]models.Issue, Outcome) {
	out, outcome := r.run(ctx, "", r.slowTimeout, "bandit", "-r", path, "-f", "json")
	if outcome.Status != StatusOK {
		return nil, outcome
	}
	issues, err := parseBandit(out)
	if err != nil {
		return nil, Outcome{Tool: "bandit", Status: StatusMalformed, Reason: err.Error()}
	}
	return issues, outcome
}

func parseBandit(out []byte) ([]models.Issue, error) {
	if err := validate(banditSchema, out); err != nil {
		return nil, err
	}

	var data banditOutput
	if err := json.Unmarshal(out, &data); err != nil {
		return nil, err
	}

	issues := make([]models.Issue, 0, len(data.Results))
	for _, v := range data.Results {
		issues = append(issues, models.Issue{
			Severity:  models.ParseSeverity(v.IssueSeverity),
			Dimension: models.DimSecurity,
			File:      v.Filename,
			Line:      v.LineNumber,
			Message:   v.IssueText,
			Metrics: map[string]any{
				"confidence": strings.ToLower(v.IssueConfidence),
				"test_id":    v.TestID,
				"cwe":        v.IssueCWE.ID,
			},
			Automated: true,
			Source:    "bandit",
		})
	}
	return issues, nil
}
