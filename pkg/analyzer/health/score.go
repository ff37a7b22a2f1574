package health

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/avelaro/vitals/pkg/config"
	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/tools"
)

// expectedTools are the collaborators that raise confidence when present.
// pydeps is listed for parity with the report consumers even though the
// built-in graph analysis replaces it, so confidence tops out at 0.95.
var expectedTools = []string{"radon", "bandit", "pylint", "pydeps"}

// toolTracker records collaborator outcomes across concurrently running
// dimensions.
type toolTracker struct {
	mu     sync.Mutex
	used   []string
	failed []models.ToolFailure
}

func (t *toolTracker) track(o tools.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if o.Status == tools.StatusOK {
		t.used = append(t.used, o.Tool)
		return
	}
	t.failed = append(t.failed, models.ToolFailure{Tool: o.Tool, Reason: o.Reason})
}

func (t *toolTracker) usedTools() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := append([]string(nil), t.used...)
	sort.Strings(out)
	return out
}

func (t *toolTracker) failedTools() []models.ToolFailure {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := append([]models.ToolFailure(nil), t.failed...)
	sort.Slice(out, func(i, j int) bool { return out[i].Tool < out[j].Tool })
	return out
}

// confidence degrades with every failed tool (0.1 each) and every
// expected tool that never contributed (0.05 each), floored at 0.5.
func (t *toolTracker) confidence() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	usedSet := make(map[string]bool, len(t.used))
	for _, tool := range t.used {
		usedSet[tool] = true
	}
	available := 0
	for _, tool := range expectedTools {
		if usedSet[tool] {
			available++
		}
	}

	c := 1.0 - float64(len(t.failed))*0.1 - float64(len(expectedTools)-available)*0.05
	return round2(math.Max(0.5, c))
}

// overallHealth is the weighted sum over the dimensions that were
// analyzed. Weights are not renormalized for partial runs, matching how
// the score is documented to consumers.
func overallHealth(dims map[models.Dimension]*models.DimensionResult, weights map[string]float64) int {
	var sum float64
	for dim, res := range dims {
		if w, ok := weights[string(dim)]; ok {
			sum += float64(res.Score) * w
		}
	}
	return int(math.Round(sum))
}

// priorityActions turns low dimension scores into a ranked remediation
// list, worst score first.
func priorityActions(dims map[models.Dimension]*models.DimensionResult, sc config.ScoringConfig) []models.PriorityAction {
	var actions []models.PriorityAction
	for dim, res := range dims {
		switch {
		case res.Score < sc.HighBelow:
			actions = append(actions, models.PriorityAction{
				Dimension: dim,
				Priority:  "high",
				Score:     res.Score,
				Action:    fmt.Sprintf("Address critical %s issues immediately", dim),
			})
		case res.Score < sc.MedBelow:
			actions = append(actions, models.PriorityAction{
				Dimension: dim,
				Priority:  "medium",
				Score:     res.Score,
				Action:    fmt.Sprintf("Improve %s in next iteration", dim),
			})
		}
	}

	sort.Slice(actions, func(i, j int) bool {
		if actions[i].Score != actions[j].Score {
			return actions[i].Score < actions[j].Score
		}
		return actions[i].Dimension < actions[j].Dimension
	})

	if sc.MaxActions > 0 && len(actions) > sc.MaxActions {
		actions = actions[:sc.MaxActions]
	}
	return actions
}

// severityPenalty sums per-issue deductions. Critical counts as high.
func severityPenalty(issues []models.Issue, high, medium, low int) int {
	h, m, l := countSeverities(issues)
	return h*high + m*medium + l*low
}

func countSeverities(issues []models.Issue) (high, medium, low int) {
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityCritical, models.SeverityHigh:
			high++
		case models.SeverityMedium:
			medium++
		case models.SeverityLow:
			low++
		}
	}
	return high, medium, low
}

// clampScore bounds a raw score to [floor, 100].
func clampScore(raw, floor int) int {
	if raw < floor {
		return floor
	}
	if raw > 100 {
		return 100
	}
	return raw
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
