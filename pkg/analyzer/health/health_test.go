package health

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelaro/vitals/pkg/config"
	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/tools"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

// newInternal returns an analyzer with external tools disabled so tests
// exercise only the built-in detectors.
func newInternal() *Analyzer {
	return New(config.DefaultConfig(), WithRunner(nil))
}

func TestAnalyzeFullReport(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"app.py": "import os\nos.system(\"ls\")\n",
		"a.py":   "import b\n",
		"b.py":   "import a\n",
	})

	report, err := newInternal().Analyze(context.Background(), dir, nil, nil)
	require.NoError(t, err)

	require.Len(t, report.Dimensions, 5)
	assert.Equal(t, 3, report.Meta.Coverage.FilesAnalyzed)
	// No tools ran: 4 expected tools unavailable at 0.05 each
	assert.Equal(t, 0.8, report.Meta.Confidence)

	maint := report.Dimensions[models.DimMaintainability]
	assert.Contains(t, maint.Metrics, "complexity_std_dev",
		"internal fallback should report complexity spread")

	// Overall health must match the weighted sum of the returned scores
	var want float64
	for dim, res := range report.Dimensions {
		want += float64(res.Score) * config.DefaultConfig().Scoring.Weights[string(dim)]
	}
	assert.Equal(t, int(math.Round(want)), report.OverallHealth)
}

func TestAnalyzeSecurityScore(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"app.py": "import os\nos.system(\"ls\")\n",
	})

	report, err := newInternal().Analyze(context.Background(), dir,
		[]models.Dimension{models.DimSecurity}, nil)
	require.NoError(t, err)

	sec := report.Dimensions[models.DimSecurity]
	require.NotNil(t, sec)
	// One high-severity static finding: 100 - 15
	assert.Equal(t, 85, sec.Score)
	assert.Equal(t, 1.0, sec.Metrics["static_pattern_issues"])
	assert.Len(t, report.Dimensions, 1, "only the requested dimension should run")
}

func TestAnalyzeCircularDependencyPenalty(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.py": "import b\n",
		"b.py": "import a\n",
	})

	report, err := newInternal().Analyze(context.Background(), dir,
		[]models.Dimension{models.DimScalability}, nil)
	require.NoError(t, err)

	scal := report.Dimensions[models.DimScalability]
	require.Equal(t, 1.0, scal.Metrics["circular_deps"])
	assert.Equal(t, 90, scal.Score, "one cycle costs 10 points")
}

func TestAnalyzeInvalidPath(t *testing.T) {
	_, err := newInternal().Analyze(context.Background(), "/nonexistent/path/xyz", nil, nil)
	assert.Error(t, err, "missing directory must fail")

	f := filepath.Join(t.TempDir(), "file.py")
	require.NoError(t, os.WriteFile(f, []byte("x = 1\n"), 0o644))
	_, err = newInternal().Analyze(context.Background(), f, nil, nil)
	assert.Error(t, err, "a file path must fail")
}

func TestExternalToolsSkippedWithoutPython(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})

	// Tools enabled, but the project has no Python files, so no external
	// tool is invoked and none is recorded as used or failed.
	report, err := New(config.DefaultConfig()).Analyze(context.Background(), dir, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, report.Meta.ToolsUsed)
	assert.Empty(t, report.Meta.ToolsFailed)
	assert.Equal(t, 0.8, report.Meta.Confidence)
}

func TestPriorityActions(t *testing.T) {
	dims := map[models.Dimension]*models.DimensionResult{
		models.DimSecurity:        {Dimension: models.DimSecurity, Score: 50},
		models.DimPerformance:     {Dimension: models.DimPerformance, Score: 70},
		models.DimMaintainability: {Dimension: models.DimMaintainability, Score: 90},
	}

	actions := priorityActions(dims, config.DefaultConfig().Scoring)
	require.Len(t, actions, 2)
	assert.Equal(t, models.DimSecurity, actions[0].Dimension)
	assert.Equal(t, "high", actions[0].Priority)
	assert.Equal(t, "Address critical security issues immediately", actions[0].Action)
	assert.Equal(t, "medium", actions[1].Priority)
	assert.Equal(t, "Improve performance in next iteration", actions[1].Action)
}

func TestOverallHealthWeights(t *testing.T) {
	dims := map[models.Dimension]*models.DimensionResult{
		models.DimMaintainability: {Score: 100},
		models.DimPerformance:     {Score: 100},
		models.DimSecurity:        {Score: 100},
		models.DimScalability:     {Score: 100},
		models.DimReusability:     {Score: 100},
	}
	assert.Equal(t, 100, overallHealth(dims, config.DefaultConfig().Scoring.Weights))

	partial := map[models.Dimension]*models.DimensionResult{
		models.DimSecurity: {Score: 80},
	}
	// 80 * 0.25, weights are not renormalized
	assert.Equal(t, 20, overallHealth(partial, config.DefaultConfig().Scoring.Weights))
}

func TestConfidence(t *testing.T) {
	tr := &toolTracker{}
	tr.track(tools.Outcome{Tool: "radon", Status: tools.StatusOK})
	tr.track(tools.Outcome{Tool: "bandit", Status: tools.StatusOK})
	tr.track(tools.Outcome{Tool: "pylint", Status: tools.StatusFailed, Reason: "no output"})

	// 1.0 - 0.1 (one failure) - 0.05*2 (pylint and pydeps unavailable)
	assert.Equal(t, 0.8, tr.confidence())
}

func TestConfidenceFloor(t *testing.T) {
	tr := &toolTracker{}
	for _, tool := range []string{"radon", "bandit", "pylint", "a", "b", "c"} {
		tr.track(tools.Outcome{Tool: tool, Status: tools.StatusFailed, Reason: "x"})
	}
	assert.Equal(t, 0.5, tr.confidence())
}

func TestSeverityPenalty(t *testing.T) {
	issues := []models.Issue{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityMedium},
		{Severity: models.SeverityLow},
	}
	// critical counts as high: 2*15 + 1*5 + 1*1
	assert.Equal(t, 36, severityPenalty(issues, 15, 5, 1))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 20, clampScore(-40, 20))
	assert.Equal(t, 100, clampScore(110, 20))
	assert.Equal(t, 73, clampScore(73, 20))
}
