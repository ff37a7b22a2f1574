package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avelaro/vitals/pkg/models"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"text", FormatText},
		{"", FormatText},
		{"bogus", FormatText},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func sampleReport() *models.Report {
	return &models.Report{
		Project:       "/tmp/demo",
		OverallHealth: 72,
		Meta: models.Meta{
			AnalyzerVersion: models.Version,
			ToolsUsed:       []string{"radon"},
			ToolsFailed:     []models.ToolFailure{{Tool: "bandit", Reason: "not installed"}},
			Coverage:        models.Coverage{FilesAnalyzed: 12, FilesSkipped: 1},
			Confidence:      0.85,
		},
		Dimensions: map[models.Dimension]*models.DimensionResult{
			models.DimSecurity: {
				Dimension: models.DimSecurity,
				Score:     55,
				Issues: []models.Issue{
					{
						Severity:  models.SeverityHigh,
						Dimension: models.DimSecurity,
						File:      "app.py",
						Line:      10,
						Message:   "os.system() is vulnerable to command injection - use subprocess",
						Source:    "static_analysis",
					},
					{
						Severity:  models.SeverityLow,
						Dimension: models.DimSecurity,
						File:      "util.py",
						Line:      3,
						Message:   "Using random module for security purposes - use secrets",
						Source:    "static_analysis",
					},
				},
			},
			models.DimMaintainability: {
				Dimension: models.DimMaintainability,
				Score:     100,
			},
		},
		PriorityActions: []models.PriorityAction{
			{Dimension: models.DimSecurity, Priority: "high", Score: 55,
				Action: "Address critical security issues immediately"},
		},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	h := &HealthReport{Report: sampleReport()}
	if err := h.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"Overall Health: 72/100",
		"Priority Actions",
		"Address critical security issues immediately",
		"app.py:10",
		"Tools used: radon",
		"bandit (not installed)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q\n%s", want, out)
		}
	}

	// maintainability before security, canonical order
	if strings.Index(out, "maintainability") > strings.Index(out, "security") {
		t.Error("dimensions not in canonical order")
	}
}

func TestRenderTextSortsIssuesBySeverity(t *testing.T) {
	var buf bytes.Buffer
	h := &HealthReport{Report: sampleReport()}
	if err := h.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if strings.Index(out, "command injection") > strings.Index(out, "random module") {
		t.Error("high severity issue should be listed before low")
	}
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	h := &HealthReport{Report: sampleReport()}
	if err := h.RenderMarkdown(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Health Report: /tmp/demo",
		"**Overall Health: 72/100**",
		"| Dimension | Score |",
		"## Priority Actions",
		"## Security (2 issues)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q\n%s", want, out)
		}
	}
}

func TestFormatterJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	f, err := NewFormatter(FormatJSON, path, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Output(&HealthReport{Report: sampleReport()}); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded models.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.OverallHealth != 72 {
		t.Errorf("overall = %d, want 72", decoded.OverallHealth)
	}
	if decoded.Dimensions[models.DimSecurity].Score != 55 {
		t.Errorf("security score = %d, want 55", decoded.Dimensions[models.DimSecurity].Score)
	}
}

func TestSeverityColorPassthrough(t *testing.T) {
	if got := SeverityColor("unknown", "plain"); got != "plain" {
		t.Errorf("unknown severity should be unstyled, got %q", got)
	}
}
