package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/avelaro/vitals/pkg/models"
)

// maxListedIssues bounds the per-dimension issue listing in the human
// formats. The full list is always present in JSON and TOON.
const maxListedIssues = 10

// HealthReport renders a models.Report in every supported format.
type HealthReport struct {
	Report *models.Report
}

func (h *HealthReport) RenderData() any {
	return h.Report
}

func (h *HealthReport) RenderText(w io.Writer, colored bool) error {
	title := fmt.Sprintf("Health Report: %s", h.Report.Project)
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	overall := fmt.Sprintf("Overall Health: %d/100", h.Report.OverallHealth)
	if colored {
		fmt.Fprintln(w, ScoreColor(h.Report.OverallHealth, overall))
	} else {
		fmt.Fprintln(w, overall)
	}
	fmt.Fprintf(w, "Confidence: %.2f  Files: %d analyzed, %d skipped\n\n",
		h.Report.Meta.Confidence,
		h.Report.Meta.Coverage.FilesAnalyzed,
		h.Report.Meta.Coverage.FilesSkipped)

	if err := h.dimensionTable().RenderText(w, colored); err != nil {
		return err
	}

	if len(h.Report.PriorityActions) > 0 {
		if colored {
			color.New(color.Bold).Fprintln(w, "Priority Actions")
		} else {
			fmt.Fprintln(w, "Priority Actions")
		}
		for _, action := range h.Report.PriorityActions {
			label := fmt.Sprintf("[%s]", strings.ToUpper(action.Priority))
			if colored {
				label = SeverityColor(action.Priority, label)
			}
			fmt.Fprintf(w, "  %s %s (score: %d)\n", label, action.Action, action.Score)
		}
		fmt.Fprintln(w)
	}

	for _, dim := range orderedDimensions(h.Report) {
		res := h.Report.Dimensions[dim]
		if len(res.Issues) == 0 {
			continue
		}
		heading := fmt.Sprintf("%s (%d issues)", titleCase(string(dim)), len(res.Issues))
		if colored {
			color.New(color.Bold).Fprintln(w, heading)
		} else {
			fmt.Fprintln(w, heading)
		}
		for _, issue := range topIssues(res.Issues, maxListedIssues) {
			sev := string(issue.Severity)
			if colored {
				sev = SeverityColor(sev, sev)
			}
			fmt.Fprintf(w, "  %s %s %s\n", sev, location(issue), issue.Message)
		}
		if len(res.Issues) > maxListedIssues {
			fmt.Fprintf(w, "  ... and %d more\n", len(res.Issues)-maxListedIssues)
		}
		fmt.Fprintln(w)
	}

	h.renderToolsLine(w)
	return nil
}

func (h *HealthReport) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Health Report: %s\n\n", h.Report.Project)
	fmt.Fprintf(w, "**Overall Health: %d/100** (confidence %.2f, %d files analyzed, %d skipped)\n\n",
		h.Report.OverallHealth,
		h.Report.Meta.Confidence,
		h.Report.Meta.Coverage.FilesAnalyzed,
		h.Report.Meta.Coverage.FilesSkipped)

	if err := h.dimensionTable().RenderMarkdown(w); err != nil {
		return err
	}

	if len(h.Report.PriorityActions) > 0 {
		fmt.Fprintln(w, "## Priority Actions")
		fmt.Fprintln(w)
		for _, action := range h.Report.PriorityActions {
			fmt.Fprintf(w, "- **%s**: %s (score: %d)\n",
				strings.ToUpper(action.Priority), action.Action, action.Score)
		}
		fmt.Fprintln(w)
	}

	for _, dim := range orderedDimensions(h.Report) {
		res := h.Report.Dimensions[dim]
		if len(res.Issues) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s (%d issues)\n\n", titleCase(string(dim)), len(res.Issues))
		for _, issue := range topIssues(res.Issues, maxListedIssues) {
			fmt.Fprintf(w, "- `%s` %s %s\n", issue.Severity, location(issue), issue.Message)
		}
		if len(res.Issues) > maxListedIssues {
			fmt.Fprintf(w, "- ... and %d more\n", len(res.Issues)-maxListedIssues)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func (h *HealthReport) dimensionTable() *Table {
	rows := make([][]string, 0, len(h.Report.Dimensions))
	for _, dim := range orderedDimensions(h.Report) {
		res := h.Report.Dimensions[dim]
		counts := res.CountBySeverity()
		rows = append(rows, []string{
			string(dim),
			strconv.Itoa(res.Score),
			strconv.Itoa(len(res.Issues)),
			strconv.Itoa(counts[models.SeverityCritical] + counts[models.SeverityHigh]),
			strconv.Itoa(counts[models.SeverityMedium]),
			strconv.Itoa(counts[models.SeverityLow]),
		})
	}
	return &Table{
		Title:   "Dimensions",
		Headers: []string{"Dimension", "Score", "Issues", "High", "Medium", "Low"},
		Rows:    rows,
	}
}

func (h *HealthReport) renderToolsLine(w io.Writer) {
	if len(h.Report.Meta.ToolsUsed) > 0 {
		fmt.Fprintf(w, "Tools used: %s\n", strings.Join(h.Report.Meta.ToolsUsed, ", "))
	}
	if len(h.Report.Meta.ToolsFailed) > 0 {
		parts := make([]string, len(h.Report.Meta.ToolsFailed))
		for i, f := range h.Report.Meta.ToolsFailed {
			parts[i] = fmt.Sprintf("%s (%s)", f.Tool, f.Reason)
		}
		fmt.Fprintf(w, "Tools unavailable: %s\n", strings.Join(parts, ", "))
	}
}

// orderedDimensions yields the report's dimensions in canonical order.
func orderedDimensions(r *models.Report) []models.Dimension {
	var dims []models.Dimension
	for _, dim := range models.AllDimensions() {
		if _, ok := r.Dimensions[dim]; ok {
			dims = append(dims, dim)
		}
	}
	return dims
}

// topIssues returns up to n issues, most severe first.
func topIssues(issues []models.Issue, n int) []models.Issue {
	sorted := append([]models.Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func location(issue models.Issue) string {
	if issue.File == "" {
		return "-"
	}
	if issue.Line == 0 {
		return issue.File
	}
	return fmt.Sprintf("%s:%d", issue.File, issue.Line)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
