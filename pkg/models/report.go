// Package models defines the data types shared by all analyzers and the
// report assembly layer.
package models

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
)

// Version is the analyzer version embedded in report metadata.
const Version = "1.1.0"

// Severity classifies how serious an issue is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns a sortable rank, lower is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// ParseSeverity normalizes tool output ("HIGH", "Medium", ...) to a Severity.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityLow
	}
}

// Dimension is one of the five analysis axes.
type Dimension string

const (
	DimMaintainability Dimension = "maintainability"
	DimPerformance     Dimension = "performance"
	DimSecurity        Dimension = "security"
	DimScalability     Dimension = "scalability"
	DimReusability     Dimension = "reusability"
)

// AllDimensions returns every dimension in canonical order.
func AllDimensions() []Dimension {
	return []Dimension{
		DimMaintainability,
		DimPerformance,
		DimSecurity,
		DimScalability,
		DimReusability,
	}
}

// ParseDimensions parses a comma-separated dimension list. The literal "all"
// (or an empty string) selects every dimension. Unknown names are an error so
// a typo fails before any analysis starts.
func ParseDimensions(s string) ([]Dimension, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return AllDimensions(), nil
	}

	known := make(map[Dimension]bool, 5)
	for _, d := range AllDimensions() {
		known[d] = true
	}

	var dims []Dimension
	seen := make(map[Dimension]bool)
	for _, part := range strings.Split(s, ",") {
		d := Dimension(strings.ToLower(strings.TrimSpace(part)))
		if !known[d] {
			return nil, fmt.Errorf("unknown dimension %q", part)
		}
		if !seen[d] {
			seen[d] = true
			dims = append(dims, d)
		}
	}
	return dims, nil
}

// Issue is a single finding produced by an internal detector or normalized
// from an external tool. Every issue belongs to exactly one dimension.
type Issue struct {
	Severity  Severity       `json:"severity"`
	Dimension Dimension      `json:"dimension"`
	File      string         `json:"file,omitempty"`
	Line      uint32         `json:"line,omitempty"`
	Message   string         `json:"message"`
	Metrics   map[string]any `json:"metrics,omitempty"`
	Automated bool           `json:"automated"`
	Source    string         `json:"source"`
}

// Fingerprint returns a stable BLAKE3-derived identifier for deduplication.
func (i Issue) Fingerprint() string {
	data := fmt.Sprintf("%s:%s:%s:%d:%s", i.Dimension, i.Source, i.File, i.Line, i.Message)
	sum := blake3.Sum256([]byte(data))
	return hex.EncodeToString(sum[:8])
}

// MarshalJSON emits the issue with its fingerprint so consumers can track
// findings across runs without re-deriving identity from the fields.
func (i Issue) MarshalJSON() ([]byte, error) {
	type plain Issue
	return json.Marshal(struct {
		plain
		Fingerprint string `json:"fingerprint"`
	}{plain(i), i.Fingerprint()})
}

// DimensionResult holds the outcome for one dimension.
type DimensionResult struct {
	Dimension Dimension          `json:"dimension"`
	Score     int                `json:"score"`
	Issues    []Issue            `json:"issues"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// CountBySeverity tallies issues per severity level.
func (r *DimensionResult) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, is := range r.Issues {
		counts[is.Severity]++
	}
	return counts
}

// SortIssues orders issues deterministically: file, line, then message.
// Analyzers that merge parallel per-file results call this before returning
// so report output is reproducible regardless of worker scheduling.
func (r *DimensionResult) SortIssues() {
	sort.SliceStable(r.Issues, func(a, b int) bool {
		ia, ib := r.Issues[a], r.Issues[b]
		if ia.File != ib.File {
			return ia.File < ib.File
		}
		if ia.Line != ib.Line {
			return ia.Line < ib.Line
		}
		return ia.Message < ib.Message
	})
}

// PriorityAction is a remediation item derived from a low dimension score.
type PriorityAction struct {
	Dimension Dimension `json:"dimension"`
	Priority  string    `json:"priority"`
	Score     int       `json:"score"`
	Action    string    `json:"action"`
}

// ToolFailure records a failed collaborator and why.
type ToolFailure struct {
	Tool   string `json:"tool"`
	Reason string `json:"reason"`
}

// Coverage counts how many files entered and were dropped from analysis.
type Coverage struct {
	FilesAnalyzed int `json:"files_analyzed"`
	FilesSkipped  int `json:"files_skipped"`
}

// Meta carries run-level metadata: tool availability, coverage, confidence.
type Meta struct {
	AnalyzerVersion string        `json:"analyzer_version"`
	ToolsUsed       []string      `json:"tools_used"`
	ToolsFailed     []ToolFailure `json:"tools_failed"`
	Coverage        Coverage      `json:"coverage"`
	Confidence      float64       `json:"confidence"`
}

// Report is the complete analysis output for one run.
type Report struct {
	Meta            Meta                          `json:"meta"`
	Project         string                        `json:"project"`
	Dimensions      map[Dimension]*DimensionResult `json:"dimensions"`
	OverallHealth   int                           `json:"overall_health"`
	PriorityActions []PriorityAction              `json:"priority_actions"`
}
