// Package patterns implements the data-driven regex and AST detectors for
// performance bottlenecks, security risks, and extractable idioms.
package patterns

import (
	"regexp"
	"strings"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// Rule is one regex-driven detection rule. Exclude, when set, suppresses a
// match whose line also matches it (used where the upstream pattern relied
// on lookahead).
type Rule struct {
	Pattern  *regexp.Regexp
	Exclude  *regexp.Regexp
	Message  string
	Severity models.Severity
	Kind     string
}

// syncOperationRules flag synchronous blocking calls.
var syncOperationRules = []Rule{
	{Pattern: regexp.MustCompile(`time\.sleep\s*\(`), Message: "time.sleep() blocks thread", Severity: models.SeverityMedium, Kind: "sync_operation"},
	{Pattern: regexp.MustCompile(`subprocess\.run\s*\([^)]*\)`), Message: "subprocess.run() blocks execution", Severity: models.SeverityLow, Kind: "sync_operation"},
	{Pattern: regexp.MustCompile(`os\.system\s*\(`), Message: "os.system() blocks and is security risk", Severity: models.SeverityHigh, Kind: "sync_operation"},
	{Pattern: regexp.MustCompile(`urllib\.request\.urlopen\s*\(`), Message: "Synchronous HTTP request", Severity: models.SeverityMedium, Kind: "sync_operation"},
	{Pattern: regexp.MustCompile(`requests\.(get|post|put|delete|patch)\s*\(`), Message: "Synchronous HTTP request", Severity: models.SeverityLow, Kind: "sync_operation"},
	{Pattern: regexp.MustCompile(`input\s*\(`), Message: "input() blocks waiting for user", Severity: models.SeverityLow, Kind: "sync_operation"},
}

// memoryGlobalRules flag module-level collectors that accumulate data.
var memoryGlobalRules = []Rule{
	{Pattern: regexp.MustCompile(`(?m)^[A-Z_]+\s*=\s*\[\]`), Message: "Global list that may accumulate data", Severity: models.SeverityLow, Kind: "memory_risk"},
	{Pattern: regexp.MustCompile(`(?m)^[A-Z_]+\s*=\s*\{\}`), Message: "Global dict that may accumulate data", Severity: models.SeverityLow, Kind: "memory_risk"},
}

// inefficientRules flag avoidable per-call costs.
var inefficientRules = []Rule{
	{Pattern: regexp.MustCompile(`re\.(match|search|findall|sub)\s*\([^,]+,`), Message: "Regex pattern compiled on each call - consider re.compile()", Severity: models.SeverityLow, Kind: "inefficient_regex"},
	{Pattern: regexp.MustCompile(`(?m)\.append\([^)]+\)\s*$.*\n.*\.append\([^)]+\)\s*$`), Message: "Multiple appends - consider extend()", Severity: models.SeverityLow, Kind: "inefficient_list"},
	{Pattern: regexp.MustCompile(`if\s+\w+\s+in\s+\[[^\]]+\]:`), Message: "Membership test on list literal - use set or tuple", Severity: models.SeverityLow, Kind: "inefficient_list"},
}

// matchRules applies a rule table to one file, producing one issue per match.
func matchRules(f *sourcemodel.File, rules []Rule, dim models.Dimension) []models.Issue {
	var issues []models.Issue
	content := string(f.Source)

	for _, rule := range rules {
		for _, loc := range rule.Pattern.FindAllStringIndex(content, -1) {
			line := lineAt(content, loc[0])
			snippet := snippetAt(f.Lines, line)
			if rule.Exclude != nil && rule.Exclude.MatchString(snippet) {
				continue
			}
			issues = append(issues, models.Issue{
				Severity:  rule.Severity,
				Dimension: dim,
				File:      f.RelPath,
				Line:      line,
				Message:   rule.Message,
				Metrics:   map[string]any{"kind": rule.Kind, "code": snippet},
				Automated: true,
				Source:    "static_analysis",
			})
		}
	}

	return issues
}

// FindSyncOperations flags synchronous blocking calls in one file.
func FindSyncOperations(f *sourcemodel.File) []models.Issue {
	return matchRules(f, syncOperationRules, models.DimPerformance)
}

// FindMemoryRisks flags unbounded allocations: list comprehensions over
// unbounded ranges, and module-level collectors.
func FindMemoryRisks(f *sourcemodel.File) []models.Issue {
	issues := comprehensionRisks(f)
	issues = append(issues, matchRules(f, memoryGlobalRules, models.DimPerformance)...)
	return issues
}

// FindInefficientPatterns flags avoidable per-call costs: string
// concatenation inside loops and the regex rule table.
func FindInefficientPatterns(f *sourcemodel.File) []models.Issue {
	issues := loopConcatenation(f)
	issues = append(issues, matchRules(f, inefficientRules, models.DimPerformance)...)
	return issues
}

// lineAt converts a byte offset into a 1-based line number.
func lineAt(content string, offset int) uint32 {
	return uint32(strings.Count(content[:offset], "\n")) + 1
}

// snippetAt returns a trimmed, truncated copy of the given source line.
func snippetAt(lines []string, line uint32) string {
	if int(line) > len(lines) || line == 0 {
		return ""
	}
	s := strings.TrimSpace(lines[line-1])
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
