package health

import (
	"context"
	"fmt"

	"github.com/avelaro/vitals/pkg/analyzer/complexity"
	"github.com/avelaro/vitals/pkg/analyzer/deadcode"
	"github.com/avelaro/vitals/pkg/analyzer/duplicates"
	"github.com/avelaro/vitals/pkg/analyzer/graph"
	"github.com/avelaro/vitals/pkg/analyzer/patterns"
	"github.com/avelaro/vitals/pkg/analyzer/solid"
	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
	"github.com/avelaro/vitals/pkg/tools"
)

// pythonTools reports whether the external collaborators should run. They
// are all Python ecosystem tools, so a snapshot with no Python files skips
// them instead of recording four spurious failures.
func (a *Analyzer) pythonTools(snap *sourcemodel.Snapshot) bool {
	return a.runner != nil && snap.HasLanguage(parser.LangPython)
}

// maintainability scores average cyclomatic complexity in bands. Radon
// supplies the numbers when installed; the internal AST analyzer is the
// fallback and covers every supported language, not just Python.
func (a *Analyzer) maintainability(ctx context.Context, root string, snap *sourcemodel.Snapshot, tr *toolTracker) *models.DimensionResult {
	res := &models.DimensionResult{
		Dimension: models.DimMaintainability,
		Metrics:   make(map[string]float64),
	}

	var avg float64
	radonUsed := false

	if a.pythonTools(snap) {
		cc, outcome := a.runner.RadonCC(ctx, root)
		tr.track(outcome)
		if outcome.Status == tools.StatusOK {
			radonUsed = true
			avg = cc.Average
			res.Issues = cc.HighComplexity
			res.Metrics["high_complexity_functions"] = float64(len(cc.HighComplexity))
		}
		if mi, ok := a.runner.RadonMI(ctx, root); ok {
			res.Metrics["maintainability_index"] = round2(mi)
		}
	}

	if !radonUsed {
		analysis := complexity.Analyze(snap)
		avg = analysis.Average
		for _, fr := range analysis.HighComplexity {
			res.Issues = append(res.Issues, models.Issue{
				Severity:  models.SeverityMedium,
				Dimension: models.DimMaintainability,
				File:      fr.File,
				Line:      fr.Line,
				Message:   fmt.Sprintf("High complexity: %s (complexity: %d)", fr.Function, fr.Cyclomatic),
				Metrics:   map[string]any{"complexity": fr.Cyclomatic},
				Automated: true,
				Source:    "internal",
			})
		}
		res.Metrics["high_complexity_functions"] = float64(len(analysis.HighComplexity))
		res.Metrics["max_complexity"] = float64(analysis.Max)
		res.Metrics["complexity_std_dev"] = round2(analysis.StdDev)
	}

	res.Metrics["average_complexity"] = round2(avg)

	switch {
	case avg <= 5:
		res.Score = 100
	case avg <= 10:
		res.Score = 80
	case avg <= 15:
		res.Score = 60
	default:
		res.Score = 40
	}
	return res
}

// performance collects algorithmic and blocking-call findings and deducts
// 8/3/1 points per high/medium/low issue.
func (a *Analyzer) performance(snap *sourcemodel.Snapshot) *models.DimensionResult {
	res := &models.DimensionResult{
		Dimension: models.DimPerformance,
		Metrics:   make(map[string]float64),
	}

	var nested, syncOps, memory, inefficient int
	for _, f := range snap.Files {
		found := patterns.FindNestedLoops(f)
		nested += len(found)
		res.Issues = append(res.Issues, found...)

		found = patterns.FindSyncOperations(f)
		syncOps += len(found)
		res.Issues = append(res.Issues, found...)

		found = patterns.FindMemoryRisks(f)
		memory += len(found)
		res.Issues = append(res.Issues, found...)

		found = patterns.FindInefficientPatterns(f)
		inefficient += len(found)
		res.Issues = append(res.Issues, found...)
	}

	res.Metrics["nested_loops"] = float64(nested)
	res.Metrics["sync_operations"] = float64(syncOps)
	res.Metrics["memory_risks"] = float64(memory)
	res.Metrics["inefficient_patterns"] = float64(inefficient)

	penalty := severityPenalty(res.Issues, 8, 3, 1)
	res.Score = clampScore(100-penalty, a.cfg.Scoring.MinScore)
	return res
}

// security merges bandit findings, the always-on static patterns, and the
// dependency audit. Penalties are steep: 15 points per high finding.
func (a *Analyzer) security(ctx context.Context, root string, snap *sourcemodel.Snapshot, tr *toolTracker) *models.DimensionResult {
	res := &models.DimensionResult{
		Dimension: models.DimSecurity,
		Metrics:   make(map[string]float64),
	}

	if a.pythonTools(snap) {
		issues, outcome := a.runner.Bandit(ctx, root)
		tr.track(outcome)
		if outcome.Status == tools.StatusOK {
			res.Issues = append(res.Issues, issues...)
			res.Metrics["bandit_issues"] = float64(len(issues))
		}
	}

	// Static patterns always run, with or without bandit
	staticCount := 0
	for _, f := range filesExcludingTests(snap) {
		found := patterns.FindSecurityPatterns(f)
		staticCount += len(found)
		res.Issues = append(res.Issues, found...)
	}
	res.Metrics["static_pattern_issues"] = float64(staticCount)

	if a.pythonTools(snap) {
		// Safety is optional enough that a missing binary is not tracked
		issues, outcome := a.runner.Safety(ctx, root)
		if outcome.Status == tools.StatusOK && len(issues) > 0 {
			res.Issues = append(res.Issues, issues...)
			if count, ok := issues[0].Metrics["count"].(int); ok {
				res.Metrics["dependency_issues"] = float64(count)
			}
		}
	}

	high, medium, low := countSeverities(res.Issues)
	res.Metrics["high_severity"] = float64(high)
	res.Metrics["medium_severity"] = float64(medium)
	res.Metrics["low_severity"] = float64(low)

	penalty := high*15 + medium*5 + low
	res.Score = clampScore(100-penalty, a.cfg.Scoring.MinScore)
	return res
}

// scalability combines circular dependency detection with the SOLID
// checks. Cycles are the heaviest penalty at 10 points each.
func (a *Analyzer) scalability(snap *sourcemodel.Snapshot) *models.DimensionResult {
	res := &models.DimensionResult{
		Dimension: models.DimScalability,
		Metrics:   make(map[string]float64),
	}

	g := graph.Build(snap)
	cycles := graph.DetectCycles(g)
	res.Issues = append(res.Issues, graph.CycleIssues(cycles)...)

	th := a.cfg.Thresholds
	det := solid.New(snap, solid.WithThresholds(solid.Thresholds{
		GodClassMethods:   th.GodClassMethods,
		GodClassLines:     th.GodClassLines,
		TightCoupling:     th.TightCoupling,
		OCPChainLength:    th.OCPChainLength,
		DIPInstantiations: th.DIPInstantiations,
	}))

	var god, coupling, ocp, dip int
	for _, f := range snap.Files {
		found := det.GodClasses(f)
		god += len(found)
		res.Issues = append(res.Issues, found...)

		found = det.TightCoupling(f)
		coupling += len(found)
		res.Issues = append(res.Issues, found...)

		found = det.OCPViolations(f)
		ocp += len(found)
		res.Issues = append(res.Issues, found...)

		found = det.DIPViolations(f)
		dip += len(found)
		res.Issues = append(res.Issues, found...)
	}

	res.Metrics["circular_deps"] = float64(len(cycles))
	res.Metrics["god_classes"] = float64(god)
	res.Metrics["tight_coupling"] = float64(coupling)
	res.Metrics["ocp_violations"] = float64(ocp)
	res.Metrics["dip_violations"] = float64(dip)

	penalty := len(cycles)*10 + god*5 + coupling*3 + (ocp+dip)*2
	res.Score = clampScore(100-penalty, a.cfg.Scoring.MinScore)
	return res
}

// reusability penalizes duplication and dead code, with a small bonus for
// each extractable pattern the analysis identifies.
func (a *Analyzer) reusability(ctx context.Context, root string, snap *sourcemodel.Snapshot, tr *toolTracker) *models.DimensionResult {
	res := &models.DimensionResult{
		Dimension: models.DimReusability,
		Metrics:   make(map[string]float64),
	}

	reuseFiles := filesExcludingTests(snap)
	th := a.cfg.Thresholds

	var dupIssues []models.Issue
	pylintUsed := false
	if a.pythonTools(snap) {
		issues, outcome := a.runner.PylintSimilarities(ctx, root)
		tr.track(outcome)
		if outcome.Status == tools.StatusOK {
			dupIssues = issues
			pylintUsed = true
		}
	}
	if !pylintUsed {
		dups := duplicates.Detect(reuseFiles, duplicates.Options{
			Window:   th.DuplicateWindow,
			MinChars: th.DuplicateMinChars,
			Cap:      th.DuplicateCap,
		})
		dupIssues = duplicates.Issues(dups)
	}
	res.Issues = append(res.Issues, dupIssues...)

	dead := deadcode.Analyze(&sourcemodel.Snapshot{Root: snap.Root, Files: reuseFiles}, th.DeadCodeCap)
	res.Issues = append(res.Issues, dead...)

	extractable := patterns.FindExtractablePatterns(reuseFiles, th.ExtractableMinUses)
	res.Issues = append(res.Issues, patterns.ExtractableIssues(extractable)...)

	res.Metrics["duplicate_blocks"] = float64(len(dupIssues))
	res.Metrics["dead_code_items"] = float64(len(dead))
	res.Metrics["extractable_patterns"] = float64(len(extractable))
	if len(dupIssues) > 0 {
		res.Metrics["duplication_percentage"] = float64(min(len(dupIssues)*2, 50))
	}

	bonus := min(len(extractable)*2, 10)
	penalty := len(dupIssues)*3 + len(dead) - bonus
	res.Score = clampScore(100-penalty, a.cfg.Scoring.MinScore)
	return res
}
