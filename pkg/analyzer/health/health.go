// Package health orchestrates the multi-dimensional analysis: it scans a
// project, builds one parsed snapshot, fans the requested dimensions out
// to the detectors, and assembles the final report with an overall health
// score and prioritized actions.
package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"github.com/avelaro/vitals/internal/fileproc"
	"github.com/avelaro/vitals/pkg/config"
	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/scanner"
	"github.com/avelaro/vitals/pkg/sourcemodel"
	"github.com/avelaro/vitals/pkg/tools"
)

// maxFileSize skips generated or vendored monsters.
const maxFileSize = 1 << 20

// Analyzer runs the full multi-dimensional analysis.
type Analyzer struct {
	cfg    *config.Config
	runner *tools.Runner
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithRunner overrides the external tool runner. Passing nil disables
// external tools entirely; every dimension falls back to the internal
// detectors.
func WithRunner(r *tools.Runner) Option {
	return func(a *Analyzer) {
		a.runner = r
	}
}

// New creates an analyzer. External tools are enabled per configuration.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Analyzer{cfg: cfg}
	if cfg.Tools.Enabled {
		a.runner = tools.New(cfg.Tools)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scans root and analyzes the requested dimensions. An empty
// dimension list means all of them. Dimensions run concurrently against
// the shared read-only snapshot.
func (a *Analyzer) Analyze(ctx context.Context, root string, dims []models.Dimension, onProgress fileproc.ProgressFunc) (*models.Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", root)
	}

	if len(dims) == 0 {
		dims = models.AllDimensions()
	}

	files, err := scanner.New(a.cfg).ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	files, sizeSkipped := scanner.FilterBySize(files, maxFileSize)

	snap := sourcemodel.Build(ctx, root, files, onProgress)

	tracker := &toolTracker{}
	results := make(map[models.Dimension]*models.DimensionResult, len(dims))

	var mu sync.Mutex
	var wg conc.WaitGroup
	for _, dim := range dims {
		wg.Go(func() {
			var res *models.DimensionResult
			switch dim {
			case models.DimMaintainability:
				res = a.maintainability(ctx, root, snap, tracker)
			case models.DimPerformance:
				res = a.performance(snap)
			case models.DimSecurity:
				res = a.security(ctx, root, snap, tracker)
			case models.DimScalability:
				res = a.scalability(snap)
			case models.DimReusability:
				res = a.reusability(ctx, root, snap, tracker)
			default:
				return
			}
			res.SortIssues()
			mu.Lock()
			results[dim] = res
			mu.Unlock()
		})
	}
	wg.Wait()

	project := root
	if abs, err := filepath.Abs(root); err == nil {
		project = abs
	}

	report := &models.Report{
		Project:         project,
		Dimensions:      results,
		OverallHealth:   overallHealth(results, a.cfg.Scoring.Weights),
		PriorityActions: priorityActions(results, a.cfg.Scoring),
		Meta: models.Meta{
			AnalyzerVersion: models.Version,
			ToolsUsed:       tracker.usedTools(),
			ToolsFailed:     tracker.failedTools(),
			Coverage: models.Coverage{
				FilesAnalyzed: len(snap.Files),
				FilesSkipped:  snap.Skipped + sizeSkipped,
			},
			Confidence: tracker.confidence(),
		},
	}
	return report, nil
}

// filesExcludingTests drops files whose path mentions tests. Test code is
// expected to duplicate setup and exercise risky APIs, so the security
// and reusability passes skip it.
func filesExcludingTests(snap *sourcemodel.Snapshot) []*sourcemodel.File {
	out := make([]*sourcemodel.File, 0, len(snap.Files))
	for _, f := range snap.Files {
		if strings.Contains(f.RelPath, "test") {
			continue
		}
		out = append(out, f)
	}
	return out
}
