package graph

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/avelaro/vitals/pkg/models"
)

// DetectCycles finds circular dependencies with a depth-first search over
// the import graph. A recursion stack identifies back edges; a global
// visited set guarantees each module starts at most one search, so a given
// cycle is reported once. Modules are visited in sorted order for
// deterministic output.
func DetectCycles(g *models.ModuleGraph) []models.Cycle {
	modules := g.Modules()
	sort.Strings(modules)

	ids := make(map[string]uint32, len(modules))
	for i, m := range modules {
		ids[m] = uint32(i)
	}

	visited := roaring.New()
	var cycles []models.Cycle

	var dfs func(module string, stack map[string]bool, trail []string) []string
	dfs = func(module string, stack map[string]bool, trail []string) []string {
		if stack[module] {
			// Back edge: the cycle is the trail from the first occurrence.
			for i, m := range trail {
				if m == module {
					return trail[i:]
				}
			}
			return trail
		}
		if visited.Contains(ids[module]) {
			return nil
		}

		visited.Add(ids[module])
		stack[module] = true
		trail = append(trail, module)

		for _, imported := range g.Edges[module] {
			if _, internal := g.Edges[imported]; !internal {
				continue
			}
			branch := make([]string, len(trail))
			copy(branch, trail)
			if cycle := dfs(imported, stack, branch); cycle != nil {
				return cycle
			}
		}

		delete(stack, module)
		return nil
	}

	for _, module := range modules {
		if visited.Contains(ids[module]) {
			continue
		}
		if cycle := dfs(module, make(map[string]bool), nil); cycle != nil {
			members := make([]string, len(cycle))
			copy(members, cycle)
			cycles = append(cycles, models.Cycle{Members: members})
		}
	}

	return cycles
}

// CycleIssues converts detected cycles into scalability issues.
func CycleIssues(cycles []models.Cycle) []models.Issue {
	issues := make([]models.Issue, 0, len(cycles))
	for _, c := range cycles {
		issues = append(issues, models.Issue{
			Severity:  models.SeverityHigh,
			Dimension: models.DimScalability,
			Message:   "Circular dependency: " + c.String(),
			Automated: true,
			Source:    "import-graph",
			Metrics:   map[string]any{"cycle_length": len(c.Members)},
		})
	}
	return issues
}
