package complexity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/avelaro/vitals/pkg/sourcemodel"
)

func buildSnapshot(t *testing.T, files map[string]string) *sourcemodel.Snapshot {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return sourcemodel.Build(context.Background(), dir, paths, nil)
}

func TestAnalyzeSimpleFunction(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"simple.py": `
def flat():
    return 1
`})

	a := Analyze(snap)
	if len(a.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(a.Functions))
	}
	if a.Functions[0].Cyclomatic != 1 {
		t.Errorf("cyclomatic = %d, want 1 for a branchless function", a.Functions[0].Cyclomatic)
	}
}

func TestAnalyzeBranchyFunction(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"branchy.py": `
def route(kind):
    if kind == "a":
        return 1
    elif kind == "b":
        return 2
    for i in range(10):
        if i > 5:
            break
    return 0
`})

	a := Analyze(snap)
	if len(a.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(a.Functions))
	}
	// 1 base + if + elif + for + if
	if a.Functions[0].Cyclomatic != 5 {
		t.Errorf("cyclomatic = %d, want 5", a.Functions[0].Cyclomatic)
	}
}

func TestAnalyzeAverage(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"pair.py": `
def flat():
    return 1

def branchy(x):
    if x:
        return 2
    return 3
`})

	a := Analyze(snap)
	if len(a.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(a.Functions))
	}
	if a.Average != 1.5 {
		t.Errorf("average = %f, want 1.5", a.Average)
	}
	if a.Max != 2 {
		t.Errorf("max = %d, want 2", a.Max)
	}
}

func TestHighComplexityCollected(t *testing.T) {
	content := "def gnarly(x):\n"
	for i := range 11 {
		if i == 0 {
			content += "    if x == 0:\n        pass\n"
		} else {
			content += "    if x > 0:\n        pass\n"
		}
	}
	snap := buildSnapshot(t, map[string]string{"gnarly.py": content})

	a := Analyze(snap)
	if len(a.HighComplexity) != 1 {
		t.Errorf("expected 1 high-complexity function, got %d (cyclomatic %d)",
			len(a.HighComplexity), a.Functions[0].Cyclomatic)
	}
}
