package solid

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avelaro/vitals/pkg/models"
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

// classWithMethods generates a Python class with n methods.
func classWithMethods(name string, n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "class %s:\n", name)
	for i := range n {
		fmt.Fprintf(&b, "    def method_%d(self):\n        pass\n\n", i)
	}
	return b.String()
}

func TestGodClassBoundary(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"ok.py":  classWithMethods("Compact", 20),
		"big.py": classWithMethods("Sprawling", 21),
	})

	d := New(snap)

	var okFile, bigFile *sourcemodel.File
	for _, f := range snap.Files {
		switch f.Module {
		case "ok":
			okFile = f
		case "big":
			bigFile = f
		}
	}

	if issues := d.GodClasses(okFile); len(issues) != 0 {
		t.Errorf("20 methods should not be flagged, got %v", issues)
	}

	issues := d.GodClasses(bigFile)
	if len(issues) != 1 {
		t.Fatalf("21 methods should be flagged once, got %d", len(issues))
	}
	if issues[0].Severity != models.SeverityMedium {
		t.Errorf("severity = %v, want medium", issues[0].Severity)
	}
	if issues[0].Metrics["method_count"] != 21 {
		t.Errorf("method_count = %v, want 21", issues[0].Metrics["method_count"])
	}
}

func TestTightCoupling(t *testing.T) {
	var ctor strings.Builder
	ctor.WriteString("class Hub:\n    def __init__(self):\n")
	for i := range 6 {
		fmt.Fprintf(&ctor, "        self.dep_%d = Service%d()\n", i, i)
	}

	snap := buildSnapshot(t, map[string]string{"hub.py": ctor.String()})
	d := New(snap)

	issues := d.TightCoupling(snap.Files[0])
	if len(issues) != 1 {
		t.Fatalf("expected 1 coupling issue, got %d", len(issues))
	}
	if issues[0].Metrics["instantiations"] != 6 {
		t.Errorf("instantiations = %v, want 6", issues[0].Metrics["instantiations"])
	}
	// None of the Service types are defined in the snapshot
	if issues[0].Metrics["lexical"] != 6 {
		t.Errorf("lexical = %v, want 6", issues[0].Metrics["lexical"])
	}
}

func TestTightCouplingBelowThreshold(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"svc.py": `
class Service:
    def __init__(self):
        self.db = Database()
        self.cache = Cache()
`})
	d := New(snap)

	if issues := d.TightCoupling(snap.Files[0]); len(issues) != 0 {
		t.Errorf("2 instantiations should not be flagged, got %v", issues)
	}
}

func TestTwoTierClassification(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"db.py": "class Database:\n    pass\n",
		"hub.py": `
class Hub:
    def __init__(self):
        self.a = Database()
        self.b = Database()
        self.c = Database()
        self.d = Mystery()
        self.e = Mystery()
        self.f = Mystery()
`,
	})
	d := New(snap)

	var hub *sourcemodel.File
	for _, f := range snap.Files {
		if f.Module == "hub" {
			hub = f
		}
	}

	issues := d.TightCoupling(hub)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}
	if issues[0].Metrics["resolved"] != 3 || issues[0].Metrics["lexical"] != 3 {
		t.Errorf("resolved/lexical = %v/%v, want 3/3",
			issues[0].Metrics["resolved"], issues[0].Metrics["lexical"])
	}
}

func TestOCPViolations(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"dispatch.py": `
def route(kind):
    if kind == "a":
        return 1
    elif kind == "b":
        return 2
    elif kind == "c":
        return 3
    elif kind == "d":
        return 4
    elif kind == "e":
        return 5
    return 0
`})
	d := New(snap)

	issues := d.OCPViolations(snap.Files[0])
	if len(issues) != 1 {
		t.Fatalf("expected 1 OCP violation, got %d", len(issues))
	}
	if issues[0].Metrics["elif_count"] != 5 {
		t.Errorf("elif_count = %v, want 5", issues[0].Metrics["elif_count"])
	}
	if issues[0].Severity != models.SeverityLow {
		t.Errorf("severity = %v, want low", issues[0].Severity)
	}
}

func TestOCPOncePerFunction(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"dispatch.py": `
def route(kind):
    if kind == "a":
        pass
    elif kind == "b":
        pass
    elif kind == "c":
        pass
    elif kind == "d":
        pass
    elif kind == "e":
        pass
    if kind == "v":
        pass
    elif kind == "w":
        pass
    elif kind == "x":
        pass
    elif kind == "y":
        pass
    elif kind == "z":
        pass
`})
	d := New(snap)

	if issues := d.OCPViolations(snap.Files[0]); len(issues) != 1 {
		t.Errorf("expected exactly 1 issue per function, got %d", len(issues))
	}
}

func TestDIPViolations(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"svc.py": `
class Service:
    db = Database()
    cache = Cache()
    queue = Queue()

    def __init__(self):
        pass
`})
	d := New(snap)

	issues := d.DIPViolations(snap.Files[0])
	if len(issues) != 1 {
		t.Fatalf("expected 1 DIP violation, got %d", len(issues))
	}
	deps, ok := issues[0].Metrics["concrete_deps"].([]string)
	if !ok || len(deps) != 3 {
		t.Errorf("concrete_deps = %v, want 3 entries", issues[0].Metrics["concrete_deps"])
	}
}

func TestDIPIgnoresConstructorBody(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"svc.py": `
class Service:
    def __init__(self):
        self.db = Database()
        self.cache = Cache()
        self.queue = Queue()
`})
	d := New(snap)

	if issues := d.DIPViolations(snap.Files[0]); len(issues) != 0 {
		t.Errorf("constructor-body instantiations should not count, got %v", issues)
	}
}
