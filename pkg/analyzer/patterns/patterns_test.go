package patterns

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

func parseFile(t *testing.T, name, content string) *sourcemodel.File {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	snap := sourcemodel.Build(context.Background(), dir, []string{p}, nil)
	if len(snap.Files) != 1 {
		t.Fatalf("expected 1 parsed file, got %d", len(snap.Files))
	}
	return snap.Files[0]
}

func TestFindSyncOperations(t *testing.T) {
	f := parseFile(t, "worker.py", `
import time

def slow():
    time.sleep(5)
    os.system("ls")
`)

	issues := FindSyncOperations(f)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(issues), issues)
	}
	if issues[0].Severity != models.SeverityMedium {
		t.Errorf("time.sleep severity = %v, want medium", issues[0].Severity)
	}
	if issues[1].Severity != models.SeverityHigh {
		t.Errorf("os.system severity = %v, want high", issues[1].Severity)
	}
}

func TestFindNestedLoops(t *testing.T) {
	f := parseFile(t, "algo.py", `
def search(items, targets):
    for item in items:
        for target in targets:
            if item == target:
                return True
    return False
`)

	issues := FindNestedLoops(f)
	if len(issues) != 1 {
		t.Fatalf("expected 1 nested loop, got %d", len(issues))
	}
	if issues[0].Severity != models.SeverityMedium {
		t.Errorf("severity = %v, want medium", issues[0].Severity)
	}
}

func TestFindNestedLoopsSingleLoop(t *testing.T) {
	f := parseFile(t, "flat.py", `
def scan(items):
    for item in items:
        print(item)
`)

	if issues := FindNestedLoops(f); len(issues) != 0 {
		t.Errorf("expected no issues for a single loop, got %v", issues)
	}
}

func TestFindSecurityPatterns(t *testing.T) {
	f := parseFile(t, "danger.py", `
import os

password = "hunter2"

def run(cmd):
    os.system(cmd)
    result = eval(cmd)
`)

	issues := FindSecurityPatterns(f)
	if len(issues) < 3 {
		t.Fatalf("expected at least 3 issues, got %d: %v", len(issues), issues)
	}
	for _, is := range issues {
		if is.Dimension != models.DimSecurity {
			t.Errorf("issue dimension = %v, want security", is.Dimension)
		}
	}
}

func TestYamlLoadExcludesSafeLoader(t *testing.T) {
	f := parseFile(t, "cfg.py", `
import yaml

data = yaml.load(stream, Loader=yaml.SafeLoader)
`)

	for _, is := range FindSecurityPatterns(f) {
		if is.Metrics["kind"] == "deserialization" {
			t.Errorf("yaml.load with explicit Loader should not be flagged: %v", is)
		}
	}
}

func TestFindExtractablePatterns(t *testing.T) {
	f := parseFile(t, "utils.py", `
import json

a = json.loads(raw_a)
b = json.loads(raw_b)
c = json.loads(raw_c)
`)

	found := FindExtractablePatterns([]*sourcemodel.File{f}, 3)
	if len(found) != 1 {
		t.Fatalf("expected 1 pattern, got %d: %v", len(found), found)
	}
	if found[0].Occurrences != 3 {
		t.Errorf("occurrences = %d, want 3", found[0].Occurrences)
	}
}

func TestFindExtractablePatternsBelowThreshold(t *testing.T) {
	f := parseFile(t, "utils.py", `
import json

a = json.loads(raw_a)
`)

	if found := FindExtractablePatterns([]*sourcemodel.File{f}, 3); len(found) != 0 {
		t.Errorf("expected no patterns below threshold, got %v", found)
	}
}
