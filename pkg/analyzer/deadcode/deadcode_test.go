package deadcode

import (
	"context"
	"os"
	"path/filepath"
	"strings"
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

func messages(t *testing.T, snap *sourcemodel.Snapshot) []string {
	t.Helper()
	var out []string
	for _, issue := range Analyze(snap, DefaultCap) {
		out = append(out, issue.Message)
	}
	return out
}

func TestUnusedImport(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"app.py": `
import os
import json

print(json.dumps({}))
`})

	msgs := messages(t, snap)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 finding, got %v", msgs)
	}
	if msgs[0] != "Unused import: os" {
		t.Errorf("message = %q", msgs[0])
	}
}

func TestAliasedImport(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"app.py": `
import numpy as np

print(np.zeros(3))
`})

	if msgs := messages(t, snap); len(msgs) != 0 {
		t.Errorf("aliased import is used, got %v", msgs)
	}
}

func TestFromImport(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"app.py": `
from models import User, Session

print(User())
`})

	msgs := messages(t, snap)
	if len(msgs) != 1 || msgs[0] != "Unused import: Session" {
		t.Errorf("expected unused Session, got %v", msgs)
	}
}

func TestUnusedFunction(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"util.py": `
def orphan():
    return 1
`})

	msgs := messages(t, snap)
	if len(msgs) != 1 || msgs[0] != "Potentially unused function: orphan" {
		t.Errorf("expected unused orphan, got %v", msgs)
	}
}

func TestCrossFileUsage(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"util.py": "def helper():\n    return 1\n",
		"app.py":  "print(helper())\n",
	})

	if msgs := messages(t, snap); len(msgs) != 0 {
		t.Errorf("helper is called from another file, got %v", msgs)
	}
}

func TestEntryPointsAndPrivateNamesSkipped(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"app.py": `
def main():
    return 1

def _internal():
    return 2
`})

	if msgs := messages(t, snap); len(msgs) != 0 {
		t.Errorf("main and _internal should not be flagged, got %v", msgs)
	}
}

func TestUnusedClass(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"models.py": "class Orphan:\n    pass\n"})

	msgs := messages(t, snap)
	if len(msgs) != 1 || msgs[0] != "Potentially unused class: Orphan" {
		t.Errorf("expected unused Orphan, got %v", msgs)
	}
}

func TestRecursiveFunctionIsUsed(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{"app.py": `
def descend(n):
    if n > 0:
        descend(n - 1)
`})

	if msgs := messages(t, snap); len(msgs) != 0 {
		t.Errorf("recursive call counts as a use, got %v", msgs)
	}
}

func TestCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteString("def orphan_")
		b.WriteByte(byte('a' + i))
		b.WriteString("():\n    return 1\n\n")
	}
	snap := buildSnapshot(t, map[string]string{"many.py": b.String()})

	if got := len(Analyze(snap, 3)); got != 3 {
		t.Errorf("expected cap of 3, got %d", got)
	}
}
