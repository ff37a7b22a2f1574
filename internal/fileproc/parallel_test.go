package fileproc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/avelaro/vitals/pkg/parser"
)

func writeFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestMapFilesCollectsResultsAndProgress(t *testing.T) {
	files := writeFiles(t, "a.py", "b.py", "c.py")

	var ticks atomic.Int32
	results, errs := MapFilesWithContextAndProgress(context.Background(), files,
		func(psr *parser.Parser, path string) (string, error) {
			return filepath.Base(path), nil
		},
		func() { ticks.Add(1) })

	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(results) != 3 {
		t.Errorf("results = %d, want 3", len(results))
	}
	if got := ticks.Load(); got != 3 {
		t.Errorf("progress ticks = %d, want 3", got)
	}
}

func TestMapFilesCollectsPerFileErrors(t *testing.T) {
	files := writeFiles(t, "a.py", "b.py")
	boom := errors.New("boom")

	results, errs := MapFilesWithContextAndProgress(context.Background(), files,
		func(psr *parser.Parser, path string) (string, error) {
			if filepath.Base(path) == "b.py" {
				return "", boom
			}
			return path, nil
		}, nil)

	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
	if errs == nil || errs.Count() != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}
	if !errors.Is(errs.Errors[0].Err, boom) {
		t.Errorf("unexpected error: %v", errs.Errors[0])
	}
}

func TestMapFilesEmptyInput(t *testing.T) {
	results, errs := MapFilesWithContextAndProgress(context.Background(), nil,
		func(psr *parser.Parser, path string) (int, error) { return 0, nil }, nil)
	if results != nil || errs != nil {
		t.Errorf("empty input should yield nil, got %v / %v", results, errs)
	}
}

func TestMapFilesCanceledContext(t *testing.T) {
	files := writeFiles(t, "a.py", "b.py")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := MapFilesWithContextAndProgress(ctx, files,
		func(psr *parser.Parser, path string) (string, error) {
			return path, nil
		}, nil)

	if errs == nil || !errs.HasErrors() {
		t.Fatal("expected context errors for canceled run")
	}
}
