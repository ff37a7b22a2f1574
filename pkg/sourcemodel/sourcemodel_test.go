package sourcemodel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestModuleID(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"services/auth.py", "services.auth"},
		{"app.py", "app"},
		{"src/api/client.ts", "src.api.client"},
		{"main.go", "main"},
	}

	for _, tt := range tests {
		if got := ModuleID(tt.rel); got != tt.want {
			t.Errorf("ModuleID(%q) = %q, want %q", tt.rel, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	paths := map[string]string{
		"app.py":     "import helpers\n\ndef main():\n    pass\n",
		"helpers.py": "def util():\n    return 1\n",
	}
	var files []string
	for name, content := range paths {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		files = append(files, p)
	}

	snap := Build(context.Background(), dir, []string{
		filepath.Join(dir, "app.py"),
		filepath.Join(dir, "helpers.py"),
	}, nil)

	if len(snap.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(snap.Files))
	}
	if snap.Files[0].Module != "app" || snap.Files[1].Module != "helpers" {
		t.Errorf("build order not preserved: %s, %s", snap.Files[0].Module, snap.Files[1].Module)
	}
	if len(snap.Files[0].Imports) != 1 || snap.Files[0].Imports[0].Path != "helpers" {
		t.Errorf("unexpected imports: %v", snap.Files[0].Imports)
	}
	if len(snap.Files[1].Functions) != 1 || snap.Files[1].Functions[0].Name != "util" {
		t.Errorf("unexpected functions: %v", snap.Files[1].Functions)
	}
}

func TestBuildSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.py")
	if err := os.WriteFile(good, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap := Build(context.Background(), dir, []string{
		good,
		filepath.Join(dir, "missing.py"),
	}, nil)

	if len(snap.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(snap.Files))
	}
	if snap.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", snap.Skipped)
	}
}
