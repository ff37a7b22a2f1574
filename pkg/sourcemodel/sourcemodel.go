// Package sourcemodel builds the per-run snapshot every detector consumes.
//
// Files are parsed once, up front, in parallel; the resulting snapshot is
// immutable and safe for concurrent read-only walks by the dimension
// analyzers.
package sourcemodel

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/avelaro/vitals/internal/fileproc"
	"github.com/avelaro/vitals/pkg/parser"
)

// File is one parsed source file with its pre-extracted structure.
type File struct {
	Path     string // path as scanned
	RelPath  string // slash-separated, relative to the project root
	Module   string // dotted module id derived from RelPath
	Language parser.Language
	Source   []byte
	Lines    []string

	Parse     *parser.ParseResult
	Functions []parser.FunctionNode
	Classes   []parser.ClassNode
	Imports   []parser.Import
}

// Snapshot is the immutable model of one analysis run.
type Snapshot struct {
	Root    string
	Files   []*File
	Skipped int // files that could not be read or parsed
}

// ModuleID converts a root-relative path to a dotted module identifier,
// e.g. "services/auth.py" becomes "services.auth".
func ModuleID(relPath string) string {
	p := filepath.ToSlash(relPath)
	ext := filepath.Ext(p)
	p = strings.TrimSuffix(p, ext)
	return strings.ReplaceAll(p, "/", ".")
}

// Build parses the given files and assembles a snapshot. Files that fail to
// read or parse are counted as skipped, never fatal. The file list order is
// preserved, so passing a sorted list yields a deterministic snapshot.
func Build(ctx context.Context, root string, files []string, onProgress fileproc.ProgressFunc) *Snapshot {
	snap := &Snapshot{Root: root}

	type indexed struct {
		idx  int
		file *File
	}

	byPath := make(map[string]int, len(files))
	for i, f := range files {
		byPath[f] = i
	}

	results, errs := fileproc.MapFilesWithContextAndProgress(ctx, files, func(psr *parser.Parser, path string) (indexed, error) {
		result, err := psr.ParseFile(path)
		if err != nil {
			return indexed{}, err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		f := &File{
			Path:      path,
			RelPath:   rel,
			Module:    ModuleID(rel),
			Language:  result.Language,
			Source:    result.Source,
			Lines:     strings.Split(string(result.Source), "\n"),
			Parse:     result,
			Functions: parser.GetFunctions(result),
			Classes:   parser.GetClasses(result),
			Imports:   parser.GetImports(result),
		}
		return indexed{idx: byPath[path], file: f}, nil
	}, onProgress)

	if errs != nil {
		snap.Skipped = errs.Count()
	}

	// Restore scan order regardless of worker scheduling
	ordered := make([]*File, len(files))
	for _, r := range results {
		ordered[r.idx] = r.file
	}
	for _, f := range ordered {
		if f != nil {
			snap.Files = append(snap.Files, f)
		}
	}

	return snap
}

// HasLanguage reports whether any file of the given language was parsed.
func (s *Snapshot) HasLanguage(lang parser.Language) bool {
	for _, f := range s.Files {
		if f.Language == lang {
			return true
		}
	}
	return false
}
