// Package graph builds the internal import graph and detects circular
// dependencies.
package graph

import (
	"path"
	"sort"
	"strings"

	"github.com/avelaro/vitals/pkg/models"
	"github.com/avelaro/vitals/pkg/parser"
	"github.com/avelaro/vitals/pkg/sourcemodel"
)

// Build assembles the import graph from a snapshot. Every parsed file
// becomes a node; edges point only at modules that exist in the snapshot,
// so external imports never appear in the graph.
func Build(snap *sourcemodel.Snapshot) *models.ModuleGraph {
	g := models.NewModuleGraph()

	internal := make(map[string]bool, len(snap.Files))
	dirIndex := make(map[string][]string) // slash dir -> modules within
	for _, f := range snap.Files {
		internal[f.Module] = true
		dir := path.Dir(filepath(f.RelPath))
		dirIndex[dir] = append(dirIndex[dir], f.Module)
	}

	for _, f := range snap.Files {
		g.Edges[f.Module] = nil // every file is a node, even without edges
		seen := make(map[string]bool)
		for _, imp := range f.Imports {
			for _, target := range resolve(f, imp.Path, internal, dirIndex) {
				if target == f.Module || seen[target] {
					continue
				}
				seen[target] = true
				g.AddEdge(f.Module, target)
			}
		}
		sort.Strings(g.Edges[f.Module])
	}

	return g
}

func filepath(rel string) string {
	return strings.ReplaceAll(rel, "\\", "/")
}

// resolve maps one import statement to internal module ids. Dotted imports
// (Python, Java) match directly; relative imports (JS/TS, Ruby
// require_relative) are resolved against the importing file's directory;
// Go import paths are matched by directory suffix.
func resolve(f *sourcemodel.File, importPath string, internal map[string]bool, dirIndex map[string][]string) []string {
	switch f.Language {
	case parser.LangPython, parser.LangJava:
		if internal[importPath] {
			return []string{importPath}
		}
		// "from services.auth import login" may name a symbol inside a
		// module; try progressively shorter prefixes.
		parts := strings.Split(importPath, ".")
		for i := len(parts) - 1; i > 0; i-- {
			prefix := strings.Join(parts[:i], ".")
			if internal[prefix] {
				return []string{prefix}
			}
		}
		return nil

	case parser.LangTypeScript, parser.LangJavaScript, parser.LangTSX, parser.LangRuby:
		if strings.HasPrefix(importPath, ".") {
			dir := path.Dir(filepath(f.RelPath))
			resolved := path.Clean(path.Join(dir, importPath))
			candidate := strings.ReplaceAll(resolved, "/", ".")
			if internal[candidate] {
				return []string{candidate}
			}
			// "./api" may point at "api/index"
			if internal[candidate+".index"] {
				return []string{candidate + ".index"}
			}
			return nil
		}
		dotted := strings.ReplaceAll(strings.TrimSuffix(importPath, path.Ext(importPath)), "/", ".")
		if internal[dotted] {
			return []string{dotted}
		}
		return nil

	case parser.LangGo:
		// Go imports name package directories. Match the trailing path
		// segments against snapshot directories.
		segments := strings.Split(importPath, "/")
		for i := range segments {
			suffix := strings.Join(segments[i:], "/")
			if mods, ok := dirIndex[suffix]; ok {
				return mods
			}
		}
		return nil

	default:
		return nil
	}
}
