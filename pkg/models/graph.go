package models

import "strings"

// ModuleGraph is a directed import graph over internal modules. Keys are
// module identifiers (file paths relative to the project root, extension
// stripped, path-separator normalized). Edges point from importer to imported.
type ModuleGraph struct {
	Edges map[string][]string `json:"edges"`
}

// NewModuleGraph returns an empty graph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{Edges: make(map[string][]string)}
}

// AddEdge records that from imports to. Duplicate edges are kept; callers
// that need set semantics deduplicate at build time.
func (g *ModuleGraph) AddEdge(from, to string) {
	g.Edges[from] = append(g.Edges[from], to)
}

// Modules returns every node that appears as an edge source.
func (g *ModuleGraph) Modules() []string {
	mods := make([]string, 0, len(g.Edges))
	for m := range g.Edges {
		mods = append(mods, m)
	}
	return mods
}

// Cycle is one circular dependency chain. Members holds the modules along the
// chain in discovery order, without repeating the entry module.
type Cycle struct {
	Members []string `json:"members"`
}

// String renders the chain with the entry module closing the loop,
// e.g. "a → b → a".
func (c Cycle) String() string {
	if len(c.Members) == 0 {
		return ""
	}
	return strings.Join(c.Members, " → ") + " → " + c.Members[0]
}
