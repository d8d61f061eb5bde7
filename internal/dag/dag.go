// Package dag provides the task dependency graph derived from lineage
// documents. An edge runs from a producing task to the task consuming its
// output table, enabling cycle detection, topological ordering and
// multi-hop upstream/downstream queries.
package dag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fathomdata/fathom/pkg/core"
)

// Graph is a directed graph over task output full names. Node identity is
// the case-insensitive full name; the first-seen spelling is preserved for
// display.
type Graph struct {
	names   map[string]string   // key -> display name
	edges   map[string][]string // producer -> consumers
	parents map[string][]string // consumer -> producers
}

// NewGraph creates an empty task graph.
func NewGraph() *Graph {
	return &Graph{
		names:   make(map[string]string),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

func key(fullName string) string {
	return strings.ToLower(fullName)
}

// AddTask adds a task output table to the graph.
func (g *Graph) AddTask(fullName string) {
	k := key(fullName)
	if _, exists := g.names[k]; !exists {
		g.names[k] = fullName
		g.edges[k] = []string{}
		g.parents[k] = []string{}
	}
}

// AddDependency records that consumer reads producer's output.
// Self-loops are rejected; duplicate edges are ignored.
func (g *Graph) AddDependency(producer, consumer string) error {
	p, c := key(producer), key(consumer)
	if _, exists := g.names[p]; !exists {
		return fmt.Errorf("unknown task %q", producer)
	}
	if _, exists := g.names[c]; !exists {
		return fmt.Errorf("unknown task %q", consumer)
	}
	if p == c {
		return fmt.Errorf("self-loop detected: %s", producer)
	}

	if !contains(g.edges[p], c) {
		g.edges[p] = append(g.edges[p], c)
	}
	if !contains(g.parents[c], p) {
		g.parents[c] = append(g.parents[c], p)
	}
	return nil
}

// AddLineage adds a task and the dependencies its lineage document
// reveals: every table flagged as another task's output becomes a
// producer edge into this task.
func (g *Graph) AddLineage(task core.Task, lin *core.Lineage) error {
	g.AddTask(task.FullName())
	for _, t := range lin.Tables {
		if !t.IsTask || t.Key() == key(task.FullName()) {
			continue
		}
		g.AddTask(t.FullName())
		if err := g.AddDependency(t.FullName(), task.FullName()); err != nil {
			return err
		}
	}
	return nil
}

// HasTask reports whether the task is in the graph.
func (g *Graph) HasTask(fullName string) bool {
	_, ok := g.names[key(fullName)]
	return ok
}

// Tasks returns the display names of all tasks, sorted.
func (g *Graph) Tasks() []string {
	out := make([]string, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.names)
}

// HasCycle returns true if the graph contains a cycle, along with the
// cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				cyclePath = []string{g.names[childID]}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{g.names[curr]}, cyclePath...)
				}
				cyclePath = append([]string{g.names[childID]}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for id := range g.names {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}
	return false, nil
}

// TopologicalSort returns task names in dependency order, producers
// before consumers. Returns an error if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", cyclePath)
	}

	visited := make(map[string]bool)
	var result []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parentID := range g.parents[id] {
			visit(parentID)
		}
		result = append(result, g.names[id])
	}

	ids := make([]string, 0, len(g.names))
	for id := range g.names {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		visit(id)
	}
	return result, nil
}

// Upstream returns every task the given task transitively depends on.
// maxDepth limits traversal; 0 means unlimited.
func (g *Graph) Upstream(fullName string, maxDepth int) []string {
	return g.traverse(key(fullName), maxDepth, g.parents)
}

// Downstream returns every task transitively consuming the given task's
// output. maxDepth limits traversal; 0 means unlimited.
func (g *Graph) Downstream(fullName string, maxDepth int) []string {
	return g.traverse(key(fullName), maxDepth, g.edges)
}

func (g *Graph) traverse(start string, maxDepth int, next map[string][]string) []string {
	seen := make(map[string]bool)

	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if maxDepth > 0 && depth > maxDepth {
			return
		}
		for _, n := range next[id] {
			if !seen[n] {
				seen[n] = true
				walk(n, depth+1)
			}
		}
	}
	walk(start, 1)

	result := make([]string, 0, len(seen))
	for id := range seen {
		result = append(result, g.names[id])
	}
	sort.Strings(result)
	return result
}

// Roots returns tasks with no upstream producers, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.names {
		if len(g.parents[id]) == 0 {
			roots = append(roots, g.names[id])
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns tasks nothing else consumes, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.names {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, g.names[id])
		}
	}
	sort.Strings(leaves)
	return leaves
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
