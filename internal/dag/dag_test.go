package dag

import (
	"reflect"
	"testing"

	"github.com/fathomdata/fathom/pkg/core"
)

func TestGraph_AddTaskAndDependency(t *testing.T) {
	g := NewGraph()

	g.AddTask("staging.orders")
	g.AddTask("marts.revenue")

	if g.TaskCount() != 2 {
		t.Errorf("expected 2 tasks, got %d", g.TaskCount())
	}

	if err := g.AddDependency("staging.orders", "marts.revenue"); err != nil {
		t.Errorf("failed to add dependency: %v", err)
	}

	// Duplicate edges are ignored.
	if err := g.AddDependency("staging.orders", "marts.revenue"); err != nil {
		t.Errorf("duplicate dependency should not fail: %v", err)
	}

	up := g.Upstream("marts.revenue", 0)
	if !reflect.DeepEqual(up, []string{"staging.orders"}) {
		t.Errorf("unexpected upstream: %v", up)
	}
}

func TestGraph_AddDependency_UnknownTask(t *testing.T) {
	g := NewGraph()
	g.AddTask("a.t")

	if err := g.AddDependency("a.t", "missing.t"); err == nil {
		t.Error("expected error for unknown consumer")
	}
	if err := g.AddDependency("missing.t", "a.t"); err == nil {
		t.Error("expected error for unknown producer")
	}
}

func TestGraph_SelfLoop(t *testing.T) {
	g := NewGraph()
	g.AddTask("a.t")

	if err := g.AddDependency("a.t", "A.T"); err == nil {
		t.Error("expected error for case-insensitive self-loop")
	}
}

func TestGraph_AddLineage(t *testing.T) {
	g := NewGraph()

	task := core.Task{Name: "revenue", Domain: "marts", Table: "revenue"}
	lin := &core.Lineage{
		Tables: []core.Table{
			{Domain: "staging", Table: "orders", IsTask: true},
			{Domain: "raw", Table: "events", IsTask: false},
			{Domain: "marts", Table: "revenue", IsTask: true}, // own output, skipped
		},
	}

	if err := g.AddLineage(task, lin); err != nil {
		t.Fatalf("AddLineage failed: %v", err)
	}

	if g.TaskCount() != 2 {
		t.Errorf("expected 2 tasks (raw table excluded), got %d", g.TaskCount())
	}
	up := g.Upstream("marts.revenue", 0)
	if !reflect.DeepEqual(up, []string{"staging.orders"}) {
		t.Errorf("unexpected upstream: %v", up)
	}
}

func TestGraph_TopologicalSort(t *testing.T) {
	g := NewGraph()
	g.AddTask("raw.a")
	g.AddTask("staging.b")
	g.AddTask("marts.c")
	_ = g.AddDependency("raw.a", "staging.b")
	_ = g.AddDependency("staging.b", "marts.c")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}

	pos := make(map[string]int)
	for i, name := range order {
		pos[name] = i
	}
	if pos["raw.a"] > pos["staging.b"] || pos["staging.b"] > pos["marts.c"] {
		t.Errorf("order violates dependencies: %v", order)
	}
}

func TestGraph_CycleDetection(t *testing.T) {
	g := NewGraph()
	g.AddTask("a.t")
	g.AddTask("b.t")
	_ = g.AddDependency("a.t", "b.t")
	_ = g.AddDependency("b.t", "a.t")

	hasCycle, path := g.HasCycle()
	if !hasCycle {
		t.Fatal("expected cycle")
	}
	if len(path) < 3 {
		t.Errorf("expected closed cycle path, got %v", path)
	}

	if _, err := g.TopologicalSort(); err == nil {
		t.Error("expected error for cyclic graph")
	}
}

func TestGraph_UpstreamDownstreamDepth(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"l0.t", "l1.t", "l2.t", "l3.t"} {
		g.AddTask(id)
	}
	_ = g.AddDependency("l0.t", "l1.t")
	_ = g.AddDependency("l1.t", "l2.t")
	_ = g.AddDependency("l2.t", "l3.t")

	if got := g.Upstream("l3.t", 1); !reflect.DeepEqual(got, []string{"l2.t"}) {
		t.Errorf("depth-1 upstream: %v", got)
	}
	if got := g.Upstream("l3.t", 0); len(got) != 3 {
		t.Errorf("unlimited upstream: %v", got)
	}
	if got := g.Downstream("l0.t", 2); !reflect.DeepEqual(got, []string{"l1.t", "l2.t"}) {
		t.Errorf("depth-2 downstream: %v", got)
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := NewGraph()
	g.AddTask("raw.a")
	g.AddTask("marts.b")
	_ = g.AddDependency("raw.a", "marts.b")

	if got := g.Roots(); !reflect.DeepEqual(got, []string{"raw.a"}) {
		t.Errorf("roots: %v", got)
	}
	if got := g.Leaves(); !reflect.DeepEqual(got, []string{"marts.b"}) {
		t.Errorf("leaves: %v", got)
	}
}
