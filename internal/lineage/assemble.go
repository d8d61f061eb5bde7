package lineage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fathomdata/fathom/internal/catalog"
	"github.com/fathomdata/fathom/internal/provenance"
	"github.com/fathomdata/fathom/pkg/core"
)

// Assembler orchestrates lineage extraction per output column and merges
// the results into one consistent document. It holds no state between
// calls; a single Assembler may be used for many tasks concurrently.
type Assembler struct {
	snap   *catalog.Snapshot
	logger *slog.Logger
}

// NewAssembler creates an Assembler over a catalog snapshot.
// A nil logger discards all log output.
func NewAssembler(snap *catalog.Snapshot, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{snap: snap, logger: logger}
}

// Compute resolves a task's SQL and assembles its lineage document.
// A task without SQL yields an empty document, not an error. Resolver
// degradation (unknown identifiers, untyped functions) has already been
// absorbed into opaque nodes by the lenient resolver and never surfaces
// here; only a resolver invocation failure is returned.
func (a *Assembler) Compute(ctx context.Context, task core.Task, resolver provenance.Resolver) (*core.Lineage, error) {
	if task.SQL == "" {
		a.logger.Debug("task has no SQL, emitting empty lineage", "task", task.Name)
		return &core.Lineage{Tables: []core.Table{}, Relations: []core.Relation{}}, nil
	}

	cols, err := resolver.Resolve(ctx, task.SQL, a.snap)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task %s: %w", task.Name, err)
	}
	return a.Assemble(task, cols), nil
}

// Assemble merges per-output-column extraction results into one document:
// relations deduplicated by (from, to, expression); tables as the union of
// the extracted tables and single-column stubs derived from every relation
// endpoint, grouped case-insensitively by full name with a first-seen
// column union and IsTask as OR across each group.
func (a *Assembler) Assemble(task core.Task, cols []provenance.OutputColumn) *core.Lineage {
	rels := Relations(task.Domain, task.Table, cols)
	tables := Tables(a.snap, cols)

	for _, r := range rels {
		tables = append(tables,
			core.Table{Domain: r.From.Domain, Table: r.From.Table, Columns: []string{r.From.Column}},
			core.Table{Domain: r.To.Domain, Table: r.To.Table, Columns: []string{r.To.Column}},
		)
	}

	merged := mergeTables(tables)
	for i := range merged {
		if a.snap.IsTask(merged[i].FullName()) {
			merged[i].IsTask = true
		}
	}

	a.logger.Debug("assembled lineage",
		"task", task.Name,
		"tables", len(merged),
		"relations", len(rels))

	return &core.Lineage{Tables: merged, Relations: rels}
}

// mergeTables groups tables by case-insensitive full name. Each group
// keeps the first occurrence's spelling, a deduplicated first-seen union
// of the group's columns, and IsTask true if any occurrence was flagged.
func mergeTables(tables []core.Table) []core.Table {
	out := make([]core.Table, 0, len(tables))
	index := make(map[string]int, len(tables))

	for _, t := range tables {
		key := t.Key()
		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			out = append(out, core.Table{
				Domain:  t.Domain,
				Table:   t.Table,
				Columns: dedupeStrings(t.Columns),
				IsTask:  t.IsTask,
			})
			continue
		}
		out[i].IsTask = out[i].IsTask || t.IsTask
		for _, c := range t.Columns {
			if !containsString(out[i].Columns, c) {
				out[i].Columns = append(out[i].Columns, c)
			}
		}
	}
	return out
}

func dedupeStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !containsString(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
