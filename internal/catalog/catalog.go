// Package catalog provides the schema catalog consulted during lineage
// extraction: which columns each table is known to have, and which table
// names are the outputs of other tasks. A Snapshot is immutable and is
// threaded explicitly through every extraction call.
package catalog

import (
	"strings"

	"github.com/fathomdata/fathom/pkg/core"
)

// Snapshot is an immutable, case-insensitive view of the known tables and
// task names at the time a lineage computation starts.
type Snapshot struct {
	tables map[string]core.Table // lower(domain.table) -> table with known columns
	tasks  map[string]struct{}   // lower(domain.table) of task outputs
}

// Builder accumulates catalog entries before sealing them into a Snapshot.
type Builder struct {
	snap Snapshot
}

// NewBuilder returns an empty catalog builder.
func NewBuilder() *Builder {
	return &Builder{snap: Snapshot{
		tables: make(map[string]core.Table),
		tasks:  make(map[string]struct{}),
	}}
}

// AddTable registers a table and its ordered column names. Registering the
// same (domain, table) again replaces the previous column list.
func (b *Builder) AddTable(domain, table string, columns []string) *Builder {
	t := core.Table{Domain: domain, Table: table, Columns: append([]string(nil), columns...)}
	b.snap.tables[t.Key()] = t
	return b
}

// AddTask registers a task output full name ("domain.table").
func (b *Builder) AddTask(fullName string) *Builder {
	b.snap.tasks[strings.ToLower(fullName)] = struct{}{}
	return b
}

// Build seals the builder into a Snapshot. The builder must not be used
// after Build.
func (b *Builder) Build() *Snapshot {
	snap := b.snap
	b.snap = Snapshot{}
	return &snap
}

// Lookup returns the catalog's view of (domain, table), matched
// case-insensitively. An unknown table yields a Table carrying the given
// names and no known columns; IsTask is always false here, task
// classification happens in a later pass once all references are known.
func (s *Snapshot) Lookup(domain, table string) core.Table {
	key := strings.ToLower(domain + "." + table)
	if t, ok := s.tables[key]; ok {
		return core.Table{Domain: domain, Table: table, Columns: append([]string(nil), t.Columns...)}
	}
	return core.Table{Domain: domain, Table: table}
}

// IsTask reports whether the full name ("domain.table") is the output of
// a known task, matched case-insensitively.
func (s *Snapshot) IsTask(fullName string) bool {
	_, ok := s.tasks[strings.ToLower(fullName)]
	return ok
}

// TableCount returns the number of registered tables.
func (s *Snapshot) TableCount() int {
	return len(s.tables)
}

// TaskCount returns the number of registered task names.
func (s *Snapshot) TaskCount() int {
	return len(s.tasks)
}
