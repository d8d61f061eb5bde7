package lineage

import (
	"strings"

	"github.com/fathomdata/fathom/internal/catalog"
	"github.com/fathomdata/fathom/internal/provenance"
	"github.com/fathomdata/fathom/pkg/core"
)

// Tables walks every output column's dependency tree and returns the
// tables it references, in first-seen order. Exact duplicates are
// removed, then a second pass marks tables whose full name matches a
// known task output. Classification is deferred to the second pass: a
// reference cannot be typed as task output versus raw table until the
// full set of references has been collected.
func Tables(snap *catalog.Snapshot, cols []provenance.OutputColumn) []core.Table {
	var all []core.Table
	for _, col := range cols {
		if col.Node == nil {
			continue
		}
		all = append(all, nodeTables(snap, col.Node)...)
	}

	out := make([]core.Table, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	for _, t := range all {
		key := t.FullName() + "|" + strings.Join(t.Columns, ",")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}

	for i := range out {
		if snap.IsTask(out[i].FullName()) {
			out[i].IsTask = true
		}
	}
	return out
}

// nodeTables returns the tables referenced by one node: its own table,
// the enclosing scope table, and recursively its children's. Entries
// without a table name are dropped.
func nodeTables(snap *catalog.Snapshot, n *provenance.Node) []core.Table {
	var tables []core.Table

	own := snap.Lookup(n.TableSchema, n.TableName)
	if own.Table != "" {
		tables = append(tables, own)
	}

	scope := snap.Lookup(n.ScopeSchema, n.ScopeTable)
	if scope.Table != "" {
		tables = append(tables, scope)
	}

	for _, child := range n.Children {
		tables = append(tables, nodeTables(snap, child)...)
	}
	return tables
}
