package lineage

import (
	"github.com/fathomdata/fathom/internal/provenance"
	"github.com/fathomdata/fathom/pkg/core"
)

// Relations extracts the directed column-to-column edges for a task's
// output columns. The destination context is the task's own
// (domain, table); each output column's label is its alias when present,
// else the resolved node's own column name. The result is deduplicated
// by (from, to, expression) in first-seen order.
func Relations(domain, table string, cols []provenance.OutputColumn) []core.Relation {
	var all []core.Relation
	for _, col := range cols {
		if col.Node == nil {
			continue
		}
		all = append(all, columnRelations(domain, table, col.Label(), "", col.Node)...)
	}
	return dedupeRelations(all)
}

// columnRelations walks one dependency tree. The three node shapes are
// mutually exclusive and handled in order:
//
//  1. Direct column reference: the node's own (table, column) is the
//     parent of the caller's destination. A populated scope that differs
//     from the parent contributes an extra scope-to-parent edge; an
//     identical scope would only add a zero-information self-edge and is
//     suppressed. Children that themselves carry a usable table+column
//     are recursed into with this node as the new parent context;
//     children lacking one are skipped at this level.
//  2. Function or aggregate call: no edge for the node itself. Every
//     child is recursed into with the caller's destination unchanged and
//     the call's expression as annotation, so nested calls attribute
//     every leaf argument to the same final destination.
//  3. Opaque terminal: literal, wildcard or unresolved placeholder;
//     contributes nothing.
func columnRelations(domain, table, label, parentExpr string, n *provenance.Node) []core.Relation {
	switch n.Kind() {
	case provenance.KindColumn:
		parent := core.Column{Domain: n.TableSchema, Table: n.TableName, Column: n.ColumnName}
		current := core.Column{Domain: domain, Table: table, Column: label}

		var rels []core.Relation
		if n.HasScope() {
			scope := core.Column{Domain: n.ScopeSchema, Table: n.ScopeTable, Column: n.ColumnName}
			if scope != parent && scope.IsComplete() {
				rels = append(rels, core.Relation{From: scope, To: parent})
			}
		}
		if parent.IsComplete() && current.IsComplete() {
			rels = append(rels, core.Relation{From: parent, To: current, Expression: parentExpr})
		}

		for _, child := range n.Children {
			if child.Kind() != provenance.KindColumn {
				continue
			}
			rels = append(rels, columnRelations(n.TableSchema, n.TableName, n.ColumnName, n.Expression, child)...)
		}
		return rels

	case provenance.KindFunction:
		var rels []core.Relation
		for _, child := range n.Children {
			rels = append(rels, columnRelations(domain, table, label, n.Expression, child)...)
		}
		return rels

	default:
		return nil
	}
}

// dedupeRelations removes duplicate edges, keeping first-seen order.
// Relation is a comparable value, so the natural key is the value itself.
func dedupeRelations(rels []core.Relation) []core.Relation {
	out := make([]core.Relation, 0, len(rels))
	seen := make(map[core.Relation]struct{}, len(rels))
	for _, r := range rels {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
