// Package provenance defines the boundary to the external SQL resolution
// library. The resolver turns a task's SQL plus a catalog snapshot into one
// dependency tree per output column; this package gives that loosely
// structured tree a strict, read-only shape the extractors can match on
// exhaustively.
package provenance

import (
	"context"

	"github.com/fathomdata/fathom/internal/catalog"
)

// Kind classifies a node by the shape the resolver emitted it in.
type Kind int

const (
	// KindColumn is a direct column reference: table and column both set.
	KindColumn Kind = iota
	// KindFunction is a function or aggregate call: no table, column set.
	KindFunction
	// KindOpaque is a terminal the resolver could not type: literal,
	// wildcard or unresolved placeholder.
	KindOpaque
)

// Node is one node of a per-output-column dependency tree. Nodes are
// read-only once handed over by the resolver.
//
// ScopeTable, when set and different from TableName, means the column is
// reachable through an enclosing query scope (CTE or subquery) rather
// than directly from its base table.
type Node struct {
	TableSchema string
	TableName   string
	ColumnName  string
	ScopeSchema string
	ScopeTable  string
	Expression  string
	Children    []*Node
}

// Kind returns the node's classification. The three shapes are mutually
// exclusive and ordered: a node with both table and column is a column
// reference even if it carries children.
func (n *Node) Kind() Kind {
	switch {
	case n.TableName != "" && n.ColumnName != "":
		return KindColumn
	case n.ColumnName != "":
		return KindFunction
	default:
		return KindOpaque
	}
}

// HasScope reports whether the node is exposed through an enclosing scope.
func (n *Node) HasScope() bool {
	return n.ScopeTable != ""
}

// OutputColumn pairs one output column's dependency tree with the alias
// the query gave it, if any.
type OutputColumn struct {
	Alias string
	Node  *Node
}

// Label returns the output column's name: the alias when present,
// otherwise the node's own column name.
func (o OutputColumn) Label() string {
	if o.Alias != "" {
		return o.Alias
	}
	if o.Node != nil {
		return o.Node.ColumnName
	}
	return ""
}

// Resolver is the external SQL resolution boundary. Implementations are
// lenient: unknown identifiers and functions degrade to opaque nodes
// instead of failing the whole resolution.
type Resolver interface {
	Resolve(ctx context.Context, sql string, snap *catalog.Snapshot) ([]OutputColumn, error)
}
