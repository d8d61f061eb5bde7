package provenance

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fathomdata/fathom/internal/catalog"
)

// nodeJSON is the wire shape the external resolver writes its trees in.
type nodeJSON struct {
	TableSchema string      `json:"tableSchema"`
	TableName   string      `json:"tableName"`
	ColumnName  string      `json:"columnName"`
	ScopeSchema string      `json:"scopeSchema"`
	ScopeTable  string      `json:"scopeTable"`
	Expression  string      `json:"expression"`
	Children    []*nodeJSON `json:"children,omitempty"`
}

type outputColumnJSON struct {
	Alias string    `json:"alias,omitempty"`
	Node  *nodeJSON `json:"node"`
}

// LoadResolutionFile reads a resolution artifact: the external resolver's
// per-output-column dependency trees for one task, serialized as JSON.
func LoadResolutionFile(path string) ([]OutputColumn, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution file: %w", err)
	}
	return ParseResolution(data)
}

// ParseResolution parses resolution JSON content.
func ParseResolution(data []byte) ([]OutputColumn, error) {
	var raw []outputColumnJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse resolution: %w", err)
	}

	cols := make([]OutputColumn, 0, len(raw))
	for _, c := range raw {
		cols = append(cols, OutputColumn{Alias: c.Alias, Node: fromJSON(c.Node)})
	}
	return cols, nil
}

func fromJSON(n *nodeJSON) *Node {
	if n == nil {
		return nil
	}
	node := &Node{
		TableSchema: n.TableSchema,
		TableName:   n.TableName,
		ColumnName:  n.ColumnName,
		ScopeSchema: n.ScopeSchema,
		ScopeTable:  n.ScopeTable,
		Expression:  n.Expression,
	}
	for _, child := range n.Children {
		node.Children = append(node.Children, fromJSON(child))
	}
	return node
}

// Static returns a Resolver that yields the given resolution for any SQL.
// It adapts pre-computed resolution artifacts to the Resolver boundary.
func Static(cols []OutputColumn) Resolver {
	return staticResolver{cols: cols}
}

type staticResolver struct {
	cols []OutputColumn
}

func (s staticResolver) Resolve(_ context.Context, _ string, _ *catalog.Snapshot) ([]OutputColumn, error) {
	return s.cols, nil
}
