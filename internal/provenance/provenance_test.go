package provenance

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeKind(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want Kind
	}{
		{"column reference", &Node{TableName: "orders", ColumnName: "amount"}, KindColumn},
		{"function call", &Node{ColumnName: "sum"}, KindFunction},
		{"opaque literal", &Node{}, KindOpaque},
		{"table without column is opaque", &Node{TableName: "orders"}, KindOpaque},
		{
			"column reference wins over children",
			&Node{TableName: "orders", ColumnName: "amount", Children: []*Node{{}}},
			KindColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.Kind())
		})
	}
}

func TestOutputColumnLabel(t *testing.T) {
	n := &Node{TableName: "orders", ColumnName: "amount"}

	assert.Equal(t, "total", OutputColumn{Alias: "total", Node: n}.Label())
	assert.Equal(t, "amount", OutputColumn{Node: n}.Label())
	assert.Equal(t, "", OutputColumn{}.Label())
}

const sampleResolution = `[
  {
    "alias": "total",
    "node": {
      "tableSchema": "",
      "tableName": "",
      "columnName": "sum",
      "expression": "sum(amount)",
      "children": [
        {"tableSchema": "sales", "tableName": "orders", "columnName": "amount"}
      ]
    }
  },
  {
    "node": {"tableSchema": "sales", "tableName": "customers", "columnName": "id", "scopeTable": "c"}
  }
]`

func TestParseResolution(t *testing.T) {
	cols, err := ParseResolution([]byte(sampleResolution))
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, "total", cols[0].Label())
	assert.Equal(t, KindFunction, cols[0].Node.Kind())
	require.Len(t, cols[0].Node.Children, 1)
	assert.Equal(t, KindColumn, cols[0].Node.Children[0].Kind())

	assert.Equal(t, "id", cols[1].Label())
	assert.True(t, cols[1].Node.HasScope())
}

func TestParseResolutionInvalid(t *testing.T) {
	_, err := ParseResolution([]byte("{not json"))
	assert.Error(t, err)
}

func TestLoadResolutionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleResolution), 0o644))

	cols, err := LoadResolutionFile(path)
	require.NoError(t, err)
	assert.Len(t, cols, 2)

	_, err = LoadResolutionFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStaticResolver(t *testing.T) {
	cols, err := ParseResolution([]byte(sampleResolution))
	require.NoError(t, err)

	r := Static(cols)
	got, err := r.Resolve(context.Background(), "select 1", nil)
	require.NoError(t, err)
	assert.Equal(t, cols, got)
}
