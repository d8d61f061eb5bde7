package lineage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomdata/fathom/pkg/core"
)

func TestWriteRoundTrip(t *testing.T) {
	lin := &core.Lineage{
		Tables: []core.Table{
			{Domain: "sales", Table: "orders", Columns: []string{"amount"}},
		},
		Relations: []core.Relation{
			rel(col("sales", "orders", "amount"), col("marts", "dest", "amount"), ""),
		},
	}

	path := filepath.Join(t.TempDir(), "dest.json")
	require.NoError(t, Write(lin, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got core.Lineage
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, lin.Tables, got.Tables)
	assert.Equal(t, lin.Relations, got.Relations)
}

func TestWriteOmitsEmptyExpression(t *testing.T) {
	lin := &core.Lineage{
		Tables: []core.Table{},
		Relations: []core.Relation{
			rel(col("sales", "orders", "amount"), col("marts", "dest", "amount"), ""),
		},
	}

	path := filepath.Join(t.TempDir(), "dest.json")
	require.NoError(t, Write(lin, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "expression")
}

func TestWriteUnwritablePath(t *testing.T) {
	lin := &core.Lineage{Tables: []core.Table{}, Relations: []core.Relation{}}
	err := Write(lin, filepath.Join(t.TempDir(), "missing", "dest.json"))
	assert.Error(t, err)
}

func TestWriteLeavesNoTempFilesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	lin := &core.Lineage{Tables: []core.Table{}, Relations: []core.Relation{}}
	require.NoError(t, Write(lin, filepath.Join(dir, "dest.json")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dest.json", entries[0].Name())
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "daily_revenue", "daily_revenue"},
		{"dots", "marts.revenue", "marts_revenue"},
		{"dollar", "task$2024", "taskS2024"},
		{"spaces and slashes", "a b/c", "a_b_c"},
		{"non-ascii", "tâche", "t_che"},
		{"dash kept", "stg-orders", "stg-orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeName(tt.input))
		})
	}
}
