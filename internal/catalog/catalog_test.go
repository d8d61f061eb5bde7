package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	snap := NewBuilder().
		AddTable("sales", "orders", []string{"customer_id", "amount"}).
		Build()

	tests := []struct {
		name        string
		domain      string
		table       string
		wantColumns []string
	}{
		{"exact match", "sales", "orders", []string{"customer_id", "amount"}},
		{"case insensitive", "SALES", "Orders", []string{"customer_id", "amount"}},
		{"unknown table", "sales", "payments", nil},
		{"unknown domain", "hr", "orders", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := snap.Lookup(tt.domain, tt.table)
			// Lookup preserves the caller's spelling of the reference.
			assert.Equal(t, tt.domain, got.Domain)
			assert.Equal(t, tt.table, got.Table)
			assert.Equal(t, tt.wantColumns, got.Columns)
			assert.False(t, got.IsTask)
		})
	}
}

func TestLookupIsPure(t *testing.T) {
	snap := NewBuilder().
		AddTable("sales", "orders", []string{"customer_id", "amount"}).
		Build()

	first := snap.Lookup("sales", "orders")
	first.Columns[0] = "mutated"

	second := snap.Lookup("sales", "orders")
	assert.Equal(t, []string{"customer_id", "amount"}, second.Columns)
}

func TestIsTask(t *testing.T) {
	snap := NewBuilder().
		AddTask("marts.revenue").
		Build()

	assert.True(t, snap.IsTask("marts.revenue"))
	assert.True(t, snap.IsTask("MARTS.Revenue"))
	assert.False(t, snap.IsTask("marts.other"))
}

func TestAddTableReplacesColumns(t *testing.T) {
	snap := NewBuilder().
		AddTable("sales", "orders", []string{"a"}).
		AddTable("sales", "orders", []string{"b", "c"}).
		Build()

	assert.Equal(t, []string{"b", "c"}, snap.Lookup("sales", "orders").Columns)
	assert.Equal(t, 1, snap.TableCount())
}
