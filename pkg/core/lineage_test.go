package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnIsComplete(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want bool
	}{
		{"full triple", Column{Domain: "sales", Table: "orders", Column: "amount"}, true},
		{"no domain", Column{Table: "orders", Column: "amount"}, true},
		{"no table", Column{Domain: "sales", Column: "amount"}, false},
		{"no column", Column{Domain: "sales", Table: "orders"}, false},
		{"empty", Column{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.col.IsComplete())
		})
	}
}

func TestTableIdentity(t *testing.T) {
	a := Table{Domain: "Sales", Table: "Orders"}
	b := Table{Domain: "sales", Table: "orders"}

	assert.Equal(t, "Sales.Orders", a.FullName())
	assert.Equal(t, "sales.orders", a.Key())
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.FullName(), b.FullName())
}

func TestTaskFullName(t *testing.T) {
	task := Task{Name: "revenue", Domain: "marts", Table: "revenue"}
	assert.Equal(t, "marts.revenue", task.FullName())
}

func TestRelationExpressionOmittedFromJSON(t *testing.T) {
	rel := Relation{
		From: Column{Domain: "sales", Table: "orders", Column: "amount"},
		To:   Column{Domain: "marts", Table: "revenue", Column: "amount"},
	}

	data, err := json.Marshal(rel)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "expression")

	rel.Expression = "sum(o.amount)"
	data, err = json.Marshal(rel)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"expression":"sum(o.amount)"`)
}

func TestRelationsAreComparable(t *testing.T) {
	a := Relation{
		From: Column{Domain: "sales", Table: "orders", Column: "amount"},
		To:   Column{Domain: "marts", Table: "revenue", Column: "amount"},
	}
	b := a

	// Map-keyed deduplication relies on the full triple being comparable.
	seen := map[Relation]struct{}{a: {}}
	_, ok := seen[b]
	assert.True(t, ok)

	b.Expression = "sum(o.amount)"
	_, ok = seen[b]
	assert.False(t, ok)
}
