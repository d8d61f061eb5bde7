package core

import "strings"

// Column identifies a single column by its (domain, table, column) triple.
// It is a comparable value type; two Columns are equal when all three
// parts are equal.
type Column struct {
	Domain string `json:"domain"`
	Table  string `json:"table"`
	Column string `json:"column"`
}

// IsComplete reports whether the column names a real endpoint,
// i.e. both its table and column parts are non-empty.
func (c Column) IsComplete() bool {
	return c.Table != "" && c.Column != ""
}

// Relation is a directed column-to-column edge. Expression optionally
// annotates the transformation that produced the destination; it is
// empty for raw passthrough edges and omitted from JSON.
type Relation struct {
	From       Column `json:"from"`
	To         Column `json:"to"`
	Expression string `json:"expression,omitempty"`
}

// Table describes one table participating in a lineage document.
// IsTask is true when the table is another task's output rather than
// a raw catalog table.
type Table struct {
	Domain  string   `json:"domain"`
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
	IsTask  bool     `json:"isTask"`
}

// FullName returns "domain.table". Table identity is the
// case-insensitive full name.
func (t Table) FullName() string {
	return t.Domain + "." + t.Table
}

// Key returns the lowercase full name, the canonical identity used for
// deduplication and task classification.
func (t Table) Key() string {
	return strings.ToLower(t.FullName())
}

// Lineage is the output document for one task: the deduplicated set of
// participating tables and the deduplicated column-to-column relations.
type Lineage struct {
	Tables    []Table    `json:"tables"`
	Relations []Relation `json:"relations"`
}

// Task describes a named SQL transformation. Its output table is
// (Domain, Table); an empty SQL means the task defines no query and
// yields an empty lineage document.
type Task struct {
	Name   string `yaml:"name" json:"name"`
	Domain string `yaml:"domain" json:"domain"`
	Table  string `yaml:"table" json:"table"`
	SQL    string `yaml:"sql,omitempty" json:"sql,omitempty"`
}

// FullName returns the task's output table full name, "domain.table".
func (t Task) FullName() string {
	return t.Domain + "." + t.Table
}
