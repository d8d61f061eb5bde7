// Package lineage resolves column-level lineage for SQL tasks.
//
// Given the per-output-column dependency trees produced by the external
// SQL resolver and a catalog snapshot, it extracts every referenced
// table, derives the directed column-to-column relations (through
// expressions, function calls, joins and CTEs), and merges both into a
// single deduplicated lineage document.
//
// The pipeline is a single pass per task with no shared mutable state:
// resolve, extract tables, extract relations, merge, persist.
package lineage
