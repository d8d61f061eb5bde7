// Package core defines the shared language of the Fathom system.
//
// This package contains:
//   - Domain entities (Column, Relation, Table, Lineage, Task)
//   - Persistence types (Run)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
