package state

import (
	"encoding/json"
	"fmt"

	"github.com/fathomdata/fathom/pkg/core"
)

// SaveLineage stores a task's lineage document, replacing any previous
// document for the task. The replace happens in one transaction so a
// reader never observes a half-written document.
func (s *SQLiteStore) SaveLineage(taskName string, lin *core.Lineage) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM lineage_tables WHERE task_name = ?`, taskName); err != nil {
		return fmt.Errorf("failed to delete existing tables: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM lineage_relations WHERE task_name = ?`, taskName); err != nil {
		return fmt.Errorf("failed to delete existing relations: %w", err)
	}

	for i, t := range lin.Tables {
		columns, err := json.Marshal(t.Columns)
		if err != nil {
			return fmt.Errorf("failed to encode columns for %s: %w", t.FullName(), err)
		}
		if _, err := tx.Exec(
			`INSERT INTO lineage_tables (task_name, position, domain, table_name, columns, is_task)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			taskName, i, t.Domain, t.Table, string(columns), boolToInt(t.IsTask),
		); err != nil {
			return fmt.Errorf("failed to insert table %s: %w", t.FullName(), err)
		}
	}

	for i, r := range lin.Relations {
		if _, err := tx.Exec(
			`INSERT INTO lineage_relations
			 (task_name, position, from_domain, from_table, from_column, to_domain, to_table, to_column, expression)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			taskName, i,
			r.From.Domain, r.From.Table, r.From.Column,
			r.To.Domain, r.To.Table, r.To.Column,
			r.Expression,
		); err != nil {
			return fmt.Errorf("failed to insert relation %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetLineage retrieves a task's lineage document. A task that was never
// saved yields nil, not an error.
func (s *SQLiteStore) GetLineage(taskName string) (*core.Lineage, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	tables, err := s.lineageTables(taskName)
	if err != nil {
		return nil, err
	}
	relations, err := s.lineageRelations(taskName)
	if err != nil {
		return nil, err
	}
	if tables == nil && relations == nil {
		var saved int
		err := s.db.QueryRow(
			`SELECT COUNT(*) FROM runs WHERE task_name = ?`, taskName).Scan(&saved)
		if err != nil {
			return nil, fmt.Errorf("failed to check task: %w", err)
		}
		// Distinguish "empty document" from "never computed": an empty
		// document still belongs to a task that has run.
		if saved == 0 {
			return nil, nil
		}
	}

	if tables == nil {
		tables = []core.Table{}
	}
	if relations == nil {
		relations = []core.Relation{}
	}
	return &core.Lineage{Tables: tables, Relations: relations}, nil
}

func (s *SQLiteStore) lineageTables(taskName string) ([]core.Table, error) {
	rows, err := s.db.Query(
		`SELECT domain, table_name, columns, is_task
		 FROM lineage_tables WHERE task_name = ? ORDER BY position`, taskName)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var tables []core.Table
	for rows.Next() {
		var t core.Table
		var columns string
		var isTask int
		if err := rows.Scan(&t.Domain, &t.Table, &columns, &isTask); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		if err := json.Unmarshal([]byte(columns), &t.Columns); err != nil {
			return nil, fmt.Errorf("failed to decode columns for %s: %w", t.FullName(), err)
		}
		t.IsTask = isTask == 1
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *SQLiteStore) lineageRelations(taskName string) ([]core.Relation, error) {
	rows, err := s.db.Query(
		`SELECT from_domain, from_table, from_column, to_domain, to_table, to_column, expression
		 FROM lineage_relations WHERE task_name = ? ORDER BY position`, taskName)
	if err != nil {
		return nil, fmt.Errorf("failed to query relations: %w", err)
	}
	defer rows.Close()

	var relations []core.Relation
	for rows.Next() {
		var r core.Relation
		if err := rows.Scan(
			&r.From.Domain, &r.From.Table, &r.From.Column,
			&r.To.Domain, &r.To.Table, &r.To.Column,
			&r.Expression,
		); err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		relations = append(relations, r)
	}
	return relations, rows.Err()
}

// DeleteLineage removes a task's lineage document.
func (s *SQLiteStore) DeleteLineage(taskName string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM lineage_tables WHERE task_name = ?`, taskName); err != nil {
		return fmt.Errorf("failed to delete tables: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM lineage_relations WHERE task_name = ?`, taskName); err != nil {
		return fmt.Errorf("failed to delete relations: %w", err)
	}
	return tx.Commit()
}

// ListLineageTasks returns the names of tasks with a saved document,
// sorted.
func (s *SQLiteStore) ListLineageTasks() ([]string, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT task_name FROM lineage_tables
		 UNION SELECT DISTINCT task_name FROM lineage_relations
		 ORDER BY task_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan task name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ core.Store = (*SQLiteStore)(nil)
