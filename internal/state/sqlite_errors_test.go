package state

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomdata/fathom/pkg/core"
)

// mockStore wraps a sqlmock-backed store for failure-path testing.
func mockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &SQLiteStore{db: db, path: "mock"}, mock
}

func TestSaveLineageRollsBackOnInsertFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM lineage_tables").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM lineage_relations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO lineage_tables").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	lin := &core.Lineage{
		Tables:    []core.Table{{Domain: "sales", Table: "orders"}},
		Relations: []core.Relation{},
	}
	err := s.SaveLineage("t", lin)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveLineageBeginFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	err := s.SaveLineage("t", &core.Lineage{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
}

func TestGetLineageQueryFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectQuery("SELECT domain, table_name").
		WillReturnError(errors.New("no such table"))

	_, err := s.GetLineage("t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query tables")
}

func TestCreateRunInsertFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WillReturnError(errors.New("constraint failed"))

	_, err := s.CreateRun("t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create run")
}
