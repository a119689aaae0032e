package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonRepositoryEnsureAliasesAssignsSequentially(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnonRepository(db)

	mock.ExpectBegin()
	existing := sqlmock.NewRows([]string{"student_id", "anon_id", "seq", "created_at"}).
		AddRow("41301001", "S0001", 1, time.Now())
	mock.ExpectQuery("SELECT student_id, anon_id, seq, created_at FROM anon_map").
		WillReturnRows(existing)
	mock.ExpectExec("INSERT INTO anon_map").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mapping, err := repo.EnsureAliases(context.Background(), []string{"41301001", "41301002"})
	require.NoError(t, err)
	require.Len(t, mapping, 2)
	assert.Equal(t, "S0001", mapping["41301001"].AnonID)
	assert.Equal(t, "S0002", mapping["41301002"].AnonID)
	assert.Equal(t, 2, mapping["41301002"].Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnonRepositoryEnsureAliasesNoNewStudents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnonRepository(db)

	mock.ExpectBegin()
	existing := sqlmock.NewRows([]string{"student_id", "anon_id", "seq", "created_at"}).
		AddRow("41301001", "S0001", 1, time.Now()).
		AddRow("41301002", "S0002", 2, time.Now())
	mock.ExpectQuery("SELECT student_id, anon_id, seq, created_at FROM anon_map").
		WillReturnRows(existing)
	mock.ExpectCommit()

	mapping, err := repo.EnsureAliases(context.Background(), []string{"41301002"})
	require.NoError(t, err)
	require.Len(t, mapping, 2)
	assert.Equal(t, "S0002", mapping["41301002"].AnonID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
