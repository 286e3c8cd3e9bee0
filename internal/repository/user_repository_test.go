package repository

import (
	"context"
	"testing"

	"github.com/Alexandre11021998/Zelo/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailExists(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`(?s)SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("ana@hospital.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "ana@hospital.com")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRoleIsIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	userID := uuid.New()

	// ON CONFLICT DO NOTHING: papel já existente não gera erro
	mock.ExpectExec(`(?s)INSERT INTO user_roles .*ON CONFLICT \(user_id, role\) DO NOTHING`).
		WithArgs(userID, models.RoleColaborador).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err = repo.AssignRole(context.Background(), userID, models.RoleColaborador)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)

	mock.ExpectQuery(`(?s)SELECT .* FROM users`).
		WithArgs("ninguem@hospital.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}))

	_, err = repo.GetUserByEmail(context.Background(), "ninguem@hospital.com")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	userID := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.DeleteUser(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
