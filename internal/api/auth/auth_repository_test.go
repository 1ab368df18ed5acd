package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

var adminColumns = []string{"id", "name", "email", "password_hash", "created_at", "updated_at"}

func TestPostgresAuthRepo_CreateAdmin(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()
	repo := NewPostgresAuthRepo(mockPool, discardLogger())

	id := uuid.New()
	now := time.Now().UTC()
	mockPool.ExpectQuery("INSERT INTO admins").
		WithArgs("Renz", "admin@example.com", "hash").
		WillReturnRows(pgxmock.NewRows(adminColumns).AddRow(id, "Renz", "admin@example.com", "hash", now, now))

	admin, err := repo.CreateAdmin(context.Background(), "Renz", "admin@example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, id, admin.ID)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresAuthRepo_Errors(t *testing.T) {
	newRepo := func(t *testing.T) (pgxmock.PgxPoolIface, *PostgresAuthRepo) {
		mockPool, err := pgxmock.NewPool()
		require.NoError(t, err)
		t.Cleanup(mockPool.Close)
		return mockPool, NewPostgresAuthRepo(mockPool, discardLogger())
	}

	t.Run("duplicate email", func(t *testing.T) {
		mockPool, repo := newRepo(t)
		mockPool.ExpectQuery("INSERT INTO admins").
			WithArgs("Renz", "admin@example.com", "hash").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.CreateAdmin(context.Background(), "Renz", "admin@example.com", "hash")
		assert.ErrorIs(t, err, types.ErrAlreadyExists)
		assert.Equal(t, "Email already exists.", types.MessageOf(err))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("unknown email", func(t *testing.T) {
		mockPool, repo := newRepo(t)
		mockPool.ExpectQuery("FROM admins WHERE email").
			WithArgs("nobody@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetAdminByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, "User not found.", types.MessageOf(err))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		mockPool, repo := newRepo(t)
		id := uuid.New()
		mockPool.ExpectQuery("FROM admins WHERE id").
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetAdminByID(context.Background(), id)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
