package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"defider/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("success assigns id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("ana@usm.cl", "bcrypt-hash", "Ana", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))

		user := domain.NewUser("ana@usm.cl", "Ana", now, now)
		repo := NewUserRepository(db)
		require.NoError(t, repo.Create(ctx, user, "bcrypt-hash"))
		require.Equal(t, "user-uuid-1", user.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate email", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		user := domain.NewUser("ana@usm.cl", "Ana", now, now)
		repo := NewUserRepository(db)
		require.ErrorIs(t, repo.Create(ctx, user, "bcrypt-hash"), domain.ErrDuplicateEmail)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("returns user and hash", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("ana@usm.cl").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at", "updated_at"}).
				AddRow("user-1", "ana@usm.cl", "bcrypt-hash", "Ana", now, now))

		repo := NewUserRepository(db)
		user, hash, err := repo.GetByEmail(ctx, "ana@usm.cl")
		require.NoError(t, err)
		require.Equal(t, "user-1", user.ID)
		require.Equal(t, "bcrypt-hash", hash)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM users`).
			WithArgs("nadie@usm.cl").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "created_at", "updated_at"}))

		repo := NewUserRepository(db)
		_, _, err = repo.GetByEmail(ctx, "nadie@usm.cl")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
