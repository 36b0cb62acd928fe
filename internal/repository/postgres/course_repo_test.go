package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"defider/internal/domain"
)

func TestCourseEntryRepository_Create(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	entry := domain.NewCourseEntry("user-1", "Cálculo II", "Sala 204", domain.Lunes, "3-4", "#3b82f6", createdAt)

	mock.ExpectQuery(`INSERT INTO course_entries`).
		WithArgs("user-1", "Cálculo II", "Sala 204", domain.Lunes, "3-4", "#3b82f6", createdAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("course-uuid-1"))

	repo := NewCourseEntryRepository(db)
	require.NoError(t, repo.Create(ctx, entry))
	require.Equal(t, "course-uuid-1", entry.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseEntryRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		entry   *domain.CourseEntry
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			entry: &domain.CourseEntry{
				ID: "course-1", OwnerID: "user-1", Name: "Física", Day: domain.Martes, BlockPair: "5-6",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE course_entries`).
					WithArgs("Física", "", domain.Martes, "5-6", "", "course-1", "user-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not owned or missing",
			entry: &domain.CourseEntry{
				ID: "course-1", OwnerID: "other-user", Name: "Física", Day: domain.Martes, BlockPair: "5-6",
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE course_entries`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name:  "db error",
			entry: &domain.CourseEntry{ID: "course-1", OwnerID: "user-1", Name: "Física", Day: domain.Martes, BlockPair: "5-6"},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE course_entries`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewCourseEntryRepository(db)
			err = repo.Update(ctx, tt.entry)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCourseEntryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM course_entries`).
		WithArgs("course-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCourseEntryRepository(db)
	require.ErrorIs(t, repo.Delete(ctx, "user-1", "course-1"), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseEntryRepository_ListByOwner(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	createdAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT (.+) FROM course_entries`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "room", "day", "block_pair", "color", "created_at"}).
			AddRow("course-1", "user-1", "Cálculo II", "Sala 204", "Lunes", "3-4", "#3b82f6", createdAt).
			AddRow("course-2", "user-1", "Física", "", "Martes", "5-6", "", createdAt))

	repo := NewCourseEntryRepository(db)
	entries, err := repo.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, domain.Lunes, entries[0].Day)
	require.Equal(t, "5-6", entries[1].BlockPair)
	require.NoError(t, mock.ExpectationsWereMet())
}
