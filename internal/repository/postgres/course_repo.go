package postgres

import (
	"context"
	"database/sql"

	"defider/internal/domain"
)

type courseEntryRepository struct {
	DB *sql.DB
}

func NewCourseEntryRepository(db *sql.DB) domain.CourseEntryRepository {
	return &courseEntryRepository{DB: db}
}

func (r *courseEntryRepository) Create(ctx context.Context, entry *domain.CourseEntry) error {
	query := `
		INSERT INTO course_entries (owner_id, name, room, day, block_pair, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		entry.OwnerID, entry.Name, entry.Room, entry.Day, entry.BlockPair, entry.Color, entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *courseEntryRepository) Update(ctx context.Context, entry *domain.CourseEntry) error {
	query := `
		UPDATE course_entries
		SET name = $1, room = $2, day = $3, block_pair = $4, color = $5
		WHERE id = $6 AND owner_id = $7
	`
	res, err := r.DB.ExecContext(ctx, query,
		entry.Name, entry.Room, entry.Day, entry.BlockPair, entry.Color, entry.ID, entry.OwnerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *courseEntryRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `
		DELETE FROM course_entries
		WHERE id = $1 AND owner_id = $2
	`
	res, err := r.DB.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *courseEntryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.CourseEntry, error) {
	query := `
		SELECT id, owner_id, name, room, day, block_pair, color, created_at
		FROM course_entries
		WHERE owner_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CourseEntry
	for rows.Next() {
		entry := &domain.CourseEntry{}
		if err := rows.Scan(&entry.ID, &entry.OwnerID, &entry.Name, &entry.Room, &entry.Day, &entry.BlockPair, &entry.Color, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.CourseEntry{}
	}
	return entries, nil
}
