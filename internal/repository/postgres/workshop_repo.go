package postgres

import (
	"context"
	"database/sql"
	"errors"

	"defider/internal/domain"
)

type workshopRepository struct {
	DB *sql.DB
}

func NewWorkshopRepository(db *sql.DB) domain.WorkshopRepository {
	return &workshopRepository{DB: db}
}

func (r *workshopRepository) List(ctx context.Context) ([]*domain.Workshop, error) {
	query := `
		SELECT id, name, instructor, schedule_text, location, level, category, color, capacity, enrolled
		FROM workshops
		ORDER BY name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workshops []*domain.Workshop
	for rows.Next() {
		w := &domain.Workshop{}
		if err := rows.Scan(&w.ID, &w.Name, &w.Instructor, &w.ScheduleText, &w.Location, &w.Level, &w.Category, &w.Color, &w.Capacity, &w.Enrolled); err != nil {
			return nil, err
		}
		workshops = append(workshops, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if workshops == nil {
		workshops = []*domain.Workshop{}
	}
	return workshops, nil
}

func (r *workshopRepository) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	query := `
		SELECT id, name, instructor, schedule_text, location, level, category, color, capacity, enrolled
		FROM workshops
		WHERE id = $1
	`
	w := &domain.Workshop{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&w.ID, &w.Name, &w.Instructor, &w.ScheduleText, &w.Location, &w.Level, &w.Category, &w.Color, &w.Capacity, &w.Enrolled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return w, nil
}
