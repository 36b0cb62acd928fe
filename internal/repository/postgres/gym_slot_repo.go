package postgres

import (
	"context"
	"database/sql"
	"errors"

	"defider/internal/domain"
)

type gymSlotRepository struct {
	DB *sql.DB
}

func NewGymSlotRepository(db *sql.DB) domain.GymSlotRepository {
	return &gymSlotRepository{DB: db}
}

func (r *gymSlotRepository) List(ctx context.Context) ([]*domain.GymSlot, error) {
	query := `
		SELECT id, day, block_label, start_time, end_time, capacity, occupied
		FROM gym_slots
		ORDER BY day ASC, start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*domain.GymSlot
	for rows.Next() {
		s := &domain.GymSlot{}
		if err := rows.Scan(&s.ID, &s.Day, &s.BlockLabel, &s.StartTime, &s.EndTime, &s.Capacity, &s.Occupied); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []*domain.GymSlot{}
	}
	return slots, nil
}

func (r *gymSlotRepository) GetByID(ctx context.Context, id string) (*domain.GymSlot, error) {
	query := `
		SELECT id, day, block_label, start_time, end_time, capacity, occupied
		FROM gym_slots
		WHERE id = $1
	`
	s := &domain.GymSlot{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.Day, &s.BlockLabel, &s.StartTime, &s.EndTime, &s.Capacity, &s.Occupied)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
