package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"defider/internal/domain"
)

type gymReservationRepository struct {
	DB *sql.DB
}

func NewGymReservationRepository(db *sql.DB) domain.GymReservationRepository {
	return &gymReservationRepository{DB: db}
}

// Create inserts the reservation and increments the occupied counter in one
// transaction, guarded by the slot capacity.
func (r *gymReservationRepository) Create(ctx context.Context, reservation *domain.GymReservation) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO gym_reservations (owner_id, slot_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insert, reservation.OwnerID, reservation.SlotID, reservation.CreatedAt).
		Scan(&reservation.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBooking
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return err
	}

	guard := `
		UPDATE gym_slots
		SET occupied = occupied + 1
		WHERE id = $1 AND occupied < capacity
	`
	res, err := tx.ExecContext(ctx, guard, reservation.SlotID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCapacityFull
	}

	return tx.Commit()
}

// Delete removes the reservation and decrements the counter, floored at zero.
func (r *gymReservationRepository) Delete(ctx context.Context, ownerID, slotID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	del := `
		DELETE FROM gym_reservations
		WHERE owner_id = $1 AND slot_id = $2
	`
	res, err := tx.ExecContext(ctx, del, ownerID, slotID)
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

	dec := `
		UPDATE gym_slots
		SET occupied = GREATEST(occupied - 1, 0)
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, dec, slotID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *gymReservationRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.GymReservation, error) {
	query := `
		SELECT res.id, res.owner_id, res.slot_id, res.created_at,
			s.id, s.day, s.block_label, s.start_time, s.end_time, s.capacity, s.occupied
		FROM gym_reservations res
		JOIN gym_slots s ON s.id = res.slot_id
		WHERE res.owner_id = $1
		ORDER BY res.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*domain.GymReservation
	for rows.Next() {
		res := &domain.GymReservation{Slot: &domain.GymSlot{}}
		s := res.Slot
		if err := rows.Scan(
			&res.ID, &res.OwnerID, &res.SlotID, &res.CreatedAt,
			&s.ID, &s.Day, &s.BlockLabel, &s.StartTime, &s.EndTime, &s.Capacity, &s.Occupied,
		); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if reservations == nil {
		reservations = []*domain.GymReservation{}
	}
	return reservations, nil
}
