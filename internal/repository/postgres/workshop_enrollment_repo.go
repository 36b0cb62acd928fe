package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"defider/internal/domain"
)

type workshopEnrollmentRepository struct {
	DB *sql.DB
}

func NewWorkshopEnrollmentRepository(db *sql.DB) domain.WorkshopEnrollmentRepository {
	return &workshopEnrollmentRepository{DB: db}
}

// Create inserts the enrollment and increments the enrolled counter in one
// transaction. The counter update is guarded by the capacity so two racing
// enrollments cannot both take the last seat.
func (r *workshopEnrollmentRepository) Create(ctx context.Context, enrollment *domain.WorkshopEnrollment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO workshop_enrollments (owner_id, workshop_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insert, enrollment.OwnerID, enrollment.WorkshopID, enrollment.CreatedAt).
		Scan(&enrollment.ID)
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
		UPDATE workshops
		SET enrolled = enrolled + 1
		WHERE id = $1 AND enrolled < capacity
	`
	res, err := tx.ExecContext(ctx, guard, enrollment.WorkshopID)
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

// Delete removes the enrollment and decrements the counter, floored at zero.
func (r *workshopEnrollmentRepository) Delete(ctx context.Context, ownerID, workshopID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	del := `
		DELETE FROM workshop_enrollments
		WHERE owner_id = $1 AND workshop_id = $2
	`
	res, err := tx.ExecContext(ctx, del, ownerID, workshopID)
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
		UPDATE workshops
		SET enrolled = GREATEST(enrolled - 1, 0)
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, dec, workshopID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *workshopEnrollmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.WorkshopEnrollment, error) {
	query := `
		SELECT e.id, e.owner_id, e.workshop_id, e.created_at,
			w.id, w.name, w.instructor, w.schedule_text, w.location, w.level, w.category, w.color, w.capacity, w.enrolled
		FROM workshop_enrollments e
		JOIN workshops w ON w.id = e.workshop_id
		WHERE e.owner_id = $1
		ORDER BY e.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*domain.WorkshopEnrollment
	for rows.Next() {
		e := &domain.WorkshopEnrollment{Workshop: &domain.Workshop{}}
		w := e.Workshop
		if err := rows.Scan(
			&e.ID, &e.OwnerID, &e.WorkshopID, &e.CreatedAt,
			&w.ID, &w.Name, &w.Instructor, &w.ScheduleText, &w.Location, &w.Level, &w.Category, &w.Color, &w.Capacity, &w.Enrolled,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if enrollments == nil {
		enrollments = []*domain.WorkshopEnrollment{}
	}
	return enrollments, nil
}
