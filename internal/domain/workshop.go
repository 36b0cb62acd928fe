package domain

import (
	"context"
	"time"
)

// Workshop is a recurring extracurricular sports activity with fixed capacity
// and a textual schedule descriptor spanning one or more days at one block pair.
type Workshop struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Instructor   string `json:"instructor"`
	ScheduleText string `json:"schedule"`
	Location     string `json:"location"`
	Level        string `json:"level,omitempty"`
	Category     string `json:"category,omitempty"`
	Color        string `json:"color,omitempty"`
	Capacity     int    `json:"capacity"`
	Enrolled     int    `json:"enrolled"`
}

// AvailableSeats returns capacity minus enrolled, floored at zero so a
// temporarily inconsistent counter can never render a negative count.
func (w *Workshop) AvailableSeats() int {
	if seats := w.Capacity - w.Enrolled; seats > 0 {
		return seats
	}
	return 0
}

// IsFull reports whether the workshop has no seats left. Callers disable the
// enroll action preemptively when this is true, independent of server rejection.
func (w *Workshop) IsFull() bool {
	return w.AvailableSeats() == 0
}

// Slots expands the workshop's schedule descriptor into the grid cells it
// occupies. A malformed descriptor yields no cells.
func (w *Workshop) Slots() []SlotKey {
	return ParseScheduleDescriptor(w.ScheduleText)
}

// WorkshopEnrollment links a user to a workshop. The nested Workshop is
// populated on reads that join workshop metadata.
type WorkshopEnrollment struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	WorkshopID string    `json:"workshop_id"`
	Workshop   *Workshop `json:"workshop,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewWorkshopEnrollment returns a new enrollment. ID is set by the repository on create.
func NewWorkshopEnrollment(ownerID, workshopID string, createdAt time.Time) *WorkshopEnrollment {
	return &WorkshopEnrollment{
		OwnerID:    ownerID,
		WorkshopID: workshopID,
		CreatedAt:  createdAt,
	}
}

// WorkshopRepository defines read operations over the workshop catalog.
type WorkshopRepository interface {
	List(ctx context.Context) ([]*Workshop, error)
	GetByID(ctx context.Context, id string) (*Workshop, error)
}

// WorkshopEnrollmentRepository defines storage operations for enrollments.
// Create must return ErrDuplicateBooking when the (owner, workshop) uniqueness
// constraint is violated and ErrCapacityFull when the workshop has no seats.
type WorkshopEnrollmentRepository interface {
	Create(ctx context.Context, enrollment *WorkshopEnrollment) error
	Delete(ctx context.Context, ownerID, workshopID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*WorkshopEnrollment, error)
}

// WorkshopService defines workshop browsing and enrollment operations.
type WorkshopService interface {
	ListWorkshops(ctx context.Context) ([]*Workshop, error)
	Enroll(ctx context.Context, ownerID, workshopID string) (*WorkshopEnrollment, error)
	Unenroll(ctx context.Context, ownerID, workshopID string) error
	ListMyEnrollments(ctx context.Context, ownerID string) ([]*WorkshopEnrollment, error)
}
