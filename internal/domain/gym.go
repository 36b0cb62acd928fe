package domain

import (
	"context"
	"strings"
	"time"
)

// GymSlot is a bookable capacity-limited period at the university gym,
// identified by day plus a block label such as "Bloque 1-2".
type GymSlot struct {
	ID         string  `json:"id"`
	Day        Weekday `json:"day"`
	BlockLabel string  `json:"block"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Capacity   int     `json:"capacity"`
	Occupied   int     `json:"occupied"`
}

// BlockPair returns the bare block pair ("1-2") behind the slot's label.
func (s *GymSlot) BlockPair() string {
	return strings.TrimPrefix(s.BlockLabel, "Bloque ")
}

// AvailableSeats returns capacity minus occupied, floored at zero.
func (s *GymSlot) AvailableSeats() int {
	if seats := s.Capacity - s.Occupied; seats > 0 {
		return seats
	}
	return 0
}

// IsFull reports whether the slot has no seats left.
func (s *GymSlot) IsFull() bool {
	return s.AvailableSeats() == 0
}

// GymReservation links a user to a gym slot. The nested GymSlot is populated
// on reads that join slot metadata.
type GymReservation struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	SlotID    string    `json:"slot_id"`
	Slot      *GymSlot  `json:"slot,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGymReservation returns a new reservation. ID is set by the repository on create.
func NewGymReservation(ownerID, slotID string, createdAt time.Time) *GymReservation {
	return &GymReservation{
		OwnerID:   ownerID,
		SlotID:    slotID,
		CreatedAt: createdAt,
	}
}

// GymSlotRepository defines read operations over the gym timetable. List
// returns slots ordered by day then start time.
type GymSlotRepository interface {
	List(ctx context.Context) ([]*GymSlot, error)
	GetByID(ctx context.Context, id string) (*GymSlot, error)
}

// GymReservationRepository defines storage operations for reservations.
// Create must return ErrDuplicateBooking on the (owner, slot) uniqueness
// violation and ErrCapacityFull when the slot has no seats. The occupied
// counter is maintained exclusively by the store, never by clients.
type GymReservationRepository interface {
	Create(ctx context.Context, reservation *GymReservation) error
	Delete(ctx context.Context, ownerID, slotID string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*GymReservation, error)
}

// GymDaySlots groups a day's slots for display, in catalog day order.
type GymDaySlots struct {
	Day   Weekday    `json:"day"`
	Slots []*GymSlot `json:"slots"`
}

// GymService defines gym timetable browsing and reservation operations.
type GymService interface {
	ListSlots(ctx context.Context) ([]*GymDaySlots, error)
	Reserve(ctx context.Context, ownerID, slotID string) (*GymReservation, error)
	Cancel(ctx context.Context, ownerID, slotID string) error
	ListMyReservations(ctx context.Context, ownerID string) ([]*GymReservation, error)
}
