package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"defider/internal/domain"
)

type gymService struct {
	slotRepo        domain.GymSlotRepository
	reservationRepo domain.GymReservationRepository
	userRepo        domain.UserRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

// NewGymService creates a GymService. emailService may be nil to disable
// confirmation emails.
func NewGymService(
	slotRepo domain.GymSlotRepository,
	reservationRepo domain.GymReservationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.GymService {
	return &gymService{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

// ListSlots returns the gym timetable grouped by day, in catalog day order.
// Days without slots are omitted.
func (s *gymService) ListSlots(ctx context.Context) ([]*domain.GymDaySlots, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slots, err := s.slotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gym slots: %w", err)
	}

	byDay := make(map[domain.Weekday][]*domain.GymSlot)
	for _, slot := range slots {
		byDay[slot.Day] = append(byDay[slot.Day], slot)
	}

	grouped := []*domain.GymDaySlots{}
	for _, day := range domain.Days(domain.GymGrid) {
		if daySlots := byDay[day]; len(daySlots) > 0 {
			grouped = append(grouped, &domain.GymDaySlots{Day: day, Slots: daySlots})
		}
	}
	return grouped, nil
}

func (s *gymService) Reserve(ctx context.Context, ownerID, slotID string) (*domain.GymReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get gym slot: %w", err)
	}

	if slot.IsFull() {
		return nil, domain.ErrCapacityFull
	}

	reservation := domain.NewGymReservation(ownerID, slotID, time.Now())
	if err := s.reservationRepo.Create(ctx, reservation); err != nil {
		if errors.Is(err, domain.ErrDuplicateBooking) || errors.Is(err, domain.ErrCapacityFull) {
			return nil, err
		}
		return nil, fmt.Errorf("create gym reservation: %w", err)
	}
	reservation.Slot = slot

	s.sendReservationEmail(ctx, ownerID, slot)
	return reservation, nil
}

func (s *gymService) Cancel(ctx context.Context, ownerID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.reservationRepo.Delete(ctx, ownerID, slotID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete gym reservation: %w", err)
	}
	return nil
}

func (s *gymService) ListMyReservations(ctx context.Context, ownerID string) ([]*domain.GymReservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reservations, err := s.reservationRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list gym reservations: %w", err)
	}
	if reservations == nil {
		reservations = []*domain.GymReservation{}
	}
	return reservations, nil
}

func (s *gymService) sendReservationEmail(ctx context.Context, ownerID string, slot *domain.GymSlot) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		s.logger.WarnContext(ctx, "reservation email skipped", "owner_id", ownerID, "err", err)
		return
	}
	data := &domain.ReservationEmailData{
		Email:      user.Email,
		UserName:   user.Name,
		Day:        slot.Day,
		BlockLabel: slot.BlockLabel,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
	}
	if err := s.emailService.SendReservationConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "reservation email failed", "owner_id", ownerID, "err", err)
	}
}
