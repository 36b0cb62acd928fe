package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"defider/internal/domain"
)

type workshopService struct {
	workshopRepo   domain.WorkshopRepository
	enrollmentRepo domain.WorkshopEnrollmentRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewWorkshopService creates a WorkshopService. emailService may be nil to
// disable confirmation emails.
func NewWorkshopService(
	workshopRepo domain.WorkshopRepository,
	enrollmentRepo domain.WorkshopEnrollmentRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.WorkshopService {
	return &workshopService{
		workshopRepo:   workshopRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *workshopService) ListWorkshops(ctx context.Context) ([]*domain.Workshop, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	workshops, err := s.workshopRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workshops: %w", err)
	}
	if workshops == nil {
		workshops = []*domain.Workshop{}
	}
	return workshops, nil
}

func (s *workshopService) Enroll(ctx context.Context, ownerID, workshopID string) (*domain.WorkshopEnrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	workshop, err := s.workshopRepo.GetByID(ctx, workshopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get workshop: %w", err)
	}

	// Pre-check on the latest fetched snapshot. The store enforces the real
	// limit; the counter is never adjusted locally as an optimistic guess.
	if workshop.IsFull() {
		return nil, domain.ErrCapacityFull
	}

	enrollment := domain.NewWorkshopEnrollment(ownerID, workshopID, time.Now())
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		// A uniqueness violation is the expected "already enrolled" outcome,
		// not a system failure; it passes through untranslated.
		if errors.Is(err, domain.ErrDuplicateBooking) || errors.Is(err, domain.ErrCapacityFull) {
			return nil, err
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	enrollment.Workshop = workshop

	s.sendEnrollmentEmail(ctx, ownerID, workshop)
	return enrollment, nil
}

func (s *workshopService) Unenroll(ctx context.Context, ownerID, workshopID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.enrollmentRepo.Delete(ctx, ownerID, workshopID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

func (s *workshopService) ListMyEnrollments(ctx context.Context, ownerID string) ([]*domain.WorkshopEnrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	enrollments, err := s.enrollmentRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if enrollments == nil {
		enrollments = []*domain.WorkshopEnrollment{}
	}
	return enrollments, nil
}

// sendEnrollmentEmail sends the confirmation best-effort: a mail failure never
// fails the enrollment.
func (s *workshopService) sendEnrollmentEmail(ctx context.Context, ownerID string, workshop *domain.Workshop) {
	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		s.logger.WarnContext(ctx, "enrollment email skipped", "owner_id", ownerID, "err", err)
		return
	}
	data := &domain.EnrollmentEmailData{
		Email:        user.Email,
		UserName:     user.Name,
		WorkshopName: workshop.Name,
		Instructor:   workshop.Instructor,
		ScheduleText: workshop.ScheduleText,
		Location:     workshop.Location,
	}
	if err := s.emailService.SendEnrollmentConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "enrollment email failed", "owner_id", ownerID, "err", err)
	}
}
