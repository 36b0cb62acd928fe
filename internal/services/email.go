package services

import (
	"context"
	"fmt"

	"defider/internal/domain"
)

type emailService struct {
	mailer domain.Mailer
}

// NewEmailService returns an EmailService over the given Mailer.
func NewEmailService(mailer domain.Mailer) domain.EmailService {
	return &emailService{mailer: mailer}
}

func (s *emailService) SendEnrollmentConfirmation(ctx context.Context, data *domain.EnrollmentEmailData) error {
	if data == nil {
		return fmt.Errorf("enrollment email data is nil")
	}
	subject := fmt.Sprintf("Inscripción confirmada: %s", data.WorkshopName)
	text := fmt.Sprintf(
		"Hola %s,\n\nTu inscripción al taller %s fue confirmada.\n\nInstructor: %s\nHorario: %s\nLugar: %s\n\nDEFIDER",
		data.UserName, data.WorkshopName, data.Instructor, data.ScheduleText, data.Location,
	)
	html := fmt.Sprintf(
		"<p>Hola %s,</p><p>Tu inscripción al taller <strong>%s</strong> fue confirmada.</p><ul><li>Instructor: %s</li><li>Horario: %s</li><li>Lugar: %s</li></ul><p>DEFIDER</p>",
		data.UserName, data.WorkshopName, data.Instructor, data.ScheduleText, data.Location,
	)
	if err := s.mailer.Send(ctx, data.Email, subject, html, text); err != nil {
		return fmt.Errorf("send enrollment confirmation: %w", err)
	}
	return nil
}

func (s *emailService) SendReservationConfirmation(ctx context.Context, data *domain.ReservationEmailData) error {
	if data == nil {
		return fmt.Errorf("reservation email data is nil")
	}
	subject := fmt.Sprintf("Reserva de gimnasio confirmada: %s %s", data.Day, data.BlockLabel)
	text := fmt.Sprintf(
		"Hola %s,\n\nTu reserva de gimnasio fue confirmada.\n\nDía: %s\n%s (%s - %s)\n\nDEFIDER",
		data.UserName, data.Day, data.BlockLabel, data.StartTime, data.EndTime,
	)
	html := fmt.Sprintf(
		"<p>Hola %s,</p><p>Tu reserva de gimnasio fue confirmada.</p><ul><li>Día: %s</li><li>%s (%s - %s)</li></ul><p>DEFIDER</p>",
		data.UserName, data.Day, data.BlockLabel, data.StartTime, data.EndTime,
	)
	if err := s.mailer.Send(ctx, data.Email, subject, html, text); err != nil {
		return fmt.Errorf("send reservation confirmation: %w", err)
	}
	return nil
}
