package domain

import "context"

// Mailer sends an email with both HTML and plain-text bodies. Either body may
// be empty. Sends honor ctx cancellation.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EnrollmentEmailData carries the fields of a workshop enrollment confirmation.
type EnrollmentEmailData struct {
	Email        string
	UserName     string
	WorkshopName string
	Instructor   string
	ScheduleText string
	Location     string
}

// ReservationEmailData carries the fields of a gym reservation confirmation.
type ReservationEmailData struct {
	Email      string
	UserName   string
	Day        Weekday
	BlockLabel string
	StartTime  string
	EndTime    string
}

// EmailService composes and sends the application's notification emails.
type EmailService interface {
	SendEnrollmentConfirmation(ctx context.Context, data *EnrollmentEmailData) error
	SendReservationConfirmation(ctx context.Context, data *ReservationEmailData) error
}
