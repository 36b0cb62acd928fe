package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"defider/internal/delivery/http/middleware"
	"defider/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	authController *AuthController,
	scheduleController *ScheduleController,
	workshopController *WorkshopController,
	gymController *GymController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /me", requireAuth(authController.Me))

	// Personal schedule
	mux.HandleFunc("GET /schedule", requireAuth(scheduleController.Grid))
	mux.HandleFunc("POST /schedule/courses", requireAuth(scheduleController.AddCourse))
	mux.HandleFunc("PATCH /schedule/courses/{courseID}", requireAuth(scheduleController.UpdateCourse))
	mux.HandleFunc("DELETE /schedule/courses/{courseID}", requireAuth(scheduleController.RemoveCourse))
	mux.HandleFunc("POST /schedule/edit-session", requireAuth(scheduleController.BeginEdit))
	mux.HandleFunc("POST /schedule/edit-session/commit", requireAuth(scheduleController.CommitEdit))
	mux.HandleFunc("DELETE /schedule/edit-session", requireAuth(scheduleController.CancelEdit))

	// Workshops
	mux.HandleFunc("GET /workshops", requireAuth(workshopController.List))
	mux.HandleFunc("GET /workshops/enrollments", requireAuth(workshopController.MyEnrollments))
	mux.HandleFunc("POST /workshops/{workshopID}/enroll", requireAuth(workshopController.Enroll))
	mux.HandleFunc("DELETE /workshops/{workshopID}/enroll", requireAuth(workshopController.Unenroll))

	// Gym
	mux.HandleFunc("GET /gym/slots", requireAuth(gymController.Slots))
	mux.HandleFunc("GET /gym/reservations", requireAuth(gymController.MyReservations))
	mux.HandleFunc("POST /gym/slots/{slotID}/reserve", requireAuth(gymController.Reserve))
	mux.HandleFunc("DELETE /gym/slots/{slotID}/reserve", requireAuth(gymController.Cancel))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
