package http

import (
	"net/http"

	"defider/internal/delivery/http/middleware"
	"defider/internal/domain"
)

// WorkshopView decorates a workshop with its derived seat count.
type WorkshopView struct {
	*domain.Workshop
	AvailableSeats int `json:"available_seats"`
}

type WorkshopController struct {
	Service domain.WorkshopService
}

func NewWorkshopController(svc domain.WorkshopService) *WorkshopController {
	return &WorkshopController{Service: svc}
}

func (c *WorkshopController) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return "", false
	}
	return userID, true
}

// List godoc
// @Summary List workshops
// @Description Workshop catalog with capacity and derived available seats (floored at zero).
// @Tags workshops
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse "data contains the workshop list"
// @Router /workshops [get]
func (c *WorkshopController) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.owner(w, r); !ok {
		return
	}
	workshops, err := c.Service.ListWorkshops(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	views := make([]WorkshopView, 0, len(workshops))
	for _, ws := range workshops {
		views = append(views, WorkshopView{Workshop: ws, AvailableSeats: ws.AvailableSeats()})
	}
	WriteJSONSuccess(w, http.StatusOK, views)
}

// MyEnrollments godoc
// @Summary List my workshop enrollments
// @Tags workshops
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse "data contains the enrollment list"
// @Router /workshops/enrollments [get]
func (c *WorkshopController) MyEnrollments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	enrollments, err := c.Service.ListMyEnrollments(r.Context(), ownerID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, enrollments)
}

// Enroll godoc
// @Summary Enroll in a workshop
// @Description duplicate_booking when already enrolled; capacity_full when no seats remain.
// @Tags workshops
// @Produce json
// @Security BearerAuth
// @Param workshopID path string true "Workshop ID"
// @Success 201 {object} APIResponse "data contains the enrollment"
// @Failure 404 {object} APIResponse "error.code: not_found"
// @Failure 409 {object} APIResponse "error.code: duplicate_booking or capacity_full"
// @Router /workshops/{workshopID}/enroll [post]
func (c *WorkshopController) Enroll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	enrollment, err := c.Service.Enroll(r.Context(), ownerID, r.PathValue("workshopID"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusCreated, enrollment)
}

// Unenroll godoc
// @Summary Cancel a workshop enrollment
// @Tags workshops
// @Produce json
// @Security BearerAuth
// @Param workshopID path string true "Workshop ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "error.code: not_found"
// @Router /workshops/{workshopID}/enroll [delete]
func (c *WorkshopController) Unenroll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	if err := c.Service.Unenroll(r.Context(), ownerID, r.PathValue("workshopID")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "unenrolled"})
}
