package http

import (
	"net/http"

	"defider/internal/delivery/http/middleware"
	"defider/internal/domain"
)

type GymController struct {
	Service domain.GymService
}

func NewGymController(svc domain.GymService) *GymController {
	return &GymController{Service: svc}
}

func (c *GymController) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return "", false
	}
	return userID, true
}

// Slots godoc
// @Summary Gym timetable
// @Description Slots grouped per day in catalog day order, Monday through Saturday.
// @Tags gym
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse "data contains slots grouped by day"
// @Router /gym/slots [get]
func (c *GymController) Slots(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.owner(w, r); !ok {
		return
	}
	days, err := c.Service.ListSlots(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, days)
}

// MyReservations godoc
// @Summary List my gym reservations
// @Tags gym
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse "data contains the reservation list"
// @Router /gym/reservations [get]
func (c *GymController) MyReservations(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	reservations, err := c.Service.ListMyReservations(r.Context(), ownerID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, reservations)
}

// Reserve godoc
// @Summary Reserve a gym slot
// @Description duplicate_booking when already reserved; capacity_full when the slot is full.
// @Tags gym
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Gym slot ID"
// @Success 201 {object} APIResponse "data contains the reservation"
// @Failure 404 {object} APIResponse "error.code: not_found"
// @Failure 409 {object} APIResponse "error.code: duplicate_booking or capacity_full"
// @Router /gym/slots/{slotID}/reserve [post]
func (c *GymController) Reserve(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	reservation, err := c.Service.Reserve(r.Context(), ownerID, r.PathValue("slotID"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusCreated, reservation)
}

// Cancel godoc
// @Summary Cancel a gym reservation
// @Tags gym
// @Produce json
// @Security BearerAuth
// @Param slotID path string true "Gym slot ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "error.code: not_found"
// @Router /gym/slots/{slotID}/reserve [delete]
func (c *GymController) Cancel(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	if err := c.Service.Cancel(r.Context(), ownerID, r.PathValue("slotID")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
