package http

import (
	"net/http"
	"strings"

	"defider/internal/delivery/http/middleware"
	"defider/internal/domain"
)

// CourseRequest is the request body for creating or updating a course entry.
type CourseRequest struct {
	Name      string `json:"name"`
	Room      string `json:"room"`
	Day       string `json:"day"`
	BlockPair string `json:"block_pair"`
	Color     string `json:"color"`
}

// Validate implements Validator. Field-level semantics (valid day, block
// pair) are re-checked by the service; this only rejects empty requests early.
func (c CourseRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Day) == "" {
		errs = append(errs, "day is required")
	}
	if strings.TrimSpace(c.BlockPair) == "" {
		errs = append(errs, "block_pair is required")
	}
	return errs
}

func (c CourseRequest) draft() domain.CourseDraft {
	return domain.CourseDraft{
		Name:      strings.TrimSpace(c.Name),
		Room:      strings.TrimSpace(c.Room),
		Day:       domain.Weekday(strings.TrimSpace(c.Day)),
		BlockPair: strings.TrimSpace(c.BlockPair),
		Color:     strings.TrimSpace(c.Color),
	}
}

// EditSessionResponse is the response body for POST /schedule/edit-session.
type EditSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ScheduleController struct {
	Service domain.ScheduleService
}

func NewScheduleController(svc domain.ScheduleService) *ScheduleController {
	return &ScheduleController{Service: svc}
}

func (c *ScheduleController) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return "", false
	}
	return userID, true
}

// Grid godoc
// @Summary Personal schedule grid
// @Description Merged view of course entries, workshop enrollments and gym reservations.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse "data contains days, blocks and events"
// @Failure 401 {object} APIResponse "error.code: unauthorized"
// @Router /schedule [get]
func (c *ScheduleController) Grid(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	grid, err := c.Service.Grid(r.Context(), ownerID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, grid)
}

// AddCourse godoc
// @Summary Add a course entry
// @Description Rejected with schedule_conflict when the cell is occupied; no write is attempted.
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} APIResponse "data contains the created entry"
// @Failure 400 {object} APIResponse "error.code: bad_request"
// @Failure 409 {object} APIResponse "error.code: schedule_conflict"
// @Router /schedule/courses [post]
func (c *ScheduleController) AddCourse(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	var req CourseRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	entry, err := c.Service.AddCourse(r.Context(), ownerID, req.draft())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusCreated, entry)
}

// UpdateCourse godoc
// @Summary Update a course entry
// @Tags schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course entry ID"
// @Success 200 {object} APIResponse "data contains the updated entry"
// @Failure 404 {object} APIResponse "error.code: not_found"
// @Failure 409 {object} APIResponse "error.code: schedule_conflict or mutation_pending"
// @Router /schedule/courses/{courseID} [patch]
func (c *ScheduleController) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	var req CourseRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	entry, err := c.Service.UpdateCourse(r.Context(), ownerID, r.PathValue("courseID"), req.draft())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, entry)
}

// RemoveCourse godoc
// @Summary Remove a course entry
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course entry ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse "error.code: not_found"
// @Failure 409 {object} APIResponse "error.code: mutation_pending"
// @Router /schedule/courses/{courseID} [delete]
func (c *ScheduleController) RemoveCourse(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	if err := c.Service.RemoveCourse(r.Context(), ownerID, r.PathValue("courseID")); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// BeginEdit godoc
// @Summary Open an edit session
// @Description Snapshots the current course entries so cancel can restore them.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 201 {object} APIResponse "data contains session_id"
// @Failure 409 {object} APIResponse "error.code: edit_session_active"
// @Router /schedule/edit-session [post]
func (c *ScheduleController) BeginEdit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	sessionID, err := c.Service.BeginEdit(r.Context(), ownerID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusCreated, EditSessionResponse{SessionID: sessionID})
}

// CommitEdit godoc
// @Summary Commit the edit session
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 409 {object} APIResponse "error.code: no_edit_session"
// @Router /schedule/edit-session/commit [post]
func (c *ScheduleController) CommitEdit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	if err := c.Service.CommitEdit(r.Context(), ownerID); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "committed"})
}

// CancelEdit godoc
// @Summary Cancel the edit session
// @Description Restores the pre-session entries with compensating writes. A partial failure returns rollback_incomplete; the client should refetch.
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 409 {object} APIResponse "error.code: no_edit_session"
// @Failure 500 {object} APIResponse "error.code: rollback_incomplete"
// @Router /schedule/edit-session [delete]
func (c *ScheduleController) CancelEdit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := c.owner(w, r)
	if !ok {
		return
	}
	if err := c.Service.CancelEdit(r.Context(), ownerID); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
