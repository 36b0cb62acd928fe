package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"defider/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeScheduleConflict = "schedule_conflict"
	ErrCodeDuplicateBooking = "duplicate_booking"
	ErrCodeCapacityFull     = "capacity_full"
	ErrCodeMutationPending  = "mutation_pending"
	ErrCodeNoEditSession    = "no_edit_session"
	ErrCodeEditSessionOpen  = "edit_session_active"
	ErrCodeRollbackFailed   = "rollback_incomplete"
	ErrCodeInternalError    = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// WriteDomainError maps a service error to its HTTP status and stable error
// code. Unrecognized errors become 500 with a generic message.
func WriteDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var cerr *domain.ConflictError
	var rerr *domain.RollbackError
	switch {
	case errors.As(err, &verr):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, verr.Error())
	case errors.As(err, &cerr):
		WriteJSONError(w, http.StatusConflict, ErrCodeScheduleConflict, cerr.Error())
	case errors.As(err, &rerr):
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeRollbackFailed, rerr.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrDuplicateBooking):
		WriteJSONError(w, http.StatusConflict, ErrCodeDuplicateBooking, "already booked")
	case errors.Is(err, domain.ErrCapacityFull):
		WriteJSONError(w, http.StatusConflict, ErrCodeCapacityFull, "no seats available")
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrMutationInFlight):
		WriteJSONError(w, http.StatusConflict, ErrCodeMutationPending, "a mutation for this entry is still in progress")
	case errors.Is(err, domain.ErrNoEditSession):
		WriteJSONError(w, http.StatusConflict, ErrCodeNoEditSession, "no active edit session")
	case errors.Is(err, domain.ErrEditSessionActive):
		WriteJSONError(w, http.StatusConflict, ErrCodeEditSessionOpen, "an edit session is already active")
	default:
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
