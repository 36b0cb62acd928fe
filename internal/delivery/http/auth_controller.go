package http

import (
	"net/http"
	"strings"

	"defider/internal/delivery/http/middleware"
	"defider/internal/domain"
)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// AuthResponse is the response body for signup and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

type AuthController struct {
	Service domain.UserService
}

func NewAuthController(svc domain.UserService) *AuthController {
	return &AuthController{Service: svc}
}

// SignUp godoc
// @Summary Sign up a new student account
// @Description Create an account with email, password, and name. Returns a JWT for immediate use.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} APIResponse "data contains token, token_type and user"
// @Failure 400 {object} APIResponse "error.code: bad_request"
// @Failure 500 {object} APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.SignUp(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusCreated, AuthResponse{Token: token, TokenType: "Bearer", User: user})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT with the user id as subject.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} APIResponse "data contains token, token_type and user"
// @Failure 400 {object} APIResponse "error.code: bad_request"
// @Failure 401 {object} APIResponse "error.code: unauthorized"
// @Failure 500 {object} APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, AuthResponse{Token: token, TokenType: "Bearer", User: user})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse "data contains the user"
// @Failure 401 {object} APIResponse "error.code: unauthorized"
// @Router /me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "not authenticated")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSONSuccess(w, http.StatusOK, user)
}
