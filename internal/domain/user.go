package domain

import (
	"context"
	"time"
)

// User represents a registered student account.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser returns a new User. ID is set by the repository on create.
func NewUser(email, name string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserRepository defines the interface for user storage. Create must return
// ErrDuplicateEmail on the email uniqueness violation.
type UserRepository interface {
	Create(ctx context.Context, user *User, passwordHash string) error
	// GetByEmail returns the user and their password hash.
	GetByEmail(ctx context.Context, email string) (*User, string, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// UserService defines signup, login and profile lookup.
type UserService interface {
	SignUp(ctx context.Context, email, name, password string) (token string, user *User, err error)
	LogIn(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
}
