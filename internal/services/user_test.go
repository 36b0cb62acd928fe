package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"defider/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountRepo is an in-memory UserRepository with email uniqueness.
type fakeAccountRepo struct {
	byEmail map[string]*domain.User
	hashes  map[string]string
	nextID  int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: make(map[string]*domain.User), hashes: make(map[string]string), nextID: 1}
}

func (f *fakeAccountRepo) Create(ctx context.Context, u *domain.User, hash string) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byEmail[u.Email] = u
	f.hashes[u.Email] = hash
	return nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, f.hashes[email], nil
	}
	return nil, "", domain.ErrNotFound
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// plainHasher marks hashes with a prefix instead of real hashing.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

type staticIssuer struct{}

func (staticIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "token-" + userID, nil
}

func TestUserService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes email and issues token", func(t *testing.T) {
		svc := NewUserService(newFakeAccountRepo(), plainHasher{}, staticIssuer{}, time.Hour)
		token, user, err := svc.SignUp(ctx, "  Ana@USM.cl ", "Ana", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "ana@usm.cl", user.Email)
		assert.Equal(t, "token-"+user.ID, token)
	})

	t.Run("invalid email and short password reported together", func(t *testing.T) {
		svc := NewUserService(newFakeAccountRepo(), plainHasher{}, staticIssuer{}, time.Hour)
		_, _, err := svc.SignUp(ctx, "not-an-email", "Ana", "short")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeAccountRepo()
		svc := NewUserService(repo, plainHasher{}, staticIssuer{}, time.Hour)
		_, _, err := svc.SignUp(ctx, "ana@usm.cl", "Ana", "supersecret")
		require.NoError(t, err)
		_, _, err = svc.SignUp(ctx, "ana@usm.cl", "Ana B", "othersecret")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserService_LogIn(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepo()
	svc := NewUserService(repo, plainHasher{}, staticIssuer{}, time.Hour)

	_, _, err := svc.SignUp(ctx, "ana@usm.cl", "Ana", "supersecret")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		token, user, err := svc.LogIn(ctx, "ANA@usm.cl", "supersecret")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(token, "token-"))
		assert.Equal(t, "ana@usm.cl", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.LogIn(ctx, "ana@usm.cl", "wrong")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		_, _, err := svc.LogIn(ctx, "nadie@usm.cl", "supersecret")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
