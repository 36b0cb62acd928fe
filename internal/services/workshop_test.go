package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"defider/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWorkshopRepo is an in-memory workshop catalog.
type fakeWorkshopRepo struct {
	workshops map[string]*domain.Workshop
	listErr   error
}

func newFakeWorkshopRepo(workshops ...*domain.Workshop) *fakeWorkshopRepo {
	f := &fakeWorkshopRepo{workshops: make(map[string]*domain.Workshop)}
	for _, w := range workshops {
		f.workshops[w.ID] = w
	}
	return f
}

func (f *fakeWorkshopRepo) List(ctx context.Context) ([]*domain.Workshop, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Workshop
	for _, w := range f.workshops {
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeWorkshopRepo) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	if w, ok := f.workshops[id]; ok {
		return w, nil
	}
	return nil, domain.ErrNotFound
}

// fakeEnrollmentRepo enforces the (owner, workshop) uniqueness constraint the
// way the store does, via a stable duplicate error.
type fakeEnrollmentRepo struct {
	byKey     map[string]*domain.WorkshopEnrollment
	nextID    int
	createErr error
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{byKey: make(map[string]*domain.WorkshopEnrollment), nextID: 1}
}

func enrollmentKey(ownerID, workshopID string) string {
	return ownerID + "/" + workshopID
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, e *domain.WorkshopEnrollment) error {
	if f.createErr != nil {
		return f.createErr
	}
	key := enrollmentKey(e.OwnerID, e.WorkshopID)
	if _, ok := f.byKey[key]; ok {
		return domain.ErrDuplicateBooking
	}
	e.ID = fmt.Sprintf("enr-%d", f.nextID)
	f.nextID++
	f.byKey[key] = e
	return nil
}

func (f *fakeEnrollmentRepo) Delete(ctx context.Context, ownerID, workshopID string) error {
	key := enrollmentKey(ownerID, workshopID)
	if _, ok := f.byKey[key]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byKey, key)
	return nil
}

func (f *fakeEnrollmentRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.WorkshopEnrollment, error) {
	var out []*domain.WorkshopEnrollment
	for _, e := range f.byKey {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeUserRepo serves profile lookups for confirmation emails.
type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User, hash string) error {
	return errors.New("not used")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	return nil, "", domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// recordingEmailService records what was sent and can fail on demand.
type recordingEmailService struct {
	enrollments  []*domain.EnrollmentEmailData
	reservations []*domain.ReservationEmailData
	err          error
}

func (f *recordingEmailService) SendEnrollmentConfirmation(ctx context.Context, data *domain.EnrollmentEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.enrollments = append(f.enrollments, data)
	return nil
}

func (f *recordingEmailService) SendReservationConfirmation(ctx context.Context, data *domain.ReservationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.reservations = append(f.reservations, data)
	return nil
}

func yogaWorkshop() *domain.Workshop {
	return &domain.Workshop{
		ID:           "w1",
		Name:         "Yoga Integral",
		Instructor:   "Prof. María González",
		ScheduleText: "Lun-Mié-Vie Bloque 1-2",
		Location:     "Salón A",
		Capacity:     20,
		Enrolled:     18,
	}
}

func TestWorkshopService_Enroll(t *testing.T) {
	ctx := context.Background()
	users := &fakeUserRepo{users: map[string]*domain.User{
		"user-1": {ID: "user-1", Email: "ana@usm.cl", Name: "Ana"},
	}}

	t.Run("success sends confirmation email", func(t *testing.T) {
		emails := &recordingEmailService{}
		svc := NewWorkshopService(newFakeWorkshopRepo(yogaWorkshop()), newFakeEnrollmentRepo(), users, emails, testLogger, 5*time.Second)

		enrollment, err := svc.Enroll(ctx, "user-1", "w1")
		require.NoError(t, err)
		assert.NotEmpty(t, enrollment.ID)
		require.NotNil(t, enrollment.Workshop)
		assert.Equal(t, "Yoga Integral", enrollment.Workshop.Name)

		require.Len(t, emails.enrollments, 1)
		assert.Equal(t, "ana@usm.cl", emails.enrollments[0].Email)
		assert.Equal(t, "Yoga Integral", emails.enrollments[0].WorkshopName)
	})

	t.Run("second enrollment surfaces duplicate booking, keeps one record", func(t *testing.T) {
		enrollments := newFakeEnrollmentRepo()
		svc := NewWorkshopService(newFakeWorkshopRepo(yogaWorkshop()), enrollments, users, nil, testLogger, 5*time.Second)

		_, err := svc.Enroll(ctx, "user-1", "w1")
		require.NoError(t, err)

		_, err = svc.Enroll(ctx, "user-1", "w1")
		require.ErrorIs(t, err, domain.ErrDuplicateBooking)

		mine, err := svc.ListMyEnrollments(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, mine, 1)
	})

	t.Run("full workshop rejected before any write", func(t *testing.T) {
		full := yogaWorkshop()
		full.Enrolled = full.Capacity
		enrollments := newFakeEnrollmentRepo()
		svc := NewWorkshopService(newFakeWorkshopRepo(full), enrollments, users, nil, testLogger, 5*time.Second)

		_, err := svc.Enroll(ctx, "user-1", "w1")
		require.ErrorIs(t, err, domain.ErrCapacityFull)
		assert.Empty(t, enrollments.byKey)
	})

	t.Run("overbooked counter still reads as zero seats", func(t *testing.T) {
		over := yogaWorkshop()
		over.Enrolled = over.Capacity + 3
		svc := NewWorkshopService(newFakeWorkshopRepo(over), newFakeEnrollmentRepo(), users, nil, testLogger, 5*time.Second)

		_, err := svc.Enroll(ctx, "user-1", "w1")
		require.ErrorIs(t, err, domain.ErrCapacityFull)
		assert.Equal(t, 0, over.AvailableSeats())
	})

	t.Run("unknown workshop", func(t *testing.T) {
		svc := NewWorkshopService(newFakeWorkshopRepo(), newFakeEnrollmentRepo(), users, nil, testLogger, 5*time.Second)
		_, err := svc.Enroll(ctx, "user-1", "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("email failure does not fail the enrollment", func(t *testing.T) {
		emails := &recordingEmailService{err: errors.New("ses down")}
		svc := NewWorkshopService(newFakeWorkshopRepo(yogaWorkshop()), newFakeEnrollmentRepo(), users, emails, testLogger, 5*time.Second)

		_, err := svc.Enroll(ctx, "user-1", "w1")
		require.NoError(t, err)
	})
}

func TestWorkshopService_Unenroll(t *testing.T) {
	ctx := context.Background()
	users := &fakeUserRepo{users: map[string]*domain.User{"user-1": {ID: "user-1", Email: "ana@usm.cl"}}}
	enrollments := newFakeEnrollmentRepo()
	svc := NewWorkshopService(newFakeWorkshopRepo(yogaWorkshop()), enrollments, users, nil, testLogger, 5*time.Second)

	_, err := svc.Enroll(ctx, "user-1", "w1")
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(ctx, "user-1", "w1"))
	require.ErrorIs(t, svc.Unenroll(ctx, "user-1", "w1"), domain.ErrNotFound)
}
