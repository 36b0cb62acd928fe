package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"defider/internal/domain"
)

// scheduleSession is the per-user view state: the three raw collections, the
// slot index built from them, the edit-session snapshot, and the set of entry
// ids with a write in flight. It is owned by the schedule service and never
// shared as a global.
type scheduleSession struct {
	ownerID       string
	courses       []*domain.CourseEntry
	enrollments   []*domain.WorkshopEnrollment
	reservations  []*domain.GymReservation
	index         domain.SlotIndex
	stale         bool
	editSessionID string
	snapshot      []*domain.CourseEntry // non-nil while an edit session is open
	inFlight      map[string]struct{}
}

type scheduleService struct {
	courseRepo      domain.CourseEntryRepository
	enrollmentRepo  domain.WorkshopEnrollmentRepository
	reservationRepo domain.GymReservationRepository
	logger          *slog.Logger
	contextTimeout  time.Duration

	mu       sync.Mutex
	sessions map[string]*scheduleSession
}

// NewScheduleService creates the schedule coordinator over the three source
// repositories.
func NewScheduleService(
	courseRepo domain.CourseEntryRepository,
	enrollmentRepo domain.WorkshopEnrollmentRepository,
	reservationRepo domain.GymReservationRepository,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ScheduleService {
	return &scheduleService{
		courseRepo:      courseRepo,
		enrollmentRepo:  enrollmentRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
		contextTimeout:  timeout,
		sessions:        make(map[string]*scheduleSession),
	}
}

// session returns the owner's session, creating a stale one on first use.
// Callers must hold s.mu.
func (s *scheduleService) session(ownerID string) *scheduleSession {
	st, ok := s.sessions[ownerID]
	if !ok {
		st = &scheduleSession{
			ownerID:  ownerID,
			stale:    true,
			inFlight: make(map[string]struct{}),
		}
		s.sessions[ownerID] = st
	}
	return st
}

// refresh refetches the three collections and rebuilds the slot index. The
// rebuild always reflects the latest fetched snapshot, so replaying it after
// an optimistic local update is idempotent. Callers must hold s.mu.
func (s *scheduleService) refresh(ctx context.Context, st *scheduleSession) error {
	courses, err := s.courseRepo.ListByOwner(ctx, st.ownerID)
	if err != nil {
		return fmt.Errorf("list course entries: %w", err)
	}
	enrollments, err := s.enrollmentRepo.ListByOwner(ctx, st.ownerID)
	if err != nil {
		return fmt.Errorf("list enrollments: %w", err)
	}
	reservations, err := s.reservationRepo.ListByOwner(ctx, st.ownerID)
	if err != nil {
		return fmt.Errorf("list gym reservations: %w", err)
	}
	st.courses = courses
	st.enrollments = enrollments
	st.reservations = reservations
	st.index = domain.BuildSlotIndex(courses, enrollments, reservations)
	st.stale = false
	return nil
}

func (s *scheduleService) Grid(ctx context.Context, ownerID string) (*domain.ScheduleGrid, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session(ownerID)
	if st.stale {
		if err := s.refresh(ctx, st); err != nil {
			return nil, err
		}
	}
	return &domain.ScheduleGrid{
		Days:   domain.Days(domain.PersonalGrid),
		Blocks: domain.Blocks(domain.PersonalGrid),
		Events: st.index.Events(),
	}, nil
}

func (s *scheduleService) AddCourse(ctx context.Context, ownerID string, draft domain.CourseDraft) (*domain.CourseEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	entry := domain.NewCourseEntry(ownerID, draft.Name, draft.Room, draft.Day, draft.BlockPair, draft.Color, time.Now())
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	st := s.session(ownerID)
	if st.stale {
		if err := s.refresh(ctx, st); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	// Local conflict gate: no write is attempted when the cell is taken.
	if err := st.index.CheckConflict(entry.Day, entry.BlockPair); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	// Reserve the cell for the duration of the write so a concurrent insert
	// into the same free cell cannot also pass the gate.
	cell := cellKey(entry.Day, entry.BlockPair)
	if err := s.markInFlight(st, cell); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	err := s.courseRepo.Create(ctx, entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(st.inFlight, cell)
	if err != nil {
		return nil, fmt.Errorf("create course entry: %w", err)
	}
	st.courses = append(st.courses, entry)
	st.index = domain.BuildSlotIndex(st.courses, st.enrollments, st.reservations)
	return entry, nil
}

func (s *scheduleService) UpdateCourse(ctx context.Context, ownerID, entryID string, draft domain.CourseDraft) (*domain.CourseEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	updated := domain.NewCourseEntry(ownerID, draft.Name, draft.Room, draft.Day, draft.BlockPair, draft.Color, time.Now())
	updated.ID = entryID
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	st := s.session(ownerID)
	if st.stale {
		if err := s.refresh(ctx, st); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	existing := findCourse(st.courses, entryID)
	if existing == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	updated.CreatedAt = existing.CreatedAt
	// Moving to an occupied cell is a conflict unless the occupant is the
	// entry being edited.
	if occupant, ok := st.index.Occupant(updated.Day, updated.BlockPair); ok && occupant.SourceID != entryID {
		s.mu.Unlock()
		return nil, &domain.ConflictError{
			Day:          updated.Day,
			BlockPair:    updated.BlockPair,
			OccupantKind: occupant.Kind,
			OccupantName: occupant.DisplayName,
		}
	}
	if err := s.markInFlight(st, entryID); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	// The destination cell is reserved too, so a concurrent insert or move
	// into it cannot pass the gate while this write is in flight.
	cell := cellKey(updated.Day, updated.BlockPair)
	if err := s.markInFlight(st, cell); err != nil {
		delete(st.inFlight, entryID)
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	err := s.courseRepo.Update(ctx, updated)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(st.inFlight, entryID)
	delete(st.inFlight, cell)
	if err != nil {
		return nil, fmt.Errorf("update course entry: %w", err)
	}
	for i, c := range st.courses {
		if c.ID == entryID {
			st.courses[i] = updated
			break
		}
	}
	st.index = domain.BuildSlotIndex(st.courses, st.enrollments, st.reservations)
	return updated, nil
}

func (s *scheduleService) RemoveCourse(ctx context.Context, ownerID, entryID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	st := s.session(ownerID)
	if st.stale {
		if err := s.refresh(ctx, st); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	if findCourse(st.courses, entryID) == nil {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	if err := s.markInFlight(st, entryID); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	err := s.courseRepo.Delete(ctx, ownerID, entryID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(st.inFlight, entryID)
	if err != nil {
		return fmt.Errorf("delete course entry: %w", err)
	}
	st.courses = removeCourse(st.courses, entryID)
	st.index = domain.BuildSlotIndex(st.courses, st.enrollments, st.reservations)
	return nil
}

func (s *scheduleService) BeginEdit(ctx context.Context, ownerID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session(ownerID)
	if st.snapshot != nil {
		return "", domain.ErrEditSessionActive
	}
	if err := s.refresh(ctx, st); err != nil {
		return "", err
	}
	snapshot := make([]*domain.CourseEntry, len(st.courses))
	for i, c := range st.courses {
		clone := *c
		snapshot[i] = &clone
	}
	st.snapshot = snapshot
	st.editSessionID = uuid.NewString()
	return st.editSessionID, nil
}

func (s *scheduleService) CommitEdit(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session(ownerID)
	if st.snapshot == nil {
		return domain.ErrNoEditSession
	}
	// The live state is accepted as final; no compensating action.
	st.snapshot = nil
	st.editSessionID = ""
	return nil
}

// CancelEdit restores the pre-session state as a best-effort compensating
// transaction: entries added during the session are deleted, entries deleted
// during the session are re-inserted. Any compensating write that fails is
// collected into a *RollbackError because local and remote state have
// diverged for that entry and the caller must refetch.
func (s *scheduleService) CancelEdit(ctx context.Context, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.session(ownerID)
	if st.snapshot == nil {
		return domain.ErrNoEditSession
	}

	inSnapshot := make(map[string]*domain.CourseEntry, len(st.snapshot))
	for _, c := range st.snapshot {
		inSnapshot[c.ID] = c
	}
	live := make(map[string]struct{}, len(st.courses))
	for _, c := range st.courses {
		live[c.ID] = struct{}{}
	}

	var failures []domain.RollbackFailure

	// Delete what was added during the session.
	kept := st.courses[:0]
	for _, c := range st.courses {
		if _, ok := inSnapshot[c.ID]; ok {
			kept = append(kept, c)
			continue
		}
		if err := s.courseRepo.Delete(ctx, ownerID, c.ID); err != nil {
			s.logger.ErrorContext(ctx, "rollback delete failed", "entry_id", c.ID, "err", err)
			failures = append(failures, domain.RollbackFailure{EntryID: c.ID, Op: "delete", Err: err})
			kept = append(kept, c)
			continue
		}
	}
	st.courses = kept

	// Re-insert what was deleted during the session. The store assigns a new
	// id; the restored entry is otherwise identical.
	for _, c := range st.snapshot {
		if _, ok := live[c.ID]; ok {
			continue
		}
		restored := *c
		restored.ID = ""
		if err := s.courseRepo.Create(ctx, &restored); err != nil {
			s.logger.ErrorContext(ctx, "rollback reinsert failed", "entry_id", c.ID, "err", err)
			failures = append(failures, domain.RollbackFailure{EntryID: c.ID, Op: "reinsert", Err: err})
			continue
		}
		st.courses = append(st.courses, &restored)
	}

	st.index = domain.BuildSlotIndex(st.courses, st.enrollments, st.reservations)
	st.snapshot = nil
	st.editSessionID = ""

	if len(failures) > 0 {
		st.stale = true
		return &domain.RollbackError{Failures: failures}
	}
	return nil
}

func (s *scheduleService) IsMutating(ownerID, entryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[ownerID]
	if !ok {
		return false
	}
	_, mutating := st.inFlight[entryID]
	return mutating
}

func (s *scheduleService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.sessions {
		st.stale = true
	}
}

func (s *scheduleService) CloseSession(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ownerID)
}

// markInFlight records a pending write under the given key, either an entry id
// or a cell key. Callers must hold s.mu.
func (s *scheduleService) markInFlight(st *scheduleSession, key string) error {
	if _, pending := st.inFlight[key]; pending {
		return domain.ErrMutationInFlight
	}
	st.inFlight[key] = struct{}{}
	return nil
}

// cellKey names a grid cell in the in-flight set. The "cell:" prefix keeps it
// disjoint from entry ids.
func cellKey(day domain.Weekday, blockPair string) string {
	return "cell:" + string(day) + "/" + blockPair
}

func findCourse(courses []*domain.CourseEntry, id string) *domain.CourseEntry {
	for _, c := range courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func removeCourse(courses []*domain.CourseEntry, id string) []*domain.CourseEntry {
	out := courses[:0]
	for _, c := range courses {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
