package domain

import "context"

// EventKind tags the source collection a schedule event came from.
type EventKind string

const (
	KindCourse   EventKind = "course"
	KindWorkshop EventKind = "workshop"
	KindGym      EventKind = "gym"
)

// ScheduleEvent is the uniform, derived shape of one occupied grid cell. It is
// never persisted; the slot index produces it from the three source records.
type ScheduleEvent struct {
	Kind        EventKind `json:"kind"`
	SourceID    string    `json:"source_id"`
	Day         Weekday   `json:"day"`
	BlockPair   string    `json:"block_pair"`
	DisplayName string    `json:"display_name"`
	Location    string    `json:"location,omitempty"`
	Color       string    `json:"color,omitempty"`
}

// gymDisplayName labels gym reservations on the grid; gym slots carry no name
// of their own.
const gymDisplayName = "Gimnasio"

// SlotIndex maps each occupied grid cell to its single occupant. It is
// rebuilt in full whenever any source collection changes; the dataset is
// small and bounded, so correctness is preferred over incremental updates.
type SlotIndex map[SlotKey]ScheduleEvent

// BuildSlotIndex merges the three source collections into a slot index.
// Precedence when several sources could occupy one cell: course entries, then
// workshop enrollments (expanded through their schedule descriptors), then
// gym reservations. The first occupant of a cell wins; occupants are never
// stacked. Rebuilding from unchanged inputs yields an identical index.
func BuildSlotIndex(courses []*CourseEntry, enrollments []*WorkshopEnrollment, reservations []*GymReservation) SlotIndex {
	idx := make(SlotIndex)

	for _, c := range courses {
		key := SlotKey{Day: c.Day, BlockPair: c.BlockPair}
		if _, taken := idx[key]; taken {
			continue
		}
		idx[key] = ScheduleEvent{
			Kind:        KindCourse,
			SourceID:    c.ID,
			Day:         c.Day,
			BlockPair:   c.BlockPair,
			DisplayName: c.Name,
			Location:    c.Room,
			Color:       c.Color,
		}
	}

	for _, e := range enrollments {
		if e.Workshop == nil {
			continue
		}
		for _, slot := range e.Workshop.Slots() {
			if _, taken := idx[slot]; taken {
				continue
			}
			idx[slot] = ScheduleEvent{
				Kind:        KindWorkshop,
				SourceID:    e.ID,
				Day:         slot.Day,
				BlockPair:   slot.BlockPair,
				DisplayName: e.Workshop.Name,
				Location:    e.Workshop.Location,
				Color:       e.Workshop.Color,
			}
		}
	}

	for _, r := range reservations {
		if r.Slot == nil {
			continue
		}
		key := SlotKey{Day: r.Slot.Day, BlockPair: r.Slot.BlockPair()}
		if _, taken := idx[key]; taken {
			continue
		}
		idx[key] = ScheduleEvent{
			Kind:        KindGym,
			SourceID:    r.ID,
			Day:         key.Day,
			BlockPair:   key.BlockPair,
			DisplayName: gymDisplayName,
			Location:    r.Slot.BlockLabel,
		}
	}

	return idx
}

// Occupant returns the event occupying the given cell, if any.
func (idx SlotIndex) Occupant(day Weekday, blockPair string) (ScheduleEvent, bool) {
	ev, ok := idx[SlotKey{Day: day, BlockPair: blockPair}]
	return ev, ok
}

// CheckConflict reports whether inserting into the given cell is legal. It
// returns a *ConflictError naming the occupant when the cell is taken, or nil
// when the cell is free. This check is the sole conflict gate for manually
// entered course entries; the store does not re-validate it.
func (idx SlotIndex) CheckConflict(day Weekday, blockPair string) error {
	ev, ok := idx.Occupant(day, blockPair)
	if !ok {
		return nil
	}
	return &ConflictError{
		Day:          day,
		BlockPair:    blockPair,
		OccupantKind: ev.Kind,
		OccupantName: ev.DisplayName,
	}
}

// Events returns the index contents ordered by catalog block order, then by
// day order, so repeated rebuilds of the same data serialize identically.
func (idx SlotIndex) Events() []ScheduleEvent {
	var out []ScheduleEvent
	for _, block := range blockCatalog {
		for _, day := range weekdayOrder {
			if ev, ok := idx[SlotKey{Day: day, BlockPair: block.Pair}]; ok {
				out = append(out, ev)
			}
		}
	}
	return out
}

// ScheduleGrid is the personal schedule view: the catalog axes plus every
// occupied cell, ready for a client to lay out.
type ScheduleGrid struct {
	Days   []Weekday         `json:"days"`
	Blocks []BlockDefinition `json:"blocks"`
	Events []ScheduleEvent   `json:"events"`
}

// CourseDraft carries the user-editable fields of a course entry.
type CourseDraft struct {
	Name      string  `json:"name"`
	Room      string  `json:"room"`
	Day       Weekday `json:"day"`
	BlockPair string  `json:"block_pair"`
	Color     string  `json:"color"`
}

// ScheduleService coordinates the personal schedule: loading and merging the
// three source collections, conflict-gated course mutations with optimistic
// local state, and edit sessions with best-effort rollback.
type ScheduleService interface {
	// Grid returns the merged schedule grid for the owner, refetching from the
	// store when the local snapshot is stale.
	Grid(ctx context.Context, ownerID string) (*ScheduleGrid, error)

	AddCourse(ctx context.Context, ownerID string, draft CourseDraft) (*CourseEntry, error)
	UpdateCourse(ctx context.Context, ownerID, entryID string, draft CourseDraft) (*CourseEntry, error)
	RemoveCourse(ctx context.Context, ownerID, entryID string) error

	// BeginEdit snapshots the owner's course entries and returns the edit
	// session id. Mutations during the session write through immediately.
	BeginEdit(ctx context.Context, ownerID string) (string, error)
	// CommitEdit accepts the live state as final and discards the snapshot.
	CommitEdit(ctx context.Context, ownerID string) error
	// CancelEdit restores the pre-session state via compensating writes. A
	// partial failure returns a *RollbackError and leaves the session closed.
	CancelEdit(ctx context.Context, ownerID string) error

	// IsMutating reports whether a write for the given entry is still in
	// flight; callers disable the corresponding action until it settles.
	IsMutating(ownerID, entryID string) bool

	// Invalidate marks every live session stale; the next Grid call refetches.
	// Called by the realtime sync adapter.
	Invalidate()
	// CloseSession drops the owner's in-memory session state on view teardown.
	CloseSession(ownerID string)
}
