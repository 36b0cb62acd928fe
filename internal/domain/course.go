package domain

import (
	"context"
	"time"
)

// CourseEntry is a user-entered academic class ("ramo") occupying exactly one
// grid cell. It exists purely for personal schedule visualization and
// conflict avoidance; it is created, edited and deleted only by its owner.
type CourseEntry struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Room      string    `json:"room,omitempty"`
	Day       Weekday   `json:"day"`
	BlockPair string    `json:"block_pair"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCourseEntry returns a new CourseEntry. ID is set by the repository on create.
func NewCourseEntry(ownerID, name, room string, day Weekday, blockPair, color string, createdAt time.Time) *CourseEntry {
	return &CourseEntry{
		OwnerID:   ownerID,
		Name:      name,
		Room:      room,
		Day:       day,
		BlockPair: blockPair,
		Color:     color,
		CreatedAt: createdAt,
	}
}

// Validate checks the required fields. It returns a *ValidationError listing
// every problem, or nil when the entry is well formed.
func (c *CourseEntry) Validate() error {
	var fields []string
	if c.Name == "" {
		fields = append(fields, "name is required")
	}
	if c.Day == "" {
		fields = append(fields, "day is required")
	} else if !c.Day.Valid() {
		fields = append(fields, "unknown day "+string(c.Day))
	}
	if c.BlockPair == "" {
		fields = append(fields, "block pair is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CourseEntryRepository defines storage operations for course entries.
type CourseEntryRepository interface {
	Create(ctx context.Context, entry *CourseEntry) error
	Update(ctx context.Context, entry *CourseEntry) error
	Delete(ctx context.Context, ownerID, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]*CourseEntry, error)
}
