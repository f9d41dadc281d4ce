package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every accepted status in declaration order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		names := make([]string, len(Statuses))
		for i, known := range Statuses {
			names[i] = string(known)
		}
		return "", fmt.Errorf("invalid status %q: must be one of %s", raw, strings.Join(names, ", "))
	}
	return s, nil
}

// Task is the core domain entity.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title  *string `json:"title,omitempty"`
	Status *Status `json:"status,omitempty"`
}

// Empty reports whether the patch carries no field to change.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Status == nil
}

// Apply assigns the present fields of p to t and stamps UpdatedAt with now.
// UpdatedAt is refreshed even when the assigned values equal the old ones.
func (t *Task) Apply(p Patch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = &now
}
