package task

import (
	"context"
	"time"
)

// Query narrows Find results. Zero-valued fields do not filter. All
// predicates are conjunctive.
type Query struct {
	// MemberID matches tasks where the id is the creator or the assignee.
	MemberID string
	// CreatorID and AssignedToID match their fields exactly.
	CreatorID    string
	AssignedToID string

	Status   Status
	Priority Priority
	// Search matches case-insensitively as a substring of the title or
	// the description.
	Search string
	// DueBefore matches tasks with a due date strictly before the instant.
	// Tasks without a due date never match.
	DueBefore *time.Time
	// ExcludeStatus drops tasks in the given status.
	ExcludeStatus Status
}

type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	// Find returns the full matching set, newest-created-first. Callers
	// paginate and re-sort for the specialized views.
	Find(ctx context.Context, q Query) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}
