package task

import "time"

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// rank orders priorities for the assigned view, highest first.
func (p Priority) rank() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusCompleted  Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// Task is the persisted document. CreatorID never changes after creation;
// AssignedToID is optional and reassignable, empty meaning unassigned.
type Task struct {
	ID           string     `yaml:"id"`
	Title        string     `yaml:"title"`
	Description  string     `yaml:"description,omitempty"`
	DueDate      *time.Time `yaml:"due_date,omitempty"`
	Priority     Priority   `yaml:"priority"`
	Status       Status     `yaml:"status"`
	CreatorID    string     `yaml:"creator_id"`
	AssignedToID string     `yaml:"assigned_to_id,omitempty"`
	CreatedAt    time.Time  `yaml:"created_at"`
	UpdatedAt    time.Time  `yaml:"updated_at"`
}
