package notification

import "time"

type Type string

const (
	TypeTaskAssigned        Type = "TASK_ASSIGNED"
	TypeTaskUpdated         Type = "TASK_UPDATED"
	TypeDeadlineApproaching Type = "DEADLINE_APPROACHING"
	TypeMention             Type = "MENTION"
)

const ResourceTypeTask = "task"

// Notification is owned exclusively by its recipient. Read is the only
// mutable field; everything else is fixed at creation.
type Notification struct {
	ID           string    `yaml:"id" json:"id"`
	UserID       string    `yaml:"user_id" json:"userId"`
	Type         Type      `yaml:"type" json:"type"`
	Title        string    `yaml:"title" json:"title"`
	Message      string    `yaml:"message" json:"message"`
	Read         bool      `yaml:"read" json:"read"`
	ResourceID   string    `yaml:"resource_id,omitempty" json:"resourceId,omitempty"`
	ResourceType string    `yaml:"resource_type,omitempty" json:"resourceType,omitempty"`
	CreatedAt    time.Time `yaml:"created_at" json:"createdAt"`
}
