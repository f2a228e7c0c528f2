package notification

import (
	"fmt"

	"github.com/taskdeck/taskdeck/internal/task"
)

// Draft is a notification tuple derived from a task transition but not
// yet persisted. Derivation is pure so the rules can be tested without a
// store or a dispatcher.
type Draft struct {
	UserID       string
	Type         Type
	Title        string
	Message      string
	ResourceID   string
	ResourceType string
}

// DeriveCreated yields one TASK_ASSIGNED draft when a new task arrives
// with an assignee other than the actor. Nothing else.
func DeriveCreated(t *task.Task, actorID string) []Draft {
	if t.AssignedToID == "" || t.AssignedToID == actorID {
		return nil
	}
	return []Draft{assignedDraft(t)}
}

// DeriveUpdated applies the update rules in order: a reassignment to a
// new non-actor assignee yields TASK_ASSIGNED; every other stakeholder of
// the task distinct from the actor yields TASK_UPDATED. A stakeholder who
// is the reassignment target receives only the TASK_ASSIGNED draft.
func DeriveUpdated(before, after *task.Task, actorID string) []Draft {
	var drafts []Draft
	notified := map[string]bool{actorID: true}

	if after.AssignedToID != before.AssignedToID && after.AssignedToID != "" && after.AssignedToID != actorID {
		drafts = append(drafts, assignedDraft(after))
		notified[after.AssignedToID] = true
	}

	for _, stakeholder := range []string{after.CreatorID, after.AssignedToID} {
		if stakeholder == "" || notified[stakeholder] {
			continue
		}
		notified[stakeholder] = true
		drafts = append(drafts, Draft{
			UserID:       stakeholder,
			Type:         TypeTaskUpdated,
			Title:        "Task updated",
			Message:      fmt.Sprintf("%q was updated", after.Title),
			ResourceID:   after.ID,
			ResourceType: ResourceTypeTask,
		})
	}
	return drafts
}

// Deletion derives no notifications by rule; there is deliberately no
// DeriveDeleted.

func assignedDraft(t *task.Task) Draft {
	return Draft{
		UserID:       t.AssignedToID,
		Type:         TypeTaskAssigned,
		Title:        "Task assigned to you",
		Message:      fmt.Sprintf("You have been assigned %q", t.Title),
		ResourceID:   t.ID,
		ResourceType: ResourceTypeTask,
	}
}
