package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/task"
)

func TestDeriveCreatedAssignedToOther(t *testing.T) {
	created := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}

	drafts := DeriveCreated(created, "creator")

	require.Len(t, drafts, 1)
	assert.Equal(t, "assignee", drafts[0].UserID)
	assert.Equal(t, TypeTaskAssigned, drafts[0].Type)
	assert.Equal(t, "t1", drafts[0].ResourceID)
	assert.Equal(t, ResourceTypeTask, drafts[0].ResourceType)
	assert.Contains(t, drafts[0].Message, "ship release")
}

func TestDeriveCreatedSelfAssigned(t *testing.T) {
	created := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "creator"}

	assert.Empty(t, DeriveCreated(created, "creator"))
}

func TestDeriveCreatedUnassigned(t *testing.T) {
	created := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator"}

	assert.Empty(t, DeriveCreated(created, "creator"))
}

func TestDeriveUpdatedNotifiesOtherStakeholder(t *testing.T) {
	before := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}
	after := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}

	// The assignee updates the task; only the creator hears about it.
	drafts := DeriveUpdated(before, after, "assignee")

	require.Len(t, drafts, 1)
	assert.Equal(t, "creator", drafts[0].UserID)
	assert.Equal(t, TypeTaskUpdated, drafts[0].Type)
}

func TestDeriveUpdatedActorNeverNotified(t *testing.T) {
	before := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "creator"}
	after := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "creator"}

	assert.Empty(t, DeriveUpdated(before, after, "creator"))
}

func TestDeriveUpdatedReassignment(t *testing.T) {
	before := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "old"}
	after := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "new"}

	drafts := DeriveUpdated(before, after, "creator")

	// The new assignee gets TASK_ASSIGNED and nothing else; the creator is
	// the actor; the previous assignee is no longer a stakeholder.
	require.Len(t, drafts, 1)
	assert.Equal(t, "new", drafts[0].UserID)
	assert.Equal(t, TypeTaskAssigned, drafts[0].Type)
}

func TestDeriveUpdatedReassignmentTargetNotDoubleNotified(t *testing.T) {
	// A third party reassigns the task to the creator: the creator is both
	// the reassignment target and a stakeholder, and must receive only the
	// TASK_ASSIGNED draft.
	before := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "actor"}
	after := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "creator"}

	drafts := DeriveUpdated(before, after, "actor")

	require.Len(t, drafts, 1)
	assert.Equal(t, "creator", drafts[0].UserID)
	assert.Equal(t, TypeTaskAssigned, drafts[0].Type)
}

func TestDeriveUpdatedReassignmentToActor(t *testing.T) {
	before := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: ""}
	after := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}

	// The assignee grabs the task themselves; only the creator is told,
	// and only via TASK_UPDATED.
	drafts := DeriveUpdated(before, after, "assignee")

	require.Len(t, drafts, 1)
	assert.Equal(t, "creator", drafts[0].UserID)
	assert.Equal(t, TypeTaskUpdated, drafts[0].Type)
}

func TestDeriveUpdatedStakeholdersDeduplicated(t *testing.T) {
	before := &task.Task{ID: "t1", Title: "ship release", CreatorID: "owner", AssignedToID: "owner"}
	after := &task.Task{ID: "t1", Title: "ship release", CreatorID: "owner", AssignedToID: "owner"}

	// Creator and assignee are the same user; a single TASK_UPDATED draft.
	drafts := DeriveUpdated(before, after, "other")

	require.Len(t, drafts, 1)
	assert.Equal(t, "owner", drafts[0].UserID)
	assert.Equal(t, TypeTaskUpdated, drafts[0].Type)
}
