package notification_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/notification"
	notificationrepo "github.com/taskdeck/taskdeck/internal/notification/repositoryimpl"
	"github.com/taskdeck/taskdeck/internal/realtime"
	"github.com/taskdeck/taskdeck/internal/task"
	"github.com/taskdeck/taskdeck/pkg/cerr"
	"github.com/taskdeck/taskdeck/pkg/storage"
)

type recordingPublisher struct {
	broadcasts []realtime.Event
	published  map[string][]realtime.Event
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{published: map[string][]realtime.Event{}}
}

func (p *recordingPublisher) Broadcast(event realtime.Event) {
	p.broadcasts = append(p.broadcasts, event)
}

func (p *recordingPublisher) Publish(userID string, event realtime.Event) {
	p.published[userID] = append(p.published[userID], event)
}

func newRepository(t *testing.T) notification.Repository {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return notificationrepo.NewYAMLRepository(store)
}

func TestGeneratorPersistsAndPublishesToRecipientOnly(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	pub := newRecordingPublisher()
	gen := notification.NewGenerator(repo, pub, nil)

	created := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}
	gen.TaskCreated(ctx, created, "creator")

	stored, err := repo.ListByUser(ctx, "assignee", false)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, notification.TypeTaskAssigned, stored[0].Type)
	assert.False(t, stored[0].Read)
	assert.Equal(t, "t1", stored[0].ResourceID)

	// Dispatch is scoped to the recipient's delivery group; nothing is
	// broadcast and no other group hears about it.
	require.Len(t, pub.published["assignee"], 1)
	assert.Equal(t, realtime.EventNotificationNew, pub.published["assignee"][0].Type)
	assert.Empty(t, pub.published["creator"])
	assert.Empty(t, pub.broadcasts)

	others, err := repo.ListByUser(ctx, "creator", false)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestGeneratorUpdateEmitsForStakeholders(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	pub := newRecordingPublisher()
	gen := notification.NewGenerator(repo, pub, nil)

	before := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}
	after := &task.Task{ID: "t1", Title: "ship release now", CreatorID: "creator", AssignedToID: "assignee"}
	gen.TaskUpdated(ctx, before, after, "assignee")

	stored, err := repo.ListByUser(ctx, "creator", true)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, notification.TypeTaskUpdated, stored[0].Type)
	require.Len(t, pub.published["creator"], 1)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	gen := notification.NewGenerator(repo, realtime.NopPublisher{}, nil)
	svc := notification.NewService(repo)

	created := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}
	gen.TaskCreated(ctx, created, "creator")

	stored, err := repo.ListByUser(ctx, "assignee", true)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	n, err := svc.MarkRead(ctx, "assignee", stored[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	n, err = svc.MarkRead(ctx, "assignee", stored[0].ID)
	require.NoError(t, err)
	assert.True(t, n.Read)

	unread, err := svc.List(ctx, "assignee", true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkReadOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	gen := notification.NewGenerator(repo, realtime.NopPublisher{}, nil)
	svc := notification.NewService(repo)

	created := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}
	gen.TaskCreated(ctx, created, "creator")

	stored, err := repo.ListByUser(ctx, "assignee", false)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	_, err = svc.MarkRead(ctx, "stranger", stored[0].ID)
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.PermissionDenied))

	err = svc.Delete(ctx, "stranger", stored[0].ID)
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.PermissionDenied))
}

func TestMarkReadUnknownNotification(t *testing.T) {
	ctx := context.Background()
	svc := notification.NewService(newRepository(t))

	_, err := svc.MarkRead(ctx, "assignee", "does-not-exist")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	gen := notification.NewGenerator(repo, realtime.NopPublisher{}, nil)
	svc := notification.NewService(repo)

	for _, id := range []string{"t1", "t2", "t3"} {
		created := &task.Task{ID: id, Title: "task " + id, CreatorID: "creator", AssignedToID: "assignee"}
		gen.TaskCreated(ctx, created, "creator")
	}

	count, err := svc.MarkAllRead(ctx, "assignee")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = svc.MarkAllRead(ctx, "assignee")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	all, err := svc.List(ctx, "assignee", false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, n := range all {
		assert.True(t, n.Read)
	}
}

func TestDeleteNotification(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	gen := notification.NewGenerator(repo, realtime.NopPublisher{}, nil)
	svc := notification.NewService(repo)

	created := &task.Task{ID: "t1", Title: "ship release", CreatorID: "creator", AssignedToID: "assignee"}
	gen.TaskCreated(ctx, created, "creator")

	stored, err := repo.ListByUser(ctx, "assignee", false)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	require.NoError(t, svc.Delete(ctx, "assignee", stored[0].ID))

	remaining, err := svc.List(ctx, "assignee", false)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
