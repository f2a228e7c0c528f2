package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/taskdeck/taskdeck/internal/notification"
	"github.com/taskdeck/taskdeck/pkg/cerr"
	"github.com/taskdeck/taskdeck/pkg/storage"
)

const notificationsPrefix = "notifications"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", notificationsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, n *notification.Notification) error {
	exists, err := r.storage.Exists(ctx, path(n.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("notification", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "notification already exists", nil)
	}
	data, err := yaml.Marshal(n)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal notification: %w", err))
	}
	if err := r.storage.Write(ctx, path(n.ID), data); err != nil {
		return cerr.WrapStorageWriteError("notification", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*notification.Notification, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("notification", err)
	}
	var n notification.Notification
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal notification: %w", err))
	}
	return &n, nil
}

func (r *YAMLRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*notification.Notification, error) {
	paths, err := r.storage.List(ctx, notificationsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("notifications", err)
	}

	// ULID ids: descending path order is newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	var matched []*notification.Notification
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var n notification.Notification
		if err := yaml.Unmarshal(data, &n); err != nil {
			continue
		}
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		matched = append(matched, &n)
	}
	return matched, nil
}

func (r *YAMLRepository) Update(ctx context.Context, n *notification.Notification) error {
	exists, err := r.storage.Exists(ctx, path(n.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("notification", err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, "notification not found", nil)
	}
	data, err := yaml.Marshal(n)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal notification: %w", err))
	}
	if err := r.storage.Write(ctx, path(n.ID), data); err != nil {
		return cerr.WrapStorageWriteError("notification", err)
	}
	return nil
}

func (r *YAMLRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, path(id)); err != nil {
		return cerr.WrapStorageDeleteError("notification", err)
	}
	return nil
}
