package repositoryimpl

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/taskdeck/taskdeck/internal/push"
	"github.com/taskdeck/taskdeck/pkg/cerr"
	"github.com/taskdeck/taskdeck/pkg/storage"
)

const subscriptionsPrefix = "push_subscriptions"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", subscriptionsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, s *push.Subscription) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal subscription: %w", err))
	}
	if err := r.storage.Write(ctx, path(s.ID), data); err != nil {
		return cerr.WrapStorageWriteError("subscription", err)
	}
	return nil
}

func (r *YAMLRepository) ListByUser(ctx context.Context, userID string) ([]*push.Subscription, error) {
	all, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	var matched []*push.Subscription
	for _, s := range all {
		if s.UserID == userID {
			matched = append(matched, s)
		}
	}
	return matched, nil
}

func (r *YAMLRepository) FindByEndpoint(ctx context.Context, endpoint string) (*push.Subscription, error) {
	all, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range all {
		if s.Endpoint == endpoint {
			return s, nil
		}
	}
	return nil, cerr.NewError(cerr.NotFound, "subscription not found", nil)
}

func (r *YAMLRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, path(id)); err != nil {
		return cerr.WrapStorageDeleteError("subscription", err)
	}
	return nil
}

func (r *YAMLRepository) list(ctx context.Context) ([]*push.Subscription, error) {
	paths, err := r.storage.List(ctx, subscriptionsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("subscriptions", err)
	}
	var subs []*push.Subscription
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var s push.Subscription
		if err := yaml.Unmarshal(data, &s); err != nil {
			continue
		}
		subs = append(subs, &s)
	}
	return subs, nil
}
