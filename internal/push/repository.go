package push

import "context"

type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	ListByUser(ctx context.Context, userID string) ([]*Subscription, error)
	FindByEndpoint(ctx context.Context, endpoint string) (*Subscription, error)
	Delete(ctx context.Context, id string) error
}
