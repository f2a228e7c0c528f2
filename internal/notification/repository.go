package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Get(ctx context.Context, id string) (*Notification, error)
	// ListByUser returns the recipient's notifications, newest first.
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*Notification, error)
	Update(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id string) error
}
