package notification

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/access"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

// Service exposes the recipient-facing notification operations. Read-state
// changes emit no events.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actorID string, unreadOnly bool) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, actorID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, actorID, id string) (*Notification, error) {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanManageNotification(n.UserID, actorID) {
		return nil, cerr.NewError(cerr.PermissionDenied, "no access to notification", nil)
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead flips every unread notification owned by the actor and
// returns the count affected. Calling it again immediately reports zero.
func (s *Service) MarkAllRead(ctx context.Context, actorID string) (int, error) {
	unread, err := s.repo.ListByUser(ctx, actorID, true)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range unread {
		n.Read = true
		if err := s.repo.Update(ctx, n); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	n, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !access.CanManageNotification(n.UserID, actorID) {
		return cerr.NewError(cerr.PermissionDenied, "no access to notification", nil)
	}
	return s.repo.Delete(ctx, id)
}
