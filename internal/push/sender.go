package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/notification"
)

type payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Sender posts a Web Push message for a notification to each of the
// recipient's subscriptions. Delivery is best-effort: errors are logged
// and swallowed, and a Gone endpoint removes the subscription. Disabled
// entirely while VAPID keys are unconfigured.
type Sender struct {
	vapidEnv *config.VAPIDEnv
	repo     Repository
}

func NewSender(vapidEnv *config.VAPIDEnv, repo Repository) *Sender {
	return &Sender{
		vapidEnv: vapidEnv,
		repo:     repo,
	}
}

func (s *Sender) Send(ctx context.Context, n *notification.Notification) {
	if s.vapidEnv.VAPIDPrivateKey == "" || s.vapidEnv.VAPIDPublicKey == "" {
		return
	}

	subs, err := s.repo.ListByUser(ctx, n.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "web push: failed to list subscriptions", "user_id", n.UserID, "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	var url string
	if n.ResourceType == notification.ResourceTypeTask && n.ResourceID != "" {
		url = "/tasks/" + n.ResourceID
	}
	data, err := json.Marshal(payload{
		Title: n.Title,
		Body:  n.Message,
		URL:   url,
		Tag:   n.ID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "web push: failed to marshal payload", "error", err)
		return
	}

	for _, sub := range subs {
		s.sendToSubscription(ctx, sub, data)
	}
}

func (s *Sender) sendToSubscription(ctx context.Context, sub *Subscription, data []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}

	resp, err := webpush.SendNotification(data, wpSub, &webpush.Options{
		VAPIDPublicKey:  s.vapidEnv.VAPIDPublicKey,
		VAPIDPrivateKey: s.vapidEnv.VAPIDPrivateKey,
		Subscriber:      s.vapidEnv.VAPIDContact,
		TTL:             86400,
	})
	if err != nil {
		slog.ErrorContext(ctx, "web push: failed to send", "endpoint", sub.Endpoint, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		slog.InfoContext(ctx, "web push: subscription expired, removing", "endpoint", sub.Endpoint)
		if err := s.repo.Delete(ctx, sub.ID); err != nil {
			slog.ErrorContext(ctx, "web push: failed to delete expired subscription", "id", sub.ID, "error", err)
		}
		return
	}

	if resp.StatusCode >= 400 {
		slog.WarnContext(ctx, "web push: unexpected status", "endpoint", sub.Endpoint, "status", resp.StatusCode)
	}
}
