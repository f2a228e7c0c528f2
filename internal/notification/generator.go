package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/realtime"
	"github.com/taskdeck/taskdeck/internal/task"
)

// PushSender delivers a persisted notification over an out-of-band push
// channel. Implementations must be best-effort and never return control
// flow errors to the generator.
type PushSender interface {
	Send(ctx context.Context, n *Notification)
}

// Generator turns task transitions into persisted notifications and
// forwards each to the recipient's delivery group. Persistence and
// dispatch are independent: a dispatch failure never rolls back the
// stored record, and any failure here is logged and swallowed so the
// originating mutation is unaffected.
type Generator struct {
	repo      Repository
	publisher realtime.Publisher
	push      PushSender
}

// NewGenerator wires the generator; push may be nil when no out-of-band
// channel is configured.
func NewGenerator(repo Repository, publisher realtime.Publisher, push PushSender) *Generator {
	return &Generator{
		repo:      repo,
		publisher: publisher,
		push:      push,
	}
}

func (g *Generator) TaskCreated(ctx context.Context, t *task.Task, actorID string) {
	g.emit(ctx, DeriveCreated(t, actorID))
}

func (g *Generator) TaskUpdated(ctx context.Context, before, after *task.Task, actorID string) {
	g.emit(ctx, DeriveUpdated(before, after, actorID))
}

func (g *Generator) emit(ctx context.Context, drafts []Draft) {
	for _, d := range drafts {
		n := &Notification{
			ID:           ulid.Make().String(),
			UserID:       d.UserID,
			Type:         d.Type,
			Title:        d.Title,
			Message:      d.Message,
			Read:         false,
			ResourceID:   d.ResourceID,
			ResourceType: d.ResourceType,
			CreatedAt:    time.Now(),
		}
		if err := g.repo.Create(ctx, n); err != nil {
			slog.ErrorContext(ctx, "failed to persist notification", "user_id", n.UserID, "type", n.Type, "error", err)
			continue
		}
		g.publisher.Publish(n.UserID, realtime.Event{Type: realtime.EventNotificationNew, Payload: n})
		if g.push != nil {
			g.push.Send(ctx, n)
		}
	}
}
