package notification

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/notifications", h.list)
	r.Post("/notifications/read-all", h.markAllRead)
	r.Post("/notifications/{id}/read", h.markRead)
	r.Delete("/notifications/{id}", h.delete)
}

func actor(ctx context.Context) (string, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "missing credentials", nil)
		return "", false
	}
	return identity.ID, true
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.service.List(ctx, actorID, unreadOnly)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if notifications == nil {
		notifications = []*Notification{}
	}
	cerr.SetJSONResponse(ctx, notifications)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	n, err := h.service.MarkRead(ctx, actorID, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, n)
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	count, err := h.service.MarkAllRead(ctx, actorID)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]int{"count": count})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, actorID, chi.URLParam(r, "id")); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]bool{"deleted": true})
}
