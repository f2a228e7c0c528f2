package push

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

type Handler struct {
	vapidEnv *config.VAPIDEnv
	repo     Repository
}

func NewHandler(vapidEnv *config.VAPIDEnv, repo Repository) *Handler {
	return &Handler{
		vapidEnv: vapidEnv,
		repo:     repo,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/push/public-key", h.publicKey)
	r.Post("/push/subscriptions", h.subscribe)
	r.Delete("/push/subscriptions", h.unsubscribe)
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *Handler) publicKey(w http.ResponseWriter, r *http.Request) {
	cerr.SetJSONResponse(r.Context(), map[string]string{"publicKey": h.vapidEnv.VAPIDPublicKey})
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "missing credentials", nil)
		return
	}
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "endpoint and keys are required", nil)
		return
	}

	// Re-subscribing an endpoint replaces its previous registration.
	if existing, err := h.repo.FindByEndpoint(ctx, req.Endpoint); err == nil {
		if err := h.repo.Delete(ctx, existing.ID); err != nil {
			cerr.SetJSONError(ctx, err)
			return
		}
	}

	sub := &Subscription{
		ID:        ulid.Make().String(),
		UserID:    identity.ID,
		Endpoint:  req.Endpoint,
		P256dhKey: req.Keys.P256dh,
		AuthKey:   req.Keys.Auth,
		CreatedAt: time.Now(),
	}
	if err := h.repo.Create(ctx, sub); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseStatus(ctx, http.StatusCreated, map[string]string{"id": sub.ID})
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "missing credentials", nil)
		return
	}
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	sub, err := h.repo.FindByEndpoint(ctx, req.Endpoint)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if sub.UserID != identity.ID {
		cerr.SetNewJSONError(ctx, cerr.PermissionDenied, "no access to subscription", nil)
		return
	}
	if err := h.repo.Delete(ctx, sub.ID); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]bool{"deleted": true})
}
