package task

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

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
	r.Get("/tasks", h.list)
	r.Post("/tasks", h.create)
	r.Get("/tasks/assigned", h.listAssigned)
	r.Get("/tasks/created", h.listCreated)
	r.Get("/tasks/overdue", h.listOverdue)
	r.Get("/tasks/{id}", h.get)
	r.Patch("/tasks/{id}", h.update)
	r.Delete("/tasks/{id}", h.delete)
}

func actor(ctx context.Context) (string, bool) {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		cerr.SetNewJSONError(ctx, cerr.Unauthenticated, "missing credentials", nil)
		return "", false
	}
	return identity.ID, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	view, err := h.service.Create(ctx, actorID, req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponseStatus(ctx, http.StatusCreated, view)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	q := r.URL.Query()
	req := ListRequest{
		Status:   Status(q.Get("status")),
		Priority: Priority(q.Get("priority")),
		Search:   q.Get("search"),
	}
	req.Page, _ = strconv.Atoi(q.Get("page"))
	req.Limit, _ = strconv.Atoi(q.Get("limit"))

	page, err := h.service.List(ctx, actorID, req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	view, err := h.service.Get(ctx, actorID, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, view)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	view, err := h.service.Update(ctx, actorID, chi.URLParam(r, "id"), req)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, view)
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

func (h *Handler) listAssigned(w http.ResponseWriter, r *http.Request) {
	h.listView(w, r, h.service.ListAssigned)
}

func (h *Handler) listCreated(w http.ResponseWriter, r *http.Request) {
	h.listView(w, r, h.service.ListCreated)
}

func (h *Handler) listOverdue(w http.ResponseWriter, r *http.Request) {
	h.listView(w, r, h.service.ListOverdue)
}

func (h *Handler) listView(w http.ResponseWriter, r *http.Request, list func(context.Context, string) ([]*View, error)) {
	ctx := r.Context()
	actorID, ok := actor(ctx)
	if !ok {
		return
	}
	views, err := list(ctx, actorID)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if views == nil {
		views = []*View{}
	}
	cerr.SetJSONResponse(ctx, views)
}
