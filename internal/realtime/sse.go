package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/pkg/cerr"
	"github.com/taskdeck/taskdeck/pkg/clog"
)

const (
	subscriberBufSize = 64
	defaultHeartbeat  = 25 * time.Second
)

// StreamHandler serves the long-lived event stream. The handshake must
// carry a bearer credential (Authorization header or token query
// parameter); a connection that fails verification is rejected before any
// stream output and never joins a delivery group. The verified identity is
// attached for the connection's lifetime and not re-validated.
type StreamHandler struct {
	hub       *Hub
	verifier  auth.Verifier
	heartbeat time.Duration
}

func NewStreamHandler(hub *Hub, verifier auth.Verifier) *StreamHandler {
	return &StreamHandler{
		hub:       hub,
		verifier:  verifier,
		heartbeat: defaultHeartbeat,
	}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := auth.BearerToken(r)
	if token == "" {
		cerr.WriteJSONError(ctx, w, cerr.NewError(cerr.Unauthenticated, "missing credentials", nil))
		return
	}
	identity, err := h.verifier.Verify(token)
	if err != nil {
		var cErr *cerr.Error
		if !errors.As(err, &cErr) {
			cErr = cerr.NewError(cerr.Unauthenticated, "invalid credentials", err)
		}
		cerr.WriteJSONError(ctx, w, cErr)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		cerr.WriteJSONError(ctx, w, cerr.NewError(cerr.Internal, "streaming unsupported", nil))
		return
	}

	clog.AddAttribute(ctx, "user_id", identity.ID)

	subID, ch := h.hub.Subscribe(identity.ID, subscriberBufSize)
	defer h.hub.Unsubscribe(subID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, event); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event Event) error {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
	return err
}
