package realtime

import (
	"bufio"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/pkg/cerr"
)

type stubVerifier struct {
	identity *auth.Identity
	err      error
}

func (v stubVerifier) Verify(string) (*auth.Identity, error) {
	return v.identity, v.err
}

func TestStreamRejectsMissingCredentials(t *testing.T) {
	handler := NewStreamHandler(NewHub(), stubVerifier{identity: &auth.Identity{ID: "u1"}})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connected")
}

func TestStreamRejectsInvalidCredentials(t *testing.T) {
	handler := NewStreamHandler(NewHub(), stubVerifier{
		err: cerr.NewError(cerr.Unauthenticated, "invalid token", errors.New("bad signature")),
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?token=bogus", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStreamDeliversEvents(t *testing.T) {
	hub := NewHub()
	handler := NewStreamHandler(hub, stubVerifier{identity: &auth.Identity{ID: "u1"}})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/events?token=tok")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected", strings.TrimRight(line, "\n"))

	// The subscriber joined before the handshake comment was written, so
	// events sent from here on are guaranteed to reach it.
	hub.Broadcast(Event{Type: EventTaskCreated, Payload: map[string]string{"id": "t1"}})
	hub.Publish("u1", Event{Type: EventNotificationNew, Payload: map[string]string{"id": "n1"}})

	eventType, data := readEvent(t, reader)
	assert.Equal(t, string(EventTaskCreated), eventType)
	assert.Contains(t, data, `"id":"t1"`)

	eventType, data = readEvent(t, reader)
	assert.Equal(t, string(EventNotificationNew), eventType)
	assert.Contains(t, data, `"id":"n1"`)
}

// readEvent consumes the stream until a full event frame has been read,
// skipping blank lines and comments.
func readEvent(t *testing.T, reader *bufio.Reader) (eventType, data string) {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && eventType != "":
			return eventType, data
		}
	}
}
