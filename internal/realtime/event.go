// Package realtime fans task and notification events out to connected
// clients. Delivery is best-effort and fire-and-forget: nothing is queued,
// acknowledged, or replayed, and a slow or absent consumer never delays
// the operation that produced the event.
//
// Task events are intentionally broadcast to every authenticated
// connection regardless of that connection's access to the task; access
// filtering is the query layer's job. Clients are expected to ignore
// updates for tasks they cannot see.
package realtime

// EventType tags an event payload on the wire.
type EventType string

const (
	EventTaskCreated     EventType = "task:created"
	EventTaskUpdated     EventType = "task:updated"
	EventTaskDeleted     EventType = "task:deleted"
	EventNotificationNew EventType = "notification:new"
)

// Event is an ephemeral change description. Task events carry the full
// current entity representation; deletion carries just the entity id.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// Publisher is the capability the task store and notification generator
// hold for emitting events. It is passed in explicitly at construction
// rather than living as a process-wide global.
type Publisher interface {
	// Broadcast delivers the event to every connected client.
	Broadcast(event Event)
	// Publish delivers the event only to connections in the user's
	// delivery group.
	Publish(userID string, event Event)
}

// NopPublisher drops every event. Useful in tests and for wiring a
// service before a hub exists.
type NopPublisher struct{}

func (NopPublisher) Broadcast(Event)       {}
func (NopPublisher) Publish(string, Event) {}
