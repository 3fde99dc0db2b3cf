package model

import "time"

// Outbound event types pushed over a connection.
const (
	EventWelcome             = "welcome"
	EventPong                = "pong"
	EventReminder            = "reminder"
	EventTest                = "test"
	EventSyncComplete        = "sync_complete"
	EventReminders           = "reminders"
	EventTestReminderCreated = "test_reminder_created"
	EventError               = "error"
)

// Inbound control message types. Unrecognized types are logged and ignored,
// which keeps the protocol forward-compatible without a version field.
const (
	MsgPing               = "ping"
	MsgTestNotification   = "test_notification"
	MsgCreateTestReminder = "create_test_reminder"
	MsgGetReminders       = "get_reminders"
	MsgSyncReminders      = "sync_reminders"
)

// Event is the wire shape of every outbound message: a type tag, a
// type-specific payload and the generation time. Events are ephemeral;
// a connection that is closed at send time simply never sees one.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// InboundMessage is the envelope read from a connection. All recognized
// control messages carry only their type.
type InboundMessage struct {
	Type string `json:"type"`
}

// ReminderPayload describes a fired reminder to the client.
type ReminderPayload struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// TestPayload is pushed in response to a test_notification request.
type TestPayload struct {
	OwnerID string `json:"owner_id"`
	Message string `json:"message"`
}

// StatusPayload carries a human-readable status line (welcome, sync_complete).
type StatusPayload struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// ErrorPayload is the explicit failure response for requests that expect a
// synchronous confirmation.
type ErrorPayload struct {
	Request string `json:"request"`
	Message string `json:"message"`
}

// NewEvent stamps an event with the given generation time.
func NewEvent(eventType string, payload any, at time.Time) Event {
	return Event{Type: eventType, Payload: payload, Timestamp: at.UTC()}
}

// ReminderEvent builds the push event for a fired reminder, applying the
// default prompt for records without a message.
func ReminderEvent(r Reminder, at time.Time) Event {
	return NewEvent(EventReminder, ReminderPayload{
		ID:      r.ID,
		OwnerID: r.OwnerID,
		Title:   r.Title,
		Message: r.Prompt(),
	}, at)
}
