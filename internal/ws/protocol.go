package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/model"
)

// reminderService is the slice of the reminder service the protocol invokes.
type reminderService interface {
	Sync(ctx context.Context) (int, error)
	OwnerReminders(ownerID string) []model.Reminder
	CreateTestReminder(ownerID string, now time.Time) (model.Reminder, error)
}

// notifier triggers on-demand notifications.
type notifier interface {
	Test(ownerID string, at time.Time)
}

// Protocol interprets inbound control messages. Every message is handled
// independently; there is no per-connection state beyond the session's
// owner id.
type Protocol struct {
	service reminderService
	notify  notifier
}

// NewProtocol creates the shared inbound message handler.
func NewProtocol(service reminderService, notify notifier) *Protocol {
	return &Protocol{service: service, notify: notify}
}

// Handle dispatches one inbound message. Malformed payloads and unknown
// types are logged and ignored; the connection stays open either way.
// Requests that promise a synchronous confirmation answer with an
// error-typed event on failure instead of staying silent.
func (p *Protocol) Handle(ctx context.Context, c *Client, raw []byte) {
	now := time.Now().UTC()

	var msg model.InboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		zlog.Logger.Warn().Err(err).Str("owner_id", c.ownerID).Msg("malformed inbound message")
		return
	}

	switch msg.Type {
	case model.MsgPing:
		c.Send(model.NewEvent(model.EventPong, nil, now))

	case model.MsgTestNotification:
		p.notify.Test(c.ownerID, now)

	case model.MsgCreateTestReminder:
		rem, err := p.service.CreateTestReminder(c.ownerID, now)
		if err != nil {
			zlog.Logger.Error().Err(err).Str("owner_id", c.ownerID).Msg("failed to create test reminder")
			c.Send(errorEvent(msg.Type, "could not create test reminder", now))
			return
		}
		c.Send(model.NewEvent(model.EventTestReminderCreated, rem, now))

	case model.MsgGetReminders:
		c.Send(model.NewEvent(model.EventReminders, p.service.OwnerReminders(c.ownerID), now))

	case model.MsgSyncReminders:
		count, err := p.service.Sync(ctx)
		if err != nil {
			zlog.Logger.Error().Err(err).Str("owner_id", c.ownerID).Msg("sync request failed")
			c.Send(errorEvent(msg.Type, "sync failed, previous reminders kept", now))
			return
		}
		c.Send(model.NewEvent(model.EventSyncComplete, model.StatusPayload{
			Message: "reminders synced",
			Count:   count,
		}, now))

	default:
		zlog.Logger.Warn().Str("type", msg.Type).Str("owner_id", c.ownerID).Msg("unknown inbound message type")
	}
}

func errorEvent(request, message string, at time.Time) model.Event {
	return model.NewEvent(model.EventError, model.ErrorPayload{
		Request: request,
		Message: message,
	}, at)
}
