// Package reminder handles fallback queue messages: reminders fired while
// their owner had no open connection, delivered out-of-band instead.
package reminder

import (
	"context"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aquatrack/reminderd/internal/model"
	"github.com/aquatrack/reminderd/internal/rabbitmq/queue"
)

// Delivery channel names, matching the keys of the notifier map and the
// preferred_channel column in profiles.
const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

var errNoContact = errors.New("owner has no deliverable contact")

// contactSource resolves an owner's delivery addresses from the durable
// store at consume time, so profile edits between firing and delivery are
// honored.
//
//go:generate mockgen -source=handler.go -destination=../../../mocks/rabbitmq/handlers/reminder/mock.go -package=mocks
type contactSource interface {
	GetOwnerContact(ctx context.Context, ownerID string) (model.Contact, error)
}

// Notifier delivers one message to one recipient address.
type Notifier interface {
	Send(to, message string) error
}

// Handler delivers one fallback message through the owner's contact channel.
type Handler struct {
	contacts  contactSource
	notifiers map[string]Notifier
}

// NewHandler creates a fallback message handler over the given contact
// source and notifier channels.
func NewHandler(contacts contactSource, notifiers map[string]Notifier) *Handler {
	return &Handler{contacts: contacts, notifiers: notifiers}
}

// HandleMessage resolves the owner's contact and sends the reminder with
// retries. A message that cannot be delivered is logged and left for the
// queue's dead-letter routing; there are no store writes on this path.
func (h *Handler) HandleMessage(ctx context.Context, msg queue.FallbackMessage, strategy retry.Strategy) {
	zlog.Logger.Info().
		Str("reminder_id", msg.ReminderID).
		Str("owner_id", msg.OwnerID).
		Msg("delivering fallback reminder")

	var contact model.Contact
	err := retry.Do(func() error {
		var err error
		contact, err = h.contacts.GetOwnerContact(ctx, msg.OwnerID)
		return err
	}, strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).
			Str("owner_id", msg.OwnerID).
			Msg("failed to resolve owner contact, leaving message for DLQ")
		return
	}

	channel, to, err := h.route(contact)
	if err != nil {
		zlog.Logger.Warn().Err(err).
			Str("owner_id", msg.OwnerID).
			Msg("undeliverable fallback reminder")
		return
	}

	text := fmt.Sprintf("%s: %s", msg.Title, msg.Message)

	err = retry.Do(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return h.notifiers[channel].Send(to, text)
		}
	}, strategy)
	if err != nil {
		zlog.Logger.Error().Err(err).
			Str("reminder_id", msg.ReminderID).
			Str("channel", channel).
			Msg("fallback delivery failed, leaving message for DLQ")
		return
	}

	zlog.Logger.Info().
		Str("reminder_id", msg.ReminderID).
		Str("channel", channel).
		Msg("fallback reminder delivered")
}

// route picks the delivery channel: the owner's preference when it is
// usable, otherwise whichever address exists.
func (h *Handler) route(contact model.Contact) (channel, to string, err error) {
	addresses := map[string]string{
		ChannelEmail:    contact.Email,
		ChannelTelegram: contact.TelegramChatID,
	}

	if to := addresses[contact.Preferred]; to != "" && h.notifiers[contact.Preferred] != nil {
		return contact.Preferred, to, nil
	}

	for _, channel := range []string{ChannelEmail, ChannelTelegram} {
		if to := addresses[channel]; to != "" && h.notifiers[channel] != nil {
			return channel, to, nil
		}
	}

	return "", "", errNoContact
}
