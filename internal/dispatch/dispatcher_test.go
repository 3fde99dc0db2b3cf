package dispatch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"

	"github.com/aquatrack/reminderd/internal/config"
	"github.com/aquatrack/reminderd/internal/model"
	"github.com/aquatrack/reminderd/internal/rabbitmq/queue"
)

type fakeConns struct {
	broadcasts []model.Event
	owned      map[string][]model.Event
	online     map[string]bool
}

func newFakeConns() *fakeConns {
	return &fakeConns{owned: make(map[string][]model.Event), online: make(map[string]bool)}
}

func (f *fakeConns) Broadcast(event model.Event) { f.broadcasts = append(f.broadcasts, event) }
func (f *fakeConns) SendToOwner(ownerID string, event model.Event) {
	f.owned[ownerID] = append(f.owned[ownerID], event)
}
func (f *fakeConns) OwnerOnline(ownerID string) bool { return f.online[ownerID] }

type fakePublisher struct {
	published []queue.FallbackMessage
	err       error
}

func (f *fakePublisher) Publish(msg queue.FallbackMessage, _ retry.Strategy) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func fired() model.Reminder {
	return model.Reminder{
		ID:        "r-1",
		OwnerID:   "u-1",
		Title:     "Morning glass",
		TimeOfDay: model.NewTimeOfDay(8, 0, 0),
		Days:      model.Weekdays{1},
		Enabled:   true,
	}
}

func TestReminderBroadcastScope(t *testing.T) {
	conns := newFakeConns()
	d := New(conns, config.ScopeAll, retry.Strategy{})

	at := time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)
	d.Reminder(fired(), at)

	require.Len(t, conns.broadcasts, 1)
	assert.Empty(t, conns.owned)

	event := conns.broadcasts[0]
	assert.Equal(t, model.EventReminder, event.Type)
	assert.Equal(t, at, event.Timestamp)

	payload, ok := event.Payload.(model.ReminderPayload)
	require.True(t, ok)
	assert.Equal(t, "r-1", payload.ID)
	assert.Equal(t, "u-1", payload.OwnerID)
	// No message set, so the generic prompt fills in.
	assert.Equal(t, model.DefaultMessage, payload.Message)
}

func TestReminderOwnerScope(t *testing.T) {
	conns := newFakeConns()
	d := New(conns, config.ScopeOwner, retry.Strategy{})

	d.Reminder(fired(), time.Now())

	assert.Empty(t, conns.broadcasts)
	require.Len(t, conns.owned["u-1"], 1)
	assert.Equal(t, model.EventReminder, conns.owned["u-1"][0].Type)
}

func TestFallbackEnqueueOnlyWhenOwnerOffline(t *testing.T) {
	conns := newFakeConns()
	pub := &fakePublisher{}
	d := New(conns, config.ScopeAll, retry.Strategy{})
	d.EnableFallback(pub)

	at := time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)

	// Owner offline: the event is parked on the queue.
	d.Reminder(fired(), at)
	require.Len(t, pub.published, 1)
	msg := pub.published[0]
	assert.Equal(t, "r-1", msg.ReminderID)
	assert.Equal(t, "u-1", msg.OwnerID)
	assert.Equal(t, model.DefaultMessage, msg.Message)
	assert.Equal(t, at, msg.FiredAt)

	// Owner online: push only, no enqueue.
	conns.online["u-1"] = true
	d.Reminder(fired(), at)
	assert.Len(t, pub.published, 1)
}

func TestFallbackDisabledNeverPublishes(t *testing.T) {
	conns := newFakeConns()
	d := New(conns, config.ScopeAll, retry.Strategy{})

	// No EnableFallback call; offline owner must not panic or publish.
	d.Reminder(fired(), time.Now())
	require.Len(t, conns.broadcasts, 1)
}

func TestFallbackPublishErrorDoesNotPropagate(t *testing.T) {
	conns := newFakeConns()
	pub := &fakePublisher{err: errors.New("broker down")}
	d := New(conns, config.ScopeAll, retry.Strategy{})
	d.EnableFallback(pub)

	// Logged and dropped; the push already went out.
	d.Reminder(fired(), time.Now())
	assert.Len(t, conns.broadcasts, 1)
}

func TestTestNotificationIsBroadcastWithOwnerStamp(t *testing.T) {
	conns := newFakeConns()
	d := New(conns, config.ScopeOwner, retry.Strategy{})

	at := time.Now().UTC()
	d.Test("u-7", at)

	// Test notifications go to everyone regardless of scope.
	require.Len(t, conns.broadcasts, 1)
	assert.Equal(t, model.EventTest, conns.broadcasts[0].Type)

	payload, ok := conns.broadcasts[0].Payload.(model.TestPayload)
	require.True(t, ok)
	assert.Equal(t, "u-7", payload.OwnerID)
}
