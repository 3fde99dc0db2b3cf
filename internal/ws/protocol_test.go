package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"github.com/aquatrack/reminderd/internal/model"
)

type fakeService struct {
	reminders map[string][]model.Reminder
	syncErr   error
	synced    int
}

func (f *fakeService) Sync(context.Context) (int, error) {
	if f.syncErr != nil {
		return 0, f.syncErr
	}
	f.synced++
	return 2, nil
}

func (f *fakeService) OwnerReminders(ownerID string) []model.Reminder {
	return f.reminders[ownerID]
}

func (f *fakeService) CreateTestReminder(ownerID string, now time.Time) (model.Reminder, error) {
	return model.Reminder{
		ID:        "test-1",
		OwnerID:   ownerID,
		Title:     "Test reminder",
		TimeOfDay: model.TimeOfDayFrom(now.Add(time.Minute)),
		Days:      model.Weekdays{model.WeekdayOf(now)},
		Enabled:   true,
	}, nil
}

type fakeNotifier struct {
	tested chan string
}

func (f *fakeNotifier) Test(ownerID string, _ time.Time) { f.tested <- ownerID }

// wireEvent keeps the payload raw so each test decodes what it expects.
type wireEvent struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func dialTestServer(t *testing.T, svc *fakeService, notify *fakeNotifier) (*websocket.Conn, *Hub) {
	t.Helper()

	hub := NewHub()
	h := NewHandler(hub, NewProtocol(svc, notify))

	e := ginext.New()
	e.GET("/ws", h.Serve)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?owner_id=u-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, hub
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event wireEvent
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func send(t *testing.T, conn *websocket.Conn, msgType string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"type": msgType}))
}

func TestWelcomeIsFirstMessage(t *testing.T) {
	conn, hub := dialTestServer(t, &fakeService{}, &fakeNotifier{tested: make(chan string, 1)})

	event := readEvent(t, conn)
	assert.Equal(t, model.EventWelcome, event.Type)
	assert.False(t, event.Timestamp.IsZero())

	assert.Eventually(t, func() bool { return hub.OwnerOnline("u-1") }, time.Second, 10*time.Millisecond)
}

func TestPingPong(t *testing.T) {
	conn, _ := dialTestServer(t, &fakeService{}, &fakeNotifier{tested: make(chan string, 1)})
	readEvent(t, conn) // welcome

	send(t, conn, model.MsgPing)

	event := readEvent(t, conn)
	assert.Equal(t, model.EventPong, event.Type)
	assert.False(t, event.Timestamp.IsZero())
}

func TestTestNotificationStampsCaller(t *testing.T) {
	notify := &fakeNotifier{tested: make(chan string, 1)}
	conn, _ := dialTestServer(t, &fakeService{}, notify)
	readEvent(t, conn) // welcome

	send(t, conn, model.MsgTestNotification)

	select {
	case owner := <-notify.tested:
		assert.Equal(t, "u-1", owner)
	case <-time.After(2 * time.Second):
		t.Fatal("test notification never dispatched")
	}
}

func TestGetReminders(t *testing.T) {
	svc := &fakeService{reminders: map[string][]model.Reminder{
		"u-1": {{
			ID:        "r-1",
			OwnerID:   "u-1",
			Title:     "Morning glass",
			TimeOfDay: model.NewTimeOfDay(8, 0, 0),
			Days:      model.Weekdays{1},
			Enabled:   true,
		}},
	}}

	conn, _ := dialTestServer(t, svc, &fakeNotifier{tested: make(chan string, 1)})
	readEvent(t, conn) // welcome

	send(t, conn, model.MsgGetReminders)

	event := readEvent(t, conn)
	require.Equal(t, model.EventReminders, event.Type)

	var reminders []model.Reminder
	require.NoError(t, json.Unmarshal(event.Payload, &reminders))
	require.Len(t, reminders, 1)
	assert.Equal(t, "r-1", reminders[0].ID)
}

func TestSyncCompleteAndFailure(t *testing.T) {
	svc := &fakeService{}
	conn, _ := dialTestServer(t, svc, &fakeNotifier{tested: make(chan string, 1)})
	readEvent(t, conn) // welcome

	send(t, conn, model.MsgSyncReminders)
	event := readEvent(t, conn)
	require.Equal(t, model.EventSyncComplete, event.Type)

	var status model.StatusPayload
	require.NoError(t, json.Unmarshal(event.Payload, &status))
	assert.Equal(t, 2, status.Count)

	// A failing sync answers with an explicit error event, not silence.
	svc.syncErr = errors.New("store down")
	send(t, conn, model.MsgSyncReminders)
	event = readEvent(t, conn)
	require.Equal(t, model.EventError, event.Type)

	var fail model.ErrorPayload
	require.NoError(t, json.Unmarshal(event.Payload, &fail))
	assert.Equal(t, model.MsgSyncReminders, fail.Request)
}

func TestCreateTestReminder(t *testing.T) {
	conn, _ := dialTestServer(t, &fakeService{}, &fakeNotifier{tested: make(chan string, 1)})
	readEvent(t, conn) // welcome

	send(t, conn, model.MsgCreateTestReminder)

	event := readEvent(t, conn)
	require.Equal(t, model.EventTestReminderCreated, event.Type)

	var rem model.Reminder
	require.NoError(t, json.Unmarshal(event.Payload, &rem))
	assert.Equal(t, "u-1", rem.OwnerID)
	assert.True(t, rem.Enabled)
}

func TestMalformedAndUnknownMessagesKeepConnectionOpen(t *testing.T) {
	conn, _ := dialTestServer(t, &fakeService{}, &fakeNotifier{tested: make(chan string, 1)})
	readEvent(t, conn) // welcome

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	send(t, conn, "definitely_not_a_thing")

	// Both were logged and ignored; the connection still answers pings.
	send(t, conn, model.MsgPing)
	assert.Equal(t, model.EventPong, readEvent(t, conn).Type)
}

func TestUpgradeRequiresOwnerID(t *testing.T) {
	hub := NewHub()
	h := NewHandler(hub, NewProtocol(&fakeService{}, &fakeNotifier{tested: make(chan string, 1)}))

	e := ginext.New()
	e.GET("/ws", h.Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDisconnectUnregisters(t *testing.T) {
	conn, hub := dialTestServer(t, &fakeService{}, &fakeNotifier{tested: make(chan string, 1)})
	readEvent(t, conn) // welcome

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
