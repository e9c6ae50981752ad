package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DhavalSuthar-24/dugout/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func receive(t *testing.T, s *Subscription) Event {
	t.Helper()
	select {
	case ev := <-s.C:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestBrokerDeliversByTable(t *testing.T) {
	b := NewBroker(zap.NewNop())
	msgs := b.Subscribe(1, TableMessages)
	sched := b.Subscribe(1, TableSchedule)
	defer msgs.Close()
	defer sched.Close()

	b.Publish(context.Background(), Event{Table: TableMessages, Action: ActionInsert, ID: 5})

	ev := receive(t, msgs)
	assert.Equal(t, uint(5), ev.ID)
	assert.Equal(t, b.Origin(), ev.Origin)
	assert.False(t, ev.At.IsZero())
	assert.Len(t, sched.C, 0)
}

func TestBrokerSessionEventsArePrivate(t *testing.T) {
	b := NewBroker(zap.NewNop())
	jane := b.Subscribe(1, TableSessions)
	coach := b.Subscribe(2, TableSessions)
	defer jane.Close()
	defer coach.Close()

	b.Publish(context.Background(), Event{Table: TableSessions, Action: ActionUpdate, UserID: 1})

	assert.Equal(t, uint(1), receive(t, jane).UserID)
	assert.Len(t, coach.C, 0)
}

func TestSubscriptionCloseReleases(t *testing.T) {
	b := NewBroker(zap.NewNop())
	s := b.Subscribe(1, TableMessages, TableConversations)
	assert.Equal(t, 1, b.Subscribers(TableMessages))

	s.Close()
	s.Close()
	assert.Equal(t, 0, b.Subscribers(TableMessages))
	assert.Equal(t, 0, b.Subscribers(TableConversations))

	_, ok := <-s.C
	assert.False(t, ok)
}

type recordingRelay struct {
	events []Event
	err    error
}

func (r *recordingRelay) Notify(_ context.Context, ev Event) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestBrokerRelayAndReceive(t *testing.T) {
	b := NewBroker(zap.NewNop())
	relay := &recordingRelay{err: errors.New("connection refused")}
	b.SetRelay(relay)
	s := b.Subscribe(1, TableMessages)
	defer s.Close()

	b.Publish(context.Background(), Event{Table: TableMessages, Action: ActionDelete, ID: 9})
	require.Len(t, relay.events, 1)
	receive(t, s)

	// Echo of our own notification is ignored.
	own, _ := json.Marshal(relay.events[0])
	b.Receive(own)
	assert.Len(t, s.C, 0)

	remote, _ := json.Marshal(Event{Table: TableMessages, Action: ActionInsert, ID: 10, Origin: "other-node"})
	b.Receive(remote)
	assert.Equal(t, uint(10), receive(t, s).ID)

	b.Receive([]byte("not json"))
	assert.Len(t, s.C, 0)
}

func TestParseTables(t *testing.T) {
	assert.Equal(t, []string{"messages", "schedule_events"}, parseTables("messages, schedule_events,messages,users"))
	assert.Empty(t, parseTables("users"))
}

func TestWebsocketStreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	b := NewBroker(zap.NewNop())
	h := NewHandler(b, zap.NewNop())

	r := gin.New()
	r.GET("/realtime", func(c *gin.Context) {
		c.Set(common.ContextPrincipalKey, common.Principal{UserID: 3, Role: common.RolePlayer})
		c.Next()
	}, h.Subscribe)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime?tables=messages"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.Subscribers(TableMessages) == 1 }, time.Second, 10*time.Millisecond)
	b.Publish(context.Background(), Event{Table: TableMessages, Action: ActionInsert, ID: 77})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, uint(77), ev.ID)
	assert.Equal(t, ActionInsert, ev.Action)

	conn.Close()
	require.Eventually(t, func() bool { return b.Subscribers(TableMessages) == 0 }, 2*time.Second, 10*time.Millisecond)
}
