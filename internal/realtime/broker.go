package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Table names carried on the feed.
const (
	TableMessages      = "messages"
	TableConversations = "conversations"
	TableSchedule      = "schedule_events"
	TableSessions      = "sessions"
)

type Action string

const (
	ActionInsert Action = "INSERT"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Event is a change notification. It names the row but carries no content;
// subscribers re-fetch whatever they display.
type Event struct {
	Table  string    `json:"table"`
	Action Action    `json:"action"`
	ID     uint      `json:"id"`
	UserID uint      `json:"user_id,omitempty"`
	At     time.Time `json:"at"`
	Origin string    `json:"origin,omitempty"`
}

// Publisher is what write paths depend on.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// Relay forwards locally published events to other processes.
type Relay interface {
	Notify(ctx context.Context, ev Event) error
}

// Broker fans events out to subscriptions keyed by table.
type Broker struct {
	origin string
	log    *zap.Logger

	mu    sync.RWMutex
	subs  map[string]map[*Subscription]struct{}
	relay Relay
}

func NewBroker(log *zap.Logger) *Broker {
	return &Broker{
		origin: uuid.NewString(),
		log:    log.Named("realtime"),
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Origin identifies this process on the shared notify channel.
func (b *Broker) Origin() string { return b.origin }

// SetRelay installs the cross-process relay. Nil disables it.
func (b *Broker) SetRelay(r Relay) {
	b.mu.Lock()
	b.relay = r
	b.mu.Unlock()
}

// Subscription receives events for a fixed set of tables until Close.
type Subscription struct {
	C      chan Event
	userID uint
	tables []string
	broker *Broker
	once   sync.Once
}

// Subscribe registers interest in tables. Session events are only delivered
// to the subscription of the user they concern.
func (b *Broker) Subscribe(userID uint, tables ...string) *Subscription {
	s := &Subscription{C: make(chan Event, 64), userID: userID, tables: tables, broker: b}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range tables {
		if b.subs[t] == nil {
			b.subs[t] = make(map[*Subscription]struct{})
		}
		b.subs[t][s] = struct{}{}
	}
	return s
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		b := s.broker
		b.mu.Lock()
		for _, t := range s.tables {
			if m := b.subs[t]; m != nil {
				delete(m, s)
				if len(m) == 0 {
					delete(b.subs, t)
				}
			}
		}
		b.mu.Unlock()
		close(s.C)
	})
}

// Publish delivers ev locally and hands it to the relay, if any.
func (b *Broker) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	ev.Origin = b.origin
	b.deliver(ev)

	b.mu.RLock()
	relay := b.relay
	b.mu.RUnlock()
	if relay != nil {
		if err := relay.Notify(ctx, ev); err != nil {
			b.log.Warn("relay notify failed", zap.String("table", ev.Table), zap.Error(err))
		}
	}
}

// Receive injects an event that arrived from another process. Events that
// this broker published itself are dropped.
func (b *Broker) Receive(payload []byte) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		b.log.Warn("discarding malformed change event", zap.Error(err))
		return
	}
	if ev.Origin == b.origin {
		return
	}
	b.deliver(ev)
}

// Subscribers counts live subscriptions for a table.
func (b *Broker) Subscribers(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[table])
}

func (b *Broker) deliver(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for s := range b.subs[ev.Table] {
		if ev.Table == TableSessions && ev.UserID != s.userID {
			continue
		}
		select {
		case s.C <- ev:
		default:
			// A full buffer means the client is not reading; it will re-sync on
			// the next event it does receive.
			b.log.Debug("dropping event for slow subscriber", zap.String("table", ev.Table))
		}
	}
}
