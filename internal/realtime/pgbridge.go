package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PGRelay publishes events with pg_notify on a shared channel.
type PGRelay struct {
	db      *gorm.DB
	channel string
}

func NewPGRelay(db *gorm.DB, channel string) *PGRelay {
	return &PGRelay{db: db, channel: channel}
}

func (r *PGRelay) Notify(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", r.channel, string(payload)).Error
}

// Listener bridges LISTEN on the channel into the broker. lib/pq's listener
// reconnects on its own between minReconnect and maxReconnect.
type Listener struct {
	broker  *Broker
	log     *zap.Logger
	l       *pq.Listener
	channel string
	done    chan struct{}
}

const (
	minReconnect = 2 * time.Second
	maxReconnect = time.Minute
)

func NewListener(dsn, channel string, broker *Broker, log *zap.Logger) *Listener {
	lg := log.Named("pgbridge")
	report := func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			lg.Info("listening for change events", zap.String("channel", channel))
		case pq.ListenerEventDisconnected:
			lg.Warn("notify connection lost", zap.Error(err))
		case pq.ListenerEventReconnected:
			lg.Info("notify connection restored")
		case pq.ListenerEventConnectionAttemptFailed:
			lg.Warn("notify reconnect failed", zap.Error(err))
		}
	}
	return &Listener{
		broker:  broker,
		log:     lg,
		l:       pq.NewListener(dsn, minReconnect, maxReconnect, report),
		channel: channel,
		done:    make(chan struct{}),
	}
}

// Start subscribes to the channel and pumps notifications until Stop.
func (l *Listener) Start() error {
	if err := l.l.Listen(l.channel); err != nil {
		return err
	}
	go l.run()
	return nil
}

func (l *Listener) run() {
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-l.done:
			return
		case n, ok := <-l.l.Notify:
			if !ok {
				return
			}
			// A nil notification follows a reconnect; anything sent while
			// disconnected is gone, which clients tolerate by re-syncing.
			if n == nil {
				continue
			}
			l.broker.Receive([]byte(n.Extra))
		case <-ping.C:
			if err := l.l.Ping(); err != nil {
				l.log.Debug("listener ping failed", zap.Error(err))
			}
		}
	}
}

func (l *Listener) Stop() error {
	close(l.done)
	return l.l.Close()
}
