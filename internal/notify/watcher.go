// Package notify follows the backend's /socket/players push channel and turns
// each change notification into a local event.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/metrics"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
)

const (
	DefaultInitialInterval = time.Second
	DefaultMaxInterval     = 30 * time.Second

	writeWait = 5 * time.Second

	otherLabel = "other"
)

var (
	entityLabels = map[string]string{"player": "player", "players": "player", "team": "team", "teams": "team"}
	actionLabels = map[string]string{"create": "create", "update": "update", "delete": "delete"}
)

// metricLabels folds a notification onto a fixed label set so remote values
// cannot grow the counter's series.
func metricLabels(n models.Notification) (entity, action string) {
	entity, action = otherLabel, otherLabel
	if v, ok := entityLabels[strings.ToLower(strings.TrimSpace(n.Entity))]; ok {
		entity = v
	}
	if v, ok := actionLabels[strings.ToLower(strings.TrimSpace(n.Action))]; ok {
		action = v
	}
	return entity, action
}

// Publisher receives the events derived from notifications
type Publisher interface {
	Publish(pubsub.Event)
}

// Options configures a Watcher
type Options struct {
	URL             string
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Header          http.Header
	Dialer          *websocket.Dialer
}

// Watcher keeps one connection to the push channel open, reconnecting with
// capped exponential backoff plus jitter. Attempts are unbounded and the
// backoff resets after every successful connection.
type Watcher struct {
	opts      Options
	pub       Publisher
	connected atomic.Bool
	sessions  atomic.Int64
	received  atomic.Int64
}

func NewWatcher(opts Options, pub Publisher) *Watcher {
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = DefaultInitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = DefaultMaxInterval
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	return &Watcher{opts: opts, pub: pub}
}

// NewBackOff returns the reconnect policy for the given bounds
func NewBackOff(initial, max time.Duration) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = initial
	eb.MaxInterval = max
	eb.Multiplier = 2
	eb.RandomizationFactor = 0.5
	eb.MaxElapsedTime = 0
	eb.Reset()
	return &cappedBackOff{BackOff: eb, max: max}
}

// cappedBackOff clamps jittered intervals so no wait exceeds max
type cappedBackOff struct {
	backoff.BackOff
	max time.Duration
}

func (c *cappedBackOff) NextBackOff() time.Duration {
	d := c.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	if d > c.max {
		return c.max
	}
	return d
}

// Connected reports whether the push channel is currently open
func (w *Watcher) Connected() bool {
	return w.connected.Load()
}

// Received returns how many notifications have been handled
func (w *Watcher) Received() int64 {
	return w.received.Load()
}

// Run blocks until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	b := NewBackOff(w.opts.InitialInterval, w.opts.MaxInterval)
	logger.Info("Push channel watcher starting", "url", w.opts.URL)

	for {
		err := w.session(ctx, b.Reset)
		if ctx.Err() != nil {
			logger.Info("Push channel watcher stopped")
			return nil
		}

		delay := b.NextBackOff()
		metrics.PushReconnects.Inc()
		logger.Warn("Push channel disconnected", "error", err, "retry_in", delay.String())

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("Push channel watcher stopped")
			return nil
		case <-timer.C:
		}
	}
}

func (w *Watcher) session(ctx context.Context, onConnect func()) error {
	conn, _, err := w.opts.Dialer.DialContext(ctx, w.opts.URL, w.opts.Header)
	if err != nil {
		return fmt.Errorf("dial push channel: %w", err)
	}
	defer conn.Close()

	onConnect()
	w.sessions.Add(1)
	w.connected.Store(true)
	defer w.connected.Store(false)
	logger.Info("Push channel connected", "url", w.opts.URL)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		w.handle(data)
	}
}

func (w *Watcher) handle(data []byte) {
	var n models.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		// still a change signal; the payload just isn't structured
		logger.Debug("Unstructured push notification", "error", err)
		n = models.Notification{}
	}

	w.received.Add(1)
	metrics.PushNotifications.WithLabelValues(metricLabels(n)).Inc()
	w.pub.Publish(pubsub.FromNotification(n))
	logger.Debug("Push notification", "entity", n.Entity, "action", n.Action, "uid", n.UID)
}
