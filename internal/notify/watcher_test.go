package notify

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/metrics"
	"github.com/Billy-Davies-2/spirit11-ui/internal/mocks"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
)

func init() {
	logger.Init()
}

type recorder struct {
	mu     sync.Mutex
	events []pubsub.Event
}

func (r *recorder) Publish(e pubsub.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) last() pubsub.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// notifyUntil repeats n until the watcher publishes something new, since the
// server registers a socket slightly after the client sees the handshake.
func notifyUntil(t *testing.T, mb *mocks.Backend, rec *recorder, n models.Notification) {
	t.Helper()
	before := rec.len()
	waitFor(t, func() bool {
		mb.Notify(n)
		time.Sleep(20 * time.Millisecond)
		return rec.len() > before
	})
}

func TestMetricLabels(t *testing.T) {
	tests := []struct {
		entity, action string
		wantE, wantA   string
	}{
		{"player", "update", "player", "update"},
		{" Players ", "CREATE", "player", "create"},
		{"teams", "delete", "team", "delete"},
		{"", "", "other", "other"},
		{"entity", "update", "other", "update"},
		{"player", "rename-4f1c9e", "player", "other"},
	}
	for _, tt := range tests {
		e, a := metricLabels(models.Notification{Entity: tt.entity, Action: tt.action})
		if e != tt.wantE || a != tt.wantA {
			t.Errorf("metricLabels(%q, %q) = (%s, %s), want (%s, %s)", tt.entity, tt.action, e, a, tt.wantE, tt.wantA)
		}
	}
}

func TestHandleCountsUnknownValuesAsOther(t *testing.T) {
	rec := &recorder{}
	w := NewWatcher(Options{URL: "ws://unused"}, rec)

	before := testutil.ToFloat64(metrics.PushNotifications.WithLabelValues("other", "other"))
	w.handle([]byte(`{"entity":"session-81f2","action":"ping-81f2"}`))
	w.handle([]byte(`not json`))

	if got := testutil.ToFloat64(metrics.PushNotifications.WithLabelValues("other", "other")); got != before+2 {
		t.Errorf("other/other = %v, want %v", got, before+2)
	}
	if n := testutil.CollectAndCount(metrics.PushNotifications, "spirit11_push_notifications_total"); n > 12 {
		t.Errorf("push notification series = %d, want at most 12", n)
	}
	if rec.len() != 2 {
		t.Errorf("published %d events, want 2", rec.len())
	}
}

func TestBackOffNeverExceedsCap(t *testing.T) {
	b := NewBackOff(time.Second, 30*time.Second)
	for i := 0; i < 200; i++ {
		d := b.NextBackOff()
		if d <= 0 || d > 30*time.Second {
			t.Fatalf("attempt %d: interval %v outside (0, 30s]", i, d)
		}
	}

	b.Reset()
	if d := b.NextBackOff(); d > 1500*time.Millisecond {
		t.Errorf("first interval after reset = %v, want <= 1.5s", d)
	}
}

func TestWatcherPublishesAndReconnects(t *testing.T) {
	mb := mocks.NewBackend()
	srv := httptest.NewServer(mb)
	defer srv.Close()

	rec := &recorder{}
	w := NewWatcher(Options{
		URL:             "ws" + strings.TrimPrefix(srv.URL, "http") + "/socket/players",
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
	}, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, w.Connected)
	id := uint(3)
	notifyUntil(t, mb, rec, models.Notification{Entity: "player", Action: "update", ID: &id})
	if e := rec.last(); e.Type != pubsub.EventPlayersChanged || e.Payload["action"] != "update" {
		t.Errorf("unexpected event: %+v", e)
	}

	// drop the connection; the watcher should come back on its own
	mb.CloseSockets()
	waitFor(t, func() bool { return w.sessions.Load() >= 2 && w.Connected() })

	notifyUntil(t, mb, rec, models.Notification{Entity: "team", Action: "create"})
	if e := rec.last(); e.Type != pubsub.EventTeamsChanged {
		t.Errorf("unexpected event type %s", e.Type)
	}
	if w.Received() < 2 {
		t.Errorf("received = %d", w.Received())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcherRetriesUnreachableBackend(t *testing.T) {
	w := NewWatcher(Options{
		URL:             "ws://127.0.0.1:1/socket/players",
		InitialInterval: 5 * time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
	}, &recorder{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := w.Run(ctx); err != nil {
		t.Errorf("Run() returned %v", err)
	}
	if w.Connected() {
		t.Error("watcher should not report a connection")
	}
}
