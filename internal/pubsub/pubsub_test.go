package pubsub

import (
	"sync"
	"testing"
	"time"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

func receive(t *testing.T, ch chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(timeout):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	ch3 := ps.Subscribe()
	if ps.SubscriberCount() != 3 {
		t.Fatalf("expected 3 subscribers, got %d", ps.SubscriberCount())
	}

	ps.Unsubscribe(ch2)
	if ps.SubscriberCount() != 2 {
		t.Errorf("expected 2 subscribers, got %d", ps.SubscriberCount())
	}
	if _, ok := <-ch2; ok {
		t.Error("channel should be closed after unsubscribe")
	}

	ps.Publish(Event{Type: EventPlayersChanged})
	for i, ch := range []chan Event{ch1, ch3} {
		if e := receive(t, ch, 100*time.Millisecond); e.Type != EventPlayersChanged {
			t.Errorf("subscriber %d: got type %s", i, e.Type)
		}
	}
}

func TestUnsubscribeNonexistent(t *testing.T) {
	ps := New()
	ch := make(chan Event, 1)

	ps.Unsubscribe(ch)

	// channel not managed by pubsub stays open
	ch <- Event{Type: "test"}
}

func TestPublishStampsEvents(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	ps.Publish(Event{Type: EventRosterSaved, Payload: map[string]interface{}{"team": "Kandy"}})

	e := receive(t, ch, 100*time.Millisecond)
	if e.ID == "" || e.Time.IsZero() {
		t.Errorf("event not stamped: %+v", e)
	}
	if e.Payload["team"] != "Kandy" {
		t.Errorf("payload = %v", e.Payload)
	}
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	for i := 0; i < 15; i++ {
		ps.Publish(Event{Type: "fill"})
	}

	if len(ch) != cap(ch) {
		t.Errorf("expected full buffer of %d, got %d", cap(ch), len(ch))
	}
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	ps := New()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		ch := ps.Subscribe()
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ps.Publish(Event{Type: "concurrent"})
			}
		}()
		go func() {
			defer wg.Done()
			ps.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	if ps.SubscriberCount() != 0 {
		t.Errorf("expected all subscribers removed, got %d", ps.SubscriberCount())
	}
}

func TestUpstreamRoundTrip(t *testing.T) {
	upstream := NewMockNATSPubSub(DefaultSubject)
	ps := NewWithUpstream(upstream)
	ch := ps.Subscribe()

	ps.Publish(NewEvent(EventTeamsChanged, nil))
	if e := receive(t, ch, time.Second); e.Type != EventTeamsChanged {
		t.Errorf("got type %s", e.Type)
	}
	if got := upstream.Replay(10); len(got) != 1 {
		t.Errorf("expected 1 event sent upstream, got %d", len(got))
	}

	// another instance publishing straight to the upstream
	upstream.Publish(Event{Type: "external:event"})
	if e := receive(t, ch, time.Second); e.Type != "external:event" {
		t.Errorf("got type %s", e.Type)
	}
}

func TestMockReplayBounded(t *testing.T) {
	m := NewMockNATSPubSub(DefaultSubject)
	m.maxMessages = 3
	for _, typ := range []string{"a", "b", "c", "d"} {
		m.Publish(Event{Type: typ})
	}

	got := m.Replay(10)
	if len(got) != 3 || got[0].Type != "b" || got[2].Type != "d" {
		t.Errorf("unexpected replay: %+v", got)
	}
}

func TestMockDisconnectDropsPublishes(t *testing.T) {
	m := NewMockNATSPubSub(DefaultSubject)
	ps := NewWithUpstream(m)
	ch := ps.Subscribe()

	m.SetConnected(false)
	ps.Publish(NewEvent(EventRosterSaved, map[string]interface{}{"user": "spirituser"}))
	select {
	case e := <-ch:
		t.Fatalf("unexpected event while disconnected: %+v", e)
	case <-time.After(50 * time.Millisecond):
	}
	if m.Connected() || m.Dropped() != 1 {
		t.Errorf("connected=%v dropped=%d", m.Connected(), m.Dropped())
	}

	m.SetConnected(true)
	ps.Publish(NewEvent(EventRosterSaved, map[string]interface{}{"user": "spirituser"}))
	if e := receive(t, ch, time.Second); e.Type != EventRosterSaved {
		t.Errorf("got type %s", e.Type)
	}
	if got := m.ReplayType(EventRosterSaved); len(got) != 1 {
		t.Errorf("expected 1 logged roster event, got %d", len(got))
	}
}

func TestFromNotification(t *testing.T) {
	id := uint(7)
	tests := []struct {
		entity string
		want   string
	}{
		{"player", EventPlayersChanged},
		{"Players", EventPlayersChanged},
		{"team", EventTeamsChanged},
		{"entity", EventPlayersChanged},
		{"", EventPlayersChanged},
	}

	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			e := FromNotification(models.Notification{Entity: tt.entity, Action: "update", ID: &id, UID: "u-1"})
			if e.Type != tt.want {
				t.Errorf("type = %s, want %s", e.Type, tt.want)
			}
			if e.Payload["action"] != "update" || e.Payload["id"] != id || e.Payload["uid"] != "u-1" {
				t.Errorf("payload = %v", e.Payload)
			}
		})
	}
}
