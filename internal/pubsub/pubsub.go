package pubsub

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/metrics"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// Event types
const (
	EventPlayersChanged = "players:changed"
	EventTeamsChanged   = "teams:changed"
	EventRosterSaved    = "roster:saved"
	EventChatMessage    = "chat:message"
)

// Event represents a pubsub event
type Event struct {
	ID      string                 `json:"id,omitempty"`
	Type    string                 `json:"type"`
	Time    time.Time              `json:"ts,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with an id and the current time
func NewEvent(eventType string, payload map[string]interface{}) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Time:    time.Now().UTC(),
		Payload: payload,
	}
}

// VisibleTo reports whether the event may be delivered to username.
// Events carrying a "user" payload belong to that user only.
func (e Event) VisibleTo(username string) bool {
	owner, ok := e.Payload["user"].(string)
	return !ok || owner == username
}

// FromNotification converts a backend push notification into a change event.
// The channel is opaque: anything not naming teams means the player list changed.
func FromNotification(n models.Notification) Event {
	eventType := EventPlayersChanged
	switch strings.ToLower(strings.TrimSpace(n.Entity)) {
	case "team", "teams":
		eventType = EventTeamsChanged
	}

	payload := map[string]interface{}{
		"entity": n.Entity,
		"action": n.Action,
	}
	if n.ID != nil {
		payload["id"] = *n.ID
	}
	if n.UID != "" {
		payload["uid"] = n.UID
	}
	return NewEvent(eventType, payload)
}

// Upstream is an interface for upstream publishers (e.g., NATS)
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// PubSub fans events out to in-process subscribers (SSE streams, gRPC watchers)
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream // Optional upstream publisher (e.g., NATS)
}

// New creates a new PubSub instance
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
	}
}

// NewWithUpstream creates a PubSub that bridges to an upstream publisher.
// Publish goes to the upstream, which broadcasts to all instances; events
// coming back from the upstream are delivered to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	ch := upstream.Subscribe()
	go func() {
		logger.Debug("PubSub: Subscribed to upstream, waiting for events")
		for event := range ch {
			logger.Debug("PubSub: Received event from upstream, forwarding to local", "type", event.Type)
			ps.publishLocal(event)
		}
		logger.Debug("PubSub: Upstream channel closed")
	}()

	return ps
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 10)
	ps.subscribers = append(ps.subscribers, ch)
	metrics.EventSubscribers.Inc()
	logger.Debug("PubSub: New subscriber added", "totalSubscribers", len(ps.subscribers))
	return ch
}

// Unsubscribe removes a subscriber
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			metrics.EventSubscribers.Dec()
			break
		}
	}
}

// SubscriberCount returns the number of local subscribers
func (ps *PubSub) SubscriberCount() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers)
}

// Publish sends an event to all subscribers, through the upstream when one is configured
func (ps *PubSub) Publish(event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	if ps.upstream != nil {
		logger.Debug("PubSub: Forwarding to upstream", "type", event.Type)
		ps.upstream.Publish(event)
		return
	}
	logger.Debug("PubSub: Publishing locally (no upstream)", "type", event.Type)
	ps.publishLocal(event)
}

// publishLocal sends an event to local subscribers only. The read lock is held
// while sending so Unsubscribe cannot close a channel mid-delivery.
func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, ch := range ps.subscribers {
		select {
		case ch <- event:
		default:
			logger.Warn("PubSub: Skipping slow subscriber", "type", event.Type)
		}
	}
}
