package pubsub

import (
	"sync"
	"sync/atomic"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
)

// MockNATSPubSub is an in-memory Upstream that echoes every published event
// back to its subscribers and keeps a bounded log for replay. While
// disconnected it drops publishes the way a core NATS publish would.
type MockNATSPubSub struct {
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
	messages    []Event
	maxMessages int
	down        atomic.Bool
	dropped     atomic.Int64
}

// NewMockNATSPubSub creates a new mock upstream
func NewMockNATSPubSub(subject string) *MockNATSPubSub {
	logger.Info("Using mock NATS pub/sub for local development", "subject", subject)
	return &MockNATSPubSub{
		subject:     subject,
		subscribers: make([]chan Event, 0),
		messages:    make([]Event, 0),
		maxMessages: 1000,
	}
}

// Publish stores the event and delivers it to every subscriber
func (p *MockNATSPubSub) Publish(event Event) {
	if p.down.Load() {
		p.dropped.Add(1)
		logger.Warn("Mock NATS: Dropping event while disconnected", "event_type", event.Type)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages = append(p.messages, event)
	if len(p.messages) > p.maxMessages {
		p.messages = p.messages[len(p.messages)-p.maxMessages:]
	}

	for _, sub := range p.subscribers {
		select {
		case sub <- event:
		default:
			logger.Warn("Mock NATS: Skipping slow subscriber", "event_type", event.Type)
		}
	}
	logger.Debug("Mock NATS: Published event", "event_type", event.Type, "subject", p.subject)
}

// Subscribe creates a subscription channel for events
func (p *MockNATSPubSub) Subscribe() chan Event {
	ch := make(chan Event, 100)

	p.mu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel
func (p *MockNATSPubSub) Unsubscribe(ch chan Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, sub := range p.subscribers {
		if sub == ch {
			p.subscribers = append(p.subscribers[:i], p.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// ReplayType returns the logged events of one type, oldest first
func (p *MockNATSPubSub) ReplayType(eventType string) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Event
	for _, e := range p.messages {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Replay returns up to count of the most recent events, oldest first
func (p *MockNATSPubSub) Replay(count int) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	start := len(p.messages) - count
	if start < 0 {
		start = 0
	}
	out := make([]Event, len(p.messages)-start)
	copy(out, p.messages[start:])
	return out
}

// GetSubscriberCount returns the number of active subscribers
func (p *MockNATSPubSub) GetSubscriberCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

// SetConnected simulates losing or regaining the server connection
func (p *MockNATSPubSub) SetConnected(up bool) {
	p.down.Store(!up)
}

// Connected reports the simulated connection state
func (p *MockNATSPubSub) Connected() bool {
	return !p.down.Load()
}

// Dropped counts publishes lost while disconnected
func (p *MockNATSPubSub) Dropped() int64 {
	return p.dropped.Load()
}

// Close closes all subscriptions
func (p *MockNATSPubSub) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, sub := range p.subscribers {
		close(sub)
	}
	p.subscribers = nil
}
