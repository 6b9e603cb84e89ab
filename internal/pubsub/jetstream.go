package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
)

// Stream defaults shared by the external and embedded upstreams
const (
	DefaultSubject = "spirit11.events"
	DefaultStream  = "SPIRIT11_EVENTS"
)

// jetStreamBridge publishes events to a JetStream subject and delivers
// everything received on that subject to local subscriber channels.
type jetStreamBridge struct {
	nc          *nats.Conn
	js          nats.JetStreamContext
	sub         *nats.Subscription
	subject     string
	subscribers []chan Event
	mu          sync.RWMutex
	closed      bool
}

type streamSettings struct {
	subject string
	stream  string
	storage nats.StorageType
	maxAge  time.Duration
}

func newJetStreamBridge(nc *nats.Conn, cfg streamSettings) (*jetStreamBridge, error) {
	if cfg.subject == "" {
		cfg.subject = DefaultSubject
	}
	if cfg.stream == "" {
		cfg.stream = DefaultStream
	}

	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamCfg := &nats.StreamConfig{
		Name:     cfg.stream,
		Subjects: []string{cfg.subject},
		Storage:  cfg.storage,
		MaxAge:   cfg.maxAge,
	}
	if _, err := js.StreamInfo(cfg.stream); errors.Is(err, nats.ErrStreamNotFound) {
		_, err = js.AddStream(streamCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
		logger.Info("JetStream stream created", "stream", cfg.stream, "subject", cfg.subject)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up stream: %w", err)
	}

	b := &jetStreamBridge{
		nc:          nc,
		js:          js,
		subject:     cfg.subject,
		subscribers: make([]chan Event, 0),
	}

	b.sub, err = js.Subscribe(cfg.subject, b.deliver, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", cfg.subject, err)
	}
	logger.Debug("Subscribed to JetStream", "subject", cfg.subject)

	return b, nil
}

func (b *jetStreamBridge) deliver(msg *nats.Msg) {
	var event Event
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to unmarshal event from JetStream", "error", err)
		msg.Term()
		return
	}

	b.mu.RLock()
	for _, sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			logger.Warn("JetStream: Skipping slow subscriber", "event_type", event.Type)
		}
	}
	b.mu.RUnlock()

	msg.Ack()
}

// Publish publishes an event to JetStream; it reaches local subscribers on the way back
func (b *jetStreamBridge) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if _, err := b.js.Publish(b.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", b.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event to NATS", "event_type", event.Type, "subject", b.subject)
}

// Subscribe creates a subscription channel for events
func (b *jetStreamBridge) Subscribe() chan Event {
	ch := make(chan Event, 100)

	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel
func (b *jetStreamBridge) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// GetSubscriberCount returns the number of active local subscribers
func (b *jetStreamBridge) GetSubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Connected reports whether the NATS connection is up
func (b *jetStreamBridge) Connected() bool {
	return b.nc != nil && b.nc.IsConnected()
}

func (b *jetStreamBridge) close() {
	if b.sub != nil {
		b.sub.Unsubscribe()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subscribers {
		close(sub)
	}
	b.subscribers = nil

	if b.nc != nil {
		b.nc.Close()
	}
}

// NATSOptions configures a connection to an external NATS cluster
type NATSOptions struct {
	URL     string
	Subject string
	Stream  string
}

// NATSPubSub implements pub/sub using NATS JetStream
type NATSPubSub struct {
	*jetStreamBridge
}

// NewNATSPubSub connects to NATS and bridges the configured JetStream subject
func NewNATSPubSub(opts NATSOptions) (*NATSPubSub, error) {
	nc, err := nats.Connect(opts.URL,
		nats.Name("spirit11-ui"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	bridge, err := newJetStreamBridge(nc, streamSettings{
		subject: opts.Subject,
		stream:  opts.Stream,
		storage: nats.FileStorage,
		maxAge:  24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &NATSPubSub{jetStreamBridge: bridge}, nil
}

// Close closes the NATS connection
func (p *NATSPubSub) Close() {
	p.close()
}
