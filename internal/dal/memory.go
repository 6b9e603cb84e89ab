package dal

import (
	"context"
	"slices"
	"sync"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// MemoryDAL implements ChatDAL using in-memory storage
type MemoryDAL struct {
	mu       sync.RWMutex
	sessions map[string][]models.ChatMessage
}

// NewMemoryDAL creates a new in-memory data access layer
func NewMemoryDAL() *MemoryDAL {
	return &MemoryDAL{sessions: make(map[string][]models.ChatMessage)}
}

func (m *MemoryDAL) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	if err := validateMessage(msg); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *msg
	stored.Cards = slices.Clone(msg.Cards)
	m.sessions[msg.SessionID] = append(m.sessions[msg.SessionID], stored)
	return nil
}

func (m *MemoryDAL) History(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Create copies to avoid race conditions
	msgs := m.sessions[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]models.ChatMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = msg
		out[i].Cards = slices.Clone(msg.Cards)
	}
	return out, nil
}

func (m *MemoryDAL) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
