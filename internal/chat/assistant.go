package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/dal"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/metrics"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// FailureText is shown as the assistant reply when a request fails
const FailureText = "Sorry, I couldn't process your request. Please try again."

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a chat request is already in progress")
)

// Backend answers a conversation
type Backend interface {
	Chat(ctx context.Context, turns []backend.ChatTurn) (*models.ChatReply, error)
}

// Assistant holds one session's append-only conversation. Only one request
// may be outstanding at a time.
type Assistant struct {
	sessionID string
	store     dal.ChatDAL
	now       func() time.Time

	mu   sync.Mutex
	busy bool
}

func NewAssistant(sessionID string, store dal.ChatDAL) *Assistant {
	return &Assistant{sessionID: sessionID, store: store, now: time.Now}
}

// History returns the transcript, oldest first
func (a *Assistant) History(ctx context.Context) ([]models.ChatMessage, error) {
	return a.store.History(ctx, a.sessionID, 0)
}

// Busy reports whether a request is outstanding
func (a *Assistant) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Send appends the user's message, asks the backend with the prior history,
// and appends exactly one assistant message. When the backend fails the
// appended reply is flagged Failed and the error is returned alongside it.
func (a *Assistant) Send(ctx context.Context, be Backend, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	a.busy = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.busy = false
		a.mu.Unlock()
	}()

	prior, err := a.store.History(ctx, a.sessionID, 0)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	userMsg := a.message(models.ChatRoleUser, text)
	if err := a.store.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	reply, chatErr := be.Chat(ctx, Turns(prior, text))
	metrics.ChatRequests.WithLabelValues(metrics.Result(chatErr)).Inc()

	var assistantMsg *models.ChatMessage
	if chatErr != nil {
		logger.Warn("Chat request failed", "session", a.sessionID, "error", chatErr)
		assistantMsg = a.message(models.ChatRoleAssistant, FailureText)
		assistantMsg.Failed = true
	} else {
		assistantMsg = a.message(models.ChatRoleAssistant, reply.Explanation)
		assistantMsg.Cards = reply.Cards
		logger.Debug("Chat reply", "session", a.sessionID, "cards", len(reply.Cards))
	}

	// the reply is stored even if the caller's context ended meanwhile
	if err := a.store.AppendMessage(context.WithoutCancel(ctx), assistantMsg); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}
	if chatErr != nil {
		return assistantMsg, fmt.Errorf("chat: %w", chatErr)
	}
	return assistantMsg, nil
}

// Reset clears the conversation
func (a *Assistant) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return ErrBusy
	}
	return a.store.Clear(ctx, a.sessionID)
}

func (a *Assistant) message(role, content string) *models.ChatMessage {
	return &models.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: a.sessionID,
		Role:      role,
		Content:   content,
		TS:        a.now().UTC(),
	}
}

// Turns builds the request body: every prior exchange plus the new text.
// Failed placeholder replies are left out since the backend never produced them.
func Turns(prior []models.ChatMessage, text string) []backend.ChatTurn {
	turns := make([]backend.ChatTurn, 0, len(prior)+1)
	for _, m := range prior {
		if m.Failed {
			continue
		}
		turns = append(turns, backend.ChatTurn{Role: m.Role, Content: m.Content})
	}
	return append(turns, backend.ChatTurn{Role: models.ChatRoleUser, Content: text})
}
