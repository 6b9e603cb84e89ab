package dal

import (
	"context"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// ChatDAL persists assistant conversations per session
type ChatDAL interface {
	AppendMessage(ctx context.Context, msg *models.ChatMessage) error
	// History returns the newest limit messages oldest first; limit <= 0 means all.
	History(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
	Clear(ctx context.Context, sessionID string) error
	Close() error
}
