package dal

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

var ErrInvalidMessage = errors.New("invalid chat message")

func validateMessage(msg *models.ChatMessage) error {
	switch {
	case msg == nil:
		return ErrInvalidMessage
	case msg.ID == "" || msg.SessionID == "":
		return fmt.Errorf("%w: id and session are required", ErrInvalidMessage)
	case msg.Role != models.ChatRoleUser && msg.Role != models.ChatRoleAssistant:
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, msg.Role)
	}
	return nil
}

func encodeCards(cards []models.PlayerCard) (string, error) {
	if len(cards) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(cards)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeCards(raw []byte) ([]models.PlayerCard, error) {
	var cards []models.PlayerCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}
	return cards, nil
}
