package backend

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// ChatTurn is one prior message sent to the assistant endpoint
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Explanation  string           `json:"explanation"`
	IsPlayer     bool             `json:"is_player"`
	QueryResults []map[string]any `json:"query_results"`
	Error        string           `json:"error"`
}

// Chat sends the full conversation to the assistant and decodes its answer once.
// Result rows that look like players become cards; other rows are dropped.
func (a *AuthClient) Chat(ctx context.Context, turns []ChatTurn) (*models.ChatReply, error) {
	if len(turns) == 0 {
		return nil, fmt.Errorf("chat: no messages")
	}

	var resp chatResponse
	if err := a.do(ctx, http.MethodPost, "/v1/ai/chat", turns, &resp); err != nil {
		return nil, err
	}
	return decodeReply(resp), nil
}

func decodeReply(resp chatResponse) *models.ChatReply {
	reply := &models.ChatReply{Explanation: resp.Explanation}
	for _, row := range resp.QueryResults {
		if card, ok := CardFromRow(row); ok {
			reply.Cards = append(reply.Cards, card)
		}
	}
	return reply
}

// CardFromRow converts one query result row into a player card. A row only
// qualifies when it carries category, name, university and value.
func CardFromRow(row map[string]any) (models.PlayerCard, bool) {
	for _, key := range []string{"category", "name", "university", "value"} {
		if _, ok := row[key]; !ok {
			return models.PlayerCard{}, false
		}
	}

	value, ok := asInt(row["value"])
	if !ok {
		return models.PlayerCard{}, false
	}
	card := models.PlayerCard{
		Name:       asString(row["name"]),
		University: asString(row["university"]),
		Category:   models.Category(asString(row["category"])),
		Value:      value,
	}
	if runs, ok := asInt(row["total_runs"]); ok {
		card.TotalRuns = runs
	}
	if wickets, ok := asInt(row["wickets"]); ok {
		card.Wickets = wickets
	}
	return card, true
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(math.Round(t)), true
	case int:
		return t, true
	case string:
		if n, err := strconv.ParseFloat(t, 64); err == nil {
			return int(math.Round(n)), true
		}
	}
	return 0, false
}
