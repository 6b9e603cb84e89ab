package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
	"github.com/Billy-Davies-2/spirit11-ui/internal/roster"
)

// Me returns the signed-in user with their backend profile
func (h *API) Me(w http.ResponseWriter, r *http.Request) {
	ws, s, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := ws.Client.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": s.User, "profile": profile})
}

type playerList struct {
	Players      []models.Player         `json:"players"`
	Universities []string                `json:"universities"`
	Counts       map[models.Category]int `json:"counts"`
	Selected     []uint                  `json:"selected"`
}

// ListPlayers returns the participant catalog narrowed by ?q=, ?category= and ?university=
func (h *API) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	category := models.Category(q.Get("category"))
	if category != "" && !category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("Unknown category %q", category)})
		return
	}

	all, err := ws.Client.FilterPlayers(r.Context(), q.Get("university"), "")
	if err != nil {
		writeError(w, err)
		return
	}
	players := roster.Filter(all, q.Get("q"), category)

	selected := []uint{}
	for _, p := range players {
		if ws.Roster.Contains(p.ID) {
			selected = append(selected, p.ID)
		}
	}

	writeJSON(w, http.StatusOK, playerList{
		Players:      players,
		Universities: roster.Universities(all),
		Counts:       roster.CountByCategory(all),
		Selected:     selected,
	})
}

// GetPlayer returns one player
func (h *API) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := ws.Client.GetPlayer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetRoster returns the roster builder view. ?refresh=true reloads it from the backend.
func (h *API) GetRoster(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	if err := ws.EnsureRoster(r.Context(), force); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Roster.Snapshot())
}

// CreateTeam registers the caller's team name
func (h *API) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.rosterOp(w, r, func(ws *Workspace) error {
		return ws.Roster.CreateTeam(r.Context(), req.Name)
	})
}

// AddToRoster adds a player by id. The player is fetched so its value is current.
func (h *API) AddToRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID uint `json:"player_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.PlayerID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "player_id is required"})
		return
	}
	h.rosterOp(w, r, func(ws *Workspace) error {
		p, err := ws.Client.GetPlayer(r.Context(), req.PlayerID)
		if err != nil {
			return err
		}
		return ws.Roster.Add(*p)
	})
}

// RemoveFromRoster drops a player by id
func (h *API) RemoveFromRoster(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	h.rosterOp(w, r, func(ws *Workspace) error {
		return ws.Roster.Remove(id)
	})
}

// RosterTransition applies review, back, edit or cancel
func (h *API) RosterTransition(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.rosterOp(w, r, func(ws *Workspace) error {
			switch action {
			case "review":
				return ws.Roster.Review()
			case "back":
				return ws.Roster.Back()
			case "edit":
				return ws.Roster.Edit()
			case "cancel":
				return ws.Roster.Cancel()
			}
			return fmt.Errorf("unknown action %q: %w", action, roster.ErrInvalidTransition)
		})
	}
}

// SaveRoster submits the reviewed roster and announces it to the caller's other tabs
func (h *API) SaveRoster(w http.ResponseWriter, r *http.Request) {
	h.rosterOp(w, r, func(ws *Workspace) error {
		if err := ws.Roster.Save(r.Context()); err != nil {
			return err
		}
		view := ws.Roster.Snapshot()
		h.pubsub.Publish(pubsub.NewEvent(pubsub.EventRosterSaved, map[string]interface{}{
			"user":    ws.Client.Session().User.Username,
			"team":    view.TeamName,
			"players": len(view.Players),
			"spent":   view.Budget.Spent,
		}))
		return nil
	})
}

func (h *API) rosterOp(w http.ResponseWriter, r *http.Request, op func(ws *Workspace) error) {
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ws.EnsureRoster(r.Context(), false); err != nil {
		writeError(w, err)
		return
	}
	if err := op(ws); err != nil {
		if !errors.Is(err, roster.ErrBusy) {
			logger.Debug("Roster operation rejected", "path", r.URL.Path, "error", err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Roster.Snapshot())
}

// Leaderboard returns ranked standings with the caller's position
func (h *API) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ws, s, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	src := leaderboardSource(ws, s.IsAdmin())
	board, err := h.viewer.Load(r.Context(), src, s.User.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// TeamHistory returns recorded points for a team, newest last
func (h *API) TeamHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if h.history == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "Standings history is not configured"})
		return
	}
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	samples, err := h.history.TeamHistory(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, samples)
}

// TournamentSummary returns tournament-wide statistics
func (h *API) TournamentSummary(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := ws.Catalog.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ChatHistory returns the caller's conversation
func (h *API) ChatHistory(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := ws.Assistant.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if history == nil {
		history = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, history)
}

// SendChat forwards a question to the assistant. A backend failure still
// answers with the failed assistant message so the transcript stays in step.
func (h *API) SendChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if !decode(w, r, &req) {
		return
	}
	ws, s, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}

	msg, err := ws.Assistant.Send(r.Context(), ws.Client, req.Message)
	if err != nil && msg == nil {
		writeError(w, err)
		return
	}

	h.pubsub.Publish(pubsub.NewEvent(pubsub.EventChatMessage, map[string]interface{}{
		"user":   s.User.Username,
		"id":     msg.ID,
		"failed": msg.Failed,
	}))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": "Chat request failed", "message": msg})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

// ResetChat clears the caller's conversation
func (h *API) ResetChat(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ws.Assistant.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
