package handlers

import (
	"net/http"
	"strconv"

	"github.com/Billy-Davies-2/spirit11-ui/internal/leaderboard"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

func leaderboardSource(ws *Workspace, admin bool) leaderboard.Source {
	if admin {
		return leaderboard.StandingsOnly(ws.Client)
	}
	return ws.Client
}

// AdminListPlayers returns the catalog, refetching it on first use, after a
// player change event, or with ?refresh=true
func (h *API) AdminListPlayers(w http.ResponseWriter, r *http.Request) {
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))
	if err := ws.EnsureCatalog(r.Context(), force); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Catalog.Players())
}

// AdminGetPlayer returns one cached catalog entry
func (h *API) AdminGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ws.EnsureCatalog(r.Context(), false); err != nil {
		writeError(w, err)
		return
	}
	p, found := ws.Catalog.Get(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Player not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AdminCreatePlayer validates and adds a player
func (h *API) AdminCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var in models.PlayerInput
	if !decode(w, r, &in) {
		return
	}
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ws.Catalog.Create(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ws.Catalog.Players())
}

// AdminUpdatePlayer replaces a player's editable fields
func (h *API) AdminUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in models.PlayerInput
	if !decode(w, r, &in) {
		return
	}
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ws.Catalog.Update(r.Context(), id, in); err != nil {
		writeError(w, err)
		return
	}
	p, found := ws.Catalog.Get(id)
	if !found {
		// the catalog was never loaded in this session
		writeJSON(w, http.StatusOK, in)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// AdminDeletePlayer removes a player
func (h *API) AdminDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ws, _, err := h.workspace(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ws.Catalog.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
