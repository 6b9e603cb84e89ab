package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Billy-Davies-2/spirit11-ui/internal/auth"
	"github.com/Billy-Davies-2/spirit11-ui/internal/catalog"
	"github.com/Billy-Davies-2/spirit11-ui/internal/chat"
	"github.com/Billy-Davies-2/spirit11-ui/internal/clickhouse"
	"github.com/Billy-Davies-2/spirit11-ui/internal/leaderboard"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
	"github.com/Billy-Davies-2/spirit11-ui/internal/roster"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

// TeamHistory reads a team's recorded points over time
type TeamHistory interface {
	TeamHistory(ctx context.Context, teamID uint, limit int) ([]clickhouse.PointsSample, error)
}

// HealthCheck probes one dependency. Critical checks gate readiness.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// Options wires the API to its collaborators
type Options struct {
	Auth        *auth.Manager
	PubSub      *pubsub.PubSub
	Workspaces  *Workspaces
	Viewer      *leaderboard.Viewer
	History     TeamHistory // optional
	Checks      []HealthCheck
	CORSOrigins []string
	KeepAlive   time.Duration
}

// API serves the participant and admin dashboards
type API struct {
	auth       *auth.Manager
	pubsub     *pubsub.PubSub
	workspaces *Workspaces
	viewer     *leaderboard.Viewer
	history    TeamHistory
	checks     []HealthCheck
	origins    []string
	keepAlive  time.Duration
}

// NewAPI creates the API from opts
func NewAPI(opts Options) *API {
	if opts.KeepAlive <= 0 {
		opts.KeepAlive = 30 * time.Second
	}
	if opts.Viewer == nil {
		opts.Viewer = leaderboard.NewViewer(nil)
	}
	return &API{
		auth:       opts.Auth,
		pubsub:     opts.PubSub,
		workspaces: opts.Workspaces,
		viewer:     opts.Viewer,
		history:    opts.History,
		checks:     opts.Checks,
		origins:    opts.CORSOrigins,
		keepAlive:  opts.KeepAlive,
	}
}

// workspace returns the caller's workspace. Routes using it sit behind auth middleware.
func (h *API) workspace(r *http.Request) (*Workspace, *session.Session, error) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		return nil, nil, auth.ErrUnauthenticated
	}
	client, err := h.auth.Client(s)
	if err != nil {
		return nil, nil, err
	}
	return h.workspaces.Get(s, client), s, nil
}

// logout ends the session and drops its workspace
func (h *API) logout(w http.ResponseWriter, r *http.Request) {
	if id := auth.SessionID(r); id != "" {
		h.workspaces.Drop(id)
	}
	h.auth.LogoutHandler(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps dashboard errors to status codes; everything else
// (validation of credentials, backend failures) is mapped by auth.WriteError.
func writeError(w http.ResponseWriter, err error) {
	var playerErrs catalog.FieldErrors
	switch {
	case errors.As(err, &playerErrs):
		writeJSON(w, http.StatusBadRequest, auth.ErrorBody{Error: "Validation failed", Details: map[string]string(playerErrs)})
	case errors.Is(err, roster.ErrTeamNameRequired), errors.Is(err, chat.ErrEmptyMessage):
		writeJSON(w, http.StatusBadRequest, auth.ErrorBody{Error: err.Error()})
	case errors.Is(err, roster.ErrRosterFull),
		errors.Is(err, roster.ErrDuplicatePlayer),
		errors.Is(err, roster.ErrOverBudget),
		errors.Is(err, roster.ErrBudgetExceeded),
		errors.Is(err, roster.ErrInvalidTransition):
		writeJSON(w, http.StatusUnprocessableEntity, auth.ErrorBody{Error: err.Error()})
	case errors.Is(err, roster.ErrBusy), errors.Is(err, catalog.ErrBusy), errors.Is(err, chat.ErrBusy):
		writeJSON(w, http.StatusConflict, auth.ErrorBody{Error: err.Error()})
	default:
		auth.WriteError(w, err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger.Warn("Failed to decode request", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, auth.ErrorBody{Error: "Invalid request body", Details: err.Error()})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, auth.ErrorBody{Error: "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
