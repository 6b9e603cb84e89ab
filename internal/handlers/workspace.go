package handlers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Billy-Davies-2/spirit11-ui/internal/backend"
	"github.com/Billy-Davies-2/spirit11-ui/internal/catalog"
	"github.com/Billy-Davies-2/spirit11-ui/internal/chat"
	"github.com/Billy-Davies-2/spirit11-ui/internal/dal"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/pubsub"
	"github.com/Billy-Davies-2/spirit11-ui/internal/roster"
	"github.com/Billy-Davies-2/spirit11-ui/internal/session"
)

// Workspace is the UI state of one signed-in session
type Workspace struct {
	Client    *backend.AuthClient
	Roster    *roster.Builder
	Catalog   *catalog.Catalog
	Assistant *chat.Assistant

	gens        *generations
	loadMu      sync.Mutex
	rosterReady bool
	rosterGen   uint64
	catalogGen  uint64
	lastSeen    time.Time
}

// generations count change events per list; a cached list is stale once its
// recorded generation falls behind.
type generations struct {
	players atomic.Uint64
	teams   atomic.Uint64
}

// EnsureRoster loads the caller's team the first time the roster is touched,
// and again after a team change event unless an unsaved selection is in progress.
func (ws *Workspace) EnsureRoster(ctx context.Context, force bool) error {
	ws.loadMu.Lock()
	defer ws.loadMu.Unlock()

	gen := ws.gens.teams.Load()
	if ws.rosterReady && !force {
		if gen == ws.rosterGen {
			return nil
		}
		if st := ws.Roster.State(); st == roster.StateCollecting || st == roster.StateReviewing {
			return nil
		}
	}

	profile, err := ws.Client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	team, err := ws.Client.MyTeam(ctx)
	if err != nil {
		return fmt.Errorf("load team: %w", err)
	}
	if err := ws.Roster.Load(team, profile.Budget); err != nil {
		return err
	}
	ws.rosterReady = true
	ws.rosterGen = gen
	return nil
}

// EnsureCatalog refetches the admin player list when it was never loaded,
// when force is set, or when a player change event arrived since the last fetch.
func (ws *Workspace) EnsureCatalog(ctx context.Context, force bool) error {
	ws.loadMu.Lock()
	defer ws.loadMu.Unlock()

	gen := ws.gens.players.Load()
	if ws.Catalog.Loaded() && !force && gen == ws.catalogGen {
		return nil
	}
	if _, err := ws.Catalog.Refresh(ctx); err != nil {
		return err
	}
	ws.catalogGen = gen
	return nil
}

// Workspaces owns every live workspace keyed by session id
type Workspaces struct {
	mu            sync.Mutex
	items         map[string]*Workspace
	transcripts   dal.ChatDAL
	defaultBudget int
	gens          generations
	now           func() time.Time
}

func NewWorkspaces(transcripts dal.ChatDAL, defaultBudget int) *Workspaces {
	return &Workspaces{
		items:         make(map[string]*Workspace),
		transcripts:   transcripts,
		defaultBudget: defaultBudget,
		now:           time.Now,
	}
}

// Get returns the workspace of s, creating it on first use
func (w *Workspaces) Get(s *session.Session, client *backend.AuthClient) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()

	ws, ok := w.items[s.ID]
	if !ok {
		ws = &Workspace{
			Client:    client,
			Roster:    roster.NewBuilder(client, w.defaultBudget),
			Catalog:   catalog.New(client),
			Assistant: chat.NewAssistant(s.ID, w.transcripts),
			gens:      &w.gens,
			// lists fetched from now on already reflect earlier events
			rosterGen:  w.gens.teams.Load(),
			catalogGen: w.gens.players.Load(),
		}
		w.items[s.ID] = ws
		logger.Debug("Workspace created", "username", s.User.Username)
	}
	ws.lastSeen = w.now()
	return ws
}

// Invalidate marks the lists affected by eventType stale in every workspace
func (w *Workspaces) Invalidate(eventType string) {
	switch eventType {
	case pubsub.EventPlayersChanged:
		w.gens.players.Add(1)
	case pubsub.EventTeamsChanged:
		w.gens.teams.Add(1)
	}
}

// Follow invalidates cached lists for every change event on ps until ctx ends
func (w *Workspaces) Follow(ctx context.Context, ps *pubsub.PubSub) {
	events := ps.Subscribe()
	defer ps.Unsubscribe(events)

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			w.Invalidate(ev.Type)
		case <-ctx.Done():
			return
		}
	}
}

// Drop forgets the workspace of a session
func (w *Workspaces) Drop(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.items, sessionID)
}

// Sweep drops workspaces idle for longer than idle and returns how many were dropped.
// Chat transcripts survive since they live in the transcript store.
func (w *Workspaces) Sweep(idle time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-idle)
	dropped := 0
	for id, ws := range w.items {
		if ws.lastSeen.Before(cutoff) {
			delete(w.items, id)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of live workspaces
func (w *Workspaces) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}
