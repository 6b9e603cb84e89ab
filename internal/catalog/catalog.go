package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

var ErrBusy = errors.New("a catalog request is already in progress")

// Backend is the admin player API
type Backend interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	CreatePlayer(ctx context.Context, in models.PlayerInput) error
	UpdatePlayer(ctx context.Context, id uint, in models.PlayerInput) error
	DeletePlayer(ctx context.Context, id uint) error
	TournamentSummary(ctx context.Context) (*models.TournamentSummary, error)
}

// Catalog is an admin's in-memory copy of the player list.
// It only changes after the backend acknowledges a mutation.
type Catalog struct {
	mu      sync.Mutex
	backend Backend
	players []models.Player
	loaded  bool
	busy    bool
}

func New(backend Backend) *Catalog {
	return &Catalog{backend: backend}
}

// Players returns a copy of the current list
func (c *Catalog) Players() []models.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.players)
	if out == nil {
		out = []models.Player{}
	}
	return out
}

// Get returns the cached player with id
func (c *Catalog) Get(id uint) (models.Player, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return models.Player{}, false
	}
	return c.players[i], true
}

// Loaded reports whether Refresh has succeeded at least once
func (c *Catalog) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Refresh replaces the list with the backend's
func (c *Catalog) Refresh(ctx context.Context) ([]models.Player, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	players, err := c.backend.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	c.mu.Lock()
	c.players = players
	c.loaded = true
	c.mu.Unlock()
	return c.Players(), nil
}

// Create validates in, submits it, and refetches the list since the
// backend acknowledges creation without returning the new record.
func (c *Catalog) Create(ctx context.Context, in models.PlayerInput) error {
	if errs := ValidatePlayer(in); len(errs) > 0 {
		return errs
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.backend.CreatePlayer(ctx, in); err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	logger.Info("Player created", "name", in.Name, "university", in.University)

	players, err := c.backend.ListPlayers(ctx)
	if err != nil {
		// creation is acknowledged; the list is stale until the next refresh
		logger.Warn("Failed to refetch players after create", "error", err)
		return nil
	}
	c.mu.Lock()
	c.players = players
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Update replaces the stored statistics of a player
func (c *Catalog) Update(ctx context.Context, id uint, in models.PlayerInput) error {
	if errs := ValidatePlayer(in); len(errs) > 0 {
		return errs
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.backend.UpdatePlayer(ctx, id, in); err != nil {
		return fmt.Errorf("update player %d: %w", id, err)
	}
	logger.Info("Player updated", "id", id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		c.players[i] = applyInput(c.players[i], in)
	}
	return nil
}

// Delete removes a player
func (c *Catalog) Delete(ctx context.Context, id uint) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.backend.DeletePlayer(ctx, id); err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	logger.Info("Player deleted", "id", id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		c.players = slices.Delete(c.players, i, i+1)
	}
	return nil
}

// Summary fetches the tournament summary for the admin home page
func (c *Catalog) Summary(ctx context.Context) (*models.TournamentSummary, error) {
	s, err := c.backend.TournamentSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("tournament summary: %w", err)
	}
	return s, nil
}

func (c *Catalog) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Catalog) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Catalog) indexLocked(id uint) int {
	return slices.IndexFunc(c.players, func(p models.Player) bool { return p.ID == id })
}

// applyInput overlays editable fields. Derived fields are dropped because
// they are stale until the next refresh.
func applyInput(p models.Player, in models.PlayerInput) models.Player {
	p.Name = in.Name
	p.University = in.University
	p.Category = in.Category
	p.TotalRuns = in.TotalRuns
	p.BallsFaced = in.BallsFaced
	p.InningsPlayed = in.InningsPlayed
	p.Wickets = in.Wickets
	p.OversBowled = in.OversBowled
	p.RunsConceded = in.RunsConceded
	p.BattingStrikeRate = nil
	p.BattingAverage = nil
	p.BowlingStrikeRate = nil
	p.EconomyRate = nil
	return p
}

// InputFrom extracts the editable fields of p
func InputFrom(p models.Player) models.PlayerInput {
	return models.PlayerInput{
		Name:          p.Name,
		University:    p.University,
		Category:      p.Category,
		TotalRuns:     p.TotalRuns,
		BallsFaced:    p.BallsFaced,
		InningsPlayed: p.InningsPlayed,
		Wickets:       p.Wickets,
		OversBowled:   p.OversBowled,
		RunsConceded:  p.RunsConceded,
	}
}
