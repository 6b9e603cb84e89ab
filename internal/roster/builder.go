package roster

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/metrics"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

var (
	ErrRosterFull        = errors.New("roster already has 11 players")
	ErrDuplicatePlayer   = errors.New("player already in roster")
	ErrOverBudget        = errors.New("player value exceeds available budget")
	ErrBudgetExceeded    = errors.New("roster exceeds budget ceiling")
	ErrTeamNameRequired  = errors.New("team name is required")
	ErrInvalidTransition = errors.New("operation not allowed in current state")
	ErrBusy              = errors.New("a request is already in progress")
)

// State is a roster builder lifecycle state
type State string

const (
	StateNoTeam     State = "no_team"
	StateCollecting State = "collecting"
	StateReviewing  State = "reviewing"
	StateSubmitted  State = "submitted"
)

// Backend is the remote side of roster building
type Backend interface {
	CreateTeam(ctx context.Context, name string) error
	AssignPlayers(ctx context.Context, ids []uint) error
}

// View is an immutable snapshot of a builder
type View struct {
	State    State           `json:"state"`
	TeamName string          `json:"team_name"`
	Players  []models.Player `json:"players"`
	Budget   BudgetStatus    `json:"budget"`
	Busy     bool            `json:"busy"`
}

// Builder holds one participant's candidate roster.
//
// Transitions:
//
//	NoTeam --CreateTeam--> Collecting <--Review/Back--> Reviewing --Save--> Submitted
//	Submitted --Edit--> Collecting;  Collecting/Reviewing --Cancel--> last confirmed roster
//
// While CreateTeam or Save is outstanding every mutating call returns ErrBusy.
type Builder struct {
	mu        sync.Mutex
	backend   Backend
	state     State
	teamName  string
	ceiling   int
	roster    []models.Player
	confirmed []models.Player
	busy      bool
}

// NewBuilder returns a builder in the NoTeam state
func NewBuilder(backend Backend, ceiling int) *Builder {
	if ceiling <= 0 {
		ceiling = models.DefaultBudget
	}
	return &Builder{backend: backend, state: StateNoTeam, ceiling: ceiling}
}

// Load resets the builder from the server's view of the caller's team.
// A found team with an empty roster starts in Collecting; otherwise Submitted.
func (b *Builder) Load(team *models.MyTeam, ceiling int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.busy {
		return ErrBusy
	}
	if ceiling > 0 {
		b.ceiling = ceiling
	}
	if team == nil || !team.IsFound {
		b.state = StateNoTeam
		b.teamName = ""
		b.roster, b.confirmed = nil, nil
		return nil
	}

	b.teamName = team.TeamName
	b.confirmed = slices.Clone(team.Players)
	b.roster = slices.Clone(team.Players)
	b.state = b.restingStateLocked()
	return nil
}

// CreateTeam registers a team name with the backend. Only valid from NoTeam.
func (b *Builder) CreateTeam(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrTeamNameRequired
	}

	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return ErrBusy
	}
	if b.state != StateNoTeam {
		b.mu.Unlock()
		return fmt.Errorf("create team in state %s: %w", b.state, ErrInvalidTransition)
	}
	b.busy = true
	b.mu.Unlock()

	err := b.backend.CreateTeam(ctx, name)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
	if err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	b.teamName = name
	b.roster, b.confirmed = nil, nil
	b.state = StateCollecting
	logger.Info("Team created", "team", name)
	return nil
}

// Add appends p to the roster. It is rejected without any state change when
// the roster is full, p is already present, or p costs more than is available.
func (b *Builder) Add(p models.Player) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.editableLocked(); err != nil {
		return err
	}
	if len(b.roster) >= MaxPlayers {
		return ErrRosterFull
	}
	if b.indexLocked(p.ID) >= 0 {
		return ErrDuplicatePlayer
	}
	if status := ComputeStatus(b.roster, b.ceiling); p.Value > status.Available {
		return fmt.Errorf("%s costs %d, %d available: %w", p.Name, p.Value, status.Available, ErrOverBudget)
	}

	b.roster = append(b.roster, p)
	return nil
}

// Remove drops the player with id from the roster. Absent ids are ignored.
func (b *Builder) Remove(id uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.editableLocked(); err != nil {
		return err
	}
	if i := b.indexLocked(id); i >= 0 {
		b.roster = slices.Delete(b.roster, i, i+1)
	}
	return nil
}

// Review moves to the confirmation step
func (b *Builder) Review() error {
	return b.transition(StateCollecting, StateReviewing)
}

// Back leaves the confirmation step without saving
func (b *Builder) Back() error {
	return b.transition(StateReviewing, StateCollecting)
}

// Edit re-opens a submitted roster for changes
func (b *Builder) Edit() error {
	return b.transition(StateSubmitted, StateCollecting)
}

// Cancel discards unsaved changes and restores the last confirmed roster
func (b *Builder) Cancel() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.busy {
		return ErrBusy
	}
	if b.state != StateCollecting && b.state != StateReviewing {
		return fmt.Errorf("cancel in state %s: %w", b.state, ErrInvalidTransition)
	}
	b.roster = slices.Clone(b.confirmed)
	b.state = b.restingStateLocked()
	return nil
}

// Save submits every roster id in one request. It requires the Reviewing
// state and a roster within budget. On failure nothing changes.
func (b *Builder) Save(ctx context.Context) error {
	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return ErrBusy
	}
	if b.state != StateReviewing {
		state := b.state
		b.mu.Unlock()
		return fmt.Errorf("save in state %s: %w", state, ErrInvalidTransition)
	}
	if ComputeStatus(b.roster, b.ceiling).Exceeded {
		b.mu.Unlock()
		return ErrBudgetExceeded
	}
	pending := slices.Clone(b.roster)
	ids := make([]uint, len(pending))
	for i, p := range pending {
		ids[i] = p.ID
	}
	b.busy = true
	b.mu.Unlock()

	err := b.backend.AssignPlayers(ctx, ids)
	metrics.RosterSaves.WithLabelValues(metrics.Result(err)).Inc()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.busy = false
	if err != nil {
		logger.Warn("Roster save failed", "team", b.teamName, "players", len(ids), "error", err)
		return fmt.Errorf("save roster: %w", err)
	}
	b.confirmed = pending
	b.state = StateSubmitted
	logger.Info("Roster saved", "team", b.teamName, "players", len(ids))
	return nil
}

// Status returns the budget status of the working roster
func (b *Builder) Status() BudgetStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ComputeStatus(b.roster, b.ceiling)
}

// State returns the current lifecycle state
func (b *Builder) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Snapshot returns a copy of the builder's current view
func (b *Builder) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	players := slices.Clone(b.roster)
	if players == nil {
		players = []models.Player{}
	}
	return View{
		State:    b.state,
		TeamName: b.teamName,
		Players:  players,
		Budget:   ComputeStatus(b.roster, b.ceiling),
		Busy:     b.busy,
	}
}

// Contains reports whether id is in the working roster
func (b *Builder) Contains(id uint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indexLocked(id) >= 0
}

func (b *Builder) transition(from, to State) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.busy {
		return ErrBusy
	}
	if b.state != from {
		return fmt.Errorf("%s -> %s from %s: %w", from, to, b.state, ErrInvalidTransition)
	}
	b.state = to
	return nil
}

func (b *Builder) editableLocked() error {
	if b.busy {
		return ErrBusy
	}
	if b.state != StateCollecting {
		return fmt.Errorf("roster is not editable in state %s: %w", b.state, ErrInvalidTransition)
	}
	return nil
}

func (b *Builder) indexLocked(id uint) int {
	return slices.IndexFunc(b.roster, func(p models.Player) bool { return p.ID == id })
}

func (b *Builder) restingStateLocked() State {
	if len(b.confirmed) == 0 {
		return StateCollecting
	}
	return StateSubmitted
}
