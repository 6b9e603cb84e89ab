package leaderboard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
	"github.com/Billy-Davies-2/spirit11-ui/internal/roster"
)

// Source is the backend view needed to render standings
type Source interface {
	Leaderboard(ctx context.Context) ([]models.Team, error)
	MyTeam(ctx context.Context) (*models.MyTeam, error)
}

// StandingsOnly wraps src for callers without a team of their own, such as administrators
func StandingsOnly(src Source) Source {
	return standingsOnly{src}
}

type standingsOnly struct {
	Source
}

func (standingsOnly) MyTeam(context.Context) (*models.MyTeam, error) {
	return &models.MyTeam{IsFound: false}, nil
}

// History keeps ranked snapshots so rank movement can be reported
type History interface {
	PreviousRanks(ctx context.Context) (map[uint]int, error)
	RecordStandings(ctx context.Context, at time.Time, entries []models.LeaderboardEntry) error
}

// Board is everything the leaderboard page shows
type Board struct {
	Entries      []models.LeaderboardEntry `json:"entries"`
	Average      float64                   `json:"average"`
	Movement     map[uint]int              `json:"movement,omitempty"`
	MyTeam       *models.MyTeam            `json:"my_team,omitempty"`
	Standing     *Standing                 `json:"standing,omitempty"`
	Distribution map[models.Category]int   `json:"distribution,omitempty"`
}

// Viewer assembles Boards. history may be nil.
type Viewer struct {
	history History
	now     func() time.Time
}

func NewViewer(history History) *Viewer {
	return &Viewer{history: history, now: time.Now}
}

// Load fetches standings and the caller's team concurrently and ranks them.
// A history failure only drops movement data; it never fails the board.
func (v *Viewer) Load(ctx context.Context, src Source, userID uint) (*Board, error) {
	var (
		teams []models.Team
		mine  *models.MyTeam
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = src.Leaderboard(gctx)
		if err != nil {
			return fmt.Errorf("fetch leaderboard: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		mine, err = src.MyTeam(gctx)
		if err != nil {
			return fmt.Errorf("fetch my team: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := Rank(teams)
	board := &Board{
		Entries: ranked,
		Average: Average(ranked),
		MyTeam:  mine,
	}
	if mine != nil && mine.IsFound {
		board.Distribution = roster.CountByCategory(mine.Players)
	}
	if s, ok := StandingFor(ranked, userID); ok {
		board.Standing = s
	}

	if v.history != nil {
		v.applyHistory(ctx, board)
	}
	return board, nil
}

func (v *Viewer) applyHistory(ctx context.Context, board *Board) {
	previous, err := v.history.PreviousRanks(ctx)
	if err != nil {
		logger.Warn("Failed to read standings history", "error", err)
		return
	}

	board.Movement = Movement(board.Entries, previous)
	if board.Standing != nil {
		for _, e := range board.Entries {
			if e.Rank == board.Standing.Rank {
				board.Standing.Movement = board.Movement[e.TeamID]
				break
			}
		}
	}

	if len(board.Entries) == 0 || sameRanks(board.Entries, previous) {
		return
	}
	if err := v.history.RecordStandings(ctx, v.now(), board.Entries); err != nil {
		logger.Warn("Failed to record standings", "teams", len(board.Entries), "error", err)
		return
	}
	logger.Debug("Recorded standings snapshot", "teams", len(board.Entries))
}
