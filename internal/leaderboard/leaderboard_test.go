package leaderboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

func init() {
	logger.Init()
}

func team(id uint, userID uint, points int) models.Team {
	return models.Team{ID: id, Name: "Team", UserID: userID, Points: points, User: &models.User{ID: userID, Username: "owner"}}
}

func TestRankOrdersByPointsThenID(t *testing.T) {
	teams := []models.Team{team(3, 30, 100), team(1, 10, 250), team(2, 20, 100), team(4, 40, 300)}

	var got []uint
	for _, e := range Rank(teams) {
		got = append(got, e.TeamID)
	}
	if diff := cmp.Diff([]uint{4, 1, 2, 3}, got); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}
	if teams[0].ID != 3 {
		t.Error("Rank modified its input")
	}
}

func TestRankMatchesStrictlyGreaterCount(t *testing.T) {
	teams := []models.Team{team(1, 1, 40), team(2, 2, 90), team(3, 3, 10), team(4, 4, 75), team(5, 5, 60)}
	for _, e := range Rank(teams) {
		higher := 0
		for _, other := range teams {
			if other.Points > e.Points {
				higher++
			}
		}
		if e.Rank != higher+1 {
			t.Errorf("team %d rank = %d, want %d", e.TeamID, e.Rank, higher+1)
		}
	}
}

func TestStandingFor(t *testing.T) {
	ranked := Rank([]models.Team{team(1, 10, 300), team(2, 20, 200), team(3, 30, 100)})

	top, ok := StandingFor(ranked, 10)
	if !ok {
		t.Fatal("expected standing for user 10")
	}
	if top.Rank != 1 || top.PointsToNext != nil {
		t.Errorf("leader standing = %+v", top)
	}

	last, _ := StandingFor(ranked, 30)
	if last.Rank != 3 || last.PointsToNext == nil || *last.PointsToNext != 100 {
		t.Errorf("last standing = %+v", last)
	}
	if last.VsAverage != -100 {
		t.Errorf("vs average = %v, want -100", last.VsAverage)
	}

	if _, ok := StandingFor(ranked, 99); ok {
		t.Error("unknown user should have no standing")
	}
}

func TestTopAndAverage(t *testing.T) {
	ranked := Rank([]models.Team{team(1, 1, 10), team(2, 2, 20)})
	if len(Top(ranked, 5)) != 2 || len(Top(ranked, 1)) != 1 || len(Top(ranked, -1)) != 0 {
		t.Error("Top() returned wrong lengths")
	}
	if Average(nil) != 0 || Average(ranked) != 15 {
		t.Errorf("Average() = %v", Average(ranked))
	}
}

func TestMovement(t *testing.T) {
	ranked := Rank([]models.Team{team(1, 1, 50), team(2, 2, 40), team(3, 3, 30)})
	got := Movement(ranked, map[uint]int{1: 3, 2: 2})
	want := map[uint]int{1: 2, 2: 0, 3: 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Movement() mismatch (-want +got):\n%s", diff)
	}
}

type fakeSource struct {
	teams []models.Team
	mine  *models.MyTeam
	err   error
}

func (f *fakeSource) Leaderboard(ctx context.Context) ([]models.Team, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teams, nil
}

func (f *fakeSource) MyTeam(ctx context.Context) (*models.MyTeam, error) {
	return f.mine, nil
}

type memHistory struct {
	mu        sync.Mutex
	snapshots [][]models.LeaderboardEntry
}

func (h *memHistory) PreviousRanks(ctx context.Context) (map[uint]int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := map[uint]int{}
	if n := len(h.snapshots); n > 0 {
		for _, e := range h.snapshots[n-1] {
			out[e.TeamID] = e.Rank
		}
	}
	return out, nil
}

func (h *memHistory) RecordStandings(ctx context.Context, at time.Time, entries []models.LeaderboardEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshots = append(h.snapshots, entries)
	return nil
}

func TestViewerLoad(t *testing.T) {
	src := &fakeSource{
		teams: []models.Team{team(1, 10, 100), team(2, 20, 200)},
		mine: &models.MyTeam{
			TeamName: "Mine",
			IsFound:  true,
			Players: []models.Player{
				{ID: 1, Category: models.CategoryBowler},
				{ID: 2, Category: models.CategoryBowler},
				{ID: 3, Category: models.CategoryBatsman},
			},
		},
	}
	hist := &memHistory{}
	v := NewViewer(hist)

	board, err := v.Load(context.Background(), src, 10)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if board.Standing == nil || board.Standing.Rank != 2 || *board.Standing.PointsToNext != 100 {
		t.Errorf("unexpected standing: %+v", board.Standing)
	}
	if board.Distribution[models.CategoryBowler] != 2 {
		t.Errorf("distribution = %v", board.Distribution)
	}
	if len(hist.snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(hist.snapshots))
	}

	// unchanged ranks are not recorded again
	if _, err := v.Load(context.Background(), src, 10); err != nil {
		t.Fatal(err)
	}
	if len(hist.snapshots) != 1 {
		t.Errorf("expected snapshot count to stay 1, got %d", len(hist.snapshots))
	}

	src.teams[0].Points = 500
	board, err = v.Load(context.Background(), src, 10)
	if err != nil {
		t.Fatal(err)
	}
	if board.Standing.Movement != 1 {
		t.Errorf("movement = %d, want 1", board.Standing.Movement)
	}
	if len(hist.snapshots) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(hist.snapshots))
	}
}

func TestViewerLoadFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("unreachable")}
	if _, err := NewViewer(nil).Load(context.Background(), src, 1); err == nil {
		t.Fatal("expected error")
	}
}
