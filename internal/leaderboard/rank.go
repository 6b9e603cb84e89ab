package leaderboard

import (
	"cmp"
	"slices"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// Standing is one team's position relative to the rest of the table
type Standing struct {
	Rank         int     `json:"rank"`
	Points       int     `json:"points"`
	PointsToNext *int    `json:"points_to_next,omitempty"`
	VsAverage    float64 `json:"vs_average"`
	Movement     int     `json:"movement"`
}

// Rank orders teams by points descending, breaking ties by team id ascending,
// and assigns 1-based ranks by position.
func Rank(teams []models.Team) []models.LeaderboardEntry {
	sorted := slices.Clone(teams)
	slices.SortFunc(sorted, func(a, b models.Team) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i, t := range sorted {
		owner := ""
		if t.User != nil {
			owner = t.User.Username
		}
		entries[i] = models.LeaderboardEntry{
			Rank:        i + 1,
			TeamID:      t.ID,
			TeamName:    t.Name,
			Owner:       owner,
			UserID:      t.UserID,
			Points:      t.Points,
			PlayerCount: len(t.Players),
		}
	}
	return entries
}

// StandingFor returns the standing of the team owned by userID.
// PointsToNext is the gap to the team directly above and is nil at rank 1.
func StandingFor(ranked []models.LeaderboardEntry, userID uint) (*Standing, bool) {
	i := slices.IndexFunc(ranked, func(e models.LeaderboardEntry) bool { return e.UserID == userID })
	if i < 0 {
		return nil, false
	}

	e := ranked[i]
	s := &Standing{
		Rank:      e.Rank,
		Points:    e.Points,
		VsAverage: float64(e.Points) - Average(ranked),
	}
	if i > 0 {
		gap := ranked[i-1].Points - e.Points
		s.PointsToNext = &gap
	}
	return s, true
}

// Average is the mean points across all entries, 0 when empty
func Average(ranked []models.LeaderboardEntry) float64 {
	if len(ranked) == 0 {
		return 0
	}
	total := 0
	for _, e := range ranked {
		total += e.Points
	}
	return float64(total) / float64(len(ranked))
}

// Top returns at most n leading entries
func Top(ranked []models.LeaderboardEntry, n int) []models.LeaderboardEntry {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Movement compares current ranks with a previous snapshot. Positive means
// the team climbed. Teams absent from the previous snapshot report 0.
func Movement(ranked []models.LeaderboardEntry, previous map[uint]int) map[uint]int {
	out := make(map[uint]int, len(ranked))
	for _, e := range ranked {
		if prev, ok := previous[e.TeamID]; ok {
			out[e.TeamID] = prev - e.Rank
		} else {
			out[e.TeamID] = 0
		}
	}
	return out
}

func sameRanks(ranked []models.LeaderboardEntry, previous map[uint]int) bool {
	if len(ranked) != len(previous) {
		return false
	}
	for _, e := range ranked {
		if previous[e.TeamID] != e.Rank {
			return false
		}
	}
	return true
}
