package mocks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Billy-Davies-2/spirit11-ui/internal/clickhouse"
	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

type snapshot struct {
	at      time.Time
	entries []models.LeaderboardEntry
}

// MockStandingsHistory keeps leaderboard snapshots in memory for local development
type MockStandingsHistory struct {
	mu        sync.RWMutex
	snapshots []snapshot
}

// NewMockStandingsHistory creates an empty in-memory standings history
func NewMockStandingsHistory() *MockStandingsHistory {
	logger.Info("Using MOCK ClickHouse standings history for local development")
	return &MockStandingsHistory{}
}

// RecordStandings appends a snapshot
func (m *MockStandingsHistory) RecordStandings(ctx context.Context, at time.Time, entries []models.LeaderboardEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, snapshot{at: at, entries: slices.Clone(entries)})
	return nil
}

// PreviousRanks returns the ranks of the latest snapshot
func (m *MockStandingsHistory) PreviousRanks(ctx context.Context) (map[uint]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ranks := make(map[uint]int)
	if len(m.snapshots) == 0 {
		return ranks, nil
	}
	for _, e := range m.snapshots[len(m.snapshots)-1].entries {
		ranks[e.TeamID] = e.Rank
	}
	return ranks, nil
}

// TeamHistory returns up to limit samples for a team, oldest first
func (m *MockStandingsHistory) TeamHistory(ctx context.Context, teamID uint, limit int) ([]clickhouse.PointsSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []clickhouse.PointsSample
	for _, s := range m.snapshots {
		for _, e := range s.entries {
			if e.TeamID == teamID {
				out = append(out, clickhouse.PointsSample{At: s.at, Rank: e.Rank, Points: e.Points})
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// Len reports the number of stored snapshots
func (m *MockStandingsHistory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snapshots)
}

// Close is a no-op for the mock history
func (m *MockStandingsHistory) Close() error {
	return nil
}
