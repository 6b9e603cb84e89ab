package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// Client stores leaderboard snapshots in ClickHouse
type Client struct {
	conn driver.Conn
}

// PointsSample is one team's points at a snapshot time
type PointsSample struct {
	At     time.Time `json:"at"`
	Rank   int       `json:"rank"`
	Points int       `json:"points"`
}

// NewClient creates a new ClickHouse client and ensures the standings table exists
func NewClient(ctx context.Context, addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	c := &Client{conn: conn}
	if err := c.initSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) initSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS spirit11_standings (
			snapshot_at DateTime64(3),
			team_id     UInt32,
			team_name   String,
			owner       String,
			points      Int64,
			rank        UInt32
		) ENGINE = MergeTree
		ORDER BY (snapshot_at, team_id)
	`
	if err := c.conn.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create standings table: %w", err)
	}
	return nil
}

// RecordStandings appends one ranked snapshot in a single batch
func (c *Client) RecordStandings(ctx context.Context, at time.Time, entries []models.LeaderboardEntry) error {
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO spirit11_standings")
	if err != nil {
		return fmt.Errorf("prepare standings batch: %w", err)
	}

	for _, e := range entries {
		if err := batch.Append(at, uint32(e.TeamID), e.TeamName, e.Owner, int64(e.Points), uint32(e.Rank)); err != nil {
			return fmt.Errorf("append team %d: %w", e.TeamID, err)
		}
	}

	return batch.Send()
}

// PreviousRanks returns team ranks from the most recent snapshot
func (c *Client) PreviousRanks(ctx context.Context) (map[uint]int, error) {
	query := `
		SELECT team_id, rank
		FROM spirit11_standings
		WHERE snapshot_at = (SELECT max(snapshot_at) FROM spirit11_standings)
	`

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make(map[uint]int)
	for rows.Next() {
		var id, rank uint32
		if err := rows.Scan(&id, &rank); err != nil {
			return nil, err
		}
		ranks[uint(id)] = int(rank)
	}

	return ranks, rows.Err()
}

// TeamHistory returns a team's most recent samples, oldest first
func (c *Client) TeamHistory(ctx context.Context, teamID uint, limit int) ([]PointsSample, error) {
	query := `
		SELECT snapshot_at, rank, points FROM (
			SELECT snapshot_at, rank, points
			FROM spirit11_standings
			WHERE team_id = ?
			ORDER BY snapshot_at DESC
			LIMIT ?
		) ORDER BY snapshot_at ASC
	`

	rows, err := c.conn.Query(ctx, query, uint32(teamID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PointsSample
	for rows.Next() {
		var (
			at     time.Time
			rank   uint32
			points int64
		)
		if err := rows.Scan(&at, &rank, &points); err != nil {
			return nil, err
		}
		out = append(out, PointsSample{At: at, Rank: int(rank), Points: int(points)})
	}

	return out, rows.Err()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
