package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Billy-Davies-2/spirit11-ui/internal/logger"
	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// PostgresDAL implements ChatDAL using PostgreSQL
type PostgresDAL struct {
	db *sql.DB
}

// NewPostgresDAL creates a new PostgreSQL data access layer optimized for CloudNativePG
func NewPostgresDAL(connString string) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG default max_connections is 100
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute) // recycle across failovers
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry the first ping while cluster DNS settles
	maxRetries := 5
	retryDelay := 5 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		err := db.PingContext(ctx)
		cancel()

		if err == nil {
			lastErr = nil
			break
		}

		lastErr = err
		logger.Warn("Postgres ping failed", "attempt", i+1, "error", err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if lastErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	dal := &PostgresDAL{db: db}
	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		cards JSONB NOT NULL DEFAULT '[]'::jsonb,
		failed BOOLEAN NOT NULL DEFAULT false,
		ts TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, seq);

	ALTER TABLE chat_messages ADD COLUMN IF NOT EXISTS failed BOOLEAN NOT NULL DEFAULT false;
	`

	_, err := p.db.Exec(schema)
	return err
}

func (p *PostgresDAL) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	if err := validateMessage(msg); err != nil {
		return err
	}
	cards, err := encodeCards(msg.Cards)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, cards, failed, ts)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, cards, msg.Failed, msg.TS)
	return err
}

func (p *PostgresDAL) History(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	query := `
		SELECT id, session_id, role, content, cards, failed, ts FROM (
			SELECT seq, id, session_id, role, content, cards, failed, ts
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY seq DESC
			LIMIT $2
		) recent ORDER BY seq ASC
	`
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, err := p.db.QueryContext(ctx, query, sessionID, limitArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []models.ChatMessage{}
	for rows.Next() {
		var (
			msg   models.ChatMessage
			cards []byte
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &cards, &msg.Failed, &msg.TS); err != nil {
			return nil, err
		}
		if msg.Cards, err = decodeCards(cards); err != nil {
			return nil, fmt.Errorf("decode cards for %s: %w", msg.ID, err)
		}
		msgs = append(msgs, msg)
	}

	return msgs, rows.Err()
}

func (p *PostgresDAL) Clear(ctx context.Context, sessionID string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = $1`, sessionID)
	return err
}

func (p *PostgresDAL) Close() error {
	return p.db.Close()
}
