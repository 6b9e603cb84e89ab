package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// SQLiteDAL implements ChatDAL using SQLite
type SQLiteDAL struct {
	db *sql.DB
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// sqlite3 serialises writers; one connection avoids "database is locked"
	db.SetMaxOpenConns(1)

	dal := &SQLiteDAL{db: db}
	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		cards TEXT NOT NULL DEFAULT '[]',
		failed INTEGER NOT NULL DEFAULT 0,
		ts INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, seq);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before failed replies were recorded lack the column
	var failedExists int
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('chat_messages')
		WHERE name='failed'
	`).Scan(&failedExists)
	if err != nil {
		return fmt.Errorf("failed to check failed column existence: %w", err)
	}

	if failedExists == 0 {
		_, err = s.db.Exec(`ALTER TABLE chat_messages ADD COLUMN failed INTEGER NOT NULL DEFAULT 0`)
		if err != nil {
			return fmt.Errorf("failed to add failed column: %w", err)
		}
	}

	return nil
}

func (s *SQLiteDAL) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	if err := validateMessage(msg); err != nil {
		return err
	}
	cards, err := encodeCards(msg.Cards)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, session_id, role, content, cards, failed, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.SessionID, msg.Role, msg.Content, cards, msg.Failed, msg.TS.UnixMilli())
	return err
}

func (s *SQLiteDAL) History(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, role, content, cards, failed, ts FROM (
			SELECT seq, id, session_id, role, content, cards, failed, ts
			FROM chat_messages
			WHERE session_id = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []models.ChatMessage{}
	for rows.Next() {
		var (
			msg   models.ChatMessage
			cards []byte
			ts    int64
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &cards, &msg.Failed, &ts); err != nil {
			return nil, err
		}
		if msg.Cards, err = decodeCards(cards); err != nil {
			return nil, fmt.Errorf("decode cards for %s: %w", msg.ID, err)
		}
		msg.TS = time.UnixMilli(ts).UTC()
		msgs = append(msgs, msg)
	}

	return msgs, rows.Err()
}

func (s *SQLiteDAL) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE session_id = ?`, sessionID)
	return err
}

func (s *SQLiteDAL) Close() error {
	return s.db.Close()
}
