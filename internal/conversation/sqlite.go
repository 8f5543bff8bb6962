package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	UNIQUE(session_id, position)
);
CREATE TABLE IF NOT EXISTS booking_drafts (
	session_id TEXT PRIMARY KEY,
	fields TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);`

// SQLiteStore keeps history in the messages table, ordered by position.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the tables if needed. The caller owns db.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("%w: create tables: %w", ErrPersistence, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) History(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM messages WHERE session_id = ? ORDER BY position`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: load history: %w", ErrPersistence, err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var (
			t       Turn
			role    string
			created int64
		)
		if err := rows.Scan(&role, &t.Content, &created); err != nil {
			return nil, fmt.Errorf("%w: scan message: %w", ErrPersistence, err)
		}
		t.Role = Role(role)
		t.CreatedAt = time.UnixMilli(created).UTC()
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load history: %w", ErrPersistence, err)
	}
	return turns, nil
}

func (s *SQLiteStore) Append(ctx context.Context, sessionID string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrPersistence, err)
	}
	defer tx.Rollback()

	var next int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM messages WHERE session_id = ?`,
		sessionID).Scan(&next)
	if err != nil {
		return fmt.Errorf("%w: next position: %w", ErrPersistence, err)
	}

	for i, t := range turns {
		created := t.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, position, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			sessionID, next+int64(i), string(t.Role), t.Content, created.UnixMilli())
		if err != nil {
			return fmt.Errorf("%w: insert message: %w", ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrPersistence, err)
	}
	return nil
}

func (s *SQLiteStore) Draft(ctx context.Context, sessionID string) (map[string]string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT fields FROM booking_drafts WHERE session_id = ?`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load draft: %w", ErrPersistence, err)
	}

	fields := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: decode draft: %w", ErrPersistence, err)
	}
	return fields, nil
}

func (s *SQLiteStore) SaveDraft(ctx context.Context, sessionID string, fields map[string]string) error {
	if len(fields) == 0 {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM booking_drafts WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("%w: clear draft: %w", ErrPersistence, err)
		}
		return nil
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("%w: encode draft: %w", ErrPersistence, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO booking_drafts (session_id, fields, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at`,
		sessionID, string(raw), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: save draft: %w", ErrPersistence, err)
	}
	return nil
}
