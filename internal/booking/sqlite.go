package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`

// SQLiteStore keeps bookings in the bookings table of a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the bookings table if needed. The caller owns db.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("%w: create bookings table: %w", ErrPersistence, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, req Request) (*Record, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (name, email, date, time, created_at) VALUES (?, ?, ?, ?, ?)`,
		req.Name, req.Email, req.Date, req.Time, now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read booking id: %w", err)
	}

	return &Record{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Date:      req.Date,
		Time:      req.Time,
		CreatedAt: time.UnixMilli(now.UnixMilli()).UTC(),
	}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, date, time, created_at FROM bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings: %w", ErrPersistence, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Date, &r.Time, &created); err != nil {
			return nil, fmt.Errorf("%w: scan booking: %w", ErrPersistence, err)
		}
		r.CreatedAt = time.UnixMilli(created).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list bookings: %w", ErrPersistence, err)
	}
	return records, nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count bookings: %w", ErrPersistence, err)
	}
	return n, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
