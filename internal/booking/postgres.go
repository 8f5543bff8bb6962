package booking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps bookings in PostgreSQL.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore connects to connStr and creates the bookings table if needed.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to database: %w", ErrPersistence, err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", ErrPersistence, err)
	}

	s := &PostgresStore{Pool: pool}
	if err := s.Initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Initialize sets up the bookings table.
func (s *PostgresStore) Initialize(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS bookings (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            date TEXT NOT NULL,
            time TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )
    `)
	if err != nil {
		return fmt.Errorf("%w: failed to create bookings table: %w", ErrPersistence, err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, req Request) (*Record, error) {
	r := &Record{Name: req.Name, Email: req.Email, Date: req.Date, Time: req.Time}
	err := s.Pool.QueryRow(ctx, `
        INSERT INTO bookings (name, email, date, time)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, req.Name, req.Email, req.Date, req.Time).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, email, date, time, created_at FROM bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings: %w", ErrPersistence, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Date, &r.Time, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan booking: %w", ErrPersistence, err)
		}
		r.CreatedAt = r.CreatedAt.UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list bookings: %w", ErrPersistence, err)
	}
	return records, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count bookings: %w", ErrPersistence, err)
	}
	return n, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.Pool.Close()
}
