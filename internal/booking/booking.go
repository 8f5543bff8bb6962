// Package booking validates and records interview bookings requested through the
// book_interview tool.
package booking

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrValidation marks a request rejected before reaching the store.
	// Executor reports it conversationally rather than returning it.
	ErrValidation = errors.New("invalid booking request")
	// ErrPersistence wraps store failures.
	ErrPersistence = errors.New("booking store failure")
)

// Date and time layouts accepted for bookings.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Request is the argument set of one book_interview call.
type Request struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Time  string `json:"time" validate:"required,datetime=15:04"`
}

// RequestFromArgs builds a Request from tool call arguments.
func RequestFromArgs(args map[string]string) Request {
	return Request{
		Name:  args["name"],
		Email: args["email"],
		Date:  args["date"],
		Time:  args["time"],
	}
}

// Record is a stored booking. Records are never updated or deleted.
type Record struct {
	ID        int64
	Name      string
	Email     string
	Date      string
	Time      string
	CreatedAt time.Time
}

// Store appends bookings. No uniqueness is enforced.
type Store interface {
	Save(ctx context.Context, req Request) (*Record, error)
	List(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}
