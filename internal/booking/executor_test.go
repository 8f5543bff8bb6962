package booking

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/rag-assistant/internal/database"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "bookings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

var valid = Request{Name: "Ana Lima", Email: "ana@example.com", Date: "2025-03-14", Time: "10:30"}

func TestBook_Success(t *testing.T) {
	store := newSQLiteStore(t)
	e := NewExecutor(store, nil)
	ctx := context.Background()

	out, err := e.Book(ctx, valid)
	require.NoError(t, err)
	assert.True(t, out.Booked)
	assert.Equal(t, "SUCCESS: Interview booked for Ana Lima on 2025-03-14 at 10:30.", out.Message)
	require.NotNil(t, out.Record)
	assert.NotZero(t, out.Record.ID)

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ana@example.com", records[0].Email)
	assert.Equal(t, "2025-03-14", records[0].Date)
	assert.Equal(t, "10:30", records[0].Time)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestBook_TrimsFields(t *testing.T) {
	store := newSQLiteStore(t)
	out, err := NewExecutor(store, nil).Book(context.Background(),
		Request{Name: "  Ana ", Email: " ana@example.com", Date: "2025-03-14 ", Time: " 09:00"})
	require.NoError(t, err)
	assert.True(t, out.Booked)
	assert.Equal(t, "Ana", out.Record.Name)
}

func TestBook_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		message string
	}{
		{"bad email", func(r *Request) { r.Email = "not-an-email" }, `"not-an-email" is not a valid email address`},
		{"missing name", func(r *Request) { r.Name = " " }, "name is required"},
		{"missing time", func(r *Request) { r.Time = "" }, "time is required"},
		{"loose date", func(r *Request) { r.Date = "next Tuesday" }, `date "next Tuesday" must use the YYYY-MM-DD format`},
		{"impossible date", func(r *Request) { r.Date = "2025-02-30" }, "YYYY-MM-DD"},
		{"twelve hour time", func(r *Request) { r.Time = "3pm" }, `time "3pm" must use the HH:MM format`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSQLiteStore(t)
			req := valid
			tt.mutate(&req)

			out, err := NewExecutor(store, nil).Book(context.Background(), req)
			require.NoError(t, err, "validation failures are conversational")
			assert.False(t, out.Booked)
			assert.Contains(t, out.Message, "ERROR: Could not book interview.")
			assert.Contains(t, out.Message, tt.message)

			n, err := store.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n, "nothing stored")
		})
	}
}

func TestBook_ReportsEveryProblem(t *testing.T) {
	out, err := NewExecutor(newSQLiteStore(t), nil).Book(context.Background(), Request{Email: "x"})
	require.NoError(t, err)
	assert.Contains(t, out.Message, "name is required")
	assert.Contains(t, out.Message, "not a valid email")
	assert.Contains(t, out.Message, "date is required")
	assert.Contains(t, out.Message, "time is required")
}

func TestValidate(t *testing.T) {
	e := NewExecutor(nil, nil)
	assert.NoError(t, e.Validate(valid))

	err := e.Validate(Request{Name: "A"})
	assert.ErrorIs(t, err, ErrValidation)
}

type failingStore struct{ Store }

func (failingStore) Save(context.Context, Request) (*Record, error) {
	return nil, errors.New("disk full")
}

func TestBook_StoreFailurePropagates(t *testing.T) {
	_, err := NewExecutor(failingStore{}, nil).Book(context.Background(), valid)
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestSQLiteStore_AppendOnly(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Save(ctx, valid)
		require.NoError(t, err)
	}

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n, "identical bookings are all kept")

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Less(t, records[0].ID, records[1].ID)
	assert.NoError(t, store.Ping(ctx))
}

func TestRequestFromArgs(t *testing.T) {
	req := RequestFromArgs(map[string]string{"name": "Ana", "email": "a@b.co", "date": "2025-01-02", "time": "08:00", "extra": "x"})
	assert.Equal(t, Request{Name: "Ana", Email: "a@b.co", Date: "2025-01-02", Time: "08:00"}, req)
}
