package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Outcome is the conversational result of a booking attempt.
type Outcome struct {
	Booked  bool
	Message string
	Record  *Record
}

// Executor validates a Request and stores it.
type Executor struct {
	store    Store
	validate *validator.Validate
	logger   *slog.Logger
}

func NewExecutor(store Store, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their json names so messages match the tool arguments
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	return &Executor{store: store, validate: v, logger: logger}
}

// Book validates and persists req. Invalid requests produce Booked=false with a
// readable message and a nil error; only store failures return an error.
func (e *Executor) Book(ctx context.Context, req Request) (Outcome, error) {
	req = normalize(req)

	if problems := e.problems(req); len(problems) > 0 {
		e.logger.Info("Booking rejected", "problems", problems)
		return Outcome{
			Booked:  false,
			Message: fmt.Sprintf("ERROR: Could not book interview. %s.", strings.Join(problems, "; ")),
		}, nil
	}

	record, err := e.store.Save(ctx, req)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	e.logger.Info("Interview booked", "id", record.ID, "date", record.Date, "time", record.Time)
	return Outcome{
		Booked:  true,
		Message: fmt.Sprintf("SUCCESS: Interview booked for %s on %s at %s.", record.Name, record.Date, record.Time),
		Record:  record,
	}, nil
}

// Validate checks req, returning an error wrapping ErrValidation that lists every problem.
func (e *Executor) Validate(req Request) error {
	if problems := e.problems(normalize(req)); len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
	}
	return nil
}

func (e *Executor) problems(req Request) []string {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fe.Value())
	case "datetime":
		return fmt.Sprintf("%s %q must use the %s format", fe.Field(), fe.Value(), humanLayout(fe.Param()))
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func humanLayout(layout string) string {
	switch layout {
	case DateLayout:
		return "YYYY-MM-DD"
	case TimeLayout:
		return "HH:MM"
	default:
		return layout
	}
}

func normalize(req Request) Request {
	return Request{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Date:  strings.TrimSpace(req.Date),
		Time:  strings.TrimSpace(req.Time),
	}
}
