package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ewanmcn/binrota/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidWeek      = errors.New("invalid observed week")
	ErrInvalidEvent     = errors.New("invalid collection event")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateObservedWeek(week model.ObservedWeek) error {
	if week.WeekStart.IsZero() {
		return fmt.Errorf("%w: zero week start", ErrInvalidWeek)
	}
	return nil
}

func validateHistoricalObservation(obs model.HistoricalObservation) error {
	if obs.WeekStart.IsZero() {
		return fmt.Errorf("%w: zero week start", ErrInvalidWeek)
	}
	if obs.Categories.Empty() {
		return fmt.Errorf("%w: empty category set for %s", ErrInvalidWeek, obs.WeekStart.Format(dateLayout))
	}
	return nil
}

func validateEvent(ev model.CollectionEvent) error {
	if ev.Date.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidEvent)
	}
	if !ev.Category.Known() {
		return fmt.Errorf("%w: unknown category on %s", ErrInvalidEvent, ev.Date.Format(dateLayout))
	}
	return nil
}
