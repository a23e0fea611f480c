package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ewanmcn/binrota/internal/model"
)

const dateLayout = "2006-01-02"

// encodeSet serializes a category set as "black+blue" style text.
func encodeSet(s model.CategorySet) string {
	names := make([]string, 0, s.Len())
	for _, c := range s.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, "+")
}

// decodeSet parses the encodeSet representation.
func decodeSet(text string) model.CategorySet {
	var s model.CategorySet
	for _, name := range strings.Split(text, "+") {
		s = s.With(model.ParseBinCategory(name))
	}
	return s
}

// SaveObservedWeek stores the current week's observation, replacing any
// previous row for the same week.
func (s *SQLiteStorage) SaveObservedWeek(ctx context.Context, week model.ObservedWeek) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateObservedWeek(week); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO observed_weeks (week_start, categories, fetched_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(week_start) DO UPDATE SET
			categories = excluded.categories,
			fetched_at = excluded.fetched_at
	`, week.WeekStart.Format(dateLayout), encodeSet(week.Categories))
	if err != nil {
		return fmt.Errorf("failed to save observed week: %w", err)
	}
	return nil
}

// GetLatestObservedWeek returns the most recent observation, or nil when
// none has been stored.
func (s *SQLiteStorage) GetLatestObservedWeek(ctx context.Context) (*model.ObservedWeek, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var weekStart, categories string
	err := s.db.QueryRowContext(ctx, `
		SELECT week_start, categories FROM observed_weeks
		ORDER BY week_start DESC LIMIT 1
	`).Scan(&weekStart, &categories)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load observed week: %w", err)
	}

	start, err := time.Parse(dateLayout, weekStart)
	if err != nil {
		return nil, fmt.Errorf("corrupt week_start %q: %w", weekStart, err)
	}

	return &model.ObservedWeek{
		WeekStart:  start,
		Categories: decodeSet(categories),
	}, nil
}

// SaveHistoricalObservations upserts imported calendar observations.
func (s *SQLiteStorage) SaveHistoricalObservations(ctx context.Context, obs model.HistoricalObservations) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(obs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO historical_observations (week_start, categories, imported_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(week_start) DO UPDATE SET
			categories = excluded.categories,
			imported_at = excluded.imported_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, o := range obs {
		if err := validateHistoricalObservation(o); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, o.WeekStart.Format(dateLayout), encodeSet(o.Categories)); err != nil {
			return fmt.Errorf("failed to save observation for %s: %w", o.WeekStart.Format(dateLayout), err)
		}
	}

	return tx.Commit()
}

// GetHistoricalObservations returns all imported observations in week
// order.
func (s *SQLiteStorage) GetHistoricalObservations(ctx context.Context) (model.HistoricalObservations, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT week_start, categories FROM historical_observations
		ORDER BY week_start
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var obs model.HistoricalObservations
	for rows.Next() {
		var weekStart, categories string
		if err := rows.Scan(&weekStart, &categories); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		start, err := time.Parse(dateLayout, weekStart)
		if err != nil {
			return nil, fmt.Errorf("corrupt week_start %q: %w", weekStart, err)
		}
		obs = append(obs, model.HistoricalObservation{
			WeekStart:  start,
			Categories: decodeSet(categories),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate observations: %w", err)
	}

	return obs, nil
}
