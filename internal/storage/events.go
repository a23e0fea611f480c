package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ewanmcn/binrota/internal/model"
)

// ReplaceEvents atomically swaps the stored projection for a new one. The
// event table always reflects exactly one projection run.
func (s *SQLiteStorage) ReplaceEvents(ctx context.Context, events model.CollectionEvents) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO collection_events (date, category, icon, generated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, ev := range events {
		if err := validateEvent(ev); err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, ev.Date.Format(dateLayout), ev.Category.String(), ev.Icon); err != nil {
			return fmt.Errorf("failed to save event %s/%s: %w", ev.Date.Format(dateLayout), ev.Category, err)
		}
	}

	return tx.Commit()
}

// GetEvents returns stored events within [from, to], in presentation order.
func (s *SQLiteStorage) GetEvents(ctx context.Context, from, to time.Time) (model.CollectionEvents, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: from %s, to %s", ErrInvalidDateRange, from.Format(dateLayout), to.Format(dateLayout))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, category, icon FROM collection_events
		WHERE date >= ? AND date <= ?
		ORDER BY date
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events model.CollectionEvents
	for rows.Next() {
		var dateStr, category, icon string
		if err := rows.Scan(&dateStr, &category, &icon); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("corrupt event date %q: %w", dateStr, err)
		}
		events = append(events, model.CollectionEvent{
			Date:     date,
			Category: model.ParseBinCategory(category),
			Icon:     icon,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	events.Sort()
	return events, nil
}
