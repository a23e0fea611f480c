package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewanmcn/binrota/internal/catalog"
	"github.com/ewanmcn/binrota/internal/config"
	"github.com/ewanmcn/binrota/internal/schedule"
	"github.com/ewanmcn/binrota/internal/service"
	"github.com/ewanmcn/binrota/internal/source"
	"github.com/ewanmcn/binrota/internal/storage"
)

// initStorage opens and migrates the SQLite database at the configured path.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initSnapshotSource builds the council page client from configuration.
func initSnapshotSource() (service.SnapshotSource, error) {
	cfg, err := config.LoadCouncilConfig()
	if err != nil {
		return nil, err
	}

	var opts []source.CouncilOption
	if cfg.BaseURL != "" {
		opts = append(opts, source.WithBaseURL(cfg.BaseURL))
	}
	return source.NewCouncilClient(cfg.RecordID, cfg.Street, opts...)
}

// initHistoricalSource builds the calendar source, or nil when no calendar
// is configured.
func initHistoricalSource() (service.HistoricalSource, error) {
	cfg, err := config.LoadCalendarConfig()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, nil
	}
	return source.NewFileCalendar(cfg.Path, cfg.Year), nil
}

// engineConfig translates command flags into the engine configuration.
func engineConfig(cmd *cobra.Command) (schedule.Config, error) {
	cfg := schedule.DefaultConfig()

	if cmd.Flags().Changed("horizon") {
		horizon, err := cmd.Flags().GetInt("horizon")
		if err != nil {
			return cfg, err
		}
		if horizon < 1 {
			return cfg, fmt.Errorf("horizon must be at least 1 week, got %d", horizon)
		}
		cfg.Horizon = horizon
	}

	if cmd.Flags().Changed("weekday") {
		name, err := cmd.Flags().GetString("weekday")
		if err != nil {
			return cfg, err
		}
		day, ok := parseWeekdayFlag(name)
		if !ok {
			return cfg, fmt.Errorf("unknown weekday %q", name)
		}
		cfg.OverrideWeekday = &day
	}

	return cfg, nil
}

func parseWeekdayFlag(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return 0, false
}

// defaultCatalog is the catalog used by every command.
func defaultCatalog() *catalog.Catalog {
	return catalog.Default()
}
