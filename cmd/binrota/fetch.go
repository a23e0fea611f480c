package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewanmcn/binrota/internal/cli"
	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/model"
	"github.com/ewanmcn/binrota/internal/schedule"
)

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the council page and store the projection",
		Long: `Fetch the current collection week from the council page, infer the
cycle, and persist both the observation and the projected events to the
local database. Transient fetch failures are retried with backoff.`,
		RunE: runFetch,
	}

	cmd.Flags().Int("horizon", 0, "number of future weeks to project (default 52)")
	cmd.Flags().String("weekday", "", "override the collection weekday (e.g. friday)")
	cmd.Flags().Int("retries", 3, "max fetch attempts")

	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}
	retries, _ := cmd.Flags().GetInt("retries")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	src, err := initSnapshotSource()
	if err != nil {
		return err
	}
	history, err := initHistoricalSource()
	if err != nil {
		return err
	}

	engine := schedule.New(src, history, store, defaultCatalog(), cfg)

	start := time.Now()
	var events model.CollectionEvents
	err = common.WithRetry(ctx, func() error {
		var buildErr error
		events, buildErr = engine.BuildSchedule(ctx)
		return buildErr
	}, common.RetryOptions{MaxAttempts: retries})
	if err != nil {
		return common.NewUserError("could not build the collection schedule", err)
	}

	slog.Info("Schedule stored",
		"events", len(events),
		"duration", time.Since(start).Round(time.Millisecond))

	if len(events) > 0 {
		next := events[0]
		fmt.Println(cli.FormatSuccess(fmt.Sprintf(
			"Stored %d events; next collection %s on %s",
			len(events),
			next.Category,
			next.Date.Format("Monday 2 January 2006"))))
	}
	return nil
}
