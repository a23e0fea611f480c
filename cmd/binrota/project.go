package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ewanmcn/binrota/internal/cli"
	"github.com/ewanmcn/binrota/internal/model"
	"github.com/ewanmcn/binrota/internal/schedule"
	"github.com/ewanmcn/binrota/internal/service"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Infer the cycle and print the projected schedule",
		Long: `Fetch the current collection week from the council page, resolve the
cycle phase, and print the dated collection events for the coming weeks.

With --offline the schedule is rebuilt from the last stored observation
instead of fetching the page.`,
		RunE: runProject,
	}

	cmd.Flags().Int("horizon", 0, "number of future weeks to project (default 52)")
	cmd.Flags().String("weekday", "", "override the collection weekday (e.g. friday)")
	cmd.Flags().Bool("offline", false, "rebuild from the last stored observation without fetching")
	cmd.Flags().Bool("no-store", false, "do not persist the observation or projection")

	return cmd
}

func runProject(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := engineConfig(cmd)
	if err != nil {
		return err
	}
	offline, _ := cmd.Flags().GetBool("offline")
	noStore, _ := cmd.Flags().GetBool("no-store")

	var store service.Storage
	if !noStore || offline {
		sqlStore, storeErr := initStorage(ctx)
		if storeErr != nil {
			return storeErr
		}
		defer func() { _ = sqlStore.Close() }()
		store = sqlStore
	}

	history, err := initHistoricalSource()
	if err != nil {
		return err
	}

	var src service.SnapshotSource
	if !offline {
		src, err = initSnapshotSource()
		if err != nil {
			return err
		}
	}

	engine := schedule.New(src, history, store, defaultCatalog(), cfg)

	events, err := buildEvents(ctx, engine, offline)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Collection schedule (%d events)", len(events))))
	cli.RenderEvents(os.Stdout, events)
	return nil
}

func buildEvents(ctx context.Context, engine *schedule.Engine, offline bool) (model.CollectionEvents, error) {
	if offline {
		return engine.BuildOffline(ctx)
	}
	return engine.BuildSchedule(ctx)
}
