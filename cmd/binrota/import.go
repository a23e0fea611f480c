package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ewanmcn/binrota/internal/classify"
	"github.com/ewanmcn/binrota/internal/cli"
	"github.com/ewanmcn/binrota/internal/common"
	"github.com/ewanmcn/binrota/internal/model"
	"github.com/ewanmcn/binrota/internal/schedule"
	"github.com/ewanmcn/binrota/internal/source"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <calendar.txt>",
		Short: "Import a decoded long-range calendar into the database",
		Long: `Parse a decoded long-range calendar text file and store its weekly
observations. Imported observations are used as the historical anchor for
phase detection when no live calendar source is configured.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Int("year", 0, "calendar year for day-month dates (default: calendar.year from config)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	year, _ := cmd.Flags().GetInt("year")
	if year == 0 {
		year = viper.GetInt("calendar.year")
	}
	if year <= 0 {
		return fmt.Errorf("%w: --year is required when calendar.year is not configured", common.ErrMissingConfig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrFetchFailed, err)
	}

	entries, err := source.CalendarParser{Year: year}.Parse(string(data))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s", common.ErrEmptyHistoricalDocument, path)
	}

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetDescription("Importing calendar entries"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	normalizer := classify.NewDefaultNormalizer()
	classifiable := 0
	for _, entry := range entries {
		if !normalizer.Normalize(entry.Labels...).Empty() {
			classifiable++
		}
		_ = bar.Add(1)
	}
	observations := schedule.ObservationsFrom(normalizer, entries)
	_ = bar.Finish()

	slog.Debug("Calendar parsed", "entries", len(entries), "classifiable", classifiable)

	if len(observations) == 0 {
		return fmt.Errorf("%w: no entry in %s carries classifiable labels", common.ErrEmptyHistoricalDocument, path)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveHistoricalObservations(ctx, observations); err != nil {
		return common.NewUserError("could not store the imported calendar", err)
	}

	slog.Info("Calendar imported",
		"entries", len(entries),
		"weeks", len(observations),
		"year", year)

	fmt.Println(cli.FormatSuccess(fmt.Sprintf(
		"Imported %d dated entries as %d weekly observations (%s to %s)",
		len(entries),
		len(observations),
		firstWeek(observations).Format("2006-01-02"),
		lastWeek(observations).Format("2006-01-02"))))
	return nil
}

func firstWeek(obs model.HistoricalObservations) time.Time {
	return obs[0].WeekStart
}

func lastWeek(obs model.HistoricalObservations) time.Time {
	return obs[len(obs)-1].WeekStart
}
