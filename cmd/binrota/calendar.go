package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ewanmcn/binrota/internal/cli"
	"github.com/ewanmcn/binrota/internal/export"
	"github.com/ewanmcn/binrota/internal/model"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Export the stored schedule as ICS, CSV, or JSON",
		Long: `Export the projected collection events stored by fetch or project.
ICS output produces all-day events with stable identifiers, suitable for
importing into or subscribing from a calendar application.`,
		RunE: runCalendar,
	}

	cmd.Flags().String("format", "ics", "output format (ics, csv, json)")
	cmd.Flags().String("out", "", "output file (default: stdout)")
	cmd.Flags().Bool("subscription", false, "emit an ICS subscription feed instead of a one-off download")
	cmd.Flags().String("from", "", "start of the export range, YYYY-MM-DD (default: today)")
	cmd.Flags().String("to", "", "end of the export range, YYYY-MM-DD (default: one year from start)")

	return cmd
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	formatName, _ := cmd.Flags().GetString("format")
	format, ok := export.ParseFormat(formatName)
	if !ok {
		return fmt.Errorf("unknown format %q (want ics, csv, or json)", formatName)
	}

	from, to, err := exportRange(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	events, err := store.GetEvents(ctx, from, to)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return fmt.Errorf("no stored events between %s and %s; run fetch first",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var out io.Writer = os.Stdout
	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		f, createErr := os.Create(outPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	subscription, _ := cmd.Flags().GetBool("subscription")
	opts := export.Options{
		CalendarName: "Bin collections",
		Street:       viper.GetString("council.street"),
		Subscription: subscription,
	}

	if err := writeExport(out, format, events, opts); err != nil {
		return err
	}

	if outPath != "" {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d events to %s", len(events), outPath)))
	}
	return nil
}

func writeExport(w io.Writer, format export.Format, events model.CollectionEvents, opts export.Options) error {
	switch format {
	case export.FormatICS:
		return export.WriteICS(w, events, opts)
	case export.FormatCSV:
		return export.WriteCSV(w, events)
	case export.FormatJSON:
		return export.WriteJSON(w, events, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func exportRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	now := time.Now().UTC().Truncate(24 * time.Hour)

	from := now
	if s, _ := cmd.Flags().GetString("from"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", s, err)
		}
		from = parsed
	}

	to := from.AddDate(1, 0, 0)
	if s, _ := cmd.Flags().GetString("to"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", s, err)
		}
		to = parsed
	}

	return from, to, nil
}
