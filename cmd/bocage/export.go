package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/config"
	"github.com/mbellec/bocage/internal/model"
	"github.com/mbellec/bocage/internal/report"
	"github.com/mbellec/bocage/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered prospect list",
		Long: `Export prospects as CSV, or push them to Google Sheets.

The CSV is UTF-8 with a BOM and spreadsheet-safe quoting, so it opens
cleanly in Excel and LibreOffice. Filters work exactly like 'bocage
prospects'.`,
		RunE: runExport,
	}

	cmd.Flags().StringP("output", "o", "-", "Output file (- for stdout)")
	cmd.Flags().Bool("sheets", false, "Push to Google Sheets instead of writing CSV")
	cmd.Flags().StringP("search", "s", "", "Search names and references")
	cmd.Flags().StringP("department", "d", "", "Filter by department")
	cmd.Flags().StringP("zone", "z", "", "Filter by geographic zone")
	cmd.Flags().Bool("certified", false, "Only certified prospects")
	cmd.Flags().Int("min-score", 0, "Minimum relevance score")
	cmd.Flags().String("sort", "score", "Sort key (name, department, zone, area, score)")
	cmd.Flags().Bool("asc", false, "Sort ascending instead of descending")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	b, _, snap, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	spec, err := sortFromFlags(cmd)
	if err != nil {
		return err
	}

	rows := report.Apply(snap.Prospects, filter)
	report.Sort(rows, spec)

	if snap.Truncated.Any() {
		slog.Warn(cli.FormatWarning("Row cap reached; the export may be incomplete"))
	}

	if toSheets, _ := cmd.Flags().GetBool("sheets"); toSheets {
		return exportToSheets(cmd, rows)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "-" {
		return report.WriteCSV(cmd.OutOrStdout(), rows)
	}

	f, err := os.Create(output) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer func() { _ = f.Close() }()

	if err := report.WriteCSV(f, rows); err != nil {
		return err
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Exported %d prospects to %s", len(rows), output)))
	return nil
}

func exportToSheets(cmd *cobra.Command, rows []model.ProspectWithStatus) error {
	ctx := cmd.Context()

	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
	}

	writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
	if err != nil {
		return err
	}

	if err := writer.Write(ctx, rows, report.ComputeKPIs(rows)); err != nil {
		return err
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Pushed %d prospects to Google Sheets", len(rows))))
	return nil
}
