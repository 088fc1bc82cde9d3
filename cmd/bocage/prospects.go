package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/report"
)

func prospectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prospects",
		Short: "List and filter campaign prospects",
		Long: `List prospects with their derived pipeline status.

Filters combine with AND; the free-text search matches names and external
references case-insensitively.`,
		RunE: runProspects,
	}

	cmd.Flags().StringP("search", "s", "", "Search names and references")
	cmd.Flags().StringP("department", "d", "", "Filter by department")
	cmd.Flags().StringP("zone", "z", "", "Filter by geographic zone")
	cmd.Flags().Bool("certified", false, "Only certified prospects")
	cmd.Flags().Int("min-score", 0, "Minimum relevance score")
	cmd.Flags().String("sort", "score", "Sort key (name, department, zone, area, score)")
	cmd.Flags().Bool("asc", false, "Sort ascending instead of descending")
	cmd.Flags().IntP("limit", "n", 0, "Limit displayed rows (0 = all)")

	return cmd
}

func runProspects(cmd *cobra.Command, _ []string) error {
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

	limit, _ := cmd.Flags().GetInt("limit")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Prospects"))
	fmt.Fprintln(out, cli.RenderKPIs(report.ComputeKPIs(rows)))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderProspectTable(rows, limit))

	if len(rows) == 0 {
		if filter.Department != "" {
			fmt.Fprintf(out, "Known departments: %s\n", strings.Join(report.Departments(snap.Prospects), ", "))
		}
		if filter.Zone != "" {
			fmt.Fprintf(out, "Known zones: %s\n", strings.Join(report.Zones(snap.Prospects), ", "))
		}
	}

	if snap.Truncated.Any() {
		slog.Warn(cli.FormatWarning("Row cap reached; the list may be incomplete"))
	}
	return nil
}

func filterFromFlags(cmd *cobra.Command) (report.Filter, error) {
	search, _ := cmd.Flags().GetString("search")
	department, _ := cmd.Flags().GetString("department")
	zone, _ := cmd.Flags().GetString("zone")
	certified, _ := cmd.Flags().GetBool("certified")
	minScore, _ := cmd.Flags().GetInt("min-score")

	return report.Filter{
		Search:        search,
		Department:    department,
		Zone:          zone,
		CertifiedOnly: certified,
		MinScore:      minScore,
	}, nil
}

func sortFromFlags(cmd *cobra.Command) (report.SortSpec, error) {
	raw, _ := cmd.Flags().GetString("sort")
	ascending, _ := cmd.Flags().GetBool("asc")

	switch key := report.SortKey(raw); key {
	case report.SortByName, report.SortByDepartment, report.SortByZone,
		report.SortByArea, report.SortByScore:
		return report.SortSpec{Key: key, Ascending: ascending}, nil
	}
	return report.SortSpec{}, fmt.Errorf("unknown sort key %q", raw)
}
