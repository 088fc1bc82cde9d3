package main

import (
	"github.com/spf13/cobra"

	"github.com/mbellec/bocage/internal/tui"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Open the interactive campaign dashboard",
		Long: `Open the full-screen dashboard: filterable prospect table, pipeline
indicators, and one-key interaction logging.`,
		RunE: runDashboard,
	}

	cmd.Flags().Int("goal", 0, "Recruit goal (overrides config)")

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	b, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	coordinator, err := newCoordinator(b)
	if err != nil {
		return err
	}

	goal := b.settings.RecruitGoal
	if flagGoal, _ := cmd.Flags().GetInt("goal"); flagGoal > 0 {
		goal = flagGoal
	}

	return tui.Run(ctx, tui.Config{
		Coordinator: coordinator,
		Goal:        goal,
	})
}
