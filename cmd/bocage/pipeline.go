package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/report"
)

func pipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Show per-status counts and goal progress",
		RunE:  runPipeline,
	}

	cmd.Flags().Int("goal", 0, "Recruit goal (overrides config)")

	return cmd
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	b, _, snap, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	goal := b.settings.RecruitGoal
	if flagGoal, _ := cmd.Flags().GetInt("goal"); flagGoal > 0 {
		goal = flagGoal
	}

	counts := report.CountByStatus(snap.Prospects)

	names := make(map[int64]string, len(snap.Prospects))
	for i := range snap.Prospects {
		names[snap.Prospects[i].ID] = snap.Prospects[i].Name
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderPipeline(counts, goal))
	fmt.Fprint(out, cli.RenderRecentInteractions(snap.Interactions, names, 5))
	return nil
}
