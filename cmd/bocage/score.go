package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/common"
	"github.com/mbellec/bocage/internal/engine"
	"github.com/mbellec/bocage/internal/model"
)

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <reference>",
		Short: "Explain a prospect's relevance score",
		Long: `Decompose a prospect's relevance score criterion by criterion.

The reference may be the external reference (T0042) or the numeric id. A
difference between the computed and stored score is reported, never patched.`,
		Args: cobra.ExactArgs(1),
		RunE: runScore,
	}
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	b, _, snap, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	prospect := findProspect(snap, args[0])
	if prospect == nil {
		return fmt.Errorf("no prospect matches %q: %w", args[0], common.ErrNotFound)
	}

	breakdown := model.DecomposeScore(&prospect.Prospect)
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderScoreBreakdown(&prospect.Prospect, breakdown))
	return nil
}

// findProspect resolves an external reference first, then a numeric id.
func findProspect(snap *engine.Snapshot, ref string) *model.ProspectWithStatus {
	if p := snap.ProspectByRef(ref); p != nil {
		return p
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return snap.ProspectByID(id)
	}
	return nil
}
