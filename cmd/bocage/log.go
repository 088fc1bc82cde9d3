package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mbellec/bocage/internal/cli"
	"github.com/mbellec/bocage/internal/common"
	"github.com/mbellec/bocage/internal/model"
)

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <reference> <kind>",
		Short: "Record an outreach interaction",
		Long: `Record one interaction against a prospect.

Kinds: called, interested, refused, callback, recruited. The interaction is
appended to the prospect's history; history is never edited or deleted.`,
		Args: cobra.ExactArgs(2),
		RunE: runLog,
	}

	cmd.Flags().StringP("notes", "m", "", "Free-form notes for the interaction")

	return cmd
}

func runLog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	kind, err := model.ParseInteractionKind(args[1])
	if err != nil {
		return err
	}

	b, coordinator, snap, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	prospect := findProspect(snap, args[0])
	if prospect == nil {
		return fmt.Errorf("no prospect matches %q: %w", args[0], common.ErrNotFound)
	}

	var notes *string
	if raw, _ := cmd.Flags().GetString("notes"); raw != "" {
		notes = &raw
	}

	if err := coordinator.AppendInteraction(ctx, prospect.ID, kind, notes); err != nil {
		return err
	}

	status := model.Status(kind)
	if current := coordinator.State().Current(); current != nil {
		if updated := current.ProspectByID(prospect.ID); updated != nil {
			status = updated.Status
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"%s (%s) is now %s", prospect.Name, prospect.ExternalRef, status.Label())))
	return nil
}
