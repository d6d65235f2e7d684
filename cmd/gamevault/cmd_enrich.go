package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newEnrichCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Match pending games against the catalog and fetch their metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			sum, err := svc.Enrich(ctx)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return writeJSON(cmd, sum)
			}

			if len(sum.Items) > 0 {
				rows := make([][]string, 0, len(sum.Items))
				for _, it := range sum.Items {
					rows = append(rows, []string{
						strconv.FormatInt(it.GameID, 10),
						it.Title,
						it.Outcome.String(),
						it.Reason,
					})
				}
				if err := app.printTable(cmd,
					[]string{"ID", "Title", "Outcome", "Reason"}, rows,
					[]columnAlignment{alignRight},
				); err != nil {
					return err
				}
			}
			app.printInfo(cmd, "Attempted %d of %d: %d enriched, %d failed, %d skipped, %d remaining\n",
				sum.Attempted, sum.Total, sum.Enriched, sum.Failed, sum.Skipped, sum.Remaining)
			return nil
		},
	}
}

func newRematchCommand(app *appContext) *cobra.Command {
	var query string
	var confirm int64
	var reset bool

	cmd := &cobra.Command{
		Use:   "rematch <id>",
		Short: "List catalog candidates for a game, confirm one, or clear the match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}

			if reset {
				if err := app.db.ResetMatch(ctx, id); err != nil {
					return err
				}
				app.printInfo(cmd, "Match cleared, game %d will be resolved on the next enrich run\n", id)
				return nil
			}

			if cmd.Flags().Changed("confirm") {
				if confirm <= 0 {
					return fmt.Errorf("invalid app id %d", confirm)
				}
				g, err := svc.ConfirmRematch(ctx, id, confirm)
				if err != nil {
					return err
				}
				if app.jsonOut {
					return writeJSON(cmd, g)
				}
				app.printInfo(cmd, "Matched %q to app %d\n", g.Title, confirm)
				return nil
			}

			cands, err := svc.Rematch(ctx, id, query)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return writeJSON(cmd, cands)
			}
			if len(cands) == 0 {
				app.printInfo(cmd, "No candidates found\n")
				return nil
			}
			rows := make([][]string, 0, len(cands))
			for _, c := range cands {
				rows = append(rows, []string{
					strconv.FormatInt(c.AppID, 10),
					c.Name,
					strconv.FormatFloat(c.Score, 'f', 2, 64),
				})
			}
			return app.printTable(cmd, []string{"App ID", "Name", "Score"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignRight})
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "Search text (defaults to the stored title)")
	cmd.Flags().Int64Var(&confirm, "confirm", 0, "Catalog app id to assign")
	cmd.Flags().BoolVar(&reset, "reset", false, "Clear the current match instead")
	cmd.MarkFlagsMutuallyExclusive("reset", "confirm")
	return cmd
}

func parseGameID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid game id %q", s)
	}
	return id, nil
}
