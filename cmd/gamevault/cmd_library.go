package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ryanm101/gamevault/internal/db"
	"github.com/ryanm101/gamevault/internal/library"
)

func newScanCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [root]",
		Short: "Scan the game library for game folders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			root := app.cfg.GetLibraryPath()
			if len(args) == 1 {
				root = args[0]
			}

			app.printInfo(cmd, "Scanning library: %s\n", root)

			var bar *progressbar.ProgressBar
			if !app.quiet && !app.jsonOut {
				bar = progressbar.Default(-1, "Scanning")
			}
			res, err := svc.Scan(ctx, root, func(p library.ScanProgress) {
				if bar == nil {
					return
				}
				if p.TotalFolders > 0 && bar.GetMax() == -1 {
					bar.ChangeMax64(p.TotalFolders)
				}
				_ = bar.Set64(p.FoldersScanned)
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			if app.jsonOut {
				return writeJSON(cmd, res)
			}
			app.printInfo(cmd, "\nFound %d folders: %d added or updated, %d excluded, %d failed\n",
				res.TotalFound, res.AddedOrUpdated, res.Excluded, res.Failed)
			return nil
		},
	}
}

func newListCommand(app *appContext) *cobra.Command {
	var search string
	var recent bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := app.service(ctx); err != nil {
				return err
			}

			var games []*db.Game
			var err error
			switch {
			case search != "":
				games, err = app.db.Search(ctx, search, 100)
			case recent:
				games, err = app.db.Recent(ctx, 10)
			default:
				games, err = app.db.ListAll(ctx)
			}
			if err != nil {
				return err
			}

			if app.jsonOut {
				return writeJSON(cmd, games)
			}
			if len(games) == 0 {
				app.printInfo(cmd, "No games found\n")
				return nil
			}
			return app.printTable(cmd,
				[]string{"ID", "Title", "Status", "App ID", "Score", "Genres"},
				gameRows(games),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show titles containing this text")
	cmd.Flags().BoolVar(&recent, "recent", false, "Only show the most recently added games")
	return cmd
}

func gameRows(games []*db.Game) [][]string {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			strconv.FormatInt(g.ID, 10),
			g.Title,
			string(g.MatchStatus),
			formatInt(g.SteamAppID),
			formatInt(g.ReviewScore),
			strings.Join(g.Genres, ", "),
		})
	}
	return rows
}

func formatInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func newStatsCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show library statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			st, err := svc.Stats(ctx)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return writeJSON(cmd, st)
			}
			return app.printTable(cmd,
				[]string{"Total", "Matched", "Pending", "Enriched"},
				[][]string{{
					strconv.FormatInt(st.TotalGames, 10),
					strconv.FormatInt(st.MatchedGames, 10),
					strconv.FormatInt(st.PendingGames, 10),
					strconv.FormatInt(st.EnrichedGames, 10),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
			)
		},
	}
}
