package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryanm101/gamevault/internal/db"
)

func newExportCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write a metadata sidecar into every matched game folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			res, err := svc.ExportAll(ctx)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return writeJSON(cmd, res)
			}
			app.printInfo(cmd, "Exported %d of %d: %d skipped, %d failed\n",
				res.Exported, res.Total, res.Skipped, res.Failed)
			return nil
		},
	}
}

func newImportCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load metadata sidecars that are newer than the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			res, err := svc.ImportAll(ctx)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return writeJSON(cmd, res)
			}
			app.printInfo(cmd, "Imported %d of %d: %d skipped, %d without sidecar, %d failed\n",
				res.Imported, res.Total, res.Skipped, res.NotFound, res.Failed)
			return nil
		},
	}
}

func newEditCommand(app *appContext) *cobra.Command {
	var (
		title, summary, releaseDate    string
		genres, developers, publishers string
		reviewScore                    int64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Manually edit a game's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var edit db.ManualEdit
			if flags.Changed("title") {
				edit.Title = &title
			}
			if flags.Changed("summary") {
				edit.Summary = &summary
			}
			if flags.Changed("release-date") {
				edit.ReleaseDate = &releaseDate
			}
			if flags.Changed("genres") {
				edit.Genres = splitList(genres)
			}
			if flags.Changed("developers") {
				edit.Developers = splitList(developers)
			}
			if flags.Changed("publishers") {
				edit.Publishers = splitList(publishers)
			}
			if flags.Changed("review-score") {
				edit.ReviewScore = &reviewScore
			}

			ctx := cmd.Context()
			svc, err := app.service(ctx)
			if err != nil {
				return err
			}
			g, err := svc.ManualEdit(ctx, id, edit)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return writeJSON(cmd, g)
			}
			app.printInfo(cmd, "Updated %q\n", g.Title)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Title")
	f.StringVar(&summary, "summary", "", "Summary")
	f.StringVar(&releaseDate, "release-date", "", "Release date")
	f.StringVar(&genres, "genres", "", "Comma separated genres")
	f.StringVar(&developers, "developers", "", "Comma separated developers")
	f.StringVar(&publishers, "publishers", "", "Comma separated publishers")
	f.Int64Var(&reviewScore, "review-score", 0, "Review score (0-100)")
	return cmd
}

// splitList splits a comma separated flag value. An empty value clears the list.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
