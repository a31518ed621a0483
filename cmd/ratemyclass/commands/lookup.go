package commands

import (
	"errors"
	"fmt"
	"ratemyclass/internal/badge"
	"ratemyclass/internal/matcher"
	"ratemyclass/internal/ratings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func formatPercent(p *float64) string {
	if p == nil || *p < 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *p)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name> [names...]",
	Short: "Looks up professors at the configured school.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		school := cfg.TargetSchool()
		resolver := ratings.NewResolver(cfg.NewRelay(reporter), school, cfg.ResolverOptions(), reporter)

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetTitle(school.Name)
		t.AppendHeader(table.Row{"Query", "Match", "Department", "Rating", "Ratings", "Would take again", "Similarity", "Link"})

		for _, name := range args {
			record, err := resolver.Resolve(ctx, name)
			if errors.Is(err, ratings.ErrNotFound) {
				t.AppendRow(table.Row{name, "not found", "", "", "", "", "", badge.SearchURL(school.ID, name)})
				continue
			}
			if err != nil {
				t.AppendRow(table.Row{name, err.Error(), "", "", "", "", "", badge.SearchURL(school.ID, name)})
				continue
			}

			link := badge.ProfessorURL(record.ID)
			if !badge.Trusted(&record, name) {
				link = badge.SearchURL(school.ID, name)
			}
			t.AppendRow(table.Row{
				name,
				record.Name,
				record.Department,
				badge.FormatRating(record.AvgRating),
				record.NumRatings,
				formatPercent(record.WouldTakeAgainPercent),
				fmt.Sprintf("%.2f", matcher.Similarity(record.Name, name)),
				link,
			})
		}
		t.Render()
	},
}
