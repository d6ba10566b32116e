package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dittohq/ditto-go/api"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show application stats and upcoming items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}

			stats, err := a.client.GetDashboardStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Applications: %d total, %d active\n", stats.TotalApplications, stats.ActiveApplications)
			fmt.Fprintf(out, "Interviews:   %d\n", stats.InterviewCount)
			fmt.Fprintf(out, "Offers:       %d\n", stats.OfferCount)
			fmt.Fprintf(out, "Pipeline:     %d saved / %d applied / %d interview / %d offer / %d rejected\n",
				stats.StatusCounts.Saved, stats.StatusCounts.Applied, stats.StatusCounts.Interview,
				stats.StatusCounts.Offer, stats.StatusCounts.Rejected)

			limit, _ := cmd.Flags().GetInt("limit")
			upcoming, err := a.client.ListUpcoming(cmd.Context(), limit, api.UpcomingAll)
			if err != nil {
				return err
			}
			if len(upcoming) == 0 {
				return nil
			}

			fmt.Fprintln(out, "\nUpcoming:")
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, item := range upcoming {
				fmt.Fprintf(w, "%s\t%s\t%s at %s\t%s\n",
					item.Countdown.Text, item.Type, item.Title, item.CompanyName, item.DueDate)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("limit", 4, "Maximum upcoming items to show")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search applications, interviews, assessments and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			results, err := a.client.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if results.TotalCount == 0 {
				fmt.Fprintf(out, "No matches for %q\n", args[0])
				return nil
			}

			printGroup(out, "Applications", results.Applications)
			printGroup(out, "Interviews", results.Interviews)
			printGroup(out, "Assessments", results.Assessments)
			printGroup(out, "Notes", results.Notes)
			fmt.Fprintf(out, "\n%d matches\n", results.TotalCount)
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum matches per group")
	return cmd
}

func printGroup(out io.Writer, label string, results []api.SearchResult) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(out, "%s:\n", label)
	for _, result := range results {
		fmt.Fprintf(out, "  %s", result.Title)
		if result.Snippet != "" {
			fmt.Fprintf(out, " - %s", result.Snippet)
		}
		fmt.Fprintln(out)
	}
}
