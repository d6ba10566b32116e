package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dittohq/ditto-go/api"
)

func newApplicationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "List job applications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}

			company, _ := cmd.Flags().GetString("company")
			title, _ := cmd.Flags().GetString("title")
			limit, _ := cmd.Flags().GetInt("limit")

			list, err := a.client.ListApplications(cmd.Context(), api.ApplicationFilters{
				CompanyName: company,
				JobTitle:    title,
				Limit:       limit,
				SortBy:      api.SortByAppliedAt,
				SortOrder:   api.SortDesc,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COMPANY\tPOSITION\tSTATUS\tAPPLIED")
			for _, app := range list.Applications {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					companyName(app), jobTitle(app), statusName(app), app.AppliedAt)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d applications\n", len(list.Applications), list.Total)
			return nil
		},
	}

	cmd.Flags().String("company", "", "Filter by company name")
	cmd.Flags().String("title", "", "Filter by job title")
	cmd.Flags().Int("limit", 50, "Maximum applications to list")
	return cmd
}

func newTimelineCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the activity timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}

			rangeFilter, _ := cmd.Flags().GetString("range")
			page, err := a.client.GetTimeline(cmd.Context(), api.TimelineParams{
				Range: api.TimelineRange(rangeFilter),
			})
			if err != nil {
				return err
			}

			for _, item := range page.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s] %s", item.Date, item.Type, item.Title)
				if item.Subtitle != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " - %s", item.Subtitle)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().String("range", "all", "Time range: all | week | month")
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}

			unreadOnly, _ := cmd.Flags().GetBool("unread")
			var read *bool
			if unreadOnly {
				f := false
				read = &f
			}

			notifications, err := a.client.ListNotifications(cmd.Context(), read)
			if err != nil {
				return err
			}

			for _, n := range notifications {
				marker := " "
				if !n.Read {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s: %s\n", marker, n.CreatedAt, n.Title, n.Message)
			}
			return nil
		},
	}

	cmd.Flags().Bool("unread", false, "Only unread notifications")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <applications|interviews>",
		Short: "Download an export as CSV or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")

			var export *api.Export
			var err error
			switch args[0] {
			case "applications":
				export, err = a.client.ExportApplications(cmd.Context(), api.ExportFormat(format), api.ApplicationFilters{})
			case "interviews":
				export, err = a.client.ExportInterviews(cmd.Context(), api.ExportFormat(format), api.ApplicationFilters{})
			default:
				return fmt.Errorf("unknown export kind %q", args[0])
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(export.Filename, export.Data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", export.Filename, len(export.Data))
			return nil
		},
	}

	cmd.Flags().String("format", "csv", "Export format: csv | json")
	return cmd
}

func companyName(app api.Application) string {
	if app.Company == nil {
		return "-"
	}
	return app.Company.Name
}

func jobTitle(app api.Application) string {
	if app.Job == nil {
		return "-"
	}
	return app.Job.Title
}

func statusName(app api.Application) string {
	if app.Status == nil {
		return "-"
	}
	return app.Status.Name
}
