package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dittohq/ditto-go/api"
	"github.com/dittohq/ditto-go/autosave"
	"github.com/dittohq/ditto-go/internal/utils"
)

// newNotesCmd edits an application's notes interactively. Every line typed
// replaces the draft and is auto-saved after the debounce window; EOF flushes
// whatever is still pending before exiting.
func newNotesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes <application-id>",
		Short: "Edit an application's notes with auto-save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			applicationID := args[0]

			application, err := a.client.GetApplication(cmd.Context(), applicationID)
			if err != nil {
				return err
			}

			engine, err := autosave.New(application.Notes,
				func(ctx context.Context, notes string) error {
					_, err := a.client.UpdateApplication(ctx, applicationID, api.UpdateApplicationRequest{
						Notes: utils.Ptr(notes),
					})
					return err
				},
				autosave.WithDebounce(a.config.GetDebounceInterval()),
				autosave.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			defer engine.Close()

			if application.Notes != "" {
				fmt.Fprintln(cmd.OutOrStdout(), application.Notes)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Type note lines, Ctrl-D to save and exit.")

			var lines []string
			if application.Notes != "" {
				lines = strings.Split(application.Notes, "\n")
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
				if err := engine.Update(strings.Join(lines, "\n")); err != nil {
					return err
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			if err := engine.Flush(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notes saved.")
			return nil
		},
	}
	return cmd
}
