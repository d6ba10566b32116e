package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dittohq/ditto-go/api"
	"github.com/dittohq/ditto-go/upload"
)

func newUploadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}

			applicationID, _ := cmd.Flags().GetString("application")
			interviewID, _ := cmd.Flags().GetString("interview")
			assessment, _ := cmd.Flags().GetBool("assessment")
			if applicationID == "" {
				return fmt.Errorf("--application is required")
			}

			file, err := upload.NewFileFromPath(args[0])
			if err != nil {
				return err
			}

			if assessment {
				err = upload.ValidateAssessmentFile(file, a.config.GetAssessmentMaxFileSize())
			} else {
				err = upload.ValidateFile(file, a.config.GetMaxFileSize())
			}
			if err != nil {
				return err
			}

			stats, err := a.client.GetStorageStats(cmd.Context())
			if err != nil {
				return err
			}
			if !stats.CanUpload(file.Size) {
				return fmt.Errorf("storage quota exceeded: %d of %d bytes used", stats.UsedBytes, stats.TotalBytes)
			}

			coordinator, err := upload.NewCoordinator(
				a.client,
				upload.Target{
					ApplicationID: applicationID,
					InterviewID:   interviewID,
					Assessment:    assessment,
				},
				upload.WithETAThreshold(a.config.GetETAThresholdBytes()),
				upload.WithLogger(a.logger),
				upload.WithProgress(func(p upload.Progress) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%3d%% (%d/%d bytes)", p.Percent, p.Loaded, p.Total)
				}),
				upload.WithOnComplete(func(record *api.FileRecord) {
					fmt.Fprintf(cmd.OutOrStdout(), "\nUploaded %s (id %s)\n", record.FileName, record.ID)
				}),
			)
			if err != nil {
				return err
			}

			return coordinator.Upload(cmd.Context(), file)
		},
	}

	cmd.Flags().String("application", "", "Application the file belongs to")
	cmd.Flags().String("interview", "", "Interview the file belongs to")
	cmd.Flags().Bool("assessment", false, "Upload as an assessment submission")
	return cmd
}
