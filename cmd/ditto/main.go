package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dittohq/ditto-go/api"
	"github.com/dittohq/ditto-go/internal/config"
	"github.com/dittohq/ditto-go/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the wired SDK shared by every subcommand.
type app struct {
	config  config.Config
	manager *session.Manager
	client  *api.Client
	logger  zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "ditto",
		Short:        "Ditto job application tracker CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return a.bootstrap(verbose)
		},
	}

	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newRegisterCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newWhoamiCmd(a))
	root.AddCommand(newApplicationsCmd(a))
	root.AddCommand(newDashboardCmd(a))
	root.AddCommand(newSearchCmd(a))
	root.AddCommand(newTimelineCmd(a))
	root.AddCommand(newNotesCmd(a))
	root.AddCommand(newNotificationsCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newUploadCmd(a))

	return root
}

// bootstrap wires config, token store, session manager, transport and API
// client.
func (a *app) bootstrap(verbose bool) error {
	a.config = config.New()

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	store, err := session.NewFileStore(a.config.GetCredentialsFile(), storeSecret())
	if err != nil {
		return err
	}

	authClient := &http.Client{Timeout: a.config.GetRequestTimeout()}
	a.manager, err = session.NewManager(
		a.config.GetAPIBaseURL(),
		store,
		session.WithHTTPClient(authClient),
		session.WithLogger(a.logger),
		session.WithOnLogout(func() {
			a.logger.Debug().Msg("session cleared")
		}),
	)
	if err != nil {
		return err
	}

	transport, err := session.NewTransport(a.manager, nil)
	if err != nil {
		return err
	}

	a.client, err = api.NewClient(
		a.config.GetAPIBaseURL(),
		api.WithHTTPClient(&http.Client{
			Timeout:   a.config.GetRequestTimeout(),
			Transport: transport,
		}),
		api.WithLogger(a.logger),
	)
	return err
}

// restore rebuilds the session from the stored token pair, for commands that
// need authentication.
func (a *app) restore(cmd *cobra.Command) error {
	if _, err := a.manager.Restore(cmd.Context()); err != nil {
		return fmt.Errorf("not logged in, run 'ditto login' first: %w", err)
	}
	return nil
}

// storeSecret returns the at-rest encryption secret for the credential file.
// An explicit secret can be supplied via DITTO_STORE_SECRET; the default only
// keeps casual readers out of the token file.
func storeSecret() []byte {
	if secret := config.GetEnv("DITTO_STORE_SECRET", ""); secret != "" {
		return []byte(secret)
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return []byte("ditto-credentials:" + hostname)
}

func banner(appName string) {
	figure.NewFigure(appName, "cybermedium", true).Print()
	fmt.Println()
}
