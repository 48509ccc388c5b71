package cmd

import (
	"errors"

	"github.com/gaurav-prasanna/lessonpipe/config"
	"github.com/gaurav-prasanna/lessonpipe/core"
	"github.com/gaurav-prasanna/lessonpipe/server"
	"github.com/spf13/cobra"
)

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson pipeline over HTTP",
	Long: `Serve starts the HTTP API (POST /generate, POST /render and
POST /export/{key}) and shuts down gracefully on SIGINT or SIGTERM.
Without a configured generator, /generate answers 503.

Examples:
  lessonpipe serve
  lessonpipe serve --port 9000 --log_mode prod`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagPort, "port", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if flagPort != "" {
		appConfig.Port = flagPort
		if err := appConfig.Validate(); err != nil {
			return err
		}
	}

	var generator core.Generator
	g, err := newGenerator(cmd.Context())
	switch {
	case errors.Is(err, config.ErrNoGenerator):
		appLog.Warn("no content generator configured; /generate is disabled")
	case err != nil:
		return err
	default:
		generator = g
	}

	return server.New(appConfig, generator, appLog).Run(cmd.Context())
}
