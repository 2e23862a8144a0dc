package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skilldex/skilldex/pkg/index"
	"github.com/skilldex/skilldex/pkg/logger"
	"github.com/skilldex/skilldex/pkg/presenter"
	"github.com/skilldex/skilldex/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus over HTTP",
	Long: `Serve the corpus as a JSON API: skill and agent listings, full document
bodies, stack indexes, index-backed search, and on-demand linting.

Examples:
  skilldex serve
  skilldex serve --host 0.0.0.0 --port 8080`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := runServeCommand(cmd); err != nil {
			presenter.Error(err, "server failed")
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Int("port", 8321, "Port to listen on")
	viper.BindPFlag("serve.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(withTracing(serveCmd))
}

func runServeCommand(cmd *cobra.Command) error {
	ctx := cmd.Context()

	c, err := loadCorpus()
	if err != nil {
		return err
	}

	linter, err := newLinter()
	if err != nil {
		return err
	}

	// The search index is optional for serving; the search endpoint
	// responds 503 until one is built.
	var ix *index.Index
	dbPath, err := indexPath()
	if err == nil {
		if _, statErr := os.Stat(dbPath); statErr == nil {
			if opened, openErr := index.Open(ctx, dbPath); openErr == nil {
				ix = opened
				defer ix.Close()
			} else {
				logger.G(ctx).WithError(openErr).Warn("failed to open search index")
			}
		}
	}

	srv, err := server.New(&server.Config{
		Host: viper.GetString("serve.host"),
		Port: viper.GetInt("serve.port"),
	}, c, ix, linter)
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}
