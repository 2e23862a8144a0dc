// Package main implements the skilldex CLI: tooling for markdown skill
// corpora consumed by AI coding assistants. It discovers and validates
// skill files and agent templates, maintains a search index over them, and
// serves the corpus over HTTP and MCP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skilldex/skilldex/pkg/corpus"
	"github.com/skilldex/skilldex/pkg/logger"
	"github.com/skilldex/skilldex/pkg/presenter"
)

var rootCmd = &cobra.Command{
	Use:   "skilldex",
	Short: "Toolkit for markdown skill corpora",
	Long: `skilldex discovers, validates, indexes, and serves collections of
markdown skill files and agent prompt templates with YAML frontmatter,
as consumed by AI coding assistants.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return err
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		if quiet, err := cmd.Flags().GetBool("quiet"); err == nil {
			presenter.SetQuiet(quiet)
		}

		// Tracing init lives here so the bound --tracing-* flags are
		// already parsed.
		if err := initTracing(cmd.Context()); err != nil {
			presenter.Warning(fmt.Sprintf("failed to initialize tracing: %v", err))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

func init() {
	viper.SetEnvPrefix("SKILLDEX")
	viper.AutomaticEnv()

	viper.SetConfigName(".skilldex")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.skilldex")

	// Config file is optional
	_ = viper.ReadInConfig()

	rootCmd.PersistentFlags().StringSlice("corpus", nil, "Corpus root directories (default ./skills and ~/.skilldex/skills)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")

	viper.BindPFlag("corpus.roots", rootCmd.PersistentFlags().Lookup("corpus"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// loadCorpus discovers and loads the corpus from the configured roots
func loadCorpus() (*corpus.Corpus, error) {
	var opts []corpus.Option
	if roots := viper.GetStringSlice("corpus.roots"); len(roots) > 0 {
		opts = append(opts, corpus.WithRoots(roots...))
	}
	if includes := viper.GetStringSlice("corpus.include"); len(includes) > 0 {
		opts = append(opts, corpus.WithInclude(includes...))
	}
	if excludes := viper.GetStringSlice("corpus.exclude"); len(excludes) > 0 {
		opts = append(opts, corpus.WithExclude(excludes...))
	}

	discovery, err := corpus.NewDiscovery(opts...)
	if err != nil {
		return nil, err
	}
	return discovery.Load()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)

	if shutdownTracing != nil {
		_ = shutdownTracing(context.Background())
	}

	if err != nil {
		os.Exit(1)
	}
}
