package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skilldex/skilldex/pkg/index"
	"github.com/skilldex/skilldex/pkg/logger"
	"github.com/skilldex/skilldex/pkg/mcptool"
	"github.com/skilldex/skilldex/pkg/presenter"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the corpus over MCP on stdio",
	Long: `Start a Model Context Protocol server on stdio exposing the corpus to
AI assistants: list_skills, get_skill, and search_skills.

Point an assistant at it with a stdio server entry, e.g.:

  {"command": "skilldex", "args": ["mcp"]}`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := runMCPCommand(cmd); err != nil {
			presenter.Error(err, "MCP server failed")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPCommand(cmd *cobra.Command) error {
	ctx := cmd.Context()

	c, err := loadCorpus()
	if err != nil {
		return err
	}

	var ix *index.Index
	if dbPath, err := indexPath(); err == nil {
		if _, statErr := os.Stat(dbPath); statErr == nil {
			if opened, openErr := index.Open(ctx, dbPath); openErr == nil {
				ix = opened
				defer ix.Close()
			} else {
				logger.G(ctx).WithError(openErr).Warn("failed to open search index")
			}
		}
	}

	return mcptool.NewServer(c, ix).ServeStdio()
}
