package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skilldex/skilldex/pkg/corpus"
	"github.com/skilldex/skilldex/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a corpus document",
	Long: `Show the frontmatter metadata and markdown body of a document by its
frontmatter name.

Examples:
  skilldex show laravel-eager-loading
  skilldex show compose-generator --json`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		jsonOut, _ := cmd.Flags().GetBool("json")
		if err := runShowCommand(args[0], jsonOut); err != nil {
			presenter.Error(err, "failed to show document")
			os.Exit(1)
		}
	},
}

func init() {
	showCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(withTracing(showCmd))
}

func runShowCommand(name string, jsonOut bool) error {
	c, err := loadCorpus()
	if err != nil {
		return err
	}

	doc, err := c.Get(name)
	if err != nil {
		return err
	}

	if jsonOut {
		payload := map[string]any{
			"metadata": doc.Metadata,
			"kind":     doc.Kind,
			"path":     doc.Path,
			"body":     doc.Body,
		}
		if doc.Kind == corpus.KindAgent {
			if agent, err := doc.AsAgentTemplate(); err == nil {
				payload["agent"] = agent
			}
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	}

	presenter.Section(doc.Name)
	presenter.Info(fmt.Sprintf("Description: %s", doc.Description))
	presenter.Info(fmt.Sprintf("Kind:        %s", doc.Kind))
	presenter.Info(fmt.Sprintf("Path:        %s", doc.Path))
	if doc.Category != "" {
		presenter.Info(fmt.Sprintf("Category:    %s", doc.Category))
	}
	if doc.AppliesTo != "" {
		presenter.Info(fmt.Sprintf("Applies to:  %s", doc.AppliesTo))
	}
	if len(doc.AllowedTools) > 0 {
		presenter.Info(fmt.Sprintf("Tools:       %v", doc.AllowedTools))
	}

	if doc.Kind == corpus.KindAgent {
		if agent, err := doc.AsAgentTemplate(); err == nil && len(agent.Activation) > 0 {
			presenter.Info(fmt.Sprintf("Activation:  %v", agent.Activation))
		}
	}

	presenter.Separator()
	fmt.Println(doc.Body)
	return nil
}
