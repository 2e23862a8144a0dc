package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skilldex/skilldex/pkg/llmstxt"
	"github.com/skilldex/skilldex/pkg/presenter"
)

type LlmsTxtConfig struct {
	Title       string
	Description string
	Output      string
}

func NewLlmsTxtConfig() *LlmsTxtConfig {
	return &LlmsTxtConfig{
		Title: "Skills",
	}
}

var llmstxtCmd = &cobra.Command{
	Use:   "llmstxt",
	Short: "Generate an llms.txt overview of the corpus",
	Long: `Generate an llms.txt-style master index of the corpus: a section per
stack with one bullet per skill, linking back into the corpus tree.

Examples:
  skilldex llmstxt
  skilldex llmstxt --title "Framework skills" -o llms.txt`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getLlmsTxtConfigFromFlags(cmd)
		if err := runLlmsTxtCommand(config); err != nil {
			presenter.Error(err, "failed to generate llms.txt")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewLlmsTxtConfig()
	llmstxtCmd.Flags().String("title", defaults.Title, "Overview title")
	llmstxtCmd.Flags().String("description", defaults.Description, "One-line overview description")
	llmstxtCmd.Flags().StringP("output", "o", defaults.Output, "Write to file instead of stdout")
	rootCmd.AddCommand(withTracing(llmstxtCmd))
}

func getLlmsTxtConfigFromFlags(cmd *cobra.Command) *LlmsTxtConfig {
	config := NewLlmsTxtConfig()
	if title, err := cmd.Flags().GetString("title"); err == nil && title != "" {
		config.Title = title
	}
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		config.Output = output
	}
	return config
}

func runLlmsTxtCommand(config *LlmsTxtConfig) error {
	c, err := loadCorpus()
	if err != nil {
		return err
	}

	content := llmstxt.Generate(c, llmstxt.Options{
		Title:       config.Title,
		Description: config.Description,
	})

	if config.Output == "" {
		fmt.Print(content)
		return nil
	}

	if err := os.WriteFile(config.Output, []byte(content), 0o644); err != nil {
		return err
	}
	presenter.Success(fmt.Sprintf("Wrote %s", config.Output))
	return nil
}
