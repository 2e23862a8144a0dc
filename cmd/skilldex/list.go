package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skilldex/skilldex/pkg/corpus"
	"github.com/skilldex/skilldex/pkg/presenter"
)

type ListConfig struct {
	Kind      string
	AppliesTo string
	Filter    string
	JSON      bool
}

func NewListConfig() *ListConfig {
	return &ListConfig{
		Kind: "all",
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List corpus documents",
	Long: `List the skill documents, agent templates, and stack indexes found in
the configured corpus roots.

Examples:
  skilldex list
  skilldex list --kind agent
  skilldex list --applies-to laravel
  skilldex list --filter 'docker-*' --json`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)
		if err := runListCommand(config); err != nil {
			presenter.Error(err, "failed to list documents")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().String("kind", defaults.Kind, "Document kind to list (all, skill, agent, index)")
	listCmd.Flags().String("applies-to", defaults.AppliesTo, "Only documents tagged for this framework")
	listCmd.Flags().StringP("filter", "f", defaults.Filter, "Glob pattern on document names (e.g. 'laravel-*')")
	listCmd.Flags().Bool("json", defaults.JSON, "Output as JSON")
	rootCmd.AddCommand(withTracing(listCmd))
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if kind, err := cmd.Flags().GetString("kind"); err == nil {
		config.Kind = kind
	}
	if appliesTo, err := cmd.Flags().GetString("applies-to"); err == nil {
		config.AppliesTo = appliesTo
	}
	if filter, err := cmd.Flags().GetString("filter"); err == nil {
		config.Filter = filter
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	return config
}

func runListCommand(config *ListConfig) error {
	c, err := loadCorpus()
	if err != nil {
		return err
	}

	docs, err := selectDocuments(c, config)
	if err != nil {
		return err
	}

	if config.JSON {
		type row struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Category    string `json:"category,omitempty"`
			AppliesTo   string `json:"applies_to,omitempty"`
			Kind        string `json:"kind"`
			Path        string `json:"path"`
		}
		rows := make([]row, 0, len(docs))
		for _, doc := range docs {
			rows = append(rows, row{
				Name:        doc.Name,
				Description: doc.Description,
				Category:    doc.Category,
				AppliesTo:   doc.AppliesTo,
				Kind:        string(doc.Kind),
				Path:        doc.Path,
			})
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	if len(docs) == 0 {
		presenter.Info("No documents found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tAPPLIES TO\tCATEGORY\tDESCRIPTION")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			doc.Name, doc.Kind, doc.AppliesTo, doc.Category, doc.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	presenter.Separator()
	presenter.Info(fmt.Sprintf("%d document(s)", len(docs)))
	return nil
}

func selectDocuments(c *corpus.Corpus, config *ListConfig) ([]*corpus.Document, error) {
	var docs []*corpus.Document
	if config.Filter != "" {
		filtered, err := c.FilterByPattern(config.Filter)
		if err != nil {
			return nil, err
		}
		docs = filtered
	} else {
		docs = c.Documents()
	}

	var selected []*corpus.Document
	for _, doc := range docs {
		if config.Kind != "all" && string(doc.Kind) != config.Kind {
			continue
		}
		if config.AppliesTo != "" && doc.AppliesTo != config.AppliesTo {
			continue
		}
		selected = append(selected, doc)
	}
	return selected, nil
}
