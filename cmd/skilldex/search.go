package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skilldex/skilldex/pkg/index"
	"github.com/skilldex/skilldex/pkg/presenter"
)

type SearchConfig struct {
	AppliesTo string
	Kind      string
	Limit     int
	JSON      bool
}

func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Limit: index.DefaultSearchLimit,
	}
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus index",
	Long: `Keyword search over indexed skill names, descriptions, and bodies.
Run 'skilldex index' first to build or refresh the index.

Examples:
  skilldex search "eager loading"
  skilldex search compose --applies-to docker --limit 5`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSearchConfigFromFlags(cmd)
		if err := runSearchCommand(cmd, strings.Join(args, " "), config); err != nil {
			presenter.Error(err, "search failed")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewSearchConfig()
	searchCmd.Flags().String("applies-to", defaults.AppliesTo, "Only documents tagged for this framework")
	searchCmd.Flags().String("kind", defaults.Kind, "Only documents of this kind (skill, agent, index)")
	searchCmd.Flags().IntP("limit", "n", defaults.Limit, "Maximum number of results")
	searchCmd.Flags().Bool("json", defaults.JSON, "Output as JSON")
	rootCmd.AddCommand(withTracing(searchCmd))
}

func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	config := NewSearchConfig()
	if appliesTo, err := cmd.Flags().GetString("applies-to"); err == nil {
		config.AppliesTo = appliesTo
	}
	if kind, err := cmd.Flags().GetString("kind"); err == nil {
		config.Kind = kind
	}
	if limit, err := cmd.Flags().GetInt("limit"); err == nil {
		config.Limit = limit
	}
	if jsonOut, err := cmd.Flags().GetBool("json"); err == nil {
		config.JSON = jsonOut
	}
	return config
}

func runSearchCommand(cmd *cobra.Command, query string, config *SearchConfig) error {
	ctx := cmd.Context()

	dbPath, err := indexPath()
	if err != nil {
		return err
	}

	ix, err := index.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	entries, err := ix.Search(ctx, query, index.SearchOptions{
		AppliesTo: config.AppliesTo,
		Kind:      config.Kind,
		Limit:     config.Limit,
	})
	if err != nil {
		return err
	}

	if config.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		presenter.Info("No matching documents.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tPATH\tDESCRIPTION")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Name, entry.Kind, entry.Path, entry.Description)
	}
	return w.Flush()
}
