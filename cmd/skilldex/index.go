package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skilldex/skilldex/pkg/index"
	"github.com/skilldex/skilldex/pkg/presenter"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the search index",
	Long: `Rebuild the SQLite search index from the corpus. The index is a derived
artifact: rebuilding it from scratch is always safe.

Examples:
  skilldex index
  skilldex index --db /tmp/corpus.db`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := runIndexCommand(cmd); err != nil {
			presenter.Error(err, "failed to rebuild index")
			os.Exit(1)
		}
	},
}

func init() {
	indexCmd.Flags().String("db", "", "Path to the index database (default ~/.skilldex/index.db)")
	viper.BindPFlag("index.db", indexCmd.Flags().Lookup("db"))
	rootCmd.AddCommand(withTracing(indexCmd))
}

// indexPath resolves the index database location from flags and config
func indexPath() (string, error) {
	if dbPath := viper.GetString("index.db"); dbPath != "" {
		return dbPath, nil
	}
	return index.DefaultPath()
}

func runIndexCommand(cmd *cobra.Command) error {
	ctx := cmd.Context()

	c, err := loadCorpus()
	if err != nil {
		return err
	}

	dbPath, err := indexPath()
	if err != nil {
		return err
	}

	ix, err := index.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	if err := ix.Rebuild(ctx, c); err != nil {
		return err
	}

	stats, err := ix.Stats(ctx)
	if err != nil {
		return err
	}

	presenter.Success(fmt.Sprintf("Indexed %d document(s) into %s", stats.Total, dbPath))

	kinds := make([]string, 0, len(stats.ByKind))
	for kind := range stats.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		presenter.Info(fmt.Sprintf("  %s: %d", kind, stats.ByKind[kind]))
	}

	if len(c.Problems()) > 0 {
		presenter.Warning(fmt.Sprintf("%d file(s) skipped due to load problems; run 'skilldex lint' for details", len(c.Problems())))
	}
	return nil
}
