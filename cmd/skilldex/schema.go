package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skilldex/skilldex/pkg/corpus"
	"github.com/skilldex/skilldex/pkg/presenter"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the frontmatter JSON schema",
	Long: `Print the JSON schema of the skill file frontmatter convention, so
external tools can validate corpus files without skilldex.`,
	Run: func(_ *cobra.Command, _ []string) {
		schema, err := corpus.MetadataSchemaJSON()
		if err != nil {
			presenter.Error(err, "failed to generate schema")
			os.Exit(1)
		}
		fmt.Println(schema)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
