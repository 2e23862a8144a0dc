package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skilldex/skilldex/pkg/presenter"
	"github.com/skilldex/skilldex/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := version.Get()

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			output, err := info.JSON()
			if err != nil {
				presenter.Error(err, "failed to marshal version info")
				os.Exit(1)
			}
			fmt.Println(output)
			return
		}

		fmt.Println(info.String())
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(versionCmd)
}
