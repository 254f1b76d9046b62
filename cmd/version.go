package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karchag/karchag-backend/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of karchag-backend",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s version %s\n", version.Name, version.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
