package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pulseboard/listening-backend/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of listening-backend",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Backend for the social media listening dashboard version %s\n", version.Version)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
