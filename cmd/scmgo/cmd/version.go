package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags; it defaults to "dev".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scmgo version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("scmgo", Version)
		return nil
	},
}
