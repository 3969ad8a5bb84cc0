package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scmgo/internal/interp"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		i, err := interp.New(
			interp.WithFileSystem(interp.ReadOnlyFS{}),
			interp.WithStdout(cmd.OutOrStdout()),
		)
		if err != nil {
			return err
		}
		return i.REPL(os.Stdin)
	},
}
