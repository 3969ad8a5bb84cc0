package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scmgo/internal/config"
	"github.com/cwbudde/scmgo/internal/interp"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Evaluate a script file, or an inline expression given with -e",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}

		i, err := interp.New(interp.WithFileSystem(interp.ReadOnlyFS{}))
		if err != nil {
			return err
		}
		if cfg.HostInit != "" {
			src, err := os.ReadFile(cfg.ResolveLoad(cfg.HostInit))
			if err != nil {
				return err
			}
			if err := i.EvaluateSource(string(src), i.Global); err != nil {
				return err
			}
		}

		var src string
		switch {
		case evalExpr != "":
			src = evalExpr
		case len(args) == 1:
			data, err := os.ReadFile(cfg.ResolveLoad(args[0]))
			if err != nil {
				return err
			}
			src = string(data)
		default:
			return replCmd.RunE(cmd, args)
		}

		val, err := i.Evaluate(src, i.Global)
		if err != nil {
			return err
		}
		cmd.Println(printValue(val))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate this expression instead of a file")
}
