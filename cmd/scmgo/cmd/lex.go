package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/scmgo/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:    "lex [file]",
	Short:  "Dump the token stream for a script file (debug tool)",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		lx := lexer.New(string(data))
		for {
			tok, err := lx.NextToken()
			if err != nil {
				return err
			}
			if tok.Type == lexer.EOF {
				return nil
			}
			cmd.Printf("%s\t%-16s %q\n", tok.Pos, tok.Type, tok.Literal)
		}
	},
}
