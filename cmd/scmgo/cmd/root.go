// Package cmd implements the scmgo command-line front end: run, repl,
// lex, and version, rooted under the bare scmgo command.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scmgo",
	Short: "scmgo is an embeddable Scheme-subset interpreter",
	Long: `scmgo evaluates a small Lisp-family configuration language: a
lexer, an s-expression reader, a syntactic expander, and a trampolined
evaluator with proper tail calls, fronted by this CLI.

Given a file argument, it reads and evaluates that file. Given no
argument, it starts an interactive REPL against stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runCmd.RunE(c, args)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(versionCmd)
}
