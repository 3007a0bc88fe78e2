package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"luac51/compiler"
)

func newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "print the token stream of a Lua 5.1 source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			toks, err := compiler.Tokenize(ctx, src)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range toks {
				fmt.Fprintln(out, t.String())
			}
			return nil
		},
	}
}
