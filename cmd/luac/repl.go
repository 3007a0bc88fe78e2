package main

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"luac51/compiler"
)

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "tokenize, parse, compile and emit each line as its own chunk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd)
		},
	}
}

func runRepl(cmd *cobra.Command) error {
	rl, err := readline.New("luac> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		chunk, err := compiler.Compile(ctx, []byte(line))
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		fmt.Fprintf(out, "compiled %d bytes\n", len(chunk))
	}
}
