// Command luac is a CLI around package compiler: build compiles a Lua 5.1
// source file to a binary chunk, dump prints the instructions compiled from
// a source file, tokens prints the
// token stream, and repl runs an interactive line-oriented session. The
// command tree is grounded in 256lights-zb/cmd/zb's one-subcommand-per-
// file cobra layout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"luac51/internal/clog"
	"luac51/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:           "luac",
		Short:         "Lua 5.1 source-to-bytecode compiler",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "show debug-level compiler logging")
	configPath := root.PersistentFlags().String("config", "luac.jsonc", "`path` to a hujson project config file")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		if *verbose {
			cfg.Verbose = true
		}
		clog.SetVerbose(cfg.Verbose)
		return nil
	}

	root.AddCommand(
		newBuildCommand(),
		newDumpCommand(),
		newTokensCommand(),
		newReplCommand(),
	)

	ctx := context.Background()
	if err := root.ExecuteContext(ctx); err != nil {
		clog.Errorf(ctx, "%v", err)
		fmt.Fprintln(os.Stderr, "luac:", err)
		os.Exit(1)
	}
}
