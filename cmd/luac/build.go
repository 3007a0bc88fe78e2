package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"luac51/compiler"
)

func newBuildCommand() *cobra.Command {
	var outDir string
	c := &cobra.Command{
		Use:   "build <file...>",
		Short: "compile one or more Lua 5.1 source files to binary chunks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// One input file per goroutine: each owns a fresh compiler.Compile
			// call, so no state is shared between compilations.
			g, gctx := errgroup.WithContext(ctx)
			for _, path := range args {
				path := path
				g.Go(func() error {
					src, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					out, err := compiler.Compile(gctx, src)
					if err != nil {
						return err
					}
					dest := outputPath(outDir, path)
					return os.WriteFile(dest, out, 0o644)
				})
			}
			return g.Wait()
		},
	}
	c.Flags().StringVarP(&outDir, "out", "o", "", "directory to write .luac files to (defaults alongside the source)")
	return c
}

func outputPath(outDir, srcPath string) string {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath)) + ".luac"
	if outDir == "" {
		return filepath.Join(filepath.Dir(srcPath), base)
	}
	return filepath.Join(outDir, base)
}
