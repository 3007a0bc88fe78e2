package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"luac51/compiler"
	"luac51/proto"
)

func newDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file>",
		Short: "disassemble a Lua 5.1 source file's compiled instructions",
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
			chunk, err := compiler.Parse(ctx, toks)
			if err != nil {
				return err
			}
			p, err := compiler.Generate(ctx, chunk)
			if err != nil {
				return err
			}
			dumpPrototype(cmd.OutOrStdout(), p, 0)
			return nil
		},
	}
}

func dumpPrototype(w io.Writer, p *proto.Prototype, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s%s\n", indent, p)
	for pc, ins := range p.Code {
		fmt.Fprintf(w, "%s  %4d  %-10s A=%-4d B=%-4d C=%-4d Bx=%-6d  ; line %d\n",
			indent, pc, ins.Op, ins.A, ins.B, ins.C, ins.Bx, p.Lines[pc])
	}
	for _, child := range p.Children {
		dumpPrototype(w, child, depth+1)
	}
}
