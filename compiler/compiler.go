// Package compiler wires the four pipeline stages into a convenience
// entry point: tokenize, parse, generate, emit, threading a fresh context
// through each call. No state is shared between compilation runs.
package compiler

import (
	"context"

	"luac51/ast"
	"luac51/codegen"
	"luac51/emitter"
	"luac51/internal/clog"
	"luac51/lexer"
	"luac51/parser"
	"luac51/proto"
	"luac51/token"
)

// Tokenize is stage A/B: source bytes to a token stream.
func Tokenize(ctx context.Context, source []byte) ([]token.Token, error) {
	clog.Debugf(ctx, "tokenizing %d bytes", len(source))
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	clog.Debugf(ctx, "tokenized %d tokens", len(toks))
	return toks, nil
}

// Parse is stage C/D: tokens to an AST.
func Parse(ctx context.Context, toks []token.Token) (*ast.Chunk, error) {
	clog.Debugf(ctx, "parsing %d tokens", len(toks))
	chunk, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}
	clog.Debugf(ctx, "parsed %d top-level statements", len(chunk.Body))
	return chunk, nil
}

// Generate is stage F: AST to a prototype tree.
func Generate(ctx context.Context, chunk *ast.Chunk) (*proto.Prototype, error) {
	clog.Debugf(ctx, "generating code")
	p, err := codegen.Generate(chunk)
	if err != nil {
		return nil, err
	}
	clog.Debugf(ctx, "generated %s", p)
	return p, nil
}

// Emit is stage G: a prototype tree to binary chunk bytes.
func Emit(ctx context.Context, p *proto.Prototype) []byte {
	clog.Debugf(ctx, "emitting binary chunk")
	return emitter.Emit(p)
}

// Compile runs the full pipeline, returning the first stage error
// encountered: first-error-wins, no partial bytecode.
func Compile(ctx context.Context, source []byte) ([]byte, error) {
	clog.Infof(ctx, "compiling %d bytes", len(source))
	toks, err := Tokenize(ctx, source)
	if err != nil {
		return nil, err
	}
	chunk, err := Parse(ctx, toks)
	if err != nil {
		return nil, err
	}
	p, err := Generate(ctx, chunk)
	if err != nil {
		return nil, err
	}
	return Emit(ctx, p), nil
}
