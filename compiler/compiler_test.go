package compiler

import (
	"context"
	"testing"
)

func TestCompileProducesAHeaderedChunk(t *testing.T) {
	out, err := Compile(context.Background(), []byte(`return 1 + 2`))
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(out) < 12 || out[0] != 0x1B || out[1] != 'L' {
		t.Errorf("output does not start with the Lua chunk signature: %v", out[:12])
	}
}

func TestCompileSyntaxErrorStopsBeforeCodegen(t *testing.T) {
	_, err := Compile(context.Background(), []byte(`local = `))
	if err == nil {
		t.Fatal("expected a parse error for malformed syntax")
	}
}

func TestCompileBreakOutsideLoopErrorPropagates(t *testing.T) {
	_, err := Compile(context.Background(), []byte(`break`))
	if err == nil {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestCompileLexErrorPropagates(t *testing.T) {
	_, err := Compile(context.Background(), []byte(`"unterminated`))
	if err == nil {
		t.Fatal("expected a lex error for an unterminated string")
	}
}
