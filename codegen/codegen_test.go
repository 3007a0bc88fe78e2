package codegen

import (
	"testing"

	"luac51/ast"
	"luac51/lexer"
	"luac51/parser"
	"luac51/proto"
)

func generateSource(t *testing.T, src string) *proto.Prototype {
	t.Helper()
	toks, err := lexer.Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	chunk, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	p, err := Generate(chunk)
	if err != nil {
		t.Fatalf("Generate(%q): %v", src, err)
	}
	return p
}

func opSeq(p *proto.Prototype) []proto.Opcode {
	ops := make([]proto.Opcode, len(p.Code))
	for i, in := range p.Code {
		ops[i] = in.Op
	}
	return ops
}

func TestGenerateLocalAssignEndsWithReturn(t *testing.T) {
	p := generateSource(t, `local x = 1`)
	ops := opSeq(p)
	if len(ops) == 0 || ops[len(ops)-1] != proto.OpReturn {
		t.Fatalf("instructions %v should end in RETURN", ops)
	}
	if ops[0] != proto.OpLoadK {
		t.Errorf("first instruction = %v, want LOADK", ops[0])
	}
}

func TestGenerateArithmeticUsesRKConstants(t *testing.T) {
	p := generateSource(t, `return 1 + 2`)
	var add *proto.Instruction
	for i := range p.Code {
		if p.Code[i].Op == proto.OpAdd {
			add = &p.Code[i]
		}
	}
	if add == nil {
		t.Fatalf("no ADD instruction in %v", opSeq(p))
	}
	if !proto.IsRKConst(add.B) || !proto.IsRKConst(add.C) {
		t.Errorf("ADD operands %d, %d should both be RK constants", add.B, add.C)
	}
}

func TestGenerateTableIndexObjectIsPlainRegister(t *testing.T) {
	// t[k] must compile with a plain register for the table operand (B);
	// only the key (C) may be RK-encoded.
	p := generateSource(t, `local t, k = {}, 1
return t[k]`)
	var get *proto.Instruction
	for i := range p.Code {
		if p.Code[i].Op == proto.OpGetTable {
			get = &p.Code[i]
		}
	}
	if get == nil {
		t.Fatalf("no GETTABLE instruction in %v", opSeq(p))
	}
	if proto.IsRKConst(get.B) {
		t.Errorf("GETTABLE's table operand B=%d must not be RK-encoded", get.B)
	}
}

func TestGenerateClosureEmitsUpvaluePseudoInstructions(t *testing.T) {
	p := generateSource(t, `
local x = 1
local function f()
	return x
end
`)
	if len(p.Children) != 1 {
		t.Fatalf("expected 1 child prototype, got %d", len(p.Children))
	}
	child := p.Children[0]
	if len(child.Upvalues) != 1 {
		t.Fatalf("expected 1 upvalue, got %d", len(child.Upvalues))
	}
	if child.Upvalues[0].Kind != proto.UpvalFromLocal {
		t.Errorf("upvalue kind = %v, want UpvalFromLocal", child.Upvalues[0].Kind)
	}

	var closureIdx = -1
	for i, in := range p.Code {
		if in.Op == proto.OpClosure {
			closureIdx = i
		}
	}
	if closureIdx == -1 {
		t.Fatalf("no CLOSURE instruction in %v", opSeq(p))
	}
	if closureIdx+1 >= len(p.Code) || p.Code[closureIdx+1].Op != proto.OpMove {
		t.Errorf("CLOSURE must be immediately followed by a MOVE upvalue pseudo-instruction")
	}
}

func TestGenerateBreakOutsideLoopErrors(t *testing.T) {
	chunk := &ast.Chunk{Body: []ast.Stmt{&ast.Break{}}}
	if _, err := Generate(chunk); err == nil {
		t.Fatal("expected a CodeGenError for break outside a loop")
	}
}

func TestGenerateNumericForEmitsForPrepAndForLoop(t *testing.T) {
	p := generateSource(t, `
for i = 1, 10 do
end
`)
	ops := opSeq(p)
	var hasPrep, hasLoop bool
	for _, op := range ops {
		if op == proto.OpForPrep {
			hasPrep = true
		}
		if op == proto.OpForLoop {
			hasLoop = true
		}
	}
	if !hasPrep || !hasLoop {
		t.Errorf("instructions %v missing FORPREP/FORLOOP", ops)
	}
}

func TestGenerateGenericForEmitsTForLoop(t *testing.T) {
	p := generateSource(t, `
for k, v in pairs(t) do
end
`)
	var hasTForLoop bool
	for _, op := range opSeq(p) {
		if op == proto.OpTForLoop {
			hasTForLoop = true
		}
	}
	if !hasTForLoop {
		t.Errorf("instructions %v missing TFORLOOP", opSeq(p))
	}
}

func TestGenerateMethodCallEmitsSelf(t *testing.T) {
	p := generateSource(t, `obj:m(1)`)
	var hasSelf bool
	for _, op := range opSeq(p) {
		if op == proto.OpSelf {
			hasSelf = true
		}
	}
	if !hasSelf {
		t.Errorf("instructions %v missing SELF for a method call", opSeq(p))
	}
}

func TestGenerateRepeatConditionSeesBodyLocal(t *testing.T) {
	// until's condition referencing a local declared in the loop body must
	// compile without error (the local is still in scope).
	p := generateSource(t, `
repeat
	local done = true
until done
`)
	if len(p.Code) == 0 {
		t.Fatal("expected generated instructions")
	}
}
