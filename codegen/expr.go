package codegen

import (
	"luac51/ast"
	"luac51/proto"
)

// compileExpr compiles e so that its value(s) land starting at register
// target, per the nresults hint:
//   nresults == 1:  exactly one value at target.
//   nresults == N:  exactly N values starting at target (multi-assign/local init).
//   nresults == -1: all available values (only meaningful for Call/Vararg).
// Every expression other than FunctionCall and Vararg ignores nresults and
// always produces exactly one value.
func (fs *funcState) compileExpr(e ast.Expr, target, nresults int) {
	fs.curLine = e.Line()
	switch v := e.(type) {
	case *ast.Number:
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstNumber, Number: v.Value})
		fs.loadConstant(target, k)
	case *ast.String:
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: v.Value})
		fs.loadConstant(target, k)
	case *ast.Boolean:
		fs.proto.Emit(proto.Instruction{Op: proto.OpLoadBool, A: target, B: boolInt(v.Value), C: 0}, v.Line())
	case *ast.Nil:
		fs.proto.Emit(proto.Instruction{Op: proto.OpLoadNil, A: target, B: target}, v.Line())
	case *ast.Identifier:
		fs.compileIdentifier(v, target)
	case *ast.Index:
		fs.compileIndex(v.Object, v.Key, target, v.Line())
	case *ast.Field:
		key := &ast.String{Value: v.Name}
		key.L = v.Line()
		fs.compileIndex(v.Object, key, target, v.Line())
	case *ast.UnaryOp:
		fs.compileUnary(v, target)
	case *ast.BinaryOp:
		fs.compileBinary(v, target)
	case *ast.FunctionCall:
		fs.compileCall(v, target, nresults)
	case *ast.Vararg:
		n := nresults
		if v.Paren {
			n = 1
		}
		fs.proto.Emit(proto.Instruction{Op: proto.OpVararg, A: target, B: resultsB(n)}, v.Line())
		if n > 0 {
			fs.proto.ReserveStack(target + n - 1)
		}
	case *ast.Function:
		fs.compileClosure(v, target)
	case *ast.Table:
		fs.compileTable(v, target)
	default:
		fs.errorf(e.Line(), "unsupported expression")
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// resultsB converts an nresults value (-1 meaning "all") into the VM's
// B/C "count+1" encoding, where 0 means "all available".
func resultsB(n int) int {
	if n < 0 {
		return 0
	}
	return n + 1
}

// loadConstant emits LOADK target,k directly; the RK-optimization (using
// the constant inline as an operand instead) only applies when the
// constant is consumed as an RK operand by another instruction, handled by
// compileRK, not here.
func (fs *funcState) loadConstant(target, k int) {
	fs.proto.Emit(proto.Instruction{Op: proto.OpLoadK, A: target, Bx: k}, fs.curLine)
}

// compileIdentifier compiles a name reference into target.
func (fs *funcState) compileIdentifier(id *ast.Identifier, target int) {
	r := fs.resolve(id.Name)
	switch r.kind {
	case identLocal:
		if r.reg != target {
			fs.proto.Emit(proto.Instruction{Op: proto.OpMove, A: target, B: r.reg}, id.Line())
		}
	case identUpval:
		fs.proto.Emit(proto.Instruction{Op: proto.OpGetUpval, A: target, B: r.idx}, id.Line())
	case identGlobal:
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: id.Name})
		fs.proto.Emit(proto.Instruction{Op: proto.OpGetGlobal, A: target, Bx: k}, id.Line())
	}
}

// compileIndex compiles `object[key]` into target.
func (fs *funcState) compileIndex(object, key ast.Expr, target, line int) {
	mark := fs.freeReg
	objReg := fs.compileToReg(object)
	keyRK := fs.compileRK(key)
	fs.proto.Emit(proto.Instruction{Op: proto.OpGetTable, A: target, B: objReg, C: keyRK}, line)
	fs.freeTo(mark)
	fs.proto.ReserveStack(target)
}

// compileToReg compiles e into a plain register (never an RK-encoded
// constant), for operands such as GETTABLE/SETTABLE's table field that the
// encoding does not allow to be a constant-pool reference. A local
// identifier resolves to its own register with no MOVE; anything else is
// compiled into a fresh temporary.
func (fs *funcState) compileToReg(e ast.Expr) int {
	if id, ok := e.(*ast.Identifier); ok {
		if r := fs.resolve(id.Name); r.kind == identLocal {
			return r.reg
		}
	}
	return fs.compileToTemp(e)
}

// compileRK compiles e into an RK operand: a register-or-constant index
// suitable for an instruction's B/C field. Identifiers
// bound to locals are referenced directly without a MOVE; small literal
// constants are interned and referenced directly without a LOADK; anything
// else is compiled into a fresh temporary register.
func (fs *funcState) compileRK(e ast.Expr) int {
	switch v := e.(type) {
	case *ast.Identifier:
		r := fs.resolve(v.Name)
		if r.kind == identLocal {
			return proto.RKReg(r.reg)
		}
	case *ast.Number:
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstNumber, Number: v.Value})
		if k < 256 {
			return proto.RKConst(k)
		}
	case *ast.String:
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: v.Value})
		if k < 256 {
			return proto.RKConst(k)
		}
	}
	r := fs.reserveOne()
	fs.compileExpr(e, r, 1)
	return proto.RKReg(r)
}

// compileUnary compiles `not`/`#`/`-` into target.
func (fs *funcState) compileUnary(v *ast.UnaryOp, target int) {
	mark := fs.freeReg
	r := fs.compileToReg(v.Operand)
	var op proto.Opcode
	switch v.Op {
	case "not":
		op = proto.OpNot
	case "#":
		op = proto.OpLen
	case "-":
		op = proto.OpUnm
	default:
		fs.errorf(v.Line(), "unknown unary operator %q", v.Op)
	}
	fs.proto.Emit(proto.Instruction{Op: op, A: target, B: r}, v.Line())
	fs.freeTo(mark)
	fs.proto.ReserveStack(target)
}

// arithOpcodes maps arithmetic/concat operators to their opcode.
var arithOpcodes = map[string]proto.Opcode{
	"+": proto.OpAdd, "-": proto.OpSub, "*": proto.OpMul,
	"/": proto.OpDiv, "%": proto.OpMod, "^": proto.OpPow,
}

// compileBinary compiles a BinaryOp used as a value (not a pure condition).
// and/or short-circuit over target itself: the left
// operand is placed directly in target, then a TEST instruction skips
// evaluating (and overwriting with) the right operand when the left's
// truthiness already decides the result.
func (fs *funcState) compileBinary(v *ast.BinaryOp, target int) {
	switch v.Op {
	case "and":
		fs.compileExpr(v.Left, target, 1)
		fs.proto.Emit(proto.Instruction{Op: proto.OpTest, A: target, C: 0}, v.Line())
		skip := fs.emitJump()
		fs.compileExpr(v.Right, target, 1)
		fs.patchListHere([]int{skip})
		return
	case "or":
		fs.compileExpr(v.Left, target, 1)
		fs.proto.Emit(proto.Instruction{Op: proto.OpTest, A: target, C: 1}, v.Line())
		skip := fs.emitJump()
		fs.compileExpr(v.Right, target, 1)
		fs.patchListHere([]int{skip})
		return
	case "..":
		fs.compileConcat(v, target)
		return
	}
	if isRelational(v.Op) {
		fs.compileRelationalValue(v, target)
		return
	}
	op, ok := arithOpcodes[v.Op]
	if !ok {
		fs.errorf(v.Line(), "unknown binary operator %q", v.Op)
	}
	mark := fs.freeReg
	lrk := fs.compileRK(v.Left)
	rrk := fs.compileRK(v.Right)
	fs.proto.Emit(proto.Instruction{Op: op, A: target, B: lrk, C: rrk}, v.Line())
	fs.freeTo(mark)
	fs.proto.ReserveStack(target)
}

// compileRelationalValue materializes a comparison's boolean result into
// target using the JMP-then-LOADBOOL skip pattern.
func (fs *funcState) compileRelationalValue(v *ast.BinaryOp, target int) {
	fs.emitCompare(v, 1) // jump when true
	jmp := fs.emitJump()
	falsePC := fs.proto.Emit(proto.Instruction{Op: proto.OpLoadBool, A: target, B: 0, C: 1}, v.Line())
	fs.proto.Emit(proto.Instruction{Op: proto.OpLoadBool, A: target, B: 1, C: 0}, v.Line())
	fs.patchJump(jmp, falsePC+1)
	fs.proto.ReserveStack(target)
}

// compileConcat flattens a right-leaning chain of `..` into one run of
// operands compiled into consecutive registers and emits a single CONCAT
// spanning them.
func (fs *funcState) compileConcat(v *ast.BinaryOp, target int) {
	var operands []ast.Expr
	var flatten func(e ast.Expr)
	flatten = func(e ast.Expr) {
		if b, ok := e.(*ast.BinaryOp); ok && b.Op == ".." {
			flatten(b.Left)
			flatten(b.Right)
			return
		}
		operands = append(operands, e)
	}
	flatten(v)

	mark := fs.freeReg
	base := fs.reserve(len(operands))
	for i, e := range operands {
		fs.compileExpr(e, base+i, 1)
	}
	fs.proto.Emit(proto.Instruction{Op: proto.OpConcat, A: target, B: base, C: base + len(operands) - 1}, v.Line())
	fs.freeTo(mark)
	fs.proto.ReserveStack(target)
}
