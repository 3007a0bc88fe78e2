package codegen

import (
	"luac51/ast"
	"luac51/proto"
)

// compileCall compiles a function or method call with its function (and,
// for a method call, its implicit self argument) occupying register
// target. `obj:m(args)` desugars to a SELF instruction. nresults follows the same convention as
// compileExpr: -1 means "all results", 0 discards them, N keeps exactly N
// starting at target. The arguments follow the function in the registers
// above it, so a single-result call aimed at a register below the
// free-register mark is built at the top of the stack and then moved into
// target.
func (fs *funcState) compileCall(call *ast.FunctionCall, target, nresults int) {
	if nresults == 1 && target < fs.freeReg-1 {
		mark := fs.freeReg
		tmp := fs.reserveOne()
		fs.compileCall(call, tmp, 1)
		fs.proto.Emit(proto.Instruction{Op: proto.OpMove, A: target, B: tmp}, call.Line())
		fs.freeTo(mark)
		return
	}
	base := target
	fs.compileExpr(call.Callee, base, 1)

	nargs := 0
	if call.IsMethod {
		methodKey := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: call.Method})
		fs.proto.Emit(proto.Instruction{Op: proto.OpSelf, A: base, B: base, C: proto.RKConst(methodKey)}, call.Line())
		fs.reserveOne() // self argument, now at base+1
		nargs++
	}

	_, count, open := fs.compileExprList(call.Args, -1)
	nargs += count

	var b int
	if open {
		b = 0
	} else {
		b = nargs + 1
	}
	fs.proto.Emit(proto.Instruction{Op: proto.OpCall, A: base, B: b, C: resultsB(nresults)}, call.Line())

	if nresults >= 0 {
		fs.freeTo(base + nresults)
		if nresults > 0 {
			fs.proto.ReserveStack(base + nresults - 1)
		}
	}
}
