package codegen

import (
	"luac51/ast"
	"luac51/proto"
)

// compileExprList compiles a comma-separated expression list into fresh
// consecutive registers starting at the current free-register mark, per
// Lua's multi-value adjustment rule: every expression but the
// last yields exactly one value; the last expands to fill want if it is a
// bare call or `...`, otherwise yields one value padded or truncated to
// want. want == -1 means "as many as the last expression yields" (used for
// call arguments and return); then, if the last expression is a bare call
// or `...`, the returned open is true and count excludes that open-ended
// tail, and otherwise open is false and count is len(exprs).
func (fs *funcState) compileExprList(exprs []ast.Expr, want int) (base, count int, open bool) {
	base = fs.freeReg
	n := len(exprs)
	if n == 0 {
		if want > 0 {
			fs.reserve(want)
			fs.proto.Emit(proto.Instruction{Op: proto.OpLoadNil, A: base, B: base + want - 1}, fs.curLine)
		}
		return base, 0, false
	}

	for i := 0; i < n-1; i++ {
		r := fs.reserveOne()
		fs.compileExpr(exprs[i], r, 1)
	}

	last := exprs[n-1]
	if ast.IsMultiValue(last) {
		r := fs.reserveOne()
		if want < 0 {
			fs.compileExpr(last, r, -1)
			return base, n - 1, true
		}
		remain := want - (n - 1)
		if remain < 0 {
			remain = 0
		}
		fs.compileExpr(last, r, remain)
		// compileExpr wrote `remain` values starting at r, but only one
		// register was reserved above; bring freeReg in line with however
		// many registers the call/vararg actually filled so it lands on
		// base+want, matching what declareLocalAt and generic-for's hidden
		// control registers expect to find there.
		if target := base + want; target > fs.freeReg {
			fs.reserve(target - fs.freeReg)
		} else {
			fs.freeTo(target)
		}
		return base, want, false
	}

	r := fs.reserveOne()
	fs.compileExpr(last, r, 1)
	if want > n {
		padCount := want - n
		padBase := fs.reserve(padCount)
		fs.proto.Emit(proto.Instruction{Op: proto.OpLoadNil, A: padBase, B: padBase + padCount - 1}, fs.curLine)
	}
	if want < 0 {
		return base, n, false
	}
	return base, want, false
}
