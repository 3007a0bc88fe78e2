package codegen

import (
	"luac51/ast"
	"luac51/proto"
)

// Boolean condition compilation. goIfFalse compiles e so
// that control falls through to the next instruction when e is true, and
// reaches one of the returned JMPs when e is false; goIfTrue is the mirror
// image. The two are mutually recursive over and/or/not so that `and`/`or`
// short-circuit without ever materializing an intermediate boolean value,
// matching the reference Lua compiler's luaK_goiftrue/luaK_goiffalse.

// compareOp maps a relational operator to the comparison opcode and
// whether the operands must be swapped (for `>`/`>=`, which the VM encodes
// as LE/LT with swapped operands) and whether the sense is inverted (for
// `~=`, encoded as EQ with an inverted expected-result bit).
func compareOp(op string) (opcode proto.Opcode, swap, invert bool) {
	switch op {
	case "==":
		return proto.OpEq, false, false
	case "~=":
		return proto.OpEq, false, true
	case "<":
		return proto.OpLt, false, false
	case ">":
		return proto.OpLt, true, false
	case "<=":
		return proto.OpLe, false, false
	case ">=":
		return proto.OpLe, true, false
	default:
		return 0, false, false
	}
}

// emitCompare emits the comparison opcode for a relational BinaryOp with
// expected-result bit a (0 or 1); the caller must
// immediately follow it with a JMP, per the VM's `if (cond ~= A) then
// pc++` convention: the JMP executes iff cond == a.
func (fs *funcState) emitCompare(v *ast.BinaryOp, a int) {
	opcode, swap, invert := compareOp(v.Op)
	left, right := v.Left, v.Right
	if swap {
		left, right = right, left
	}
	mark := fs.freeReg
	lrk := fs.compileRK(left)
	rrk := fs.compileRK(right)
	if invert {
		a = 1 - a
	}
	fs.proto.Emit(proto.Instruction{Op: opcode, A: a, B: lrk, C: rrk}, v.Line())
	fs.freeTo(mark)
}

func (fs *funcState) goIfFalse(e ast.Expr) []int {
	switch v := e.(type) {
	case *ast.BinaryOp:
		switch v.Op {
		case "and":
			lf := fs.goIfFalse(v.Left)
			rf := fs.goIfFalse(v.Right)
			return append(lf, rf...)
		case "or":
			lt := fs.goIfTrue(v.Left)
			rf := fs.goIfFalse(v.Right)
			fs.patchListHere(lt)
			return rf
		default:
			if isRelational(v.Op) {
				fs.emitCompare(v, 0)
				return []int{fs.emitJump()}
			}
		}
	case *ast.UnaryOp:
		if v.Op == "not" {
			return fs.goIfTrue(v.Operand)
		}
	}
	reg := fs.compileToReg(e)
	fs.proto.Emit(proto.Instruction{Op: proto.OpTest, A: reg, C: 0}, e.Line())
	return []int{fs.emitJump()}
}

func (fs *funcState) goIfTrue(e ast.Expr) []int {
	switch v := e.(type) {
	case *ast.BinaryOp:
		switch v.Op {
		case "or":
			lt := fs.goIfTrue(v.Left)
			rt := fs.goIfTrue(v.Right)
			return append(lt, rt...)
		case "and":
			lf := fs.goIfFalse(v.Left)
			rt := fs.goIfTrue(v.Right)
			fs.patchListHere(lf)
			return rt
		default:
			if isRelational(v.Op) {
				fs.emitCompare(v, 1)
				return []int{fs.emitJump()}
			}
		}
	case *ast.UnaryOp:
		if v.Op == "not" {
			return fs.goIfFalse(v.Operand)
		}
	}
	reg := fs.compileToReg(e)
	fs.proto.Emit(proto.Instruction{Op: proto.OpTest, A: reg, C: 1}, e.Line())
	return []int{fs.emitJump()}
}

func isRelational(op string) bool {
	switch op {
	case "==", "~=", "<", ">", "<=", ">=":
		return true
	default:
		return false
	}
}

// compileToTemp compiles e into a fresh temporary register and returns it,
// for use where a register (not an RK operand) is required.
func (fs *funcState) compileToTemp(e ast.Expr) int {
	r := fs.reserveOne()
	fs.compileExpr(e, r, 1)
	return r
}
