package codegen

import (
	"luac51/ast"
	"luac51/proto"
)

// compileClosure compiles a nested ast.Function into a child Prototype and
// emits CLOSURE target,childIndex followed by one pseudo-instruction per
// upvalue the child captures (MOVE for a parent local, GETUPVAL for a
// parent upvalue), matching the reference Lua compiler's convention that
// the VM interprets those following instructions specially rather than
// executing them.
func (fs *funcState) compileClosure(fn *ast.Function, target int) {
	child := newFuncState(fs)
	child.proto.Source = fs.proto.Source
	child.proto.LineDefined = fn.Line()
	child.proto.NumParams = len(fn.Params)
	child.proto.IsVararg = fn.IsVararg

	child.enterScope()
	for _, p := range fn.Params {
		child.declareLocal(p)
	}
	child.compileBlock(fn.Body)
	child.leaveScope()
	child.emitReturn0()
	child.proto.LastLineDefined = child.curLine

	idx := len(fs.proto.Children)
	fs.proto.Children = append(fs.proto.Children, child.proto)
	fs.proto.Emit(proto.Instruction{Op: proto.OpClosure, A: target, Bx: idx}, fn.Line())
	for _, u := range child.proto.Upvalues {
		switch u.Kind {
		case proto.UpvalFromLocal:
			fs.proto.Emit(proto.Instruction{Op: proto.OpMove, A: 0, B: u.Index}, fn.Line())
		case proto.UpvalFromUpval:
			fs.proto.Emit(proto.Instruction{Op: proto.OpGetUpval, A: 0, B: u.Index}, fn.Line())
		}
	}
	fs.proto.ReserveStack(target)
}
