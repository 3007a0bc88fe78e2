package codegen

import (
	"luac51/ast"
	"luac51/proto"
)

// compileBlock compiles a statement list in sequence. Callers are
// responsible for entering/leaving the enclosing scope.
func (fs *funcState) compileBlock(stmts []ast.Stmt) {
	for _, s := range stmts {
		fs.compileStmt(s)
	}
}

func (fs *funcState) compileStmt(s ast.Stmt) {
	fs.curLine = s.Line()
	switch v := s.(type) {
	case *ast.LocalAssign:
		fs.compileLocalAssign(v)
	case *ast.Assign:
		fs.compileAssign(v)
	case *ast.If:
		fs.compileIf(v)
	case *ast.While:
		fs.compileWhile(v)
	case *ast.Repeat:
		fs.compileRepeat(v)
	case *ast.NumericFor:
		fs.compileNumericFor(v)
	case *ast.GenericFor:
		fs.compileGenericFor(v)
	case *ast.Return:
		fs.compileReturn(v)
	case *ast.Break:
		fs.compileBreak(v)
	case *ast.Do:
		fs.enterScope()
		fs.compileBlock(v.Body)
		fs.leaveScope()
	case *ast.FunctionCallStmt:
		mark := fs.freeReg
		r := fs.reserveOne()
		fs.compileExpr(v.Call, r, 0)
		fs.freeTo(mark)
	case *ast.LocalFunction:
		fs.compileLocalFunction(v)
	case *ast.FunctionDecl:
		fs.compileFunctionDecl(v)
	default:
		fs.errorf(s.Line(), "unsupported statement")
	}
}

func (fs *funcState) compileLocalAssign(v *ast.LocalAssign) {
	base, _, _ := fs.compileExprList(v.Exprs, len(v.Names))
	for i, name := range v.Names {
		fs.declareLocalAt(name, base+i)
	}
}

// assignTarget is a resolved, side-effect-already-emitted store location
// for one Assign LValue; object/key sub-expressions are evaluated before
// the right-hand side, matching the reference compiler's left-to-right
// evaluation.
type assignTarget struct {
	kind   identKind
	local  int // register, when kind == identLocal
	upval  int // index, when kind == identUpval
	global string
	objReg int // register, when kind == identIndex (table index; sentinel kind defined below)
	keyRK  int
}

const identIndex identKind = 99

func (fs *funcState) resolveAssignTarget(lv ast.Expr) assignTarget {
	switch e := lv.(type) {
	case *ast.Identifier:
		r := fs.resolve(e.Name)
		switch r.kind {
		case identLocal:
			return assignTarget{kind: identLocal, local: r.reg}
		case identUpval:
			return assignTarget{kind: identUpval, upval: r.idx}
		default:
			return assignTarget{kind: identGlobal, global: e.Name}
		}
	case *ast.Index:
		objReg := fs.compileToReg(e.Object)
		keyRK := fs.compileRK(e.Key)
		return assignTarget{kind: identIndex, objReg: objReg, keyRK: keyRK}
	case *ast.Field:
		objReg := fs.compileToReg(e.Object)
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: e.Name})
		return assignTarget{kind: identIndex, objReg: objReg, keyRK: proto.RKConst(k)}
	default:
		fs.errorf(lv.Line(), "cannot assign to this expression")
		return assignTarget{}
	}
}

func (fs *funcState) storeAssignTarget(t assignTarget, valReg int, line int) {
	switch t.kind {
	case identLocal:
		if t.local != valReg {
			fs.proto.Emit(proto.Instruction{Op: proto.OpMove, A: t.local, B: valReg}, line)
		}
	case identUpval:
		fs.proto.Emit(proto.Instruction{Op: proto.OpSetUpval, A: valReg, B: t.upval}, line)
	case identGlobal:
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: t.global})
		fs.proto.Emit(proto.Instruction{Op: proto.OpSetGlobal, A: valReg, Bx: k}, line)
	case identIndex:
		fs.proto.Emit(proto.Instruction{Op: proto.OpSetTable, A: t.objReg, B: t.keyRK, C: proto.RKReg(valReg)}, line)
	}
}

func (fs *funcState) compileAssign(v *ast.Assign) {
	mark := fs.freeReg
	targets := make([]assignTarget, len(v.LValues))
	for i, lv := range v.LValues {
		targets[i] = fs.resolveAssignTarget(lv)
	}
	base, _, _ := fs.compileExprList(v.Exprs, len(v.LValues))
	for i := len(targets) - 1; i >= 0; i-- {
		fs.storeAssignTarget(targets[i], base+i, v.Line())
	}
	fs.freeTo(mark)
}

func (fs *funcState) compileIf(v *ast.If) {
	var exitJumps []int
	for i, clause := range v.Clauses {
		falseJumps := fs.goIfFalse(clause.Cond)
		fs.enterScope()
		fs.compileBlock(clause.Body)
		fs.leaveScope()
		if i < len(v.Clauses)-1 || v.ElseBody != nil {
			exitJumps = append(exitJumps, fs.emitJump())
		}
		fs.patchListHere(falseJumps)
	}
	if v.ElseBody != nil {
		fs.enterScope()
		fs.compileBlock(v.ElseBody)
		fs.leaveScope()
	}
	fs.patchListHere(exitJumps)
}

func (fs *funcState) compileWhile(v *ast.While) {
	startPC := fs.proto.PC()
	falseJumps := fs.goIfFalse(v.Cond)

	loop := &loopFrame{parent: fs.loop, scopeBase: len(fs.active)}
	fs.loop = loop
	fs.enterScope()
	fs.compileBlock(v.Body)
	fs.leaveScope()
	back := fs.emitJump()
	fs.patchJump(back, startPC)

	fs.patchListHere(falseJumps)
	fs.patchListHere(loop.breakJumps)
	fs.loop = loop.parent
}

func (fs *funcState) compileRepeat(v *ast.Repeat) {
	startPC := fs.proto.PC()
	loop := &loopFrame{parent: fs.loop, scopeBase: len(fs.active)}
	fs.loop = loop
	fs.enterScope()
	fs.compileBlock(v.Body)
	// until's condition is compiled inside the body's scope, so it can see
	// locals declared in the loop body.
	falseJumps := fs.goIfFalse(v.Cond)
	fs.patchList(falseJumps, startPC)
	fs.leaveScope()

	fs.patchListHere(loop.breakJumps)
	fs.loop = loop.parent
}

func (fs *funcState) compileNumericFor(v *ast.NumericFor) {
	mark := fs.freeReg
	base := fs.reserve(3)
	fs.compileExpr(v.Start, base, 1)
	fs.compileExpr(v.Stop, base+1, 1)
	if v.Step != nil {
		fs.compileExpr(v.Step, base+2, 1)
	} else {
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstNumber, Number: 1})
		fs.loadConstant(base+2, k)
	}

	prepPC := fs.proto.Emit(proto.Instruction{Op: proto.OpForPrep, A: base, Bx: 0}, v.Line())

	loop := &loopFrame{parent: fs.loop, scopeBase: len(fs.active)}
	fs.loop = loop
	fs.enterScope()
	loopVar := fs.reserveOne()
	fs.declareLocalAt(v.Name, loopVar)
	bodyStart := fs.proto.PC()
	fs.compileBlock(v.Body)
	fs.leaveScope()

	loopPC := fs.proto.Emit(proto.Instruction{Op: proto.OpForLoop, A: base, Bx: 0}, v.Line())
	fs.patchJump(prepPC, loopPC)
	fs.patchJump(loopPC, bodyStart)

	fs.patchListHere(loop.breakJumps)
	fs.loop = loop.parent
	fs.freeTo(mark)
}

func (fs *funcState) compileGenericFor(v *ast.GenericFor) {
	mark := fs.freeReg
	base, _, _ := fs.compileExprList(v.Exprs, 3)
	jmpPC := fs.emitJump()

	loop := &loopFrame{parent: fs.loop, scopeBase: len(fs.active)}
	fs.loop = loop
	fs.enterScope()
	varsBase := fs.reserve(len(v.Names))
	for i, name := range v.Names {
		fs.declareLocalAt(name, varsBase+i)
	}
	bodyStart := fs.proto.PC()
	fs.compileBlock(v.Body)
	fs.leaveScope()

	fs.patchListHere([]int{jmpPC})
	fs.proto.Emit(proto.Instruction{Op: proto.OpTForLoop, A: base, C: len(v.Names)}, v.Line())
	backPC := fs.emitJump()
	fs.patchJump(backPC, bodyStart)

	fs.patchListHere(loop.breakJumps)
	fs.loop = loop.parent
	fs.freeTo(mark)
}

func (fs *funcState) compileReturn(v *ast.Return) {
	if len(v.Exprs) == 0 {
		fs.proto.Emit(proto.Instruction{Op: proto.OpReturn, A: 0, B: 1}, v.Line())
		return
	}
	mark := fs.freeReg
	base, count, open := fs.compileExprList(v.Exprs, -1)
	b := count + 1
	if open {
		b = 0
	}
	fs.proto.Emit(proto.Instruction{Op: proto.OpReturn, A: base, B: b}, v.Line())
	fs.freeTo(mark)
}

func (fs *funcState) compileBreak(v *ast.Break) {
	if fs.loop == nil {
		fs.errorf(v.Line(), "break outside a loop")
	}
	// The jump skips the loop body's scope exit, so any captured local
	// declared inside the loop is closed here first.
	closeFrom := -1
	for _, al := range fs.active[fs.loop.scopeBase:] {
		if fs.proto.Locals[al.localID].Captured && (closeFrom == -1 || al.reg < closeFrom) {
			closeFrom = al.reg
		}
	}
	if closeFrom != -1 {
		fs.proto.Emit(proto.Instruction{Op: proto.OpClose, A: closeFrom}, v.Line())
	}
	fs.loop.breakJumps = append(fs.loop.breakJumps, fs.emitJump())
}

func (fs *funcState) compileLocalFunction(v *ast.LocalFunction) {
	reg := fs.declareLocal(v.Name)
	fs.compileClosure(v.Fn, reg)
}

func (fs *funcState) compileFunctionDecl(v *ast.FunctionDecl) {
	if len(v.DottedName) == 1 {
		mark := fs.freeReg
		reg := fs.reserveOne()
		fs.compileClosure(v.Fn, reg)
		t := fs.resolveAssignTarget(&ast.Identifier{Name: v.DottedName[0]})
		fs.storeAssignTarget(t, reg, v.Line())
		fs.freeTo(mark)
		return
	}

	mark := fs.freeReg
	objReg := fs.compileToReg(&ast.Identifier{Name: v.DottedName[0]})
	for i := 1; i < len(v.DottedName)-1; i++ {
		k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: v.DottedName[i]})
		next := fs.reserveOne()
		fs.proto.Emit(proto.Instruction{Op: proto.OpGetTable, A: next, B: objReg, C: proto.RKConst(k)}, v.Line())
		objReg = next
	}
	lastName := v.DottedName[len(v.DottedName)-1]
	valReg := fs.reserveOne()
	fs.compileClosure(v.Fn, valReg)
	k := fs.proto.AddConstant(proto.Constant{Kind: proto.ConstString, String: lastName})
	fs.proto.Emit(proto.Instruction{Op: proto.OpSetTable, A: objReg, B: proto.RKConst(k), C: proto.RKReg(valReg)}, v.Line())
	fs.freeTo(mark)
}
