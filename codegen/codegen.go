// Package codegen walks an ast.Chunk and produces a tree of proto.Prototype
// values containing abstract VM instructions, constants, locals, upvalues
// and nested prototypes. This is the central component
// of the compiler: register allocation, scope/upvalue resolution, the
// expression result protocol, short-circuit boolean evaluation and jump
// patching all live here.
package codegen

import (
	"fmt"

	"luac51/ast"
	"luac51/proto"
)

// CodeGenError is raised when the AST describes a semantically invalid
// program: break outside a loop, too many locals/constants/registers for
// the encoded fields, and similar.
type CodeGenError struct {
	Line int
	Msg  string
}

func (e *CodeGenError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// maxRegisters is the largest register index the ABC instruction fields can
// address that codegen will allow a single function to use (maxStackSize
// must stay within 250 to leave headroom below the 8-bit field's ceiling).
const maxRegisters = 250

// maxUpvalues/maxLocals/maxConstants bound the corresponding proto fields
// to what fits in their encoded operand widths.
const (
	maxUpvalues  = 1 << proto.SizeB
	maxLocals    = maxRegisters
	maxConstants = 1 << proto.SizeBx
)

// activeLocal tracks one active (in-scope) local variable: its name, register,
// and the index of its corresponding proto.Local entry (so EndPC/Captured
// can be updated when the local leaves scope).
type activeLocal struct {
	name    string
	reg     int
	localID int // index into funcState.proto.Locals
}

// loopFrame tracks the break-jump list for one enclosing loop; a break
// statement registers its placeholder jump with the innermost loop frame.
type loopFrame struct {
	parent     *loopFrame
	breakJumps []int
	// scopeBase is the count of active locals when the loop body's scope
	// was entered, used to tell whether a CLOSE is needed on break.
	scopeBase int
}

// scope is one lexical block: entering a block pushes a scope frame,
// leaving it restores locals/registers and closes local ranges.
type scope struct {
	activeBase int // len(funcState.active) at scope entry.
	regBase    int // freeReg at scope entry.
}

// funcState is the per-prototype compilation context. One is pushed per
// nested Function node; upvalue resolution walks the parent chain.
type funcState struct {
	parent *funcState
	proto  *proto.Prototype

	active []activeLocal
	scopes []scope

	freeReg int
	curLine int

	loop *loopFrame

	// upvalCache memoizes name -> upvalue index so repeated references to
	// the same outer binding reuse one descriptor.
	upvalCache map[string]int
}

func newFuncState(parent *funcState) *funcState {
	return &funcState{
		parent:     parent,
		proto:      proto.New(),
		upvalCache: make(map[string]int),
	}
}

// Generate compiles chunk into the root prototype of the program, a vararg
// function with no parameters representing the whole chunk.
func Generate(chunk *ast.Chunk) (p *proto.Prototype, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CodeGenError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	fs := newFuncState(nil)
	fs.proto.IsVararg = true
	fs.proto.Source = "@chunk"
	fs.enterScope()
	fs.compileBlock(chunk.Body)
	fs.leaveScope()
	fs.emitReturn0()
	return fs.proto, nil
}

func (fs *funcState) errorf(line int, format string, args ...interface{}) {
	panic(&CodeGenError{Line: line, Msg: fmt.Sprintf(format, args...)})
}

// emitReturn0 appends a bare `RETURN 0 1` (return zero values) at the end
// of every function body, even one that already ends with an explicit
// return; the real Lua compiler always appends one as a safety net.
func (fs *funcState) emitReturn0() {
	fs.proto.Emit(proto.Instruction{Op: proto.OpReturn, A: 0, B: 1}, fs.proto.LastLineDefined)
}

// ------------------------
// ----- Register file -----
// ------------------------

// reserve allocates n consecutive temporary registers above the current
// free-register mark and returns the first one.
func (fs *funcState) reserve(n int) int {
	r := fs.freeReg
	fs.freeReg += n
	if fs.freeReg > maxRegisters {
		fs.errorf(0, "function uses too many registers (limit %d)", maxRegisters)
	}
	fs.proto.ReserveStack(fs.freeReg - 1)
	return r
}

// reserveOne is reserve(1).
func (fs *funcState) reserveOne() int { return fs.reserve(1) }

// freeTo releases every temporary at or above mark (LIFO), restoring
// freeReg. Locals below mark are untouched.
func (fs *funcState) freeTo(mark int) {
	if mark < fs.freeReg {
		fs.freeReg = mark
	}
}

// ------------------
// ----- Scopes -----
// ------------------

func (fs *funcState) enterScope() {
	fs.scopes = append(fs.scopes, scope{activeBase: len(fs.active), regBase: fs.freeReg})
}

// leaveScope closes every local declared in the scope being popped: it
// records EndPC, emits a CLOSE if any of them were captured by a nested
// closure, and releases their registers.
func (fs *funcState) leaveScope() {
	top := fs.scopes[len(fs.scopes)-1]
	fs.scopes = fs.scopes[:len(fs.scopes)-1]

	closeFrom := -1
	for i := top.activeBase; i < len(fs.active); i++ {
		al := fs.active[i]
		fs.proto.Locals[al.localID].EndPC = fs.proto.PC()
		if fs.proto.Locals[al.localID].Captured {
			if closeFrom == -1 || al.reg < closeFrom {
				closeFrom = al.reg
			}
		}
	}
	if closeFrom != -1 {
		fs.proto.Emit(proto.Instruction{Op: proto.OpClose, A: closeFrom}, fs.curLine)
	}
	fs.active = fs.active[:top.activeBase]
	fs.freeTo(top.regBase)
}
