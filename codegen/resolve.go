package codegen

import "luac51/proto"

// identKind classifies where an identifier resolves to: a local register,
// an upvalue, or a global.
type identKind int

const (
	identLocal identKind = iota
	identUpval
	identGlobal
)

// resolved is the result of resolving an ast.Identifier.
type resolved struct {
	kind identKind
	reg  int // Valid when kind == identLocal.
	idx  int // Valid when kind == identUpval.
	name string
}

// declareLocal allocates a register for a new local named name, active
// from the current PC, and returns its register. Locals occupy fixed
// registers for their entire scope.
func (fs *funcState) declareLocal(name string) int {
	reg := fs.reserveOne()
	fs.proto.Locals = append(fs.proto.Locals, proto.Local{
		Name:    name,
		Reg:     reg,
		StartPC: fs.proto.PC(),
		EndPC:   -1,
	})
	if len(fs.proto.Locals) > maxLocals {
		fs.errorf(fs.curLine, "too many locals (limit %d)", maxLocals)
	}
	fs.active = append(fs.active, activeLocal{name: name, reg: reg, localID: len(fs.proto.Locals) - 1})
	return reg
}

// declareLocalAt binds name to an already-reserved register reg (used when
// the register was reserved as part of evaluating the local's initializer,
// e.g. by compileExprList), without reserving a new one.
func (fs *funcState) declareLocalAt(name string, reg int) {
	fs.proto.Locals = append(fs.proto.Locals, proto.Local{
		Name:    name,
		Reg:     reg,
		StartPC: fs.proto.PC(),
		EndPC:   -1,
	})
	if len(fs.proto.Locals) > maxLocals {
		fs.errorf(fs.curLine, "too many locals (limit %d)", maxLocals)
	}
	fs.active = append(fs.active, activeLocal{name: name, reg: reg, localID: len(fs.proto.Locals) - 1})
}

// findLocal searches this function's currently active locals, innermost
// (most recently declared) first, so a shadowing declaration wins.
func (fs *funcState) findLocal(name string) (int, bool) {
	for i := len(fs.active) - 1; i >= 0; i-- {
		if fs.active[i].name == name {
			return fs.active[i].reg, true
		}
	}
	return -1, false
}

// markCaptured flags the active local occupying reg (the most recent one,
// consistent with findLocal) as captured by a nested closure, so scope
// exit knows to emit CLOSE.
func (fs *funcState) markCaptured(reg int) {
	for i := len(fs.active) - 1; i >= 0; i-- {
		if fs.active[i].reg == reg {
			fs.proto.Locals[fs.active[i].localID].Captured = true
			return
		}
	}
}

// resolveUpval resolves name to an upvalue of fs, walking enclosing
// prototypes outward and appending a descriptor to every intermediate
// prototype on the chain. Results are memoized per funcState so repeated
// references reuse the same index.
func resolveUpval(fs *funcState, name string) (int, bool) {
	if idx, ok := fs.upvalCache[name]; ok {
		return idx, true
	}
	if fs.parent == nil {
		return -1, false
	}
	if reg, ok := fs.parent.findLocal(name); ok {
		fs.parent.markCaptured(reg)
		idx := addUpvalue(fs, proto.Upvalue{Name: name, Kind: proto.UpvalFromLocal, Index: reg})
		return idx, true
	}
	if pidx, ok := resolveUpval(fs.parent, name); ok {
		idx := addUpvalue(fs, proto.Upvalue{Name: name, Kind: proto.UpvalFromUpval, Index: pidx})
		return idx, true
	}
	return -1, false
}

func addUpvalue(fs *funcState, u proto.Upvalue) int {
	fs.proto.Upvalues = append(fs.proto.Upvalues, u)
	if len(fs.proto.Upvalues) > maxUpvalues {
		fs.errorf(fs.curLine, "too many upvalues (limit %d)", maxUpvalues)
	}
	idx := len(fs.proto.Upvalues) - 1
	fs.upvalCache[u.Name] = idx
	return idx
}

// resolve resolves an identifier name to a local, upvalue, or global.
func (fs *funcState) resolve(name string) resolved {
	if reg, ok := fs.findLocal(name); ok {
		return resolved{kind: identLocal, reg: reg, name: name}
	}
	if idx, ok := resolveUpval(fs, name); ok {
		return resolved{kind: identUpval, idx: idx, name: name}
	}
	return resolved{kind: identGlobal, name: name}
}
