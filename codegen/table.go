package codegen

import (
	"luac51/ast"
	"luac51/proto"
)

// fieldsPerFlush is the array-part batch size SETLIST flushes at a time,
// matching the reference Lua compiler's LFIELDS_PER_FLUSH.
const fieldsPerFlush = 50

// compileTable compiles a table constructor into target: positional items
// are buffered in temporary registers and flushed via SETLIST every
// fieldsPerFlush entries (or when a trailing multi-value expression expands
// openly), keyed/named entries are assigned immediately via SETTABLE.
func (fs *funcState) compileTable(t *ast.Table, target int) {
	mark := fs.freeReg
	fs.proto.Emit(proto.Instruction{Op: proto.OpNewTable, A: target}, t.Line())
	fs.proto.ReserveStack(target)

	arrayIdx := 0
	pending := 0
	flushBase := fs.freeReg

	flush := func(open bool) {
		if pending == 0 && !open {
			return
		}
		b := pending
		if open {
			b = 0
		}
		c := arrayIdx/fieldsPerFlush + 1
		fs.proto.Emit(proto.Instruction{Op: proto.OpSetList, A: target, B: b, C: c}, fs.curLine)
		arrayIdx += pending
		pending = 0
		fs.freeTo(flushBase)
	}

	for i, entry := range t.Entries {
		if entry.Key == nil && entry.Name == "" {
			last := i == len(t.Entries)-1
			if last && ast.IsMultiValue(entry.Value) {
				r := fs.reserveOne()
				fs.compileExpr(entry.Value, r, -1)
				pending++
				flush(true)
				continue
			}
			r := fs.reserveOne()
			fs.compileExpr(entry.Value, r, 1)
			pending++
			if pending == fieldsPerFlush {
				flush(false)
			}
			continue
		}

		var key ast.Expr
		if entry.Key != nil {
			key = entry.Key
		} else {
			s := &ast.String{Value: entry.Name}
			key = s
		}
		m2 := fs.freeReg
		keyRK := fs.compileRK(key)
		valRK := fs.compileRK(entry.Value)
		fs.proto.Emit(proto.Instruction{Op: proto.OpSetTable, A: target, B: keyRK, C: valRK}, entry.Value.Line())
		fs.freeTo(m2)
	}
	flush(false)

	fs.freeTo(mark)
	fs.proto.ReserveStack(target)
}
