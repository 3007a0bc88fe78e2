package codegen

import "luac51/proto"

// Jump patching: forward jumps are emitted with a sentinel
// offset and recorded by PC; once the destination PC is known the offset
// `target - pc - 1` is written into the JMP's sBx field. Pending-jump lists
// (break targets, and/or chains, if-arm exits) are simple PC-index slices.

// emitJump appends a JMP with a sentinel offset and returns its PC.
func (fs *funcState) emitJump() int {
	return fs.proto.Emit(proto.Instruction{Op: proto.OpJmp, A: 0, Bx: 0}, fs.curLine)
}

// patchJump sets the JMP instruction at pc to target target.
func (fs *funcState) patchJump(pc, target int) {
	i := fs.proto.Code[pc]
	i.Bx = (target - pc - 1) + proto.MaxArgSBx
	fs.proto.Patch(pc, i)
}

// patchList patches every JMP pc in list to target.
func (fs *funcState) patchList(list []int, target int) {
	for _, pc := range list {
		fs.patchJump(pc, target)
	}
}

// patchListHere patches every JMP pc in list to the current PC.
func (fs *funcState) patchListHere(list []int) {
	fs.patchList(list, fs.proto.PC())
}
