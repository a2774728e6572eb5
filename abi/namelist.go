package abi

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
)

// ExportFilenameListInsert adds a NUL-terminated path to an engine
// FilenameList: FilenameList_insert(list, path).
const ExportFilenameListInsert = "FilenameList_insert"

// guestNameList fills an engine-side FilenameList.
type guestNameList struct {
	f      *frame
	list   uint32
	insert api.Function
	alloc  *GuestAllocator
	mem    *GuestMemory
}

func newGuestNameList(f *frame, list uint32) *guestNameList {
	insert := f.mod.ExportedFunction(ExportFilenameListInsert)
	if insert == nil {
		errors.Abort(errors.New(errors.PhaseABI, errors.KindNotFound).
			Call("getFileListInDirectory").
			Detail("engine does not export %s", ExportFilenameListInsert).
			Build())
	}
	return &guestNameList{f: f, list: list, insert: insert, alloc: f.allocator(), mem: f.memory()}
}

// Insert copies name into a temporary engine buffer and hands it to the list,
// which keeps its own copy.
func (l *guestNameList) Insert(name []byte) {
	size := uint32(len(name)) + 1
	ptr, err := l.alloc.Alloc(size, 1)
	if err != nil || ptr == 0 {
		errors.Abort(errors.New(errors.PhaseABI, errors.KindExhausted).
			Call(ExportFilenameListInsert).
			Cause(err).
			Detail("cannot allocate %d bytes for a listing entry", size).
			Build())
	}
	defer l.alloc.Free(ptr, size, 1)

	if err := l.mem.Write(ptr, append(append([]byte(nil), name...), 0)); err != nil {
		errors.Abort(err.(*errors.Error))
	}
	if _, err := l.insert.Call(l.f.ctx, api.EncodeU32(l.list), api.EncodeU32(ptr)); err != nil {
		errors.Abort(errors.New(errors.PhaseABI, errors.KindInstantiation).
			Call(ExportFilenameListInsert).
			Cause(err).
			Detail("guest call failed").
			Build())
	}
}

var _ filesystem.NameList = (*guestNameList)(nil)
