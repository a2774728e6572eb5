package hostapi

import (
	"path"

	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

type findSearch struct {
	pattern string
	matches []filesystem.Match
	next    int
}

func (*findSearch) ObjectType() handle.ObjectType { return handle.ObjectFindSearch }

// FindFirstFile starts a search under the game-data root and fills the first
// WIN32_FIND_DATA. No match returns INVALID_HANDLE_VALUE with
// ERROR_FILE_NOT_FOUND.
func (s *Surface) FindFirstFile(mem shim.Memory, patternPtr, dataPtr uint32) uint32 {
	pattern := readCString(mem, patternPtr)

	var matches []filesystem.Match
	if s.fs != nil {
		matches = s.fs.Glob(pattern)
	}
	s.log.Debug("FindFirstFile", zap.String("pattern", pattern), zap.Int("matches", len(matches)))

	if len(matches) == 0 {
		s.setLastError(ErrorFileNotFound)
		return uint32(handle.InvalidHandleValue)
	}

	search := &findSearch{pattern: pattern, matches: matches, next: 1}
	writeFindData(mem, dataPtr, matches[0])
	return uint32(s.handles.Open(search))
}

// FindNextFile fills the next match. The end of the search returns FALSE with
// ERROR_NO_MORE_FILES.
func (s *Surface) FindNextFile(mem shim.Memory, h, dataPtr uint32) uint32 {
	search := handle.MustLookup[*findSearch](s.handles, handle.Handle(h), "FindNextFile")
	s.log.Debug("FindNextFile", zap.String("pattern", search.pattern), zap.Int("index", search.next))

	if search.next >= len(search.matches) {
		s.setLastError(ErrorNoMoreFiles)
		return False
	}
	writeFindData(mem, dataPtr, search.matches[search.next])
	search.next++
	return True
}

// FindClose ends a search.
func (s *Surface) FindClose(h uint32) uint32 {
	handle.MustLookup[*findSearch](s.handles, handle.Handle(h), "FindClose")
	s.log.Debug("FindClose", zap.Uint32("handle", h))
	return boolResult(s.handles.Close(handle.Handle(h)))
}

// writeFindData fills WIN32_FIND_DATA with the entry's attributes and base name.
func writeFindData(mem shim.Memory, ptr uint32, m filesystem.Match) {
	attrs := uint32(FileAttributeNormal)
	if m.Dir {
		attrs = FileAttributeDirectory
	}
	writeU32(mem, ptr, attrs)

	name := make([]byte, MaxPath)
	registry.CopyCString(name, path.Base(m.Path))
	write(mem, ptr+findDataNameOffset, name)
}
