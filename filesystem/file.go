package filesystem

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// Seek origins as the engine passes them.
const (
	SeekStart   = 0
	SeekCurrent = 1
	SeekEnd     = 2
)

// File is a read-only host file opened through an Adapter.
// The engine assumes reads and seeks succeed once a file is open, so host
// failures abort.
type File struct {
	f    *os.File
	name string
	size int64
	pos  int64
}

// ObjectType implements handle.Object.
func (f *File) ObjectType() handle.ObjectType {
	return handle.ObjectFile
}

// Name returns the engine path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Size returns the file size at open time.
func (f *File) Size() int64 {
	return f.size
}

// HumanSize returns Size formatted for diagnostics.
func (f *File) HumanSize() string {
	return humanize.IBytes(uint64(f.size))
}

// Position returns the current read offset.
func (f *File) Position() int64 {
	return f.pos
}

// Read fills buf from the current position and returns the byte count.
// Reaching end of file yields a short count, not an error.
func (f *File) Read(buf []byte) int {
	n, err := io.ReadFull(f.f, buf)
	f.pos += int64(n)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		errors.Abort(errors.New(errors.PhaseFilesystem, errors.KindHostIO).
			Call("read").
			Path(f.name).
			Cause(err).
			Detail("read of %d bytes failed", len(buf)).
			Build())
	}
	Logger().Debug("read", zap.String("path", f.name), zap.Int("want", len(buf)), zap.Int("got", n))
	return n
}

// Seek moves the read position and returns the new absolute offset.
// origin is SeekStart, SeekCurrent or SeekEnd.
func (f *File) Seek(offset int64, origin int) int64 {
	if origin < SeekStart || origin > SeekEnd {
		errors.Abort(errors.New(errors.PhaseFilesystem, errors.KindInvalidInput).
			Call("seek").
			Path(f.name).
			Value(origin).
			Detail("invalid seek origin %d", origin).
			Build())
	}
	pos, err := f.f.Seek(offset, origin)
	if err != nil {
		errors.Abort(errors.New(errors.PhaseFilesystem, errors.KindHostIO).
			Call("seek").
			Path(f.name).
			Cause(err).
			Detail("seek to %d from origin %d failed", offset, origin).
			Build())
	}
	f.pos = pos
	Logger().Debug("seek", zap.String("path", f.name), zap.Int64("offset", offset), zap.Int("origin", origin), zap.Int64("pos", pos))
	return pos
}

// Close releases the host file.
func (f *File) Close() error {
	return f.f.Close()
}

// Drop implements handle.Dropper.
func (f *File) Drop() {
	if err := f.f.Close(); err != nil {
		Logger().Warn("close failed", zap.String("path", f.name), zap.Error(err))
	}
}
