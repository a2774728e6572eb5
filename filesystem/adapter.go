package filesystem

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// DefaultMarker is the file expected under a valid game-data root.
const DefaultMarker = "INI.big"

// Options configures an Adapter.
type Options struct {
	// Root is the host directory all engine paths resolve against.
	Root string
	// Marker is checked by Init. Empty means DefaultMarker.
	Marker string
	// StrictListing aborts a listing on unreadable entries instead of
	// skipping them.
	StrictListing bool
}

// Adapter serves the engine's local file system calls from a host directory.
type Adapter struct {
	root   string
	marker string
	strict bool
}

// New creates an adapter rooted at opts.Root.
func New(opts Options) *Adapter {
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}
	return &Adapter{
		root:   filepath.Clean(opts.Root),
		marker: marker,
		strict: opts.StrictListing,
	}
}

// Root returns the host directory the adapter serves.
func (a *Adapter) Root() string {
	return a.root
}

// Marker returns the sanity-check marker path.
func (a *Adapter) Marker() string {
	return a.marker
}

// CheckMarker reports whether the sanity-check marker exists under the root.
// A missing marker is logged as a warning; the engine may still partially work.
func (a *Adapter) CheckMarker() bool {
	ok := a.FileExists(a.marker)
	if !ok {
		Logger().Warn("sanity-check marker missing under root",
			zap.String("root", a.root),
			zap.String("marker", a.marker))
	}
	return ok
}

// Resolve maps an engine path to a host path under the root.
// Engine paths use '\'. Absolute paths and paths escaping the root do not
// resolve.
func (a *Adapter) Resolve(rel string) (string, bool) {
	clean, ok := normalize(rel)
	if !ok {
		return "", false
	}
	return filepath.Join(a.root, filepath.FromSlash(clean)), true
}

// normalize converts an engine path to a clean slash-separated relative path.
func normalize(p string) (string, bool) {
	p = strings.ReplaceAll(p, `\`, "/")
	if path.IsAbs(p) || hasVolume(p) {
		return "", false
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

func hasVolume(p string) bool {
	return len(p) >= 2 && p[1] == ':' &&
		(p[0] >= 'a' && p[0] <= 'z' || p[0] >= 'A' && p[0] <= 'Z')
}

// OpenFile opens rel read-only. A file that cannot be opened yields nil and a
// warning; missing optional data is expected.
func (a *Adapter) OpenFile(rel string) *File {
	full, ok := a.Resolve(rel)
	if !ok {
		Logger().Warn("open outside root", zap.String("path", rel))
		return nil
	}

	f, err := os.Open(full)
	if err != nil {
		Logger().Warn("open failed", zap.String("path", rel), zap.Error(err))
		return nil
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		Logger().Warn("open of non-file", zap.String("path", rel), zap.Error(err))
		return nil
	}

	file := &File{f: f, name: rel, size: info.Size()}
	Logger().Debug("openFile", zap.String("path", rel), zap.String("size", file.HumanSize()))
	return file
}

// FileExists reports whether rel names an existing entry under the root.
// The file is never opened.
func (a *Adapter) FileExists(rel string) bool {
	full, ok := a.Resolve(rel)
	if !ok {
		return false
	}
	_, err := os.Stat(full)
	Logger().Debug("doesFileExist", zap.String("path", rel), zap.Bool("exists", err == nil))
	return err == nil
}

// CreateDirectory is not emulated.
func (a *Adapter) CreateDirectory(rel string) bool {
	errors.Abort(unimplemented("createDirectory", rel))
	return false
}

// GetFileInfo is not emulated.
func (a *Adapter) GetFileInfo(rel string) bool {
	errors.Abort(unimplemented("getFileInfo", rel))
	return false
}

// CopyFile is not emulated.
func (a *Adapter) CopyFile(src, dst string) bool {
	errors.Abort(unimplemented("copyFile", src, dst))
	return false
}

// DeleteFile is not emulated.
func (a *Adapter) DeleteFile(rel string) bool {
	errors.Abort(unimplemented("deleteFile", rel))
	return false
}

func unimplemented(call string, paths ...string) *errors.Error {
	return errors.New(errors.PhaseFilesystem, errors.KindUnimplemented).
		Call(call).
		Path(paths...).
		Detail("not implemented").
		Build()
}
