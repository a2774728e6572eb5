package bridge

import (
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// localFileSystem overrides the engine's local file system with the adapter.
type localFileSystem struct {
	fs  *filesystem.Adapter
	log *zap.Logger
}

func (*localFileSystem) ObjectType() handle.ObjectType { return handle.ObjectSubsystem }

func (*localFileSystem) Kind() Kind { return KindLocalFileSystem }

// Init validates the data root. A missing marker is only a warning.
func (l *localFileSystem) Init() {
	l.log.Info("LocalFileSystem.init", zap.String("root", l.fs.Root()), zap.String("marker", l.fs.Marker()))
	l.fs.CheckMarker()
}

func (l *localFileSystem) Update() {
	l.log.Debug("LocalFileSystem.update")
}

func (l *localFileSystem) Reset() {
	l.log.Debug("LocalFileSystem.reset")
}

func (l *localFileSystem) OpenFile(path string) *filesystem.File {
	l.log.Debug("LocalFileSystem.openFile", zap.String("path", path))
	return l.fs.OpenFile(path)
}

func (l *localFileSystem) DoesFileExist(path string) bool {
	ok := l.fs.FileExists(path)
	l.log.Debug("LocalFileSystem.doesFileExist", zap.String("path", path), zap.Bool("exists", ok))
	return ok
}

func (l *localFileSystem) GetFileListInDirectory(currentDir, originalDir, pattern string, list filesystem.NameList, recurse bool) {
	l.log.Debug("LocalFileSystem.getFileListInDirectory",
		zap.String("current", currentDir),
		zap.String("original", originalDir),
		zap.String("pattern", pattern),
		zap.Bool("recurse", recurse))
	l.fs.ListDirectory(currentDir, originalDir, pattern, recurse, list)
}

func (l *localFileSystem) CreateDirectory(path string) bool {
	return l.fs.CreateDirectory(path)
}

func (l *localFileSystem) GetFileInfo(path string) bool {
	return l.fs.GetFileInfo(path)
}
