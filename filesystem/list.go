package filesystem

import (
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// NameList receives listing results. The engine's own list type is filled
// through this interface.
type NameList interface {
	Insert(name []byte)
}

// FilenameList is an ordered, append-only list of paths.
type FilenameList struct {
	names [][]byte
}

// Insert appends name.
func (l *FilenameList) Insert(name []byte) {
	l.names = append(l.names, name)
}

// Names returns the collected paths in insertion order.
func (l *FilenameList) Names() [][]byte {
	return l.names
}

// Strings returns the collected paths as strings.
func (l *FilenameList) Strings() []string {
	out := make([]string, len(l.names))
	for i, n := range l.names {
		out[i] = string(n)
	}
	return out
}

// Len returns the number of paths.
func (l *FilenameList) Len() int {
	return len(l.names)
}

// ListDirectory appends every file under the root matching pattern to list,
// in enumeration order. With recurse set the pattern is matched at any depth.
// Results are root-relative and '/'-separated.
//
// currentDir and originalDir must be empty; rebasing listings onto them is
// not supported.
func (a *Adapter) ListDirectory(currentDir, originalDir, pattern string, recurse bool, list NameList) {
	errors.Assert(currentDir == "", errors.PhaseFilesystem, "getFileListInDirectory",
		"current directory must be empty, got "+currentDir)
	errors.Assert(originalDir == "", errors.PhaseFilesystem, "getFileListInDirectory",
		"original directory must be empty, got "+originalDir)

	glob := strings.ReplaceAll(pattern, `\`, "/")
	if recurse {
		glob = "**/" + glob
	}

	opts := []doublestar.GlobOption{doublestar.WithFilesOnly()}
	if a.strict {
		opts = append(opts, doublestar.WithFailOnIOErrors())
	}

	count := 0
	err := doublestar.GlobWalk(os.DirFS(a.root), glob, func(p string, _ fs.DirEntry) error {
		list.Insert([]byte(p))
		count++
		return nil
	}, opts...)

	switch {
	case err == doublestar.ErrBadPattern:
		Logger().Warn("bad listing pattern", zap.String("pattern", pattern))
	case err != nil:
		errors.Abort(errors.New(errors.PhaseFilesystem, errors.KindHostIO).
			Call("getFileListInDirectory").
			Path(a.root, glob).
			Cause(err).
			Detail("listing failed").
			Build())
	}

	Logger().Debug("getFileListInDirectory",
		zap.String("pattern", pattern),
		zap.Bool("recurse", recurse),
		zap.Int("matches", count))
}

// Match is one entry found by Glob.
type Match struct {
	Path string
	Dir  bool
}

// Glob returns the files and directories under the root matching pattern, in
// enumeration order. Engine separators are accepted. A bad pattern matches
// nothing.
func (a *Adapter) Glob(pattern string) []Match {
	glob := strings.ReplaceAll(pattern, `\`, "/")

	var opts []doublestar.GlobOption
	if a.strict {
		opts = append(opts, doublestar.WithFailOnIOErrors())
	}

	var matches []Match
	err := doublestar.GlobWalk(os.DirFS(a.root), glob, func(p string, d fs.DirEntry) error {
		matches = append(matches, Match{Path: p, Dir: d.IsDir()})
		return nil
	}, opts...)

	switch {
	case err == doublestar.ErrBadPattern:
		Logger().Warn("bad glob pattern", zap.String("pattern", pattern))
	case err != nil:
		errors.Abort(errors.New(errors.PhaseFilesystem, errors.KindHostIO).
			Call("glob").
			Path(a.root, glob).
			Cause(err).
			Detail("glob failed").
			Build())
	}
	return matches
}
