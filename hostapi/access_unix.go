//go:build unix

package hostapi

import "golang.org/x/sys/unix"

func accessible(path string, mode uint32) bool {
	return unix.Access(path, mode) == nil
}
