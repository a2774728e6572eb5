//go:build !linux

package hostapi

import "os"

func currentThreadID() uint32 {
	return uint32(os.Getpid())
}
