//go:build !unix

package hostapi

import "os"

func accessible(path string, _ uint32) bool {
	_, err := os.Stat(path)
	return err == nil
}
