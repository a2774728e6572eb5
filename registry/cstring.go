package registry

// CopyCString copies s into dst as a NUL-terminated string.
// At most len(dst)-1 bytes of s are written followed by a zero byte. The
// return value is the number of bytes written excluding the terminator. A
// zero-length dst is left untouched and 0 is returned.
func CopyCString(dst []byte, s string) int {
	if len(dst) == 0 {
		return 0
	}
	n := copy(dst[:len(dst)-1], s)
	dst[n] = 0
	return n
}
