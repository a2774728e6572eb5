package hostapi

import (
	stderrors "errors"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

// maxCString bounds NUL-terminated reads from guest memory.
const maxCString = 1 << 20

// check aborts on a guest memory fault.
func check(err error) {
	if err == nil {
		return
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		errors.Abort(e)
	}
	errors.Abort(errors.Wrap(errors.PhaseHost, errors.KindOutOfBounds, err, "guest memory access"))
}

func read(mem shim.Memory, ptr, n uint32) []byte {
	b, err := mem.Read(ptr, n)
	check(err)
	return b
}

func write(mem shim.Memory, ptr uint32, b []byte) {
	check(mem.Write(ptr, b))
}

func readU32(mem shim.Memory, ptr uint32) uint32 {
	v, err := mem.ReadU32(ptr)
	check(err)
	return v
}

func writeU16(mem shim.Memory, ptr uint32, v uint16) {
	check(mem.WriteU16(ptr, v))
}

func writeU32(mem shim.Memory, ptr uint32, v uint32) {
	check(mem.WriteU32(ptr, v))
}

func writeU64(mem shim.Memory, ptr uint32, v uint64) {
	check(mem.WriteU64(ptr, v))
}

// readCString reads a NUL-terminated string. A NULL pointer reads as "".
func readCString(mem shim.Memory, ptr uint32) string {
	if ptr == 0 {
		return ""
	}
	var b []byte
	for i := uint32(0); i < maxCString; i++ {
		c, err := mem.ReadU8(ptr + i)
		check(err)
		if c == 0 {
			return string(b)
		}
		b = append(b, c)
	}
	errors.Abort(errors.New(errors.PhaseHost, errors.KindInvalidInput).
		Value(ptr).
		Detail("unterminated string at 0x%x", ptr).
		Build())
	return ""
}

// writeCString writes s into a guest buffer of the given capacity, truncating
// to capacity-1 bytes and terminating. Only the bytes written are touched.
// Returns the length written excluding the terminator.
func writeCString(mem shim.Memory, ptr, capacity uint32, s string) uint32 {
	if capacity == 0 {
		return 0
	}
	if limit := uint32(len(s)) + 1; capacity > limit {
		capacity = limit
	}
	buf := make([]byte, capacity)
	n := registry.CopyCString(buf, s)
	write(mem, ptr, buf[:n+1])
	return uint32(n)
}

// ReadCString reads a NUL-terminated guest string for other host modules.
// A memory fault aborts.
func ReadCString(mem shim.Memory, ptr uint32) string {
	return readCString(mem, ptr)
}
