package abi

import (
	"github.com/tetratelabs/wazero/api"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// GuestMemory adapts the engine's linear memory to shim.Memory.
// Accesses outside the memory return an out-of-bounds *errors.Error.
type GuestMemory struct {
	mem api.Memory
}

// NewGuestMemory wraps mem.
func NewGuestMemory(mem api.Memory) *GuestMemory {
	return &GuestMemory{mem: mem}
}

// Read returns a view of guest memory. Writes through it are visible to the
// guest until memory grows.
func (m *GuestMemory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseABI, offset, length)
	}
	return data, nil
}

func (m *GuestMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseABI, offset, uint32(len(data)))
	}
	return nil
}

func (m *GuestMemory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseABI, offset, 1)
	}
	return v, nil
}

func (m *GuestMemory) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.mem.ReadUint16Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseABI, offset, 2)
	}
	return v, nil
}

func (m *GuestMemory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseABI, offset, 4)
	}
	return v, nil
}

func (m *GuestMemory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseABI, offset, 8)
	}
	return v, nil
}

func (m *GuestMemory) WriteU8(offset uint32, v uint8) error {
	if !m.mem.WriteByte(offset, v) {
		return errors.OutOfBounds(errors.PhaseABI, offset, 1)
	}
	return nil
}

func (m *GuestMemory) WriteU16(offset uint32, v uint16) error {
	if !m.mem.WriteUint16Le(offset, v) {
		return errors.OutOfBounds(errors.PhaseABI, offset, 2)
	}
	return nil
}

func (m *GuestMemory) WriteU32(offset uint32, v uint32) error {
	if !m.mem.WriteUint32Le(offset, v) {
		return errors.OutOfBounds(errors.PhaseABI, offset, 4)
	}
	return nil
}

func (m *GuestMemory) WriteU64(offset uint32, v uint64) error {
	if !m.mem.WriteUint64Le(offset, v) {
		return errors.OutOfBounds(errors.PhaseABI, offset, 8)
	}
	return nil
}

// Size returns the memory size in bytes.
func (m *GuestMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

var _ shim.Memory = (*GuestMemory)(nil)
var _ shim.MemorySizer = (*GuestMemory)(nil)
