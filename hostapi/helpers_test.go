package hostapi

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/filesystem"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/registry"
)

// testMemory is a flat little-endian guest memory.
type testMemory struct {
	data []byte
	next uint32
}

func newTestMemory() *testMemory {
	return &testMemory{data: make([]byte, 64*1024), next: 16}
}

func (m *testMemory) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return errors.OutOfBounds(errors.PhaseABI, offset, length)
	}
	return nil
}

func (m *testMemory) Read(offset, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.data[offset:])
	return out, nil
}

func (m *testMemory) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *testMemory) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

func (m *testMemory) ReadU16(offset uint32) (uint16, error) {
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

func (m *testMemory) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *testMemory) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

func (m *testMemory) WriteU8(offset uint32, v uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.data[offset] = v
	return nil
}

func (m *testMemory) WriteU16(offset uint32, v uint16) error {
	if err := m.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[offset:], v)
	return nil
}

func (m *testMemory) WriteU32(offset uint32, v uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[offset:], v)
	return nil
}

func (m *testMemory) WriteU64(offset uint32, v uint64) error {
	if err := m.check(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[offset:], v)
	return nil
}

// alloc reserves n bytes filled with 0xAA so untouched bytes are visible.
func (m *testMemory) alloc(n uint32) uint32 {
	p := (m.next + 7) &^ 7
	m.next = p + n
	for i := p; i < p+n; i++ {
		m.data[i] = 0xAA
	}
	return p
}

func (m *testMemory) cstring(s string) uint32 {
	p := m.alloc(uint32(len(s)) + 1)
	copy(m.data[p:], s)
	m.data[p+uint32(len(s))] = 0
	return p
}

func (m *testMemory) u32(ptr uint32) uint32 {
	return binary.LittleEndian.Uint32(m.data[ptr:])
}

func (m *testMemory) putU32(ptr, v uint32) {
	binary.LittleEndian.PutUint32(m.data[ptr:], v)
}

func (m *testMemory) bytes(ptr, n uint32) []byte {
	return m.data[ptr : ptr+n]
}

// testAllocator hands out blocks from the top half of testMemory.
type testAllocator struct {
	next  uint32
	freed map[uint32]uint32
	fail  bool
}

func newTestAllocator() *testAllocator {
	return &testAllocator{next: 32 * 1024, freed: make(map[uint32]uint32)}
}

func (a *testAllocator) Alloc(size, align uint32) (uint32, error) {
	if a.fail {
		return 0, errors.New(errors.PhaseABI, errors.KindExhausted).Build()
	}
	p := (a.next + align - 1) &^ (align - 1)
	a.next = p + size
	return p, nil
}

func (a *testAllocator) Free(ptr, size, align uint32) {
	a.freed[ptr] = size
}

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept += d
	c.now = c.now.Add(d)
}

type fixture struct {
	s     *Surface
	mem   *testMemory
	clock *fakeClock
	exit  []int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mem:   newTestMemory(),
		clock: &fakeClock{now: time.Date(2024, time.March, 5, 14, 30, 15, 250*int(time.Millisecond), time.Local)},
	}
	f.s = New(Options{
		Handles:      handle.NewTable(),
		Registry:     registry.NewStore(),
		FS:           filesystem.New(filesystem.Options{Root: t.TempDir()}),
		Clock:        f.clock,
		Exit:         func(code int) { f.exit = append(f.exit, code) },
		ExePath:      "/opt/generals/generals.exe",
		UserName:     "commander",
		ComputerName: "warfactory",
	})
	return f
}

func expectAbort(t *testing.T, kind errors.Kind, fn func()) *errors.Error {
	t.Helper()
	var got *errors.Error
	func() {
		defer func() {
			e, ok := errors.FromPanic(recover())
			require.True(t, ok, "expected abort")
			got = e
		}()
		fn()
	}()
	assert.Equal(t, kind, got.Kind, got.Error())
	return got
}
