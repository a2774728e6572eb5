package hostapi

import (
	"sync"
	"time"

	"go.uber.org/zap"

	shim "github.com/zachreizner/CnC-Generals-Zero-Hour"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
	"github.com/zachreizner/CnC-Generals-Zero-Hour/handle"
)

// criticalSection is re-entrant. The engine runs on one thread, so ownership
// reduces to a recursion count.
type criticalSection struct {
	mu    sync.Mutex
	depth int
}

func (*criticalSection) ObjectType() handle.ObjectType { return handle.ObjectCriticalSection }

type mutex struct {
	name  string
	mu    sync.Mutex
	owned int
}

func (*mutex) ObjectType() handle.ObjectType { return handle.ObjectMutex }

type event struct {
	name     string
	mu       sync.Mutex
	manual   bool
	signaled bool
}

func (*event) ObjectType() handle.ObjectType { return handle.ObjectEvent }

// InitializeCriticalSection allocates a critical section and stores its handle
// in the guest's CRITICAL_SECTION.
func (s *Surface) InitializeCriticalSection(mem shim.Memory, csPtr uint32) {
	h := s.handles.Open(&criticalSection{})
	writeU32(mem, csPtr+criticalSectionSlot, uint32(h))
	s.log.Debug("InitializeCriticalSection", zap.Uint32("cs", csPtr), zap.Uint32("handle", uint32(h)))
}

func (s *Surface) criticalSection(mem shim.Memory, csPtr uint32, call string) (*criticalSection, handle.Handle) {
	h := handle.Handle(readU32(mem, csPtr+criticalSectionSlot))
	return handle.MustLookup[*criticalSection](s.handles, h, call), h
}

// EnterCriticalSection acquires the critical section, recursively.
func (s *Surface) EnterCriticalSection(mem shim.Memory, csPtr uint32) {
	cs, _ := s.criticalSection(mem, csPtr, "EnterCriticalSection")
	cs.mu.Lock()
	cs.depth++
	depth := cs.depth
	cs.mu.Unlock()
	s.log.Debug("EnterCriticalSection", zap.Uint32("cs", csPtr), zap.Int("depth", depth))
}

// LeaveCriticalSection releases one level of ownership. Leaving an unowned
// section aborts.
func (s *Surface) LeaveCriticalSection(mem shim.Memory, csPtr uint32) {
	cs, _ := s.criticalSection(mem, csPtr, "LeaveCriticalSection")
	cs.mu.Lock()
	depth := cs.depth
	if depth > 0 {
		cs.depth--
	}
	cs.mu.Unlock()
	errors.Assert(depth > 0, errors.PhaseHost, "LeaveCriticalSection", "critical section is not owned")
	s.log.Debug("LeaveCriticalSection", zap.Uint32("cs", csPtr), zap.Int("depth", depth-1))
}

// DeleteCriticalSection closes the handle and clears the guest slot.
func (s *Surface) DeleteCriticalSection(mem shim.Memory, csPtr uint32) {
	_, h := s.criticalSection(mem, csPtr, "DeleteCriticalSection")
	s.handles.Close(h)
	writeU32(mem, csPtr+criticalSectionSlot, 0)
	s.log.Debug("DeleteCriticalSection", zap.Uint32("cs", csPtr))
}

// CreateMutex returns a handle to a new mutex, owned by the caller when
// initialOwner is set.
func (s *Surface) CreateMutex(mem shim.Memory, attrPtr, initialOwner, namePtr uint32) uint32 {
	m := &mutex{name: readCString(mem, namePtr)}
	if initialOwner != 0 {
		m.owned = 1
	}
	h := s.handles.Open(m)
	s.log.Debug("CreateMutex", zap.String("name", m.name), zap.Bool("owned", m.owned > 0), zap.Uint32("handle", uint32(h)))
	return uint32(h)
}

// ReleaseMutex drops one level of ownership.
func (s *Surface) ReleaseMutex(h uint32) uint32 {
	m := handle.MustLookup[*mutex](s.handles, handle.Handle(h), "ReleaseMutex")
	m.mu.Lock()
	defer m.mu.Unlock()
	s.log.Debug("ReleaseMutex", zap.String("name", m.name), zap.Int("owned", m.owned))
	if m.owned == 0 {
		s.setLastError(ErrorNotOwner)
		return False
	}
	m.owned--
	return True
}

// CreateEvent returns a handle to a new event.
func (s *Surface) CreateEvent(mem shim.Memory, attrPtr, manualReset, initialState, namePtr uint32) uint32 {
	e := &event{
		name:     readCString(mem, namePtr),
		manual:   manualReset != 0,
		signaled: initialState != 0,
	}
	h := s.handles.Open(e)
	s.log.Debug("CreateEvent",
		zap.String("name", e.name),
		zap.Bool("manualReset", e.manual),
		zap.Bool("signaled", e.signaled),
		zap.Uint32("handle", uint32(h)))
	return uint32(h)
}

// SetEvent signals an event.
func (s *Surface) SetEvent(h uint32) uint32 {
	e := handle.MustLookup[*event](s.handles, handle.Handle(h), "SetEvent")
	e.mu.Lock()
	e.signaled = true
	e.mu.Unlock()
	s.log.Debug("SetEvent", zap.String("name", e.name))
	return True
}

// ResetEvent clears an event.
func (s *Surface) ResetEvent(h uint32) uint32 {
	e := handle.MustLookup[*event](s.handles, handle.Handle(h), "ResetEvent")
	e.mu.Lock()
	e.signaled = false
	e.mu.Unlock()
	s.log.Debug("ResetEvent", zap.String("name", e.name))
	return True
}

// WaitForSingleObject waits on a mutex or an event.
//
// Nothing else runs while the engine waits, so an unsignaled event can only
// time out. An infinite wait on one is a deadlock and aborts.
func (s *Surface) WaitForSingleObject(h, timeoutMs uint32) uint32 {
	s.log.Debug("WaitForSingleObject", zap.Uint32("handle", h), zap.Uint32("timeout", timeoutMs))

	obj, ok := s.handles.Get(handle.Handle(h))
	if !ok {
		errors.Abort(errors.New(errors.PhaseHost, errors.KindNotFound).
			Call("WaitForSingleObject").
			Value(h).
			Detail("handle 0x%x not found", h).
			Build())
	}

	switch o := obj.(type) {
	case *mutex:
		o.mu.Lock()
		o.owned++
		o.mu.Unlock()
		return WaitObject0
	case *event:
		o.mu.Lock()
		signaled := o.signaled
		if signaled && !o.manual {
			o.signaled = false
		}
		o.mu.Unlock()
		if signaled {
			return WaitObject0
		}
		if timeoutMs == Infinite {
			errors.Abort(errors.New(errors.PhaseHost, errors.KindDeadlock).
				Call("WaitForSingleObject").
				Value(h).
				Detail("infinite wait on unsignaled event %q", o.name).
				Build())
		}
		s.clock.Sleep(time.Duration(timeoutMs) * time.Millisecond)
		return WaitTimeout
	default:
		errors.Abort(errors.TypeMismatch(errors.PhaseHost, "mutex or event", obj.ObjectType().String()))
		return 0
	}
}

// CloseHandle closes any handle.
func (s *Surface) CloseHandle(h uint32) uint32 {
	s.log.Debug("CloseHandle", zap.Uint32("handle", h))
	if !s.handles.Close(handle.Handle(h)) {
		s.setLastError(ErrorInvalidHandle)
		return False
	}
	return True
}
