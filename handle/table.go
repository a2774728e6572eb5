package handle

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// Table maps handles to owned objects.
// Handles are allocated monotonically and never reused. Thread-safe.
type Table struct {
	objects   map[Handle]Object
	observers []Observer
	next      Handle
	mu        sync.Mutex
	obsMu     sync.RWMutex
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the process-wide table that the Win32 entry points use.
func Default() *Table {
	defaultTableOnce.Do(func() {
		defaultTable = NewTable()
	})
	return defaultTable
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		objects: make(map[Handle]Object),
		next:    1,
	}
}

// Open takes ownership of obj and returns a fresh handle for it.
func (t *Table) Open(obj Object) Handle {
	if obj == nil {
		errors.Abort(errors.InvalidInput(errors.PhaseHandle, "cannot open a nil object"))
	}

	t.mu.Lock()
	if t.next >= ReservedBase {
		t.mu.Unlock()
		errors.Abort(errors.New(errors.PhaseHandle, errors.KindExhausted).
			Detail("handle space exhausted below 0x%x", uint32(ReservedBase)).
			Build())
	}
	h := t.next
	t.next++
	t.objects[h] = obj
	t.mu.Unlock()

	t.notify(Event{Type: EventOpened, Handle: h, Object: obj})
	return h
}

// Close removes the object for h and drops it. Closing an absent handle is a
// no-op that returns false.
func (t *Table) Close(h Handle) bool {
	t.mu.Lock()
	obj, ok := t.objects[h]
	if ok {
		delete(t.objects, h)
	}
	t.mu.Unlock()

	if !ok {
		Logger().Warn("close of unknown handle", zap.Uint32("handle", uint32(h)))
		return false
	}

	if d, ok := obj.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{Type: EventClosed, Handle: h, Object: obj})
	return true
}

// Get returns the object for h.
func (t *Table) Get(h Handle) (Object, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	obj, ok := t.objects[h]
	return obj, ok
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.objects)
}

// Each calls fn for every live handle in ascending order until fn returns false.
// fn runs on a snapshot, so it may open or close handles.
func (t *Table) Each(fn func(Handle, Object) bool) {
	t.mu.Lock()
	handles := make([]Handle, 0, len(t.objects))
	objects := make(map[Handle]Object, len(t.objects))
	for h, obj := range t.objects {
		handles = append(handles, h)
		objects[h] = obj
	}
	t.mu.Unlock()

	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	for _, h := range handles {
		if !fn(h, objects[h]) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}

// Lookup returns the object for h as a T.
func Lookup[T Object](t *Table, h Handle) (T, error) {
	var zero T
	obj, ok := t.Get(h)
	if !ok {
		return zero, errors.NotFound(errors.PhaseHandle, "handle", fmt.Sprintf("0x%x", uint32(h)))
	}
	v, ok := obj.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseHandle, fmt.Sprintf("%T", zero), fmt.Sprintf("%T", obj))
	}
	return v, nil
}

// MustLookup is Lookup for call sites where a bad handle is a programming error.
// It aborts on an absent handle or a type mismatch.
func MustLookup[T Object](t *Table, h Handle, call string) T {
	v, err := Lookup[T](t, h)
	if err != nil {
		e := err.(*errors.Error)
		e.Call = call
		errors.Abort(e)
	}
	return v
}
