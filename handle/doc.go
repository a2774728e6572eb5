// Package handle provides the process-wide opaque handle table.
//
// The native engine addresses host resources (registry keys, critical sections,
// events, find searches, files, subsystem instances) by 32-bit integer. A Table
// owns each object from Open until Close and hands out ids that are unique for
// the lifetime of the process:
//
//	h := handle.Default().Open(key)
//	k, err := handle.Lookup[*registry.Key](handle.Default(), h)
//	handle.Default().Close(h)
//
// Ids start at 1 and are never reused. The range at and above 0x80000000 is
// reserved for pseudo-handles such as HKEY_LOCAL_MACHINE and
// INVALID_HANDLE_VALUE; a table that reaches it aborts.
//
// A single mutex guards the table and is held only while the map is read or
// mutated. Drop and observer callbacks run after it is released.
package handle
