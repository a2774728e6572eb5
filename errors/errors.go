package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which layer of the shim raised the error
type Phase string

const (
	PhaseHandle     Phase = "handle"     // handle table
	PhaseRegistry   Phase = "registry"   // registry emulation
	PhaseFilesystem Phase = "filesystem" // file system adapter
	PhaseBridge     Phase = "bridge"     // subsystem overrides
	PhaseHost       Phase = "host"       // Win32 entry points
	PhaseABI        Phase = "abi"        // guest memory and trampolines
	PhaseConfig     Phase = "config"     // startup configuration
	PhaseRuntime    Phase = "runtime"    // engine execution
	PhaseLoad       Phase = "load"       // engine module loading
)

// Kind categorizes the error
type Kind string

const (
	KindUnimplemented Kind = "unimplemented"
	KindNotFound      Kind = "not_found"
	KindTypeMismatch  Kind = "type_mismatch"
	KindHostIO        Kind = "host_io"
	KindConfig        Kind = "config"
	KindInvalidInput  Kind = "invalid_input"
	KindUnsupported   Kind = "unsupported"
	KindExhausted     Kind = "exhausted"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindAssertion     Kind = "assertion"
	KindDeadlock      Kind = "deadlock"
	KindMissingImport Kind = "missing_import"
	KindInstantiation Kind = "instantiation"
)

// Error is the structured error type used throughout the shim
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Call   string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Call != "" {
		b.WriteString(" in ")
		b.WriteString(e.Call)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Call sets the entry point or method that failed
func (b *Builder) Call(name string) *Builder {
	b.err.Call = name
	return b
}

// Path sets the resource path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Unimplemented creates an error for a declared but stubbed entry point
func Unimplemented(phase Phase, call string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnimplemented,
		Call:   call,
		Detail: "not implemented",
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// HostIO creates an error for a failed host I/O operation
func HostIO(phase Phase, op string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindHostIO,
		Call:   op,
		Detail: "host I/O failed",
		Cause:  cause,
	}
}

// Config creates a configuration error
func Config(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindConfig,
		Detail: detail,
		Cause:  cause,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error for guest memory access
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access of %d bytes at 0x%x out of bounds", length, offset),
		Value:  offset,
	}
}

// Assertion creates an error for a violated caller precondition
func Assertion(phase Phase, call, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAssertion,
		Call:   call,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate engine module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingImport represents a single engine import the shim does not provide
type MissingImport struct {
	Module   string // e.g., "win32"
	Function string // e.g., "GetTickCount"
}

// MissingImportsError is returned when the engine module imports entry points
// that no installed vtable provides
type MissingImportsError struct {
	Imports []MissingImport
}

// NewMissingImportsError creates an error from a list of "module#function" strings
func NewMissingImportsError(imports []string) *MissingImportsError {
	result := &MissingImportsError{
		Imports: make([]MissingImport, 0, len(imports)),
	}
	for _, imp := range imports {
		mod, fn := parseImportKey(imp)
		result.Imports = append(result.Imports, MissingImport{
			Module:   mod,
			Function: fn,
		})
	}
	return result
}

func parseImportKey(key string) (module, function string) {
	mod, fn, found := strings.Cut(key, "#")
	if found {
		return mod, fn
	}
	return key, ""
}

// demangle extracts a readable qualified name from an Itanium nested-name
// symbol such as _ZN10GameEngine4initEv. Anything else is returned as is.
func demangle(name string) string {
	if !strings.HasPrefix(name, "_ZN") {
		return name
	}

	// Format: _ZN<len><name><len><name>...E<params>
	s := name[3:]
	var parts []string

	for len(s) > 0 && s[0] != 'E' {
		lenEnd := 0
		for lenEnd < len(s) && s[lenEnd] >= '0' && s[lenEnd] <= '9' {
			lenEnd++
		}
		if lenEnd == 0 {
			break
		}

		length := 0
		for i := 0; i < lenEnd; i++ {
			length = length*10 + int(s[i]-'0')
		}
		s = s[lenEnd:]

		if length > len(s) {
			break
		}

		parts = append(parts, s[:length])
		s = s[length:]
	}

	if len(parts) == 0 {
		return name
	}

	return strings.Join(parts, "::")
}

func (e *MissingImportsError) Error() string {
	if len(e.Imports) == 0 {
		return "[load] missing_import: no imports specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("missing %d host entry point(s):\n", len(e.Imports)))

	byMod := make(map[string][]string)
	var modOrder []string
	for _, imp := range e.Imports {
		if _, exists := byMod[imp.Module]; !exists {
			modOrder = append(modOrder, imp.Module)
		}
		byMod[imp.Module] = append(byMod[imp.Module], demangle(imp.Function))
	}

	for _, mod := range modOrder {
		b.WriteString("\n  ")
		b.WriteString(mod)
		b.WriteString(":\n")
		for _, fn := range byMod[mod] {
			b.WriteString("    - ")
			b.WriteString(fn)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type
func (e *MissingImportsError) Is(target error) bool {
	_, ok := target.(*MissingImportsError)
	return ok
}
