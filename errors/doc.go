// Package errors provides structured error types for the Win32 compatibility shim.
//
// Errors are categorized by Phase (which layer raised it) and Kind (error category).
// The Error type carries the failing entry point, a resource path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRegistry, errors.KindUnsupported).
//		Call("RegSetValueEx").
//		Path("SOFTWARE", "Electronic Arts").
//		Detail("unsupported value type %d", 3).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Unimplemented(errors.PhaseHost, "LoadLibrary")
//	err := errors.HostIO(errors.PhaseFilesystem, "read", cause)
//
// # Fatal conditions
//
// The native engine has no channel for most failures. Conditions that cannot be
// reported through a sentinel return value are raised with Abort, which logs the
// error and panics with the *Error. The shim never recovers these panics; wazero
// turns them into a failed guest call and the process exits.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
