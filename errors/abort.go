package errors

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the logger used to report aborts.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the logger used to report aborts.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Abort logs err and panics with it. It never returns.
func Abort(err *Error) {
	Logger().Error("abort",
		zap.String("phase", string(err.Phase)),
		zap.String("kind", string(err.Kind)),
		zap.String("call", err.Call),
		zap.Error(err))
	panic(err)
}

// Assert aborts with an assertion error when cond is false.
func Assert(cond bool, phase Phase, call, detail string) {
	if !cond {
		Abort(Assertion(phase, call, detail))
	}
}

// FromPanic extracts the *Error carried by a recovered abort.
func FromPanic(r any) (*Error, bool) {
	if r == nil {
		return nil, false
	}
	e, ok := r.(*Error)
	return e, ok
}
