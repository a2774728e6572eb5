package runtime

import (
	stderrors "errors"

	"github.com/tetratelabs/wazero/sys"

	"github.com/zachreizner/CnC-Generals-Zero-Hour/errors"
)

// exitResult maps the result of the entry point call. proc_exit(0) is a
// normal return; an abort keeps its own *errors.Error.
func exitResult(entry string, err error) error {
	if err == nil {
		return nil
	}
	var exit *sys.ExitError
	if stderrors.As(err, &exit) && exit.ExitCode() == 0 {
		return nil
	}
	var abort *errors.Error
	if stderrors.As(err, &abort) {
		return abort
	}
	return errors.New(errors.PhaseRuntime, errors.KindInstantiation).
		Call(entry).
		Cause(err).
		Detail("engine entry point failed").
		Build()
}
