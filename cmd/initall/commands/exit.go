package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/initall/pkg/runner"
)

// ExitError carries a process exit code out of a command. A nil Err means
// the report has already told the user everything.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) *ExitError {
	return &ExitError{Code: runner.ExitError, Err: err}
}

// ExitCode maps an Execute error to a process exit code, printing it to w
// when there is something to say.
func ExitCode(err error, w io.Writer) int {
	if err == nil {
		return runner.ExitOK
	}

	code := runner.ExitError

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code

		if exitErr.Err == nil {
			return code
		}
	}

	fmt.Fprintf(w, "Error: %v\n", err)

	return code
}
