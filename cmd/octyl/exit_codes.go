package main

import (
	stderrors "errors"

	"github.com/odvcencio/octyl/pkg/errors"
)

// Process exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitBackend   = 3
	exitInput     = 4
	exitPanic     = 5
	exitNoconsole = 6
)

type exitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// exitCodeForError maps an error to a process exit code. Explicit exit
// codes win; otherwise the structured error code decides.
func exitCodeForError(err error) int {
	if err == nil {
		return exitOK
	}
	var coded exitCoder
	if stderrors.As(err, &coded) {
		return coded.ExitCode()
	}
	switch {
	case errors.IsCode(err, errors.ErrCodeConfigLoad), errors.IsCode(err, errors.ErrCodeConfigInvalid):
		return exitUsage
	case errors.IsCode(err, errors.ErrCodeBackendInit):
		return exitBackend
	case errors.IsCode(err, errors.ErrCodeInputEscalated):
		return exitInput
	case errors.IsCode(err, errors.ErrCodeRenderPanic):
		return exitPanic
	default:
		return exitFailure
	}
}
