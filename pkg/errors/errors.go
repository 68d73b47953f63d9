// Package errors defines the coded errors penplot passes between its
// packages, its CLI and the plotter server.
//
// Every [Error] carries a [Code]. The server turns codes into HTTP statuses
// with [HTTPStatus] and the client turns them back with [FromStatus], so a
// PLOTTER_BUSY raised next to the plotter is still PLOTTER_BUSY on the
// laptop that asked for the plot.
//
//	err := errors.New(errors.ErrCodeInvalidStyle, "unknown hatch style %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidStyle) {
//	    ...
//	}
//
// Codes are grouped by prefix: INVALID_* for bad input, *_NOT_FOUND for
// missing things and PLOTTER_* for the hardware session.
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error kind.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidDrawing Code = "INVALID_DRAWING"
	ErrCodeInvalidStyle   Code = "INVALID_STYLE"
	ErrCodeInvalidCommand Code = "INVALID_COMMAND"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeDrawingNotFound Code = "DRAWING_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// ErrCodePlotterBusy means a plot is already running.
	ErrCodePlotterBusy Code = "PLOTTER_BUSY"
	// ErrCodePlotterFailed means axicli ran and reported a failure.
	ErrCodePlotterFailed Code = "PLOTTER_FAILED"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns a coded error whose cause is err.
func Wrap(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// find returns the outermost *Error in err's chain.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix or cause, for
// printing to people. Uncoded errors are returned as they are.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}
