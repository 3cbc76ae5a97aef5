// Package errors defines the compile-time and fatal error types shared by
// the compiler and the virtual machine. Runtime errors raised by monkey
// programs are object.Error values instead.
package errors

import (
	"errors"
	"fmt"
)

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// EvalError indicates an internal consistency failure while executing
// bytecode, such as an undefined opcode or an out of range slot. It signals
// a compiler or VM bug rather than a problem in the program being run. All
// EvalErrors are fatal.
type EvalError struct {
	Err error
}

func (r *EvalError) Error() string {
	return r.Err.Error()
}

func (r *EvalError) Unwrap() error {
	return r.Err
}

func (r *EvalError) IsFatal() bool {
	return true
}

func NewEvalError(err error) *EvalError {
	return &EvalError{Err: err}
}

func EvalErrorf(format string, args ...any) *EvalError {
	return NewEvalError(fmt.Errorf(format, args...))
}

// IsFatal reports whether err, or any error it wraps, is a FatalError that
// reports itself as fatal.
func IsFatal(err error) bool {
	var fatal FatalError
	if errors.As(err, &fatal) {
		return fatal.IsFatal()
	}
	return false
}
