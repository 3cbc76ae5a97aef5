package object

import "fmt"

// Error is a runtime error value. It is returned as an ordinary Object so
// that it propagates through evaluation, and it also satisfies the Go error
// interface for callers that want to treat it as one.
type Error struct {
	Message string
}

// Errorf returns a new Error with a formatted message.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Type() Type {
	return ERROR
}

func (e *Error) Inspect() string {
	return "ERROR: " + e.Message
}

func (e *Error) Interface() interface{} {
	return e.Message
}

func (e *Error) Error() string {
	return e.Message
}
