package object

import (
	"context"
	"fmt"
)

// BuiltinFunction holds the type of a built-in function. Failures are
// reported by returning an *Error.
type BuiltinFunction func(ctx context.Context, args ...Object) Object

// Builtin wraps a Go function and implements the Object interface.
type Builtin struct {
	fn   BuiltinFunction
	name string
}

// NewBuiltin returns a Builtin with the given name and implementation.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.name)
}

func (b *Builtin) Interface() interface{} {
	return nil
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

// Call invokes the builtin. A nil result from the implementation is
// reported as Null.
func (b *Builtin) Call(ctx context.Context, args ...Object) Object {
	result := b.fn(ctx, args...)
	if result == nil {
		return Null
	}
	return result
}
