package vm

import (
	"context"

	"github.com/risor-io/monkey/bytecode"
	"github.com/risor-io/monkey/object"
)

// Run the given bytecode in a new Virtual Machine and return the result.
// A runtime error in the program is returned as an *object.Error result
// with a nil error; the error return is reserved for malformed bytecode
// and cancellation.
func Run(ctx context.Context, bc *bytecode.Bytecode, options ...Option) (object.Object, error) {
	machine := New(bc, options...)
	if err := machine.Run(ctx); err != nil {
		return nil, err
	}
	return machine.Result(), nil
}
