package bytecode

import (
	"github.com/gofrs/uuid"

	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
)

// Bytecode is the compiled form of a program.
type Bytecode struct {
	// ID identifies one compilation. It is preserved by Marshal and
	// Unmarshal so a persisted artifact can be traced back to its build.
	ID           uuid.UUID
	Instructions op.Instructions
	Constants    []object.Object
}

// New returns Bytecode with a freshly generated build ID.
func New(instructions op.Instructions, constants []object.Object) *Bytecode {
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.Nil
	}
	return &Bytecode{
		ID:           id,
		Instructions: instructions,
		Constants:    constants,
	}
}

// Functions returns the compiled functions in the constant pool, in pool
// order.
func (b *Bytecode) Functions() []*object.CompiledFunction {
	var fns []*object.CompiledFunction
	for _, c := range b.Constants {
		if fn, ok := c.(*object.CompiledFunction); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
