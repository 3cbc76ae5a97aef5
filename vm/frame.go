package vm

import (
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
)

// frame is the execution context of one call. Its locals live on the shared
// operand stack starting at basePointer.
type frame struct {
	cl          *object.Closure
	ip          int
	basePointer int
}

func newFrame(cl *object.Closure, basePointer int) *frame {
	return &frame{cl: cl, ip: -1, basePointer: basePointer}
}

func (f *frame) instructions() op.Instructions {
	return f.cl.Fn.Instructions
}
