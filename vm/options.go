package vm

import (
	"github.com/rs/zerolog"

	"github.com/risor-io/monkey/object"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithGlobals sets the global slots used by the VM. Passing the slice from
// a previous run lets a REPL keep global bindings between inputs compiled
// incrementally.
func WithGlobals(globals []object.Object) Option {
	return func(vm *VirtualMachine) {
		vm.globals = globals
	}
}

// WithStackSize sets the number of operand stack slots. Pushing past the
// end of the stack is a runtime error.
func WithStackSize(size int) Option {
	return func(vm *VirtualMachine) {
		vm.stackSize = size
	}
}

// WithMaxFrames sets the maximum call depth.
func WithMaxFrames(n int) Option {
	return func(vm *VirtualMachine) {
		vm.maxFrames = n
	}
}

// WithInstructionBudget limits the number of instructions a single Run may
// execute. Zero means unlimited.
func WithInstructionBudget(n int64) Option {
	return func(vm *VirtualMachine) {
		vm.budget = n
	}
}

// WithContextCheckInterval sets how often the VM checks whether the context
// was cancelled, in number of instructions. Zero checks only once, before
// execution starts. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithLogger sets the logger used for debug events. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithBuiltins sets the builtin functions addressed by GET_BUILTIN. The
// order must match the one the program was compiled with.
func WithBuiltins(builtins []*object.Builtin) Option {
	return func(vm *VirtualMachine) {
		vm.builtins = builtins
	}
}
