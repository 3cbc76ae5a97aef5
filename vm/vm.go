// Package vm provides a VirtualMachine that executes compiled monkey code.
package vm

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/risor-io/monkey/builtins"
	"github.com/risor-io/monkey/bytecode"
	"github.com/risor-io/monkey/errors"
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
)

const (
	DefaultStackSize = 2048
	GlobalsSize      = 65536
	DefaultMaxFrames = 1024

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Err().
	DefaultContextCheckInterval = 1000
)

// VirtualMachine executes bytecode using one operand stack shared by all
// call frames. A VirtualMachine may be run more than once, but not
// concurrently.
type VirtualMachine struct {
	constants []object.Object
	main      *object.CompiledFunction
	builtins  []*object.Builtin
	globals   []object.Object

	stack []object.Object
	sp    int // next free slot; the top of the stack is stack[sp-1]

	frames      []*frame
	framesIndex int

	stackSize            int
	maxFrames            int
	budget               int64
	executed             int64
	contextCheckInterval int
	logger               zerolog.Logger

	// err is the runtime error that halted the last run, if any.
	err *object.Error

	running  bool
	runMutex sync.Mutex
}

// New creates a new Virtual Machine for the given bytecode.
func New(bc *bytecode.Bytecode, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		constants:            bc.Constants,
		main:                 &object.CompiledFunction{Instructions: bc.Instructions, Name: "main"},
		stackSize:            DefaultStackSize,
		maxFrames:            DefaultMaxFrames,
		contextCheckInterval: DefaultContextCheckInterval,
		logger:               zerolog.Nop(),
	}
	for _, opt := range options {
		opt(vm)
	}
	if vm.builtins == nil {
		vm.builtins = builtins.All()
	}
	if vm.globals == nil {
		vm.globals = make([]object.Object, GlobalsSize)
	}
	if vm.stackSize <= 0 {
		vm.stackSize = DefaultStackSize
	}
	if vm.maxFrames <= 0 {
		vm.maxFrames = DefaultMaxFrames
	}
	vm.stack = make([]object.Object, vm.stackSize)
	vm.frames = make([]*frame, vm.maxFrames)
	return vm
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Run executes the program from the beginning. A runtime error raised by
// the program halts execution and is available from Result; Run itself
// returns an error only for malformed bytecode, in which case it is an
// *errors.EvalError, or when ctx is cancelled.
func (vm *VirtualMachine) Run(ctx context.Context) (err error) {
	if err := vm.start(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.EvalErrorf("panic: %v", r)
		}
		vm.stop()
	}()
	if err := ctx.Err(); err != nil {
		return err
	}

	for i := range vm.stack {
		vm.stack[i] = nil
	}
	vm.sp = 0
	vm.err = nil
	vm.executed = 0
	vm.frames[0] = newFrame(object.NewClosure(vm.main, nil), 0)
	vm.framesIndex = 1

	vm.logger.Debug().
		Int("instructions", len(vm.main.Instructions)).
		Int("constants", len(vm.constants)).
		Msg("vm run started")

	err = vm.eval(ctx)
	if rerr, ok := err.(*object.Error); ok {
		vm.err = rerr
		err = nil
	}

	event := vm.logger.Debug().Int64("executed", vm.executed)
	if vm.err != nil {
		event = event.Str("error", vm.err.Message)
	}
	event.Msg("vm run finished")
	return err
}

func (vm *VirtualMachine) eval(ctx context.Context) error {
	var sinceCheck int
	for {
		f := vm.currentFrame()
		ins := f.instructions()
		if f.ip >= len(ins)-1 {
			if vm.framesIndex > 1 {
				return errors.EvalErrorf("function %s ended without returning", f.cl.Inspect())
			}
			return nil
		}

		if vm.contextCheckInterval > 0 {
			sinceCheck++
			if sinceCheck >= vm.contextCheckInterval {
				sinceCheck = 0
				if err := ctx.Err(); err != nil {
					return err
				}
			}
		}
		if vm.budget > 0 && vm.executed >= vm.budget {
			return object.Errorf("instruction budget of %d exceeded", vm.budget)
		}
		vm.executed++

		f.ip++
		ip := f.ip
		opcode := op.Code(ins[ip])
		info, err := op.Lookup(opcode)
		if err != nil {
			return errors.EvalErrorf("offset %d: %w", ip, err)
		}
		if ip+info.Width() > len(ins) {
			return errors.EvalErrorf("offset %d: truncated %s instruction", ip, info.Name)
		}

		switch opcode {
		case op.Constant:
			index := int(op.ReadUint16(ins[ip+1:]))
			f.ip += 2
			if index >= len(vm.constants) {
				return errors.EvalErrorf("constant index %d out of range", index)
			}
			if err := vm.push(vm.constants[index]); err != nil {
				return err
			}
		case op.Pop:
			if _, err := vm.pop(); err != nil {
				return err
			}
		case op.Add, op.Sub, op.Mul, op.Div:
			if err := vm.executeBinaryOperation(opcode); err != nil {
				return err
			}
		case op.Equal, op.NotEqual, op.GreaterThan:
			if err := vm.executeComparison(opcode); err != nil {
				return err
			}
		case op.True:
			if err := vm.push(object.True); err != nil {
				return err
			}
		case op.False:
			if err := vm.push(object.False); err != nil {
				return err
			}
		case op.Null:
			if err := vm.push(object.Null); err != nil {
				return err
			}
		case op.Bang:
			operand, err := vm.pop()
			if err != nil {
				return err
			}
			if err := vm.push(object.NativeBool(!object.IsTruthy(operand))); err != nil {
				return err
			}
		case op.Minus:
			if err := vm.executeMinus(); err != nil {
				return err
			}
		case op.Jump:
			target := int(op.ReadUint16(ins[ip+1:]))
			if target > len(ins) {
				return errors.EvalErrorf("offset %d: jump target %d out of range", ip, target)
			}
			f.ip = target - 1
		case op.JumpNotTruthy:
			target := int(op.ReadUint16(ins[ip+1:]))
			if target > len(ins) {
				return errors.EvalErrorf("offset %d: jump target %d out of range", ip, target)
			}
			f.ip += 2
			condition, err := vm.pop()
			if err != nil {
				return err
			}
			if !object.IsTruthy(condition) {
				f.ip = target - 1
			}
		case op.SetGlobal:
			index := int(op.ReadUint16(ins[ip+1:]))
			f.ip += 2
			if index >= len(vm.globals) {
				return errors.EvalErrorf("global index %d out of range", index)
			}
			value, err := vm.pop()
			if err != nil {
				return err
			}
			vm.globals[index] = value
		case op.GetGlobal:
			index := int(op.ReadUint16(ins[ip+1:]))
			f.ip += 2
			if index >= len(vm.globals) {
				return errors.EvalErrorf("global index %d out of range", index)
			}
			if err := vm.push(orNull(vm.globals[index])); err != nil {
				return err
			}
		case op.SetLocal:
			index := int(op.ReadUint16(ins[ip+1:]))
			f.ip += 2
			slot, err := vm.localSlot(f, index)
			if err != nil {
				return err
			}
			value, err := vm.pop()
			if err != nil {
				return err
			}
			vm.stack[slot] = value
		case op.GetLocal:
			index := int(op.ReadUint16(ins[ip+1:]))
			f.ip += 2
			slot, err := vm.localSlot(f, index)
			if err != nil {
				return err
			}
			if err := vm.push(orNull(vm.stack[slot])); err != nil {
				return err
			}
		case op.GetBuiltin:
			index := int(op.ReadUint8(ins[ip+1:]))
			f.ip++
			if index >= len(vm.builtins) {
				return errors.EvalErrorf("builtin index %d out of range", index)
			}
			if err := vm.push(vm.builtins[index]); err != nil {
				return err
			}
		case op.GetFree:
			index := int(op.ReadUint8(ins[ip+1:]))
			f.ip++
			if index >= len(f.cl.Free) {
				return errors.EvalErrorf("free variable index %d out of range", index)
			}
			if err := vm.push(f.cl.Free[index]); err != nil {
				return err
			}
		case op.CurrentClosure:
			if err := vm.push(f.cl); err != nil {
				return err
			}
		case op.Array:
			count := int(op.ReadUint16(ins[ip+1:]))
			f.ip += 2
			elements, err := vm.popN(count)
			if err != nil {
				return err
			}
			if err := vm.push(object.NewArray(elements)); err != nil {
				return err
			}
		case op.Hash:
			count := int(op.ReadUint16(ins[ip+1:]))
			f.ip += 2
			if err := vm.buildHash(count); err != nil {
				return err
			}
		case op.Index:
			if err := vm.executeIndex(); err != nil {
				return err
			}
		case op.Call:
			numArgs := int(op.ReadUint8(ins[ip+1:]))
			f.ip++
			if err := vm.executeCall(ctx, numArgs); err != nil {
				return err
			}
		case op.ReturnValue:
			value, err := vm.pop()
			if err != nil {
				return err
			}
			if err := vm.returnFromFrame(value); err != nil {
				return err
			}
		case op.Return:
			if err := vm.returnFromFrame(object.Null); err != nil {
				return err
			}
		case op.Closure:
			index := int(op.ReadUint16(ins[ip+1:]))
			numFree := int(op.ReadUint8(ins[ip+3:]))
			f.ip += 3
			if err := vm.pushClosure(index, numFree); err != nil {
				return err
			}
		default:
			return errors.EvalErrorf("offset %d: unhandled opcode %s", ip, opcode)
		}
	}
}

func orNull(obj object.Object) object.Object {
	if obj == nil {
		return object.Null
	}
	return obj
}

func (vm *VirtualMachine) currentFrame() *frame {
	return vm.frames[vm.framesIndex-1]
}

func (vm *VirtualMachine) pushFrame(f *frame) error {
	if vm.framesIndex >= len(vm.frames) {
		return object.Errorf("maximum call depth of %d exceeded", len(vm.frames))
	}
	vm.frames[vm.framesIndex] = f
	vm.framesIndex++
	if e := vm.logger.Debug(); e.Enabled() {
		e.Str("function", f.cl.Inspect()).Int("depth", vm.framesIndex).Msg("frame pushed")
	}
	return nil
}

func (vm *VirtualMachine) popFrame() *frame {
	vm.framesIndex--
	f := vm.frames[vm.framesIndex]
	vm.frames[vm.framesIndex] = nil
	if e := vm.logger.Debug(); e.Enabled() {
		e.Str("function", f.cl.Inspect()).Int("depth", vm.framesIndex).Msg("frame popped")
	}
	return f
}

func (vm *VirtualMachine) push(obj object.Object) error {
	if vm.sp >= len(vm.stack) {
		return object.Errorf("stack overflow")
	}
	vm.stack[vm.sp] = obj
	vm.sp++
	return nil
}

// pop removes the top of the stack. The slot is left intact so the value
// remains visible through LastPoppedStackElem.
func (vm *VirtualMachine) pop() (object.Object, error) {
	if vm.sp <= vm.floor() {
		return nil, errors.EvalErrorf("stack underflow")
	}
	vm.sp--
	return vm.stack[vm.sp], nil
}

// popN removes the top n values and returns them in push order.
func (vm *VirtualMachine) popN(n int) ([]object.Object, error) {
	if vm.sp-n < vm.floor() {
		return nil, errors.EvalErrorf("stack underflow")
	}
	values := make([]object.Object, n)
	copy(values, vm.stack[vm.sp-n:vm.sp])
	vm.sp -= n
	return values, nil
}

// floor is the lowest stack slot the current frame may pop: its locals and
// everything below them belong to it or to its callers.
func (vm *VirtualMachine) floor() int {
	f := vm.currentFrame()
	return f.basePointer + f.cl.Fn.NumLocals
}

func (vm *VirtualMachine) localSlot(f *frame, index int) (int, error) {
	if index >= f.cl.Fn.NumLocals {
		return 0, errors.EvalErrorf("local index %d out of range in %s", index, f.cl.Inspect())
	}
	return f.basePointer + index, nil
}

func (vm *VirtualMachine) executeBinaryOperation(opcode op.Code) error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	result, err := binaryOp(opcode, left, right)
	if err != nil {
		return err
	}
	return vm.push(result)
}

func binaryOp(opcode op.Code, left, right object.Object) (object.Object, error) {
	switch {
	case left.Type() == object.INTEGER && right.Type() == object.INTEGER:
		return integerOp(opcode, left.(*object.Integer).Value, right.(*object.Integer).Value)
	case left.Type() == object.STRING && right.Type() == object.STRING && opcode == op.Add:
		return object.NewString(left.(*object.String).Value + right.(*object.String).Value), nil
	case left.Type() != right.Type():
		return nil, object.Errorf("type mismatch: %s %s %s", left.Type(), operator(opcode), right.Type())
	default:
		return nil, object.Errorf("unknown operator: %s %s %s", left.Type(), operator(opcode), right.Type())
	}
}

func integerOp(opcode op.Code, left, right int64) (object.Object, error) {
	switch opcode {
	case op.Add:
		return object.NewInteger(left + right), nil
	case op.Sub:
		return object.NewInteger(left - right), nil
	case op.Mul:
		return object.NewInteger(left * right), nil
	case op.Div:
		if right == 0 {
			return nil, object.Errorf("division by zero")
		}
		return object.NewInteger(left / right), nil
	default:
		return nil, errors.EvalErrorf("unknown integer operator: %s", opcode)
	}
}

func operator(opcode op.Code) string {
	switch opcode {
	case op.Add:
		return "+"
	case op.Sub:
		return "-"
	case op.Mul:
		return "*"
	case op.Div:
		return "/"
	case op.Equal:
		return "=="
	case op.NotEqual:
		return "!="
	case op.GreaterThan:
		return ">"
	}
	return opcode.String()
}

func (vm *VirtualMachine) executeComparison(opcode op.Code) error {
	right, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	switch opcode {
	case op.Equal:
		return vm.push(object.NativeBool(object.Equal(left, right)))
	case op.NotEqual:
		return vm.push(object.NativeBool(!object.Equal(left, right)))
	}
	l, lok := left.(*object.Integer)
	r, rok := right.(*object.Integer)
	if lok && rok {
		return vm.push(object.NativeBool(l.Value > r.Value))
	}
	if left.Type() != right.Type() {
		return object.Errorf("type mismatch: %s > %s", left.Type(), right.Type())
	}
	return object.Errorf("unknown operator: %s > %s", left.Type(), right.Type())
}

func (vm *VirtualMachine) executeMinus() error {
	operand, err := vm.pop()
	if err != nil {
		return err
	}
	integer, ok := operand.(*object.Integer)
	if !ok {
		return object.Errorf("unknown operator: -%s", operand.Type())
	}
	return vm.push(object.NewInteger(-integer.Value))
}

func (vm *VirtualMachine) buildHash(count int) error {
	if count%2 != 0 {
		return errors.EvalErrorf("hash operand %d is not a multiple of two", count)
	}
	values, err := vm.popN(count)
	if err != nil {
		return err
	}
	hash := object.NewHash(nil)
	for i := 0; i < len(values); i += 2 {
		if err := hash.Set(values[i], values[i+1]); err != nil {
			return err
		}
	}
	return vm.push(hash)
}

func (vm *VirtualMachine) executeIndex() error {
	index, err := vm.pop()
	if err != nil {
		return err
	}
	left, err := vm.pop()
	if err != nil {
		return err
	}
	switch left := left.(type) {
	case *object.Array:
		i, ok := index.(*object.Integer)
		if !ok {
			return object.Errorf("index operator not supported: %s", left.Type())
		}
		return vm.push(left.Index(i.Value))
	case *object.Hash:
		value, err := left.Get(index)
		if err != nil {
			return err
		}
		return vm.push(value)
	default:
		return object.Errorf("index operator not supported: %s", left.Type())
	}
}

func (vm *VirtualMachine) executeCall(ctx context.Context, numArgs int) error {
	calleeSlot := vm.sp - 1 - numArgs
	if calleeSlot < vm.floor() {
		return errors.EvalErrorf("stack underflow")
	}
	switch callee := vm.stack[calleeSlot].(type) {
	case *object.Closure:
		return vm.callClosure(callee, numArgs)
	case *object.Builtin:
		return vm.callBuiltin(ctx, callee, numArgs)
	default:
		return object.Errorf("not a function: %s", callee.Type())
	}
}

func (vm *VirtualMachine) callClosure(cl *object.Closure, numArgs int) error {
	if numArgs != cl.Fn.NumParameters {
		return object.Errorf("wrong number of arguments: want=%d, got=%d",
			cl.Fn.NumParameters, numArgs)
	}
	basePointer := vm.sp - numArgs
	top := basePointer + cl.Fn.NumLocals
	if top > len(vm.stack) {
		return object.Errorf("stack overflow")
	}
	if err := vm.pushFrame(newFrame(cl, basePointer)); err != nil {
		return err
	}
	for i := vm.sp; i < top; i++ {
		vm.stack[i] = nil
	}
	vm.sp = top
	return nil
}

func (vm *VirtualMachine) callBuiltin(ctx context.Context, builtin *object.Builtin, numArgs int) error {
	args := make([]object.Object, numArgs)
	copy(args, vm.stack[vm.sp-numArgs:vm.sp])
	result := builtin.Call(ctx, args...)
	vm.sp = vm.sp - numArgs - 1
	if rerr, ok := result.(*object.Error); ok {
		return rerr
	}
	return vm.push(result)
}

func (vm *VirtualMachine) returnFromFrame(value object.Object) error {
	if vm.framesIndex <= 1 {
		return errors.EvalErrorf("return outside function")
	}
	f := vm.popFrame()
	vm.sp = f.basePointer - 1
	return vm.push(value)
}

func (vm *VirtualMachine) pushClosure(index, numFree int) error {
	if index >= len(vm.constants) {
		return errors.EvalErrorf("constant index %d out of range", index)
	}
	fn, ok := vm.constants[index].(*object.CompiledFunction)
	if !ok {
		return errors.EvalErrorf("constant %d is not a function: %s", index, vm.constants[index].Type())
	}
	free, err := vm.popN(numFree)
	if err != nil {
		return err
	}
	return vm.push(object.NewClosure(fn, free))
}

// LastPoppedStackElem returns the value most recently removed from the
// stack, which after a complete run is the value of the last expression
// statement.
func (vm *VirtualMachine) LastPoppedStackElem() object.Object {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running || vm.sp >= len(vm.stack) {
		return nil
	}
	return vm.stack[vm.sp]
}

// StackTop returns the value on top of the stack, or nil if the stack is
// empty or the VM is running.
func (vm *VirtualMachine) StackTop() object.Object {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running || vm.sp == 0 {
		return nil
	}
	return vm.stack[vm.sp-1]
}

// Globals returns the global slots. Pass them to WithGlobals to run more
// code against the same bindings.
func (vm *VirtualMachine) Globals() []object.Object {
	return vm.globals
}

// Err returns the runtime error that halted the last run, or nil.
func (vm *VirtualMachine) Err() *object.Error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	return vm.err
}

// Result returns the outcome of the last run: the runtime error that
// halted it, or else the value of the last expression statement. It is
// Null when the program produced no value.
func (vm *VirtualMachine) Result() object.Object {
	if err := vm.Err(); err != nil {
		return err
	}
	return orNull(vm.LastPoppedStackElem())
}
