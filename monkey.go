// Package monkey compiles and runs monkey programs.
//
// Source is compiled to bytecode and executed on a stack-based virtual
// machine. A tree-walking evaluator is also available through Interpret;
// both engines share one value model and agree on every program.
package monkey

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/risor-io/monkey/bytecode"
	"github.com/risor-io/monkey/compiler"
	"github.com/risor-io/monkey/evaluator"
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/parser"
	"github.com/risor-io/monkey/vm"
)

// Option configures a monkey compilation or execution.
type Option func(*options)

type options struct {
	filename  string
	stdout    io.Writer
	logger    zerolog.Logger
	budget    int64
	maxFrames int
}

// WithFilename sets the filename reported in parse and compile errors.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithStdout sets the writer used by puts. The default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithLogger sets the logger for compiler and VM debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithInstructionBudget limits the number of instructions the VM may
// execute. The tree-walking evaluator ignores it.
func WithInstructionBudget(n int64) Option {
	return func(o *options) {
		o.budget = n
	}
}

// WithMaxFrames sets the maximum call depth for both engines.
func WithMaxFrames(n int) Option {
	return func(o *options) {
		o.maxFrames = n
	}
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	return opts
}

func (o *options) compilerOpts() []compiler.Option {
	opts := []compiler.Option{compiler.WithLogger(o.logger)}
	if o.filename != "" {
		opts = append(opts, compiler.WithFilename(o.filename))
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithLogger(o.logger)}
	if o.budget > 0 {
		opts = append(opts, vm.WithInstructionBudget(o.budget))
	}
	if o.maxFrames > 0 {
		opts = append(opts, vm.WithMaxFrames(o.maxFrames))
	}
	return opts
}

func (o *options) evaluatorOpts() []evaluator.Option {
	var opts []evaluator.Option
	if o.maxFrames > 0 {
		opts = append(opts, evaluator.WithMaxFrames(o.maxFrames))
	}
	return opts
}

func (o *options) context(ctx context.Context) context.Context {
	if o.stdout != nil {
		return object.WithStdout(ctx, o.stdout)
	}
	return ctx
}

// Compile parses and compiles the source code, returning bytecode that can
// be run with Run or saved with bytecode.Marshal.
func Compile(ctx context.Context, source string, opts ...Option) (*bytecode.Bytecode, error) {
	o := collectOptions(opts...)
	return compile(ctx, source, o)
}

func compile(ctx context.Context, source string, o *options) (*bytecode.Bytecode, error) {
	program, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(program, o.compilerOpts()...)
}

// Run executes compiled bytecode on a new VM and returns the value of the
// last expression statement. A runtime error raised by the program is
// returned as an *object.Error.
func Run(ctx context.Context, bc *bytecode.Bytecode, opts ...Option) (object.Object, error) {
	o := collectOptions(opts...)
	return run(ctx, bc, o)
}

func run(ctx context.Context, bc *bytecode.Bytecode, o *options) (object.Object, error) {
	result, err := vm.Run(o.context(ctx), bc, o.vmOpts()...)
	if err != nil {
		return nil, err
	}
	return unwrapError(result)
}

// Eval compiles and runs the source code on the VM.
func Eval(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	o := collectOptions(opts...)
	bc, err := compile(ctx, source, o)
	if err != nil {
		return nil, err
	}
	return run(ctx, bc, o)
}

// Interpret parses the source code and evaluates it with the tree-walking
// evaluator instead of the VM.
func Interpret(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	o := collectOptions(opts...)
	program, err := parser.Parse(ctx, source, o.parserOpts()...)
	if err != nil {
		return nil, err
	}
	result := evaluator.Eval(o.context(ctx), program, object.NewEnvironment(), o.evaluatorOpts()...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return unwrapError(result)
}

func unwrapError(result object.Object) (object.Object, error) {
	if errObj, ok := result.(*object.Error); ok {
		return nil, errObj
	}
	return result, nil
}
