package monkey

import (
	"context"
	"sync"

	"github.com/risor-io/monkey/compiler"
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/parser"
	"github.com/risor-io/monkey/vm"
)

// Session keeps global bindings between evaluations, as a REPL does. Each
// call to Eval compiles its input against the symbols and constants left
// by earlier calls and runs it against the same global slots.
type Session struct {
	opts *options

	mu        sync.Mutex
	symbols   *compiler.SymbolTable
	constants []object.Object
	globals   []object.Object
}

// NewSession returns a Session with no bindings beyond the builtins.
func NewSession(opts ...Option) *Session {
	return &Session{
		opts:    collectOptions(opts...),
		globals: make([]object.Object, vm.GlobalsSize),
	}
}

// Eval compiles and runs one input. A parse or compile error leaves the
// session as it was before the call.
func (s *Session) Eval(ctx context.Context, source string) (object.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	program, err := parser.Parse(ctx, source, s.opts.parserOpts()...)
	if err != nil {
		return nil, err
	}

	compilerOpts := s.opts.compilerOpts()
	if s.symbols != nil {
		// Compile against a copy so a failed input defines nothing.
		compilerOpts = append(compilerOpts, compiler.WithState(s.symbols.Clone(), s.constants))
	}
	c := compiler.New(compilerOpts...)
	if err := c.Compile(program); err != nil {
		return nil, err
	}
	s.symbols = c.SymbolTable()
	s.constants = c.Constants()

	vmOpts := append(s.opts.vmOpts(), vm.WithGlobals(s.globals))
	machine := vm.New(c.Bytecode(), vmOpts...)
	if err := machine.Run(s.opts.context(ctx)); err != nil {
		return nil, err
	}
	return unwrapError(machine.Result())
}

// Names returns the names visible at the top level, builtins included.
func (s *Session) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.symbols == nil {
		return compiler.New().SymbolTable().Names()
	}
	return s.symbols.Names()
}
