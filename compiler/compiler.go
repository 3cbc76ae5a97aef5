// Package compiler is used to compile a monkey abstract syntax tree (AST)
// into bytecode for the virtual machine.
//
// # Scopes
//
// Each function literal is compiled into its own instruction buffer, held in
// a stack of compilation scopes that mirrors the symbol table's stack of
// function scopes. All functions share one constant pool.
//
// The symbol table classifies every name into one of these scopes:
//
//   - Global: top-level bindings, accessed via GET_GLOBAL/SET_GLOBAL
//   - Local: function parameters and bindings, accessed via GET_LOCAL/SET_LOCAL
//   - Builtin: host functions, accessed via GET_BUILTIN
//   - Free: bindings captured from an enclosing function, accessed via GET_FREE
//   - Function: the function's own name, accessed via CURRENT_CLOSURE
//
// When a function refers to a local of an enclosing function, that local is
// captured by value when the closure is created: the compiler emits loads for
// every captured value immediately before the CLOSURE instruction.
package compiler

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/risor-io/monkey/ast"
	"github.com/risor-io/monkey/builtins"
	"github.com/risor-io/monkey/bytecode"
	"github.com/risor-io/monkey/errors"
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
	"github.com/risor-io/monkey/token"
)

const (
	// MaxArgs is the maximum number of arguments in a call.
	MaxArgs = math.MaxUint8

	// MaxFreeVars is the maximum number of variables a closure can capture.
	MaxFreeVars = math.MaxUint8

	// MaxBuiltins is the maximum number of builtin names addressable by
	// GET_BUILTIN.
	MaxBuiltins = math.MaxUint8 + 1

	// MaxConstants is the maximum size of the constant pool.
	MaxConstants = math.MaxUint16 + 1

	// MaxElements is the maximum number of stack items consumed by one
	// ARRAY or HASH instruction.
	MaxElements = math.MaxUint16

	// Placeholder is a temporary jump target written during compilation,
	// which is always replaced before compilation is complete.
	Placeholder = math.MaxUint16
)

type emittedInstruction struct {
	Opcode   op.Code
	Position int
}

type compilationScope struct {
	instructions op.Instructions
	last         emittedInstruction
	previous     emittedInstruction
}

// Compiler is used to compile monkey AST into its corresponding bytecode.
type Compiler struct {
	constants []object.Object

	// Constant pool indexes of integer and string literals already added
	intConstants    map[int64]int
	stringConstants map[string]int

	symbols *SymbolTable
	scopes  []compilationScope

	builtinNames []string
	filename     string
	logger       zerolog.Logger
}

// Option is a configuration function for a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithBuiltins sets the builtin names, in index order. Defaults to the
// names of the standard builtins. At most MaxBuiltins names are allowed;
// Compile fails if more are given.
func WithBuiltins(names []string) Option {
	return func(c *Compiler) {
		c.builtinNames = names
	}
}

// WithFilename sets the filename reported in compile errors.
func WithFilename(filename string) Option {
	return func(c *Compiler) {
		c.filename = filename
	}
}

// WithState continues compilation from an earlier run, reusing its symbol
// table and constants. This is used for REPL-style incremental compilation,
// together with vm.WithGlobals.
func WithState(symbols *SymbolTable, constants []object.Object) Option {
	return func(c *Compiler) {
		c.symbols = symbols
		c.constants = constants
	}
}

// New creates and returns a new Compiler.
func New(options ...Option) *Compiler {
	c := &Compiler{
		intConstants:    map[int64]int{},
		stringConstants: map[string]int{},
		scopes:          []compilationScope{{}},
		builtinNames:    builtins.Names(),
		logger:          zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.symbols == nil {
		c.symbols = NewSymbolTable()
		for i, name := range c.builtinNames {
			c.symbols.DefineBuiltin(i, name)
		}
	}
	for i, constant := range c.constants {
		switch constant := constant.(type) {
		case *object.Integer:
			c.intConstants[constant.Value] = i
		case *object.String:
			c.stringConstants[constant.Value] = i
		}
	}
	return c
}

// Compile compiles the given program and returns its bytecode.
func Compile(program *ast.Program, options ...Option) (*bytecode.Bytecode, error) {
	c := New(options...)
	if err := c.Compile(program); err != nil {
		return nil, err
	}
	return c.Bytecode(), nil
}

// Compile compiles the given node into the current scope. On error, the
// compiler's output must not be used.
func (c *Compiler) Compile(node ast.Node) error {
	if len(c.builtinNames) > MaxBuiltins {
		return fmt.Errorf("compiler: too many builtins (max %d, got %d)", MaxBuiltins, len(c.builtinNames))
	}
	if err := c.compile(node); err != nil {
		return err
	}
	c.logger.Debug().
		Str("filename", c.filename).
		Int("instructions", len(c.currentInstructions())).
		Int("constants", len(c.constants)).
		Msg("compiled")
	return nil
}

// Bytecode returns the instructions of the top-level scope and the
// constant pool.
func (c *Compiler) Bytecode() *bytecode.Bytecode {
	return bytecode.New(c.currentInstructions(), c.constants)
}

// SymbolTable returns the compiler's symbol table.
func (c *Compiler) SymbolTable() *SymbolTable {
	return c.symbols
}

// Constants returns the constant pool.
func (c *Compiler) Constants() []object.Object {
	return c.constants
}

func (c *Compiler) compile(node ast.Node) error {
	switch node := node.(type) {
	case *ast.Program:
		for _, stmt := range node.Stmts {
			if err := c.compile(stmt); err != nil {
				return err
			}
		}
	case *ast.Block:
		for _, stmt := range node.Stmts {
			if err := c.compile(stmt); err != nil {
				return err
			}
		}
	case *ast.ExpressionStmt:
		if err := c.compileExpr(node, node.X); err != nil {
			return err
		}
		c.emit(op.Pop)
	case *ast.Let:
		return c.compileLet(node)
	case *ast.Return:
		return c.compileReturn(node)
	case *ast.Ident:
		return c.compileIdent(node)
	case *ast.Int:
		return c.compileInt(node)
	case *ast.String:
		return c.compileString(node)
	case *ast.Bool:
		if node.Value {
			c.emit(op.True)
		} else {
			c.emit(op.False)
		}
	case *ast.Prefix:
		return c.compilePrefix(node)
	case *ast.Infix:
		return c.compileInfix(node)
	case *ast.If:
		return c.compileIf(node)
	case *ast.Func:
		return c.compileFunc(node)
	case *ast.Call:
		return c.compileCall(node)
	case *ast.Array:
		return c.compileArray(node)
	case *ast.Hash:
		return c.compileHash(node)
	case *ast.Index:
		return c.compileIndex(node)
	case nil:
		return c.formatError(errors.E2004, "missing node", token.Position{})
	default:
		return c.formatError(errors.E2004, fmt.Sprintf("unsupported node type %T", node), node.Pos())
	}
	return nil
}

// compileExpr compiles a child expression of parent, reporting a missing
// expression at the parent's position.
func (c *Compiler) compileExpr(parent ast.Node, expr ast.Expr) error {
	if expr == nil {
		return c.formatError(errors.E2004, "missing expression", parent.Pos())
	}
	return c.compile(expr)
}

func (c *Compiler) compileLet(node *ast.Let) error {
	if node.Name == nil {
		return c.formatError(errors.E2002, "missing let target", node.Pos())
	}
	if err := c.compileExpr(node, node.Value); err != nil {
		return err
	}
	symbol, err := c.symbols.Define(node.Name.Name)
	if err != nil {
		return c.formatError(errors.E2007, err.Error(), node.Name.Pos())
	}
	switch symbol.Scope {
	case GlobalScope:
		c.emit(op.SetGlobal, int(symbol.Index))
	case LocalScope:
		c.emit(op.SetLocal, int(symbol.Index))
	default:
		return c.formatError(errors.E2002,
			fmt.Sprintf("cannot assign to %s symbol %q", symbol.Scope, symbol.Name), node.Name.Pos())
	}
	return nil
}

func (c *Compiler) compileReturn(node *ast.Return) error {
	if c.symbols.Depth() == 0 {
		return c.formatError(errors.E2005, "return outside function", node.Pos())
	}
	if err := c.compileExpr(node, node.Value); err != nil {
		return err
	}
	c.emit(op.ReturnValue)
	return nil
}

func (c *Compiler) compileIdent(node *ast.Ident) error {
	res, ok := c.symbols.Lookup(node.Name)
	if !ok {
		suggestions := errors.SuggestSimilar(node.Name, c.symbols.Names())
		return c.formatErrorWithSuggestions(errors.E2001,
			fmt.Sprintf("undefined variable %q", node.Name), node.Pos(), suggestions)
	}
	// Each capture adds one free slot to its scope. The slot index must fit
	// the GET_FREE operand and the count must fit the CLOSURE operand.
	for _, capture := range res.Captures {
		if c.symbols.NumFree(capture.Depth) >= MaxFreeVars {
			return c.formatError(errors.E2009,
				fmt.Sprintf("too many free variables (max %d) capturing %q", MaxFreeVars, node.Name), node.Pos())
		}
	}
	c.loadSymbol(c.symbols.Apply(res))
	return nil
}

func (c *Compiler) loadSymbol(symbol Symbol) {
	switch symbol.Scope {
	case GlobalScope:
		c.emit(op.GetGlobal, int(symbol.Index))
	case LocalScope:
		c.emit(op.GetLocal, int(symbol.Index))
	case BuiltinScope:
		c.emit(op.GetBuiltin, int(symbol.Index))
	case FreeScope:
		c.emit(op.GetFree, int(symbol.Index))
	case FunctionScope:
		c.emit(op.CurrentClosure)
	}
}

func (c *Compiler) compileInt(node *ast.Int) error {
	index, ok := c.intConstants[node.Value]
	if !ok {
		var err error
		if index, err = c.addConstant(object.NewInteger(node.Value), node.Pos()); err != nil {
			return err
		}
		c.intConstants[node.Value] = index
	}
	c.emit(op.Constant, index)
	return nil
}

func (c *Compiler) compileString(node *ast.String) error {
	index, ok := c.stringConstants[node.Value]
	if !ok {
		var err error
		if index, err = c.addConstant(object.NewString(node.Value), node.Pos()); err != nil {
			return err
		}
		c.stringConstants[node.Value] = index
	}
	c.emit(op.Constant, index)
	return nil
}

func (c *Compiler) compilePrefix(node *ast.Prefix) error {
	if err := c.compileExpr(node, node.X); err != nil {
		return err
	}
	switch node.Op {
	case "!":
		c.emit(op.Bang)
	case "-":
		c.emit(op.Minus)
	default:
		return c.formatError(errors.E2003, fmt.Sprintf("unknown operator %q", node.Op), node.Pos())
	}
	return nil
}

func (c *Compiler) compileInfix(node *ast.Infix) error {
	// There is no less-than opcode: the operands are swapped and compared
	// with GREATER_THAN instead.
	if node.Op == "<" {
		if err := c.compileExpr(node, node.Y); err != nil {
			return err
		}
		if err := c.compileExpr(node, node.X); err != nil {
			return err
		}
		c.emit(op.GreaterThan)
		return nil
	}
	if err := c.compileExpr(node, node.X); err != nil {
		return err
	}
	if err := c.compileExpr(node, node.Y); err != nil {
		return err
	}
	switch node.Op {
	case "+":
		c.emit(op.Add)
	case "-":
		c.emit(op.Sub)
	case "*":
		c.emit(op.Mul)
	case "/":
		c.emit(op.Div)
	case ">":
		c.emit(op.GreaterThan)
	case "==":
		c.emit(op.Equal)
	case "!=":
		c.emit(op.NotEqual)
	default:
		return c.formatError(errors.E2003, fmt.Sprintf("unknown operator %q", node.Op), node.OpPos)
	}
	return nil
}

func (c *Compiler) compileIf(node *ast.If) error {
	if err := c.compileExpr(node, node.Cond); err != nil {
		return err
	}
	if node.Consequence == nil {
		return c.formatError(errors.E2004, "missing if consequence", node.Pos())
	}
	jumpNotTruthyPos := c.emit(op.JumpNotTruthy, Placeholder)
	if err := c.compileBranch(node.Consequence); err != nil {
		return err
	}
	jumpPos := c.emit(op.Jump, Placeholder)
	c.changeOperand(jumpNotTruthyPos, len(c.currentInstructions()))
	if node.Alternative == nil {
		// An if without an else still produces a value
		c.emit(op.Null)
	} else if err := c.compileBranch(node.Alternative); err != nil {
		return err
	}
	c.changeOperand(jumpPos, len(c.currentInstructions()))
	return nil
}

// compileBranch compiles one arm of an if expression so that it leaves
// exactly one value on the stack: the value of its trailing expression
// statement, or null if it does not end with one.
func (c *Compiler) compileBranch(block *ast.Block) error {
	start := len(c.currentInstructions())
	if err := c.compile(block); err != nil {
		return err
	}
	if len(c.currentInstructions()) > start && c.lastInstructionIs(op.Pop) {
		c.removeLastPop()
	} else {
		c.emit(op.Null)
	}
	return nil
}

func (c *Compiler) compileFunc(node *ast.Func) error {
	if node.Body == nil {
		return c.formatError(errors.E2004, "missing function body", node.Pos())
	}
	if len(node.Params) > MaxArgs {
		return c.formatError(errors.E2006,
			fmt.Sprintf("too many parameters (max %d, got %d)", MaxArgs, len(node.Params)), node.Pos())
	}
	c.enterScope()
	if node.Name != "" {
		c.symbols.DefineFunctionName(node.Name)
	}
	for _, param := range node.Params {
		if _, err := c.symbols.Define(param.Name); err != nil {
			c.leaveScope()
			return c.formatError(errors.E2007, err.Error(), param.Pos())
		}
	}
	if err := c.compile(node.Body); err != nil {
		c.leaveScope()
		return err
	}
	if c.lastInstructionIs(op.Pop) {
		c.replaceLastPopWithReturn()
	}
	if !c.lastInstructionIs(op.ReturnValue) {
		c.emit(op.Return)
	}
	instructions, free, numLocals := c.leaveScope()
	for _, symbol := range free {
		c.loadSymbol(symbol)
	}
	fn := &object.CompiledFunction{
		Instructions:  instructions,
		NumLocals:     numLocals,
		NumParameters: len(node.Params),
		Name:          node.Name,
	}
	index, err := c.addConstant(fn, node.Pos())
	if err != nil {
		return err
	}
	c.logger.Debug().
		Str("name", node.Name).
		Int("constant", index).
		Int("locals", numLocals).
		Int("free", len(free)).
		Msg("compiled function")
	c.emit(op.Closure, index, len(free))
	return nil
}

func (c *Compiler) compileCall(node *ast.Call) error {
	if len(node.Args) > MaxArgs {
		return c.formatError(errors.E2006,
			fmt.Sprintf("too many arguments (max %d, got %d)", MaxArgs, len(node.Args)), node.Pos())
	}
	if err := c.compileExpr(node, node.Fun); err != nil {
		return err
	}
	for _, arg := range node.Args {
		if err := c.compileExpr(node, arg); err != nil {
			return err
		}
	}
	c.emit(op.Call, len(node.Args))
	return nil
}

func (c *Compiler) compileArray(node *ast.Array) error {
	if len(node.Items) > MaxElements {
		return c.formatError(errors.E2010,
			fmt.Sprintf("array literal too large (max %d, got %d)", MaxElements, len(node.Items)), node.Pos())
	}
	for _, item := range node.Items {
		if err := c.compileExpr(node, item); err != nil {
			return err
		}
	}
	c.emit(op.Array, len(node.Items))
	return nil
}

func (c *Compiler) compileHash(node *ast.Hash) error {
	if len(node.Items)*2 > MaxElements {
		return c.formatError(errors.E2010,
			fmt.Sprintf("hash literal too large (max %d, got %d)", MaxElements/2, len(node.Items)), node.Pos())
	}
	// Sort so that the generated bytecode does not depend on source order
	items := make([]ast.HashItem, len(node.Items))
	copy(items, node.Items)
	for _, item := range items {
		if item.Key == nil || item.Value == nil {
			return c.formatError(errors.E2004, "missing hash key or value", node.Pos())
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Key.String() < items[j].Key.String()
	})
	for _, item := range items {
		if err := c.compile(item.Key); err != nil {
			return err
		}
		if err := c.compile(item.Value); err != nil {
			return err
		}
	}
	c.emit(op.Hash, len(items)*2)
	return nil
}

func (c *Compiler) compileIndex(node *ast.Index) error {
	if err := c.compileExpr(node, node.X); err != nil {
		return err
	}
	if err := c.compileExpr(node, node.Index); err != nil {
		return err
	}
	c.emit(op.Index)
	return nil
}

func (c *Compiler) addConstant(obj object.Object, pos token.Position) (int, error) {
	if len(c.constants) >= MaxConstants {
		return 0, c.formatError(errors.E2008,
			fmt.Sprintf("number of constants exceeded limit of %d", MaxConstants), pos)
	}
	c.constants = append(c.constants, obj)
	return len(c.constants) - 1, nil
}

func (c *Compiler) currentInstructions() op.Instructions {
	return c.scopes[len(c.scopes)-1].instructions
}

func (c *Compiler) emit(opcode op.Code, operands ...int) int {
	ins := op.Make(opcode, operands...)
	scope := &c.scopes[len(c.scopes)-1]
	pos := len(scope.instructions)
	scope.instructions = append(scope.instructions, ins...)
	scope.previous = scope.last
	scope.last = emittedInstruction{Opcode: opcode, Position: pos}
	return pos
}

func (c *Compiler) lastInstructionIs(opcode op.Code) bool {
	if len(c.currentInstructions()) == 0 {
		return false
	}
	return c.scopes[len(c.scopes)-1].last.Opcode == opcode
}

func (c *Compiler) removeLastPop() {
	scope := &c.scopes[len(c.scopes)-1]
	scope.instructions = scope.instructions[:scope.last.Position]
	scope.last = scope.previous
}

func (c *Compiler) replaceLastPopWithReturn() {
	scope := &c.scopes[len(c.scopes)-1]
	scope.instructions[scope.last.Position] = byte(op.ReturnValue)
	scope.last.Opcode = op.ReturnValue
}

// changeOperand overwrites the 2-byte operand of the instruction at pos.
func (c *Compiler) changeOperand(pos int, operand int) {
	c.currentInstructions().WriteUint16At(pos+1, uint16(operand))
}

func (c *Compiler) enterScope() {
	c.scopes = append(c.scopes, compilationScope{})
	c.symbols.Push()
}

func (c *Compiler) leaveScope() (op.Instructions, []Symbol, int) {
	instructions := c.currentInstructions()
	c.scopes = c.scopes[:len(c.scopes)-1]
	free, numDefinitions := c.symbols.Pop()
	return instructions, free, numDefinitions
}

// formatError creates a CompileError located at the given position.
func (c *Compiler) formatError(code errors.ErrorCode, msg string, pos token.Position) error {
	return c.formatErrorWithSuggestions(code, msg, pos, nil)
}

func (c *Compiler) formatErrorWithSuggestions(code errors.ErrorCode, msg string, pos token.Position, suggestions []errors.Suggestion) error {
	filename := c.filename
	if filename == "" {
		filename = pos.File
	}
	return &errors.CompileError{
		Code:        code,
		Message:     msg,
		Filename:    filename,
		Line:        pos.LineNumber(),
		Column:      pos.ColumnNumber(),
		Suggestions: suggestions,
	}
}
