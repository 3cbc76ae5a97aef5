// Package evaluator executes a monkey AST directly by walking the tree. It
// shares the value model, builtins and error messages of the virtual
// machine and serves as a reference for comparing the two.
package evaluator

import (
	"context"

	"github.com/risor-io/monkey/ast"
	"github.com/risor-io/monkey/builtins"
	"github.com/risor-io/monkey/object"
)

const (
	// DefaultMaxFrames bounds the call depth the same way the virtual
	// machine's frame stack does; the top level counts as one frame.
	DefaultMaxFrames = 1024

	contextCheckInterval = 1000
)

// Evaluator walks an AST. The environment is passed explicitly, so one
// Evaluator can evaluate against several environments, but an Evaluator
// must not be used from more than one goroutine at a time.
type Evaluator struct {
	ctx       context.Context
	builtins  map[string]*object.Builtin
	maxFrames int
	depth     int
	steps     int
}

// Option is a configuration function for an Evaluator.
type Option func(*Evaluator)

// WithMaxFrames sets the maximum call depth.
func WithMaxFrames(n int) Option {
	return func(e *Evaluator) {
		e.maxFrames = n
	}
}

// WithBuiltins replaces the standard builtins.
func WithBuiltins(fns []*object.Builtin) Option {
	return func(e *Evaluator) {
		e.builtins = make(map[string]*object.Builtin, len(fns))
		for _, fn := range fns {
			e.builtins[fn.Name()] = fn
		}
	}
}

// New returns an Evaluator. Builtins receive ctx, so values such as the
// writer used by puts are taken from it.
func New(ctx context.Context, options ...Option) *Evaluator {
	// steps starts one short of the interval so the first Eval checks ctx
	e := &Evaluator{ctx: ctx, maxFrames: DefaultMaxFrames, steps: contextCheckInterval - 1}
	WithBuiltins(builtins.All())(e)
	for _, opt := range options {
		opt(e)
	}
	if e.maxFrames <= 0 {
		e.maxFrames = DefaultMaxFrames
	}
	return e
}

// Eval evaluates node in a new Evaluator.
func Eval(ctx context.Context, node ast.Node, env *object.Environment, options ...Option) object.Object {
	return New(ctx, options...).Eval(node, env)
}

// Eval evaluates node in env. Runtime errors are returned as *object.Error
// values. Cancellation of the Evaluator's context is reported the same way,
// with the context error as the message.
func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	e.steps++
	if e.steps >= contextCheckInterval {
		e.steps = 0
		if err := e.ctx.Err(); err != nil {
			return object.Errorf("%s", err)
		}
	}

	switch node := node.(type) {
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.Block:
		return e.evalBlock(node, env)
	case *ast.ExpressionStmt:
		return e.Eval(node.X, env)
	case *ast.Let:
		value := e.Eval(node.Value, env)
		if object.IsError(value) {
			return value
		}
		env.Set(node.Name.Name, value)
		return value
	case *ast.Return:
		value := e.Eval(node.Value, env)
		if object.IsError(value) {
			return value
		}
		return &object.ReturnValue{Value: value}

	case *ast.Int:
		return object.NewInteger(node.Value)
	case *ast.Bool:
		return object.NativeBool(node.Value)
	case *ast.String:
		return object.NewString(node.Value)
	case *ast.Ident:
		return e.evalIdent(node, env)
	case *ast.Prefix:
		right := e.Eval(node.X, env)
		if object.IsError(right) {
			return right
		}
		return evalPrefix(node.Op, right)
	case *ast.Infix:
		left := e.Eval(node.X, env)
		if object.IsError(left) {
			return left
		}
		right := e.Eval(node.Y, env)
		if object.IsError(right) {
			return right
		}
		return evalInfix(node.Op, left, right)
	case *ast.If:
		return e.evalIf(node, env)
	case *ast.Func:
		return &object.Function{
			Name:       node.Name,
			Parameters: node.Params,
			Body:       node.Body,
			Env:        env,
		}
	case *ast.Call:
		fn := e.Eval(node.Fun, env)
		if object.IsError(fn) {
			return fn
		}
		args, err := e.evalExprs(node.Args, env)
		if err != nil {
			return err
		}
		return e.apply(fn, args)
	case *ast.Array:
		elements, err := e.evalExprs(node.Items, env)
		if err != nil {
			return err
		}
		return object.NewArray(elements)
	case *ast.Hash:
		return e.evalHash(node, env)
	case *ast.Index:
		left := e.Eval(node.X, env)
		if object.IsError(left) {
			return left
		}
		index := e.Eval(node.Index, env)
		if object.IsError(index) {
			return index
		}
		return evalIndex(left, index)
	case nil:
		return object.Errorf("missing node")
	}
	return object.Errorf("unsupported node type %T", node)
}

func (e *Evaluator) evalProgram(program *ast.Program, env *object.Environment) object.Object {
	var result object.Object = object.Null
	for _, stmt := range program.Stmts {
		result = e.Eval(stmt, env)
		switch r := result.(type) {
		case *object.ReturnValue:
			return r.Value
		case *object.Error:
			return r
		}
	}
	return result
}

// evalBlock returns the value of the last statement, or Null if the block
// is empty or ends with a let statement. A ReturnValue or Error is passed
// up unchanged so the enclosing function or program can handle it.
func (e *Evaluator) evalBlock(block *ast.Block, env *object.Environment) object.Object {
	var result object.Object = object.Null
	for _, stmt := range block.Stmts {
		result = e.Eval(stmt, env)
		switch result.(type) {
		case *object.ReturnValue, *object.Error:
			return result
		}
		if _, ok := stmt.(*ast.Let); ok {
			result = object.Null
		}
	}
	return result
}

func (e *Evaluator) evalIdent(node *ast.Ident, env *object.Environment) object.Object {
	if value, ok := env.Get(node.Name); ok {
		return value
	}
	if builtin, ok := e.builtins[node.Name]; ok {
		return builtin
	}
	return object.Errorf("identifier not found: %s", node.Name)
}

func (e *Evaluator) evalIf(node *ast.If, env *object.Environment) object.Object {
	condition := e.Eval(node.Cond, env)
	if object.IsError(condition) {
		return condition
	}
	if object.IsTruthy(condition) {
		return e.Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return object.Null
}

// evalExprs evaluates exprs left to right, stopping at the first error.
func (e *Evaluator) evalExprs(exprs []ast.Expr, env *object.Environment) ([]object.Object, *object.Error) {
	result := make([]object.Object, 0, len(exprs))
	for _, expr := range exprs {
		value := e.Eval(expr, env)
		if err, ok := value.(*object.Error); ok {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

func (e *Evaluator) evalHash(node *ast.Hash, env *object.Environment) object.Object {
	hash := object.NewHash(nil)
	for _, item := range node.Items {
		key := e.Eval(item.Key, env)
		if object.IsError(key) {
			return key
		}
		value := e.Eval(item.Value, env)
		if object.IsError(value) {
			return value
		}
		if err := hash.Set(key, value); err != nil {
			return err
		}
	}
	return hash
}

func (e *Evaluator) apply(fn object.Object, args []object.Object) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return object.Errorf("wrong number of arguments: want=%d, got=%d",
				len(fn.Parameters), len(args))
		}
		// The top level occupies one frame, as in the virtual machine.
		if e.depth+1 >= e.maxFrames {
			return object.Errorf("maximum call depth of %d exceeded", e.maxFrames)
		}
		env := object.NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Parameters {
			env.Set(param.Name, args[i])
		}
		e.depth++
		result := e.Eval(fn.Body, env)
		e.depth--
		if rv, ok := result.(*object.ReturnValue); ok {
			return rv.Value
		}
		return result
	case *object.Builtin:
		return fn.Call(e.ctx, args...)
	default:
		return object.Errorf("not a function: %s", fn.Type())
	}
}
