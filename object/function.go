package object

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/risor-io/monkey/ast"
	"github.com/risor-io/monkey/op"
)

// CompiledFunction holds the bytecode for one function literal. It lives in
// the constant pool and is wrapped in a Closure at runtime.
type CompiledFunction struct {
	Instructions  op.Instructions
	NumLocals     int
	NumParameters int

	// Name is set for functions bound by a let statement.
	Name string
}

func (f *CompiledFunction) Type() Type {
	return COMPILED_FUNCTION
}

func (f *CompiledFunction) Inspect() string {
	if f.Name != "" {
		return fmt.Sprintf("CompiledFunction[%s]", f.Name)
	}
	return fmt.Sprintf("CompiledFunction[%p]", f)
}

func (f *CompiledFunction) Interface() interface{} {
	return nil
}

// Closure is a compiled function paired with the values of the free
// variables it captured when it was created.
type Closure struct {
	Fn   *CompiledFunction
	Free []Object
}

func NewClosure(fn *CompiledFunction, free []Object) *Closure {
	return &Closure{Fn: fn, Free: free}
}

func (c *Closure) Type() Type {
	return CLOSURE
}

func (c *Closure) Inspect() string {
	if c.Fn.Name != "" {
		return fmt.Sprintf("Closure[%s]", c.Fn.Name)
	}
	return fmt.Sprintf("Closure[%p]", c)
}

func (c *Closure) Interface() interface{} {
	return nil
}

// Function is a function value of the tree-walking evaluator. It closes
// over the environment it was defined in.
type Function struct {
	Name       string
	Parameters []*ast.Ident
	Body       *ast.Block
	Env        *Environment
}

func (f *Function) Type() Type {
	return FUNCTION
}

func (f *Function) Inspect() string {
	params := make([]string, 0, len(f.Parameters))
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}
	var out bytes.Buffer
	out.WriteString("fn")
	if f.Name != "" {
		out.WriteString(" " + f.Name)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") {\n")
	out.WriteString(f.Body.String())
	out.WriteString("\n}")
	return out.String()
}

func (f *Function) Interface() interface{} {
	return nil
}
