package compiler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/monkey/ast"
	"github.com/risor-io/monkey/builtins"
	"github.com/risor-io/monkey/errors"
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
	"github.com/risor-io/monkey/parser"
)

type compilerTestCase struct {
	input                string
	expectedConstants    []interface{}
	expectedInstructions []op.Instructions
}

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	return program
}

func concat(s []op.Instructions) op.Instructions {
	var out op.Instructions
	for _, ins := range s {
		out = append(out, ins...)
	}
	return out
}

func runCompilerTests(t *testing.T, tests []compilerTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			bc, err := Compile(parse(t, tt.input))
			require.Nil(t, err)
			require.Equal(t, concat(tt.expectedInstructions).String(), bc.Instructions.String())
			testConstants(t, tt.expectedConstants, bc.Constants)
		})
	}
}

func testConstants(t *testing.T, expected []interface{}, actual []object.Object) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i, constant := range expected {
		switch constant := constant.(type) {
		case int:
			require.Equal(t, object.NewInteger(int64(constant)), actual[i])
		case string:
			require.Equal(t, object.NewString(constant), actual[i])
		case []op.Instructions:
			fn, ok := actual[i].(*object.CompiledFunction)
			require.True(t, ok, "constant %d is %T", i, actual[i])
			require.Equal(t, concat(constant).String(), fn.Instructions.String())
		}
	}
}

func TestIntegerArithmetic(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "1 + 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Add),
				op.Make(op.Pop),
			},
		},
		{
			input:             "1; 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Pop),
				op.Make(op.Constant, 1),
				op.Make(op.Pop),
			},
		},
		{
			input:             "1 - 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Sub),
				op.Make(op.Pop),
			},
		},
		{
			input:             "1 * 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Mul),
				op.Make(op.Pop),
			},
		},
		{
			input:             "2 / 1",
			expectedConstants: []interface{}{2, 1},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Div),
				op.Make(op.Pop),
			},
		},
		{
			input:             "-1",
			expectedConstants: []interface{}{1},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Minus),
				op.Make(op.Pop),
			},
		},
	})
}

func TestConstantInterning(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "1 + 1",
			expectedConstants: []interface{}{1},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 0),
				op.Make(op.Add),
				op.Make(op.Pop),
			},
		},
		{
			input:             `"a" + "b" + "a"`,
			expectedConstants: []interface{}{"a", "b"},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Add),
				op.Make(op.Constant, 0),
				op.Make(op.Add),
				op.Make(op.Pop),
			},
		},
		{
			input:             "[1, 2, 3][1 + 1]",
			expectedConstants: []interface{}{1, 2, 3},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Constant, 2),
				op.Make(op.Array, 3),
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 0),
				op.Make(op.Add),
				op.Make(op.Index),
				op.Make(op.Pop),
			},
		},
	})
}

func TestBooleanExpressions(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "true",
			expectedConstants: []interface{}{},
			expectedInstructions: []op.Instructions{
				op.Make(op.True),
				op.Make(op.Pop),
			},
		},
		{
			input:             "1 > 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.GreaterThan),
				op.Make(op.Pop),
			},
		},
		{
			// operands are swapped: 2 is compiled first
			input:             "1 < 2",
			expectedConstants: []interface{}{2, 1},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.GreaterThan),
				op.Make(op.Pop),
			},
		},
		{
			input:             "1 == 2",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Equal),
				op.Make(op.Pop),
			},
		},
		{
			input:             "true != false",
			expectedConstants: []interface{}{},
			expectedInstructions: []op.Instructions{
				op.Make(op.True),
				op.Make(op.False),
				op.Make(op.NotEqual),
				op.Make(op.Pop),
			},
		},
		{
			input:             "!true",
			expectedConstants: []interface{}{},
			expectedInstructions: []op.Instructions{
				op.Make(op.True),
				op.Make(op.Bang),
				op.Make(op.Pop),
			},
		},
	})
}

func TestConditionals(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "if (true) { 10 }; 3333;",
			expectedConstants: []interface{}{10, 3333},
			expectedInstructions: []op.Instructions{
				// 0000
				op.Make(op.True),
				// 0001
				op.Make(op.JumpNotTruthy, 10),
				// 0004
				op.Make(op.Constant, 0),
				// 0007
				op.Make(op.Jump, 11),
				// 0010
				op.Make(op.Null),
				// 0011
				op.Make(op.Pop),
				// 0012
				op.Make(op.Constant, 1),
				// 0015
				op.Make(op.Pop),
			},
		},
		{
			input:             "if (true) { 10 } else { 20 }; 3333;",
			expectedConstants: []interface{}{10, 20, 3333},
			expectedInstructions: []op.Instructions{
				// 0000
				op.Make(op.True),
				// 0001
				op.Make(op.JumpNotTruthy, 10),
				// 0004
				op.Make(op.Constant, 0),
				// 0007
				op.Make(op.Jump, 13),
				// 0010
				op.Make(op.Constant, 1),
				// 0013
				op.Make(op.Pop),
				// 0014
				op.Make(op.Constant, 2),
				// 0017
				op.Make(op.Pop),
			},
		},
		{
			input:             "if (true) { }",
			expectedConstants: []interface{}{},
			expectedInstructions: []op.Instructions{
				// 0000
				op.Make(op.True),
				// 0001
				op.Make(op.JumpNotTruthy, 8),
				// 0004
				op.Make(op.Null),
				// 0005
				op.Make(op.Jump, 9),
				// 0008
				op.Make(op.Null),
				// 0009
				op.Make(op.Pop),
			},
		},
	})
}

func TestConditionalIsDeterministic(t *testing.T) {
	first, err := Compile(parse(t, "if (false) { 10 }"))
	require.Nil(t, err)
	second, err := Compile(parse(t, "if (false) { 10 }"))
	require.Nil(t, err)
	require.Equal(t, first.Instructions, second.Instructions)
	require.Equal(t, first.Constants, second.Constants)
}

func TestGlobalLetStatements(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "let one = 1; let two = 2;",
			expectedConstants: []interface{}{1, 2},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.SetGlobal, 0),
				op.Make(op.Constant, 1),
				op.Make(op.SetGlobal, 1),
			},
		},
		{
			input:             "let one = 1; one;",
			expectedConstants: []interface{}{1},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.SetGlobal, 0),
				op.Make(op.GetGlobal, 0),
				op.Make(op.Pop),
			},
		},
		{
			input:             "let one = 1; let two = one; two;",
			expectedConstants: []interface{}{1},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.SetGlobal, 0),
				op.Make(op.GetGlobal, 0),
				op.Make(op.SetGlobal, 1),
				op.Make(op.GetGlobal, 1),
				op.Make(op.Pop),
			},
		},
	})
}

func TestArrayAndHashLiterals(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "[]",
			expectedConstants: []interface{}{},
			expectedInstructions: []op.Instructions{
				op.Make(op.Array, 0),
				op.Make(op.Pop),
			},
		},
		{
			input:             "[1 + 2, 3 - 4]",
			expectedConstants: []interface{}{1, 2, 3, 4},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Add),
				op.Make(op.Constant, 2),
				op.Make(op.Constant, 3),
				op.Make(op.Sub),
				op.Make(op.Array, 2),
				op.Make(op.Pop),
			},
		},
		{
			input:             "{}",
			expectedConstants: []interface{}{},
			expectedInstructions: []op.Instructions{
				op.Make(op.Hash, 0),
				op.Make(op.Pop),
			},
		},
		{
			input:             "{1: 2, 3: 4, 5: 6}",
			expectedConstants: []interface{}{1, 2, 3, 4, 5, 6},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Constant, 2),
				op.Make(op.Constant, 3),
				op.Make(op.Constant, 4),
				op.Make(op.Constant, 5),
				op.Make(op.Hash, 6),
				op.Make(op.Pop),
			},
		},
		{
			// pairs are compiled in key order, not source order
			input:             `{"b": 1, "a": 2}`,
			expectedConstants: []interface{}{"a", 2, "b", 1},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Constant, 2),
				op.Make(op.Constant, 3),
				op.Make(op.Hash, 4),
				op.Make(op.Pop),
			},
		},
	})
}

func TestFunctions(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "fn() { return 5 + 10 }",
			expectedConstants: []interface{}{
				5,
				10,
				[]op.Instructions{
					op.Make(op.Constant, 0),
					op.Make(op.Constant, 1),
					op.Make(op.Add),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 2, 0),
				op.Make(op.Pop),
			},
		},
		{
			input: "fn() { 5 + 10 }",
			expectedConstants: []interface{}{
				5,
				10,
				[]op.Instructions{
					op.Make(op.Constant, 0),
					op.Make(op.Constant, 1),
					op.Make(op.Add),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 2, 0),
				op.Make(op.Pop),
			},
		},
		{
			input: "fn() { 1; 2 }",
			expectedConstants: []interface{}{
				1,
				2,
				[]op.Instructions{
					op.Make(op.Constant, 0),
					op.Make(op.Pop),
					op.Make(op.Constant, 1),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 2, 0),
				op.Make(op.Pop),
			},
		},
		{
			input: "fn() { }",
			expectedConstants: []interface{}{
				[]op.Instructions{
					op.Make(op.Return),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 0, 0),
				op.Make(op.Pop),
			},
		},
	})
}

func TestFunctionCalls(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "fn() { 24 }();",
			expectedConstants: []interface{}{
				24,
				[]op.Instructions{
					op.Make(op.Constant, 0),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 1, 0),
				op.Make(op.Call, 0),
				op.Make(op.Pop),
			},
		},
		{
			input: "let oneArg = fn(a) { a }; oneArg(24);",
			expectedConstants: []interface{}{
				[]op.Instructions{
					op.Make(op.GetLocal, 0),
					op.Make(op.ReturnValue),
				},
				24,
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 0, 0),
				op.Make(op.SetGlobal, 0),
				op.Make(op.GetGlobal, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Call, 1),
				op.Make(op.Pop),
			},
		},
		{
			input: "let manyArg = fn(a, b, c) { a; b; c }; manyArg(24, 25, 26);",
			expectedConstants: []interface{}{
				[]op.Instructions{
					op.Make(op.GetLocal, 0),
					op.Make(op.Pop),
					op.Make(op.GetLocal, 1),
					op.Make(op.Pop),
					op.Make(op.GetLocal, 2),
					op.Make(op.ReturnValue),
				},
				24,
				25,
				26,
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 0, 0),
				op.Make(op.SetGlobal, 0),
				op.Make(op.GetGlobal, 0),
				op.Make(op.Constant, 1),
				op.Make(op.Constant, 2),
				op.Make(op.Constant, 3),
				op.Make(op.Call, 3),
				op.Make(op.Pop),
			},
		},
	})
}

func TestLetStatementScopes(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "let num = 55; fn() { num }",
			expectedConstants: []interface{}{
				55,
				[]op.Instructions{
					op.Make(op.GetGlobal, 0),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Constant, 0),
				op.Make(op.SetGlobal, 0),
				op.Make(op.Closure, 1, 0),
				op.Make(op.Pop),
			},
		},
		{
			input: "fn() { let num = 55; num }",
			expectedConstants: []interface{}{
				55,
				[]op.Instructions{
					op.Make(op.Constant, 0),
					op.Make(op.SetLocal, 0),
					op.Make(op.GetLocal, 0),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 1, 0),
				op.Make(op.Pop),
			},
		},
	})
}

func TestBuiltins(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input:             "len([]); push([], 1);",
			expectedConstants: []interface{}{1},
			expectedInstructions: []op.Instructions{
				op.Make(op.GetBuiltin, 0),
				op.Make(op.Array, 0),
				op.Make(op.Call, 1),
				op.Make(op.Pop),
				op.Make(op.GetBuiltin, 4),
				op.Make(op.Array, 0),
				op.Make(op.Constant, 0),
				op.Make(op.Call, 2),
				op.Make(op.Pop),
			},
		},
		{
			input: "fn() { len([]) }",
			expectedConstants: []interface{}{
				[]op.Instructions{
					op.Make(op.GetBuiltin, 0),
					op.Make(op.Array, 0),
					op.Make(op.Call, 1),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 0, 0),
				op.Make(op.Pop),
			},
		},
	})
}

func TestBuiltinIndexesMatchRegistry(t *testing.T) {
	c := New()
	for _, name := range builtins.Names() {
		symbol, ok := c.SymbolTable().Resolve(name)
		require.True(t, ok)
		require.Equal(t, BuiltinScope, symbol.Scope)
		b, index, ok := builtins.Lookup(name)
		require.True(t, ok)
		require.Equal(t, index, int(symbol.Index))
		require.Same(t, builtins.All()[symbol.Index], b)
	}
}

func TestClosures(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "fn(a) { fn(b) { a + b } }",
			expectedConstants: []interface{}{
				[]op.Instructions{
					op.Make(op.GetFree, 0),
					op.Make(op.GetLocal, 0),
					op.Make(op.Add),
					op.Make(op.ReturnValue),
				},
				[]op.Instructions{
					op.Make(op.GetLocal, 0),
					op.Make(op.Closure, 0, 1),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 1, 0),
				op.Make(op.Pop),
			},
		},
		{
			input: "fn(a) { fn(b) { fn(c) { a + b + c } } };",
			expectedConstants: []interface{}{
				[]op.Instructions{
					op.Make(op.GetFree, 0),
					op.Make(op.GetFree, 1),
					op.Make(op.Add),
					op.Make(op.GetLocal, 0),
					op.Make(op.Add),
					op.Make(op.ReturnValue),
				},
				[]op.Instructions{
					op.Make(op.GetFree, 0),
					op.Make(op.GetLocal, 0),
					op.Make(op.Closure, 0, 2),
					op.Make(op.ReturnValue),
				},
				[]op.Instructions{
					op.Make(op.GetLocal, 0),
					op.Make(op.Closure, 1, 1),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 2, 0),
				op.Make(op.Pop),
			},
		},
	})
}

func TestRecursiveFunctions(t *testing.T) {
	runCompilerTests(t, []compilerTestCase{
		{
			input: "let countDown = fn(x) { countDown(x - 1); }; countDown(1);",
			expectedConstants: []interface{}{
				1,
				[]op.Instructions{
					op.Make(op.CurrentClosure),
					op.Make(op.GetLocal, 0),
					op.Make(op.Constant, 0),
					op.Make(op.Sub),
					op.Make(op.Call, 1),
					op.Make(op.ReturnValue),
				},
			},
			expectedInstructions: []op.Instructions{
				op.Make(op.Closure, 1, 0),
				op.Make(op.SetGlobal, 0),
				op.Make(op.GetGlobal, 0),
				op.Make(op.Constant, 0),
				op.Make(op.Call, 1),
				op.Make(op.Pop),
			},
		},
	})
}

func TestCompiledFunctionMetadata(t *testing.T) {
	bc, err := Compile(parse(t, "let add = fn(a, b) { let c = a + b; c };"))
	require.Nil(t, err)
	require.Len(t, bc.Constants, 1)
	fn, ok := bc.Constants[0].(*object.CompiledFunction)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, 2, fn.NumParameters)
	require.Equal(t, 3, fn.NumLocals)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		input   string
		code    errors.ErrorCode
		message string
		line    int
		column  int
	}{
		{"foo", errors.E2001, `undefined variable "foo"`, 1, 1},
		{"let a = 1;\n  a + b", errors.E2001, `undefined variable "b"`, 2, 7},
		{"return 1;", errors.E2005, "return outside function", 1, 1},
		{"fn() { x }", errors.E2001, `undefined variable "x"`, 1, 8},
		{"let f = fn() { let y = 1; }; y", errors.E2001, `undefined variable "y"`, 1, 30},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Compile(parse(t, tt.input), WithFilename("test.mk"))
			require.NotNil(t, err)
			compileErr, ok := err.(*errors.CompileError)
			require.True(t, ok)
			require.Equal(t, tt.code, compileErr.Code)
			require.Equal(t, tt.message, compileErr.Message)
			require.Equal(t, "test.mk", compileErr.Filename)
			require.Equal(t, tt.line, compileErr.Line)
			require.Equal(t, tt.column, compileErr.Column)
		})
	}
}

func TestUndefinedVariableSuggestions(t *testing.T) {
	_, err := Compile(parse(t, "let length = 1; lenght"))
	require.NotNil(t, err)
	compileErr, ok := err.(*errors.CompileError)
	require.True(t, ok)
	require.Equal(t, []errors.Suggestion{
		{Value: "length", Distance: 2},
		{Value: "len", Distance: 3},
	}, compileErr.Suggestions)
}

func TestUnsupportedNode(t *testing.T) {
	c := New()
	err := c.Compile(&ast.ExpressionStmt{})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "missing expression")

	err = c.Compile(nil)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "missing node")
}

func TestTooManyArguments(t *testing.T) {
	args := make([]ast.Expr, MaxArgs+1)
	for i := range args {
		args[i] = &ast.Int{Literal: "1", Value: 1}
	}
	call := &ast.Call{Fun: &ast.Ident{Name: "len"}, Args: args}
	err := New().Compile(&ast.ExpressionStmt{X: call})
	require.NotNil(t, err)
	compileErr, ok := err.(*errors.CompileError)
	require.True(t, ok)
	require.Equal(t, errors.E2006, compileErr.Code)
}

// capturingSource returns a program whose inner function captures n locals
// of its enclosing function.
func capturingSource(n int) string {
	var b strings.Builder
	b.WriteString("let outer = fn() { ")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "let v%d = %d; ", i, i)
	}
	b.WriteString("fn() { 0")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, " + v%d", i)
	}
	b.WriteString(" } }; outer()()")
	return b.String()
}

func TestTooManyFreeVariables(t *testing.T) {
	require.Nil(t, New().Compile(parse(t, capturingSource(MaxFreeVars))))

	err := New().Compile(parse(t, capturingSource(MaxFreeVars+45)))
	require.NotNil(t, err)
	compileErr, ok := err.(*errors.CompileError)
	require.True(t, ok)
	require.Equal(t, errors.E2009, compileErr.Code)
	require.Contains(t, compileErr.Error(), fmt.Sprintf(`capturing "v%d"`, MaxFreeVars))
}

func TestTooManyBuiltins(t *testing.T) {
	names := make([]string, MaxBuiltins+1)
	for i := range names {
		names[i] = fmt.Sprintf("b%d", i)
	}
	err := New(WithBuiltins(names)).Compile(parse(t, "1"))
	require.EqualError(t, err, "compiler: too many builtins (max 256, got 257)")

	require.Nil(t, New(WithBuiltins(names[:MaxBuiltins])).Compile(parse(t, "b255")))
}

func TestIncrementalCompilation(t *testing.T) {
	first := New()
	require.Nil(t, first.Compile(parse(t, "let a = 1;")))

	second := New(WithState(first.SymbolTable(), first.Constants()))
	require.Nil(t, second.Compile(parse(t, "a + 1")))
	bc := second.Bytecode()
	testConstants(t, []interface{}{1}, bc.Constants)
	require.Equal(t, concat([]op.Instructions{
		op.Make(op.GetGlobal, 0),
		op.Make(op.Constant, 0),
		op.Make(op.Add),
		op.Make(op.Pop),
	}).String(), bc.Instructions.String())
}
