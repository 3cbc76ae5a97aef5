package bytecode_test

import (
	"context"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/risor-io/monkey/bytecode"
	"github.com/risor-io/monkey/compiler"
	"github.com/risor-io/monkey/object"
	"github.com/risor-io/monkey/op"
	"github.com/risor-io/monkey/parser"
)

func compile(t *testing.T, input string) *bytecode.Bytecode {
	t.Helper()
	program, err := parser.Parse(context.Background(), input)
	require.Nil(t, err)
	bc, err := compiler.Compile(program)
	require.Nil(t, err)
	return bc
}

func TestMarshalRoundTrip(t *testing.T) {
	bc := compile(t, `
	let greeting = "hello";
	let add = fn(a, b) { let c = a + b; c };
	let adder = fn(x) { fn(y) { x + y } };
	add(1, 2) + adder(3)(4);
	`)
	data, err := bytecode.Marshal(bc)
	require.Nil(t, err)

	restored, err := bytecode.Unmarshal(data)
	require.Nil(t, err)
	require.Equal(t, bc.ID, restored.ID)
	require.Equal(t, bc.Instructions.String(), restored.Instructions.String())
	require.Len(t, restored.Constants, len(bc.Constants))

	for i, expected := range bc.Constants {
		actual := restored.Constants[i]
		require.Equal(t, expected.Type(), actual.Type())
		switch expected := expected.(type) {
		case *object.CompiledFunction:
			fn := actual.(*object.CompiledFunction)
			require.Equal(t, expected.Instructions.String(), fn.Instructions.String())
			require.Equal(t, expected.NumLocals, fn.NumLocals)
			require.Equal(t, expected.NumParameters, fn.NumParameters)
			require.Equal(t, expected.Name, fn.Name)
		default:
			require.True(t, object.Equal(expected, actual))
		}
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	bc := compile(t, `let h = {"b": 2, "a": 1}; h["a"]`)
	first, err := bytecode.Marshal(bc)
	require.Nil(t, err)
	second, err := bytecode.Marshal(bc)
	require.Nil(t, err)
	require.Equal(t, first, second)
}

func TestNewAssignsBuildID(t *testing.T) {
	a := bytecode.New(nil, nil)
	b := bytecode.New(nil, nil)
	require.NotEqual(t, a.ID, b.ID)
}

func TestMarshalUnsupportedConstant(t *testing.T) {
	bc := bytecode.New(op.Instructions(op.Make(op.Constant, 0)), []object.Object{object.True})
	_, err := bytecode.Marshal(bc)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unsupported constant type BOOLEAN")
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := bytecode.Unmarshal([]byte("not cbor at all"))
	require.NotNil(t, err)

	wrongMagic, err := cbor.Marshal(map[int]interface{}{1: "something-else", 2: 1})
	require.Nil(t, err)
	_, err = bytecode.Unmarshal(wrongMagic)
	require.EqualError(t, err, "bytecode: not a monkey bytecode file")

	wrongVersion, err := cbor.Marshal(map[int]interface{}{1: bytecode.Magic, 2: 99})
	require.Nil(t, err)
	_, err = bytecode.Unmarshal(wrongVersion)
	require.EqualError(t, err, "bytecode: unsupported version 99 (want 1)")

	truncated, err := cbor.Marshal(map[int]interface{}{
		1: bytecode.Magic,
		2: bytecode.Version,
		4: []byte{byte(op.Constant), 0},
	})
	require.Nil(t, err)
	_, err = bytecode.Unmarshal(truncated)
	require.EqualError(t, err, "bytecode: main: offset 0: truncated CONSTANT instruction")
}

func TestStats(t *testing.T) {
	bc := compile(t, `let f = fn(x) { x * 2 }; f(3);`)
	stats, err := bc.Stats()
	require.Nil(t, err)
	require.Equal(t, 1, stats.FunctionCount)
	require.Equal(t, len(bc.Constants), stats.ConstantCount)
	// main: CLOSURE, SET_GLOBAL, GET_GLOBAL, CONSTANT, CALL, POP
	// f: GET_LOCAL, CONSTANT, MUL, RETURN_VALUE
	require.Equal(t, 10, stats.InstructionCount)
	require.Equal(t, len(bc.Instructions)+len(bc.Functions()[0].Instructions), stats.ByteCount)

	broken := bytecode.New(op.Instructions{0xEE}, nil)
	_, err = broken.Stats()
	require.NotNil(t, err)
}
