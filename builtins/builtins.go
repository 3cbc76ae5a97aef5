// Package builtins defines the ordered set of built-in functions available
// to every monkey program.
//
// The position of a builtin in All() is its index: the compiler emits that
// index in GET_BUILTIN instructions and the virtual machine uses it to find
// the implementation, so the order must never change.
package builtins

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/risor-io/monkey/object"
)

func Len(ctx context.Context, args ...object.Object) object.Object {
	if err := checkArgs("len", 1, args); err != nil {
		return err
	}
	switch arg := args[0].(type) {
	case *object.String:
		return object.NewInteger(int64(utf8.RuneCountInString(arg.Value)))
	case *object.Array:
		return object.NewInteger(int64(len(arg.Elements)))
	default:
		return object.Errorf("argument to `len` not supported, got %s", args[0].Type())
	}
}

func First(ctx context.Context, args ...object.Object) object.Object {
	arr, err := arrayArg("first", 1, args)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return object.Null
	}
	return arr.Elements[0]
}

func Last(ctx context.Context, args ...object.Object) object.Object {
	arr, err := arrayArg("last", 1, args)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return object.Null
	}
	return arr.Elements[len(arr.Elements)-1]
}

func Rest(ctx context.Context, args ...object.Object) object.Object {
	arr, err := arrayArg("rest", 1, args)
	if err != nil {
		return err
	}
	if len(arr.Elements) == 0 {
		return object.Null
	}
	elements := make([]object.Object, len(arr.Elements)-1)
	copy(elements, arr.Elements[1:])
	return object.NewArray(elements)
}

func Push(ctx context.Context, args ...object.Object) object.Object {
	arr, err := arrayArg("push", 2, args)
	if err != nil {
		return err
	}
	elements := make([]object.Object, len(arr.Elements), len(arr.Elements)+1)
	copy(elements, arr.Elements)
	return object.NewArray(append(elements, args[1]))
}

// Puts writes its arguments on one line, separated by ", ", to the writer
// found in the context (see object.WithStdout).
func Puts(ctx context.Context, args ...object.Object) object.Object {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Inspect()
	}
	if _, err := fmt.Fprintln(object.Stdout(ctx), strings.Join(parts, ", ")); err != nil {
		return object.Errorf("puts: %s", err)
	}
	return object.Null
}

func checkArgs(name string, want int, args []object.Object) *object.Error {
	if len(args) != want {
		return object.Errorf("wrong number of arguments to `%s`. got=%d, want=%d", name, len(args), want)
	}
	return nil
}

func arrayArg(name string, want int, args []object.Object) (*object.Array, *object.Error) {
	if err := checkArgs(name, want, args); err != nil {
		return nil, err
	}
	arr, ok := args[0].(*object.Array)
	if !ok {
		return nil, object.Errorf("argument to `%s` must be ARRAY, got %s", name, args[0].Type())
	}
	return arr, nil
}

var all = []*object.Builtin{
	object.NewBuiltin("len", Len),
	object.NewBuiltin("first", First),
	object.NewBuiltin("last", Last),
	object.NewBuiltin("rest", Rest),
	object.NewBuiltin("push", Push),
	object.NewBuiltin("puts", Puts),
}

// All returns the builtins in index order. The returned slice is a copy.
func All() []*object.Builtin {
	result := make([]*object.Builtin, len(all))
	copy(result, all)
	return result
}

// Names returns the builtin names in index order.
func Names() []string {
	names := make([]string, 0, len(all))
	for _, b := range all {
		names = append(names, b.Name())
	}
	return names
}

// Lookup returns the builtin with the given name and its index.
func Lookup(name string) (*object.Builtin, int, bool) {
	for i, b := range all {
		if b.Name() == name {
			return b, i, true
		}
	}
	return nil, -1, false
}
