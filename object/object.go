// Package object provides the runtime values shared by the compiler, the
// virtual machine and the tree-walking evaluator.
//
// The set of value types is closed. Consumers are expected to type switch
// over the concrete types:
//
//	switch obj := obj.(type) {
//	case *object.Integer:
//		// do something with obj.Value
//	case *object.String:
//		// do something with obj.Value
//	}
//
// The Type() method of each object may also be used to get a string
// name of the object type, such as "INTEGER" or "STRING".
package object

// Type of an object as a string.
type Type string

// Type constants
const (
	ARRAY             Type = "ARRAY"
	BOOLEAN           Type = "BOOLEAN"
	BUILTIN           Type = "BUILTIN"
	CLOSURE           Type = "CLOSURE"
	COMPILED_FUNCTION Type = "COMPILED_FUNCTION"
	ERROR             Type = "ERROR"
	FUNCTION          Type = "FUNCTION"
	HASH              Type = "HASH"
	INTEGER           Type = "INTEGER"
	NULL              Type = "NULL"
	RETURN_VALUE      Type = "RETURN_VALUE"
	STRING            Type = "STRING"
)

var (
	Null  = &NullType{}
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
)

// Object is the interface that all value types implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}
}

// NativeBool returns the Boolean singleton for the given Go bool.
func NativeBool(value bool) *Boolean {
	if value {
		return True
	}
	return False
}

// IsTruthy reports whether the object counts as true in a condition. Null
// and false are falsy; every other value is truthy.
func IsTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *NullType:
		return false
	case nil:
		return false
	default:
		return true
	}
}

// IsError reports whether the object is an *Error.
func IsError(obj Object) bool {
	_, ok := obj.(*Error)
	return ok
}

// Equal reports whether two objects are structurally equal: the same type
// holding the same payload. Arrays and hashes compare element-wise.
// Functions, closures and builtins compare by identity.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Integer:
		other, ok := b.(*Integer)
		return ok && a.Value == other.Value
	case *Boolean:
		other, ok := b.(*Boolean)
		return ok && a.Value == other.Value
	case *String:
		other, ok := b.(*String)
		return ok && a.Value == other.Value
	case *NullType:
		_, ok := b.(*NullType)
		return ok
	case *Error:
		other, ok := b.(*Error)
		return ok && a.Message == other.Message
	case *Array:
		other, ok := b.(*Array)
		if !ok || len(a.Elements) != len(other.Elements) {
			return false
		}
		for i, el := range a.Elements {
			if !Equal(el, other.Elements[i]) {
				return false
			}
		}
		return true
	case *Hash:
		other, ok := b.(*Hash)
		if !ok || len(a.Pairs) != len(other.Pairs) {
			return false
		}
		for key, pair := range a.Pairs {
			otherPair, found := other.Pairs[key]
			if !found || !Equal(pair.Value, otherPair.Value) {
				return false
			}
		}
		return true
	case *ReturnValue:
		other, ok := b.(*ReturnValue)
		return ok && Equal(a.Value, other.Value)
	case *CompiledFunction, *Closure, *Builtin, *Function:
		return a == b
	default:
		return false
	}
}
