package object

import (
	"fmt"
	"strconv"
)

// Integer wraps int64 and implements Object and Hashable.
type Integer struct {
	Value int64
}

func NewInteger(value int64) *Integer {
	return &Integer{Value: value}
}

func (i *Integer) Type() Type {
	return INTEGER
}

func (i *Integer) Inspect() string {
	return strconv.FormatInt(i.Value, 10)
}

func (i *Integer) Interface() interface{} {
	return i.Value
}

func (i *Integer) HashKey() HashKey {
	return HashKey{Type: INTEGER, Value: uint64(i.Value)}
}

// Boolean wraps bool and implements Object and Hashable. Use the True and
// False singletons rather than allocating new values.
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() Type {
	return BOOLEAN
}

func (b *Boolean) Inspect() string {
	return strconv.FormatBool(b.Value)
}

func (b *Boolean) Interface() interface{} {
	return b.Value
}

func (b *Boolean) HashKey() HashKey {
	var value uint64
	if b.Value {
		value = 1
	}
	return HashKey{Type: BOOLEAN, Value: value}
}

// String wraps string and implements Object and Hashable.
type String struct {
	Value string
}

func NewString(value string) *String {
	return &String{Value: value}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Inspect() string {
	return s.Value
}

func (s *String) Interface() interface{} {
	return s.Value
}

func (s *String) HashKey() HashKey {
	return HashKey{Type: STRING, Value: hashString(s.Value)}
}

// NullType is the type of the Null singleton.
type NullType struct{}

func (n *NullType) Type() Type {
	return NULL
}

func (n *NullType) Inspect() string {
	return "null"
}

func (n *NullType) Interface() interface{} {
	return nil
}

// ReturnValue marks a value produced by a return statement while the
// tree-walking evaluator unwinds to the enclosing function call.
type ReturnValue struct {
	Value Object
}

func (r *ReturnValue) Type() Type {
	return RETURN_VALUE
}

func (r *ReturnValue) Inspect() string {
	return r.Value.Inspect()
}

func (r *ReturnValue) Interface() interface{} {
	return r.Value.Interface()
}

func (r *ReturnValue) String() string {
	return fmt.Sprintf("return(%s)", r.Value.Inspect())
}
