package object

import (
	"bytes"
	"strings"
)

// Array is an ordered sequence of objects. Arrays are never modified in
// place; builtins such as push return a new Array.
type Array struct {
	Elements []Object
}

func NewArray(elements []Object) *Array {
	return &Array{Elements: elements}
}

func (a *Array) Type() Type {
	return ARRAY
}

func (a *Array) Inspect() string {
	var out bytes.Buffer
	items := make([]string, 0, len(a.Elements))
	for _, el := range a.Elements {
		items = append(items, el.Inspect())
	}
	out.WriteString("[")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("]")
	return out.String()
}

func (a *Array) Interface() interface{} {
	items := make([]interface{}, 0, len(a.Elements))
	for _, el := range a.Elements {
		items = append(items, el.Interface())
	}
	return items
}

// Index returns the element at i, or Null if i is outside [0, len).
func (a *Array) Index(i int64) Object {
	if i < 0 || i >= int64(len(a.Elements)) {
		return Null
	}
	return a.Elements[i]
}
