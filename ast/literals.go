package ast

import (
	"bytes"
	"strings"

	"github.com/risor-io/monkey/token"
)

// Int is an expression node that holds an integer literal.
type Int struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text
	Value    int64          // the parsed value
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }

func (x *Int) String() string { return x.Literal }

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	ValuePos token.Position // position of "true" or "false"
	Literal  string         // "true" or "false"
	Value    bool           // the boolean value
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }

func (x *Bool) String() string { return x.Literal }

// String is an expression node that holds a string literal.
type String struct {
	ValuePos token.Position // position of the opening quote
	Value    string         // the unquoted value
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }

func (x *String) String() string { return x.Value }

// Array is an expression node that holds an array literal.
type Array struct {
	Lbrack token.Position // position of "["
	Items  []Expr         // array elements
}

func (x *Array) exprNode() {}

func (x *Array) Pos() token.Position { return x.Lbrack }

func (x *Array) String() string {
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	var out bytes.Buffer
	out.WriteString("[")
	out.WriteString(strings.Join(items, ", "))
	out.WriteString("]")
	return out.String()
}

// HashItem is one key-value pair of a hash literal.
type HashItem struct {
	Key   Expr
	Value Expr
}

// Hash is an expression node that holds a hash literal. Items are kept in
// source order.
type Hash struct {
	Lbrace token.Position // position of "{"
	Items  []HashItem
}

func (x *Hash) exprNode() {}

func (x *Hash) Pos() token.Position { return x.Lbrace }

func (x *Hash) String() string {
	pairs := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		pairs = append(pairs, item.Key.String()+":"+item.Value.String())
	}
	var out bytes.Buffer
	out.WriteString("{")
	out.WriteString(strings.Join(pairs, ", "))
	out.WriteString("}")
	return out.String()
}

// Func is an expression node that holds a function literal. Name is set by
// the parser when the literal is the value of a let statement, which allows
// the function body to refer to itself.
type Func struct {
	FnPos  token.Position // position of "fn" keyword
	Name   string         // binding name, if known
	Params []*Ident       // function parameters
	Body   *Block         // function body
}

func (x *Func) exprNode() {}

func (x *Func) Pos() token.Position { return x.FnPos }

func (x *Func) String() string {
	params := make([]string, 0, len(x.Params))
	for _, p := range x.Params {
		params = append(params, p.String())
	}
	var out bytes.Buffer
	out.WriteString("fn")
	if x.Name != "" {
		out.WriteString("<" + x.Name + ">")
	}
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(x.Body.String())
	return out.String()
}
