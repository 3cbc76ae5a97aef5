package ast

import (
	"bytes"
	"strings"

	"github.com/risor-io/monkey/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the operand.
// Examples include "!false" and "-x".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "!" or "-"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }

func (x *Prefix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op)
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

// Infix is an operator expression where the operator is between the operands.
// Examples include "x + y" and "5 - 1".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "+", "-", "*", "/", "<", ">", "==", "!="
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position {
	if x.X == nil {
		return x.OpPos
	}
	return x.X.Pos()
}

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// If is an expression that evaluates a consequence or an optional
// alternative depending on the truthiness of its condition.
type If struct {
	IfPos       token.Position // position of "if" keyword
	Cond        Expr           // condition
	Consequence *Block         // evaluated when Cond is truthy
	Alternative *Block         // optional; evaluated when Cond is falsy
}

func (x *If) exprNode() {}

func (x *If) Pos() token.Position { return x.IfPos }

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("if")
	out.WriteString(x.Cond.String())
	out.WriteString(" ")
	out.WriteString(x.Consequence.String())
	if x.Alternative != nil {
		out.WriteString("else ")
		out.WriteString(x.Alternative.String())
	}
	return out.String()
}

// Call is an expression node that invokes a function with arguments.
type Call struct {
	Fun    Expr           // function expression
	Lparen token.Position // position of "("
	Args   []Expr         // function arguments
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position {
	if x.Fun == nil {
		return x.Lparen
	}
	return x.Fun.Pos()
}

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	var out bytes.Buffer
	out.WriteString(x.Fun.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

// Index is an expression node that accesses an element of an array or hash.
type Index struct {
	X      Expr           // expression being indexed
	Lbrack token.Position // position of "["
	Index  Expr           // index expression
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position {
	if x.X == nil {
		return x.Lbrack
	}
	return x.X.Pos()
}

func (x *Index) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString("[")
	out.WriteString(x.Index.String())
	out.WriteString("])")
	return out.String()
}
