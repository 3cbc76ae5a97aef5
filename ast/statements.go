package ast

import (
	"bytes"

	"github.com/risor-io/monkey/token"
)

// Let is a statement that binds a name to a value, as in "let x = 5;".
type Let struct {
	LetPos token.Position // position of "let" keyword
	Name   *Ident         // name being bound
	Value  Expr           // initial value
}

func (s *Let) stmtNode() {}

func (s *Let) Pos() token.Position { return s.LetPos }

func (s *Let) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	out.WriteString(s.Name.String())
	out.WriteString(" = ")
	if s.Value != nil {
		out.WriteString(s.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// Return is a statement that exits the enclosing function with a value.
type Return struct {
	ReturnPos token.Position // position of "return" keyword
	Value     Expr           // returned value
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }

func (s *Return) String() string {
	var out bytes.Buffer
	out.WriteString("return ")
	if s.Value != nil {
		out.WriteString(s.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// ExpressionStmt wraps an expression used in statement position. Its value
// is discarded unless it is the last statement of a function body or block.
type ExpressionStmt struct {
	X Expr
}

func (s *ExpressionStmt) stmtNode() {}

func (s *ExpressionStmt) Pos() token.Position {
	if s.X == nil {
		return token.Position{}
	}
	return s.X.Pos()
}

func (s *ExpressionStmt) String() string {
	if s.X == nil {
		return ""
	}
	return s.X.String()
}

// Block is a brace-delimited sequence of statements.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Stmt
}

func (b *Block) stmtNode() {}

func (b *Block) Pos() token.Position { return b.Lbrace }

func (b *Block) String() string {
	var out bytes.Buffer
	for _, s := range b.Stmts {
		out.WriteString(s.String())
	}
	return out.String()
}
