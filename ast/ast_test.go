package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/risor-io/monkey/token"
)

func TestString(t *testing.T) {
	program := &Program{
		Stmts: []Stmt{
			&Let{
				LetPos: token.Position{Line: 0, Column: 0},
				Name: &Ident{
					NamePos: token.Position{Line: 0, Column: 4},
					Name:    "myVar",
				},
				Value: &Ident{
					NamePos: token.Position{Line: 0, Column: 12},
					Name:    "anotherVar",
				},
			},
		},
	}
	require.Equal(t, "let myVar = anotherVar;", program.String())
	require.Equal(t, token.Position{}, program.Pos())
}

func TestExpressionStrings(t *testing.T) {
	one := &Int{Literal: "1", Value: 1}
	two := &Int{Literal: "2", Value: 2}
	x := &Ident{Name: "x"}
	tests := []struct {
		node Node
		want string
	}{
		{&Prefix{Op: "-", X: one}, "(-1)"},
		{&Infix{X: one, Op: "+", Y: two}, "(1 + 2)"},
		{&Index{X: x, Index: one}, "(x[1])"},
		{&Call{Fun: x, Args: []Expr{one, two}}, "x(1, 2)"},
		{&Array{Items: []Expr{one, two}}, "[1, 2]"},
		{&Hash{Items: []HashItem{{Key: &String{Value: "a"}, Value: one}}}, "{a:1}"},
		{&Return{Value: x}, "return x;"},
		{
			&If{
				Cond:        &Infix{X: x, Op: "<", Y: two},
				Consequence: &Block{Stmts: []Stmt{&ExpressionStmt{X: one}}},
				Alternative: &Block{Stmts: []Stmt{&ExpressionStmt{X: two}}},
			},
			"if(x < 2) 1else 2",
		},
		{
			&Func{
				Name:   "inc",
				Params: []*Ident{x},
				Body:   &Block{Stmts: []Stmt{&ExpressionStmt{X: &Infix{X: x, Op: "+", Y: one}}}},
			},
			"fn<inc>(x) (x + 1)",
		},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.node.String())
	}
}

func TestPositions(t *testing.T) {
	pos := token.Position{Line: 3, Column: 7}
	left := &Ident{NamePos: pos, Name: "a"}
	infix := &Infix{X: left, OpPos: token.Position{Line: 3, Column: 9}, Op: "+", Y: &Int{Literal: "1", Value: 1}}
	require.Equal(t, pos, infix.Pos())
	require.Equal(t, pos, (&ExpressionStmt{X: infix}).Pos())
	require.Equal(t, pos, (&Call{Fun: left}).Pos())
}
