// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// A parser is created by calling New() with a lexer as input. The parser should
// then be used only once, by calling parser.Parse() to produce the AST.
package parser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/risor-io/monkey/ast"
	"github.com/risor-io/monkey/internal/lexer"
	"github.com/risor-io/monkey/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parse the provided input as monkey source code and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	var probe Parser
	for _, opt := range options {
		opt(&probe)
	}
	l := lexer.New(input)
	if probe.filename != "" {
		l.SetFilename(probe.filename)
	}
	return New(l, options...).Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in positions and errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// Parser object
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []error

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	// offsets of ILLEGAL tokens the lexer already reported
	lexErrors map[int]bool

	filename string
	depth    int
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		lexErrors:      map[int]bool{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}

	// Prime the token pump
	p.nextToken()
	p.nextToken()

	p.registerPrefix(token.BANG, p.parsePrefix)
	p.registerPrefix(token.FALSE, p.parseBool)
	p.registerPrefix(token.FUNCTION, p.parseFunc)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.IF, p.parseIf)
	p.registerPrefix(token.INT, p.parseInt)
	p.registerPrefix(token.LBRACE, p.parseHash)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefix)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TRUE, p.parseBool)

	p.registerInfix(token.ASTERISK, p.parseInfix)
	p.registerInfix(token.EQ, p.parseInfix)
	p.registerInfix(token.GT, p.parseInfix)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LT, p.parseInfix)
	p.registerInfix(token.MINUS, p.parseInfix)
	p.registerInfix(token.NOT_EQ, p.parseInfix)
	p.registerInfix(token.PLUS, p.parseInfix)
	p.registerInfix(token.SLASH, p.parseInfix)
	return p
}

func (p *Parser) registerPrefix(typ token.Type, fn prefixParseFn) {
	p.prefixParseFns[typ] = fn
}

func (p *Parser) registerInfix(typ token.Type, fn infixParseFn) {
	p.infixParseFns[typ] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	tok, err := p.l.Next()
	if err != nil {
		p.errors = append(p.errors, err)
		p.lexErrors[tok.Position.Char] = true
	}
	p.peekToken = tok
}

// Parse the program that is provided via the lexer. If any syntax errors
// were found, they are all returned together and the AST is nil.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	program := &ast.Program{}
	for !p.curTokenIs(token.EOF) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		errCount := len(p.errors)
		if stmt := p.parseStatement(); stmt != nil {
			program.Stmts = append(program.Stmts, stmt)
		} else if len(p.errors) > errCount {
			p.synchronize()
		}
		p.nextToken()
	}
	if len(p.errors) > 0 {
		return nil, newErrors(p.errors)
	}
	return program, nil
}

// synchronize skips ahead to the end of the current statement so that one
// mistake is reported once rather than cascading.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

func (p *Parser) setError(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, &SyntaxError{
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	})
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.setError(p.peekToken.Position, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.RETURN:
		return p.parseReturn()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) parseLet() ast.Stmt {
	letPos := p.curToken.Position
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Ident{NamePos: p.curToken.Position, Name: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpr(LOWEST)
	if value == nil {
		return nil
	}
	if fn, ok := value.(*ast.Func); ok {
		fn.Name = name.Name
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Let{LetPos: letPos, Name: name, Value: value}
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.Position}
	p.nextToken()
	stmt.Value = p.parseExpr(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpressionStmt() ast.Stmt {
	expr := p.parseExpr(LOWEST)
	if expr == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ExpressionStmt{X: expr}
}

func (p *Parser) parseExpr(precedence int) ast.Expr {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setError(p.curToken.Position, "maximum nesting depth of %d exceeded", p.maxDepth)
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		if p.curTokenIs(token.EOF) {
			p.setError(p.curToken.Position, "unexpected end of file")
		} else if p.curTokenIs(token.ILLEGAL) {
			if !p.lexErrors[p.curToken.Position.Char] {
				p.setError(p.curToken.Position, "illegal character %q", p.curToken.Literal)
			}
		} else {
			p.setError(p.curToken.Position, "unexpected token %q", p.curToken.Literal)
		}
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdent() ast.Expr {
	return &ast.Ident{NamePos: p.curToken.Position, Name: p.curToken.Literal}
}

func (p *Parser) parseInt() ast.Expr {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.setError(p.curToken.Position, "invalid integer %q", p.curToken.Literal)
		return nil
	}
	return &ast.Int{ValuePos: p.curToken.Position, Literal: p.curToken.Literal, Value: value}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{ValuePos: p.curToken.Position, Value: p.curToken.Literal}
}

func (p *Parser) parseBool() ast.Expr {
	return &ast.Bool{
		ValuePos: p.curToken.Position,
		Literal:  p.curToken.Literal,
		Value:    p.curTokenIs(token.TRUE),
	}
}

func (p *Parser) parsePrefix() ast.Expr {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpr(PREFIX)
	if right == nil {
		return nil
	}
	return &ast.Prefix{OpPos: tok.Position, Op: tok.Literal, X: right}
}

func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	tok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(precedence)
	if right == nil {
		return nil
	}
	return &ast.Infix{X: left, OpPos: tok.Position, Op: tok.Literal, Y: right}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	expr := p.parseExpr(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseIf() ast.Expr {
	expr := &ast.If{IfPos: p.curToken.Position}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	expr.Cond = p.parseExpr(LOWEST)
	if expr.Cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	expr.Consequence = p.parseBlock()
	if expr.Consequence == nil {
		return nil
	}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		expr.Alternative = p.parseBlock()
		if expr.Alternative == nil {
			return nil
		}
	}
	return expr
}

// parseBlock parses statements up to the closing brace. On entry curToken
// is "{"; on return it is "}".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.Position}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.setError(block.Lbrace, "unterminated block")
			return nil
		}
		errCount := len(p.errors)
		stmt := p.parseStatement()
		if len(p.errors) > errCount {
			return nil
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseFunc() ast.Expr {
	fn := &ast.Func{FnPos: p.curToken.Position}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	fn.Params = params
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}
	return fn
}

func (p *Parser) parseParams() ([]*ast.Ident, bool) {
	params := []*ast.Ident{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	seen := map[string]bool{}
	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		ident := &ast.Ident{NamePos: p.curToken.Position, Name: p.curToken.Literal}
		if seen[ident.Name] {
			p.setError(ident.NamePos, "duplicate parameter %q", ident.Name)
			return nil, false
		}
		seen[ident.Name] = true
		params = append(params, ident)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	lparen := p.curToken.Position
	args, ok := p.parseExprList(token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.Call{Fun: fn, Lparen: lparen, Args: args}
}

func (p *Parser) parseArray() ast.Expr {
	lbrack := p.curToken.Position
	items, ok := p.parseExprList(token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.Array{Lbrack: lbrack, Items: items}
}

// parseExprList parses a comma separated list of expressions terminated by
// end. On entry curToken is the opening delimiter.
func (p *Parser) parseExprList(end token.Type) ([]ast.Expr, bool) {
	list := []ast.Expr{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	p.nextToken()
	expr := p.parseExpr(LOWEST)
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpr(LOWEST)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	lbrack := p.curToken.Position
	p.nextToken()
	index := p.parseExpr(LOWEST)
	if index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.Index{X: left, Lbrack: lbrack, Index: index}
}

func (p *Parser) parseHash() ast.Expr {
	hash := &ast.Hash{Lbrace: p.curToken.Position}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		key := p.parseExpr(LOWEST)
		if key == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		value := p.parseExpr(LOWEST)
		if value == nil {
			return nil
		}
		hash.Items = append(hash.Items, ast.HashItem{Key: key, Value: value})
		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return hash
}
