// Package lexer converts monkey source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/risor-io/monkey/token"
)

// Lexer reads an input string one character at a time and produces tokens.
type Lexer struct {
	input        []rune
	position     int // index of ch
	readPosition int // index of the next character
	ch           rune
	line         int
	lineStart    int
	file         string
}

// New returns a Lexer positioned at the start of the input.
func New(input string) *Lexer {
	l := &Lexer{input: []rune(input)}
	l.readChar()
	return l
}

// SetFilename sets the file name recorded in token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) pos() token.Position {
	return token.Position{
		Char:   l.position,
		Line:   l.line,
		Column: l.position - l.lineStart,
		File:   l.file,
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.lineStart = l.readPosition
		}
		l.readChar()
	}
}

// Next returns the next token in the input. At the end of the input an EOF
// token is returned, repeatedly. An error is returned alongside an ILLEGAL
// token for unterminated strings and invalid escape sequences.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	pos := l.pos()
	newToken := func(typ token.Type, literal string) token.Token {
		return token.Token{Type: typ, Literal: literal, Position: pos}
	}
	var tok token.Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.EQ, "==")
		} else {
			tok = newToken(token.ASSIGN, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.NOT_EQ, "!=")
		} else {
			tok = newToken(token.BANG, "!")
		}
	case '+':
		tok = newToken(token.PLUS, "+")
	case '-':
		tok = newToken(token.MINUS, "-")
	case '*':
		tok = newToken(token.ASTERISK, "*")
	case '/':
		tok = newToken(token.SLASH, "/")
	case '<':
		tok = newToken(token.LT, "<")
	case '>':
		tok = newToken(token.GT, ">")
	case ',':
		tok = newToken(token.COMMA, ",")
	case ';':
		tok = newToken(token.SEMICOLON, ";")
	case ':':
		tok = newToken(token.COLON, ":")
	case '(':
		tok = newToken(token.LPAREN, "(")
	case ')':
		tok = newToken(token.RPAREN, ")")
	case '{':
		tok = newToken(token.LBRACE, "{")
	case '}':
		tok = newToken(token.RBRACE, "}")
	case '[':
		tok = newToken(token.LBRACKET, "[")
	case ']':
		tok = newToken(token.RBRACKET, "]")
	case '"':
		s, err := l.readString()
		if err != nil {
			return newToken(token.ILLEGAL, s), err
		}
		tok = newToken(token.STRING, s)
	case 0:
		return newToken(token.EOF, ""), nil
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return newToken(token.LookupIdentifier(ident), ident), nil
		} else if isDigit(l.ch) {
			return newToken(token.INT, l.readNumber()), nil
		}
		tok = newToken(token.ILLEGAL, string(l.ch))
	}
	l.readChar()
	return tok, nil
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return string(l.input[position:l.position])
}

// readString consumes a double quoted string. On return l.ch is the closing
// quote.
func (l *Lexer) readString() (string, error) {
	start := l.pos()
	var out strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case '"':
			return out.String(), nil
		case 0:
			return out.String(), fmt.Errorf("syntax error: unterminated string literal (%s)", start)
		case '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				out.WriteRune('\n')
			case 't':
				out.WriteRune('\t')
			case 'r':
				out.WriteRune('\r')
			case '"':
				out.WriteRune('"')
			case '\\':
				out.WriteRune('\\')
			default:
				return out.String(), fmt.Errorf("syntax error: invalid escape sequence \\%c (%s)", l.ch, start)
			}
		default:
			if l.ch == '\n' {
				l.line++
				l.lineStart = l.readPosition
			}
			out.WriteRune(l.ch)
		}
	}
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
