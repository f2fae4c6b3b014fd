package parser

import "unicode/utf8"

type Lexer struct {
	input  []byte
	file   string
	base   int
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return newLexerAt(input, Position{File: file, Line: 1, Column: 1})
}

// newLexerAt creates a lexer whose positions continue from start. ParseFile
// uses it to lex a single line while reporting file-relative positions.
func newLexerAt(input []byte, start Position) *Lexer {
	return &Lexer{
		input:  input,
		file:   start.File,
		base:   start.Offset,
		pos:    0,
		line:   start.Line,
		column: start.Column,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.base + l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if isSpace(ch) {
		return l.scanWhitespace(startPos)
	}

	if isLetter(ch) {
		return l.scanIdent(startPos)
	}

	if isDigit(ch) {
		// Atoms may not start with a digit; keep the whole word so the
		// error shows what was written.
		for isLetter(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		return l.token(TokenError, startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanIdent(start Position) Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	return l.token(TokenIdent, start)
}

func (l *Lexer) scanOperator(start Position) Token {
	switch l.peek() {
	case '!':
		l.advance()
		return l.token(TokenNot, start)
	case '&':
		l.advance()
		return l.token(TokenAnd, start)
	case '^':
		l.advance()
		return l.token(TokenXor, start)
	case '|':
		l.advance()
		return l.token(TokenOr, start)
	case '-':
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenImplies, start)
		}
	case '<':
		if l.peekN(1) == '-' && l.peekN(2) == '>' {
			l.advanceN(3)
			return l.token(TokenIff, start)
		}
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	}

	_, size := utf8.DecodeRune(l.input[l.pos:])
	l.advanceN(size)
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset-l.base : end.Offset-l.base]),
	}
}

// spaceChars is the whitespace skipped between tokens.
const spaceChars = " \t\r\n"

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isLetter(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
