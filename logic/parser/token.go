package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace

	TokenIdent

	// Operators
	TokenNot
	TokenAnd
	TokenXor
	TokenOr
	TokenImplies
	TokenIff

	// Delimiters
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenLBrace
	TokenRBrace
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenError:      "Error",
	TokenWhitespace: "Whitespace",
	TokenIdent:      "Identifier",
	TokenNot:        "!",
	TokenAnd:        "&",
	TokenXor:        "^",
	TokenOr:         "|",
	TokenImplies:    "->",
	TokenIff:        "<->",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLBracket:   "[",
	TokenRBracket:   "]",
	TokenLBrace:     "{",
	TokenRBrace:     "}",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// describe renders a token kind the way it appears in error messages.
func (k TokenKind) describe() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "atom"
	case TokenError, TokenWhitespace:
		return k.String()
	}
	return "'" + k.String() + "'"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

// closers maps each opening delimiter to the only delimiter that may close it.
var closers = map[TokenKind]TokenKind{
	TokenLParen:   TokenRParen,
	TokenLBracket: TokenRBracket,
	TokenLBrace:   TokenRBrace,
}
