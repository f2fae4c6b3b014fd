package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// DefaultMaxDepth bounds how deeply groups and negations may nest.
const DefaultMaxDepth = 1000

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithMaxDepth sets the nesting limit. Values below one keep the default.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

type parseFunc func(*Parser) (*Node, error)

type Parser struct {
	file      string
	startLine int
	maxDepth  int
	reader    io.Reader
	input     []byte
	tokens    []Token
	pos       int
	depth     int
	eofName   string
	entry     parseFunc
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		startLine: 1,
		maxDepth:  DefaultMaxDepth,
		reader:    r,
		entry:     entry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile parses a file of newline separated expressions. Blank lines and
// lines starting with "//" are skipped.
func ParseFile(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseFile, opts)
}

// ParseExpression parses a single expression spanning the whole input.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseWholeExpression, opts)
}

// ParseAtom parses input consisting of exactly one atom.
func ParseAtom(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseWholeAtom, opts)
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

// Finish reads the remaining input and parses it. On failure the error is a
// *SyntaxError, a *DepthError or a wrapped read error, and no tree is
// returned.
func (p *Parser) Finish() (*Node, error) {
	if err := p.readAll(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	p.tokens = nil
	p.pos = 0
	p.depth = 0
	p.eofName = "end of input"
	return p.entry(p)
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.tokens = nil
	p.pos = 0
	p.depth = 0
}

func (p *Parser) start() Position {
	return Position{File: p.file, Line: p.startLine, Column: 1}
}

func (p *Parser) tokenize(lexer *Lexer) {
	p.tokens = p.tokens[:0]
	p.pos = 0
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) describe(tok Token) string {
	switch tok.Kind {
	case TokenEOF:
		return p.eofName
	case TokenIdent, TokenError:
		// Control bytes are escaped so they show up in the message.
		quoted := strconv.Quote(tok.Literal)
		return "'" + quoted[1:len(quoted)-1] + "'"
	}
	return tok.Kind.describe()
}

func (p *Parser) errorAt(tok Token, expected []string, note string) *SyntaxError {
	return newSyntaxError(tok, p.describe(tok), expected, note)
}

// enter records one more level of nesting at tok.
func (p *Parser) enter(tok Token) error {
	p.depth++
	if p.depth > p.maxDepth {
		return &DepthError{Pos: tok.Span.Start, Limit: p.maxDepth}
	}
	return nil
}

func (p *Parser) leave(levels int) {
	p.depth -= levels
}

func (p *Parser) parseFile() (*Node, error) {
	file := &Node{
		Kind: KindFile,
		Span: Span{Start: p.start()},
	}
	p.eofName = "end of line"

	pos := p.start()
	rest := p.input
	for len(rest) > 0 {
		line := rest
		next := len(rest)
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i]
			next = i + 1
		}

		if !IsSkippedLine(line) {
			p.tokenize(newLexerAt(line, pos))
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.expectEnd(); err != nil {
				return nil, err
			}
			file.AddChild(expr)
		}

		rest = rest[next:]
		pos.Offset += next
		if next > len(line) {
			pos.Line++
		} else {
			pos.Column += len(line)
		}
	}

	file.Span.End = pos
	return file, nil
}

// IsBlankLine reports whether line holds nothing but the whitespace the
// lexer skips.
func IsBlankLine(line []byte) bool {
	return len(bytes.Trim(line, spaceChars)) == 0
}

// IsSkippedLine reports whether ParseFile ignores line: it is blank or its
// first non-blank characters are "//".
func IsSkippedLine(line []byte) bool {
	trimmed := bytes.Trim(line, spaceChars)
	return len(trimmed) == 0 || bytes.HasPrefix(trimmed, []byte("//"))
}

func (p *Parser) parseWholeExpression() (*Node, error) {
	p.tokenize(newLexerAt(p.input, p.start()))
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseWholeAtom() (*Node, error) {
	p.tokenize(newLexerAt(p.input, p.start()))
	tok := p.peek()
	if tok.Kind != TokenIdent {
		return nil, p.errorAt(tok, []string{"atom"}, "")
	}
	p.advance()
	if !p.check(TokenEOF) {
		return nil, p.errorAt(p.peek(), []string{p.eofName}, "")
	}
	return &Node{Kind: KindAtom, Span: tok.Span, Token: &tok}, nil
}

// expectEnd fails unless every token of the current line or input has been
// consumed.
func (p *Parser) expectEnd() error {
	if p.check(TokenEOF) {
		return nil
	}
	return p.errorAt(p.peek(), append(operatorNames(), p.eofName), "")
}

func operatorNames() []string {
	return []string{"'&'", "'^'", "'|'", "'->'", "'<->'"}
}

var primaryNames = []string{"atom", "'!'", "'('", "'['", "'{'"}

func (p *Parser) parseExpression() (*Node, error) {
	return p.parseIff()
}

func (p *Parser) parseIff() (*Node, error) {
	return p.parseBinary(KindIff, TokenIff, (*Parser).parseImplication)
}

func (p *Parser) parseImplication() (*Node, error) {
	return p.parseBinary(KindImplies, TokenImplies, (*Parser).parseOr)
}

func (p *Parser) parseOr() (*Node, error) {
	return p.parseBinary(KindOr, TokenOr, (*Parser).parseXor)
}

func (p *Parser) parseXor() (*Node, error) {
	return p.parseBinary(KindXor, TokenXor, (*Parser).parseAnd)
}

func (p *Parser) parseAnd() (*Node, error) {
	return p.parseBinary(KindAnd, TokenAnd, (*Parser).parseNegation)
}

// parseBinary parses operand (op operand)*. A single operand is returned
// unchanged; two or more are collected into one flat node of kind.
func (p *Parser) parseBinary(kind NodeKind, op TokenKind, operand parseFunc) (*Node, error) {
	first, err := operand(p)
	if err != nil {
		return nil, err
	}
	if !p.check(op) {
		return first, nil
	}

	node := &Node{
		Kind: kind,
		Span: Span{Start: first.Span.Start},
	}
	node.AddChild(first)
	for p.check(op) {
		p.advance()
		next, err := operand(p)
		if err != nil {
			return nil, err
		}
		node.AddChild(next)
	}
	node.Span.End = node.Children[len(node.Children)-1].Span.End
	return node, nil
}

func (p *Parser) parseNegation() (*Node, error) {
	var nots []Token
	for p.check(TokenNot) {
		tok := p.advance()
		nots = append(nots, tok)
		if err := p.enter(tok); err != nil {
			return nil, err
		}
	}

	node, err := p.parsePrimary()
	p.leave(len(nots))
	if err != nil {
		return nil, err
	}

	for i := len(nots) - 1; i >= 0; i-- {
		tok := nots[i]
		node = &Node{
			Kind:     KindNot,
			Span:     Span{Start: tok.Span.Start, End: node.Span.End},
			Children: []*Node{node},
			Token:    &tok,
		}
	}
	return node, nil
}

func (p *Parser) parsePrimary() (*Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenIdent:
		p.advance()
		return &Node{Kind: KindAtom, Span: tok.Span, Token: &tok}, nil

	case TokenLParen, TokenLBracket, TokenLBrace:
		p.advance()
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		inner, err := p.parseExpression()
		p.leave(1)
		if err != nil {
			return nil, err
		}

		closer := closers[tok.Kind]
		if !p.check(closer) {
			expected := append(operatorNames(), closer.describe())
			return nil, p.errorAt(p.peek(), expected,
				fmt.Sprintf("unclosed '%s' at %s", tok.Literal, tok.Span.Start))
		}
		end := p.advance()
		return &Node{
			Kind:     KindGroup,
			Span:     Span{Start: tok.Span.Start, End: end.Span.End},
			Children: []*Node{inner},
			Token:    &tok,
		}, nil
	}

	return nil, p.errorAt(tok, primaryNames, "")
}
