package format

import (
	"bytes"
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/proplog/logic/parser"
)

type ASTJSONEncoder struct {
	w    io.Writer
	node *parser.Node
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(nodeToAST(e.node), "", "  ")
}

type ASTYAMLEncoder struct {
	w    io.Writer
	node *parser.Node
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(node *parser.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTYAMLEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nodeToAST(e.node)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type astNode struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Operator string     `json:"operator,omitempty" yaml:"operator,omitempty"`
	Span     *astSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Token    string     `json:"token,omitempty" yaml:"token,omitempty"`
	Children []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type astSpan struct {
	Start astPosition `json:"start" yaml:"start"`
	End   astPosition `json:"end" yaml:"end"`
}

type astPosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func nodeToAST(n *parser.Node) *astNode {
	if n == nil {
		return nil
	}

	an := &astNode{
		Kind:     n.Kind.String(),
		Operator: n.Kind.Operator(),
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		an.Span = &astSpan{
			Start: astPosition{Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   astPosition{Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		an.Token = n.Token.Literal
	}

	if len(n.Children) > 0 {
		an.Children = make([]*astNode, len(n.Children))
		for i, child := range n.Children {
			an.Children[i] = nodeToAST(child)
		}
	}

	return an
}
