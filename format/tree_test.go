package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/proplog/logic/parser"
)

func TestTreeEncoder(t *testing.T) {
	src := "!a & [b | c]"
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf, []byte(src)).Encode(mustParse(t, src)); err != nil {
		t.Fatal(err)
	}

	want := `And: '!a & [b | c]'
  Not: '!a'
    Atom: 'a'
  Group: '[b | c]'
    Or: 'b | c'
      Atom: 'b'
      Atom: 'c'
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTreeEncoderFile(t *testing.T) {
	src := "a\n// skip\nb ^ c\n"
	file, err := parser.ParseFile(strings.NewReader(src)).Finish()
	if err != nil {
		t.Fatal(err)
	}
	text, err := (&TreeEncoder{source: []byte(src), node: file}).MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	want := `File
  Atom: 'a'
  Xor: 'b ^ c'
    Atom: 'b'
    Atom: 'c'
`
	if string(text) != want {
		t.Errorf("got:\n%s\nwant:\n%s", text, want)
	}
}

func TestTreeEncoderWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf, nil).Encode(mustParse(t, "a | b")); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Or: ''\n  Atom: 'a'\n") {
		t.Errorf("got %q", buf.String())
	}
}

func TestASTJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(mustParse(t, "a -> !b")); err != nil {
		t.Fatal(err)
	}

	var decoded astNode
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if decoded.Kind != "Implies" || decoded.Operator != "->" {
		t.Errorf("root %s %q", decoded.Kind, decoded.Operator)
	}
	if len(decoded.Children) != 2 {
		t.Fatalf("got %d children", len(decoded.Children))
	}
	not := decoded.Children[1]
	if not.Kind != "Not" || not.Token != "!" || not.Children[0].Token != "b" {
		t.Errorf("second child %+v", not)
	}
	if not.Span == nil || not.Span.Start.Column != 6 || not.Span.End.Column != 8 {
		t.Errorf("span %+v", not.Span)
	}
	if !strings.Contains(buf.String(), "\n  \"operator\": \"->\"") {
		t.Errorf("expected two space indentation:\n%s", buf.String())
	}
}

func TestASTJSONEncoderAtom(t *testing.T) {
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(mustParse(t, "a")); err != nil {
		t.Fatal(err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"Atom","span":{"start":{"line":1,"column":1},"end":{"line":1,"column":2}},"token":"a"}`
	if compact.String() != want {
		t.Errorf("got %s, want %s", compact.String(), want)
	}
}

func TestASTYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewASTYAMLEncoder(&buf).Encode(mustParse(t, "(x)")); err != nil {
		t.Fatal(err)
	}

	want := `kind: Group
span:
  start:
    line: 1
    column: 1
  end:
    line: 1
    column: 4
token: (
children:
  - kind: Atom
    span:
      start:
        line: 1
        column: 2
      end:
        line: 1
        column: 3
    token: x
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	var decoded astNode
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Children[0].Token != "x" {
		t.Errorf("decoded %+v", decoded)
	}
}
