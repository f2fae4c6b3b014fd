package lsp

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/proplog/format"
	"github.com/dhamidi/proplog/logic/parser"
)

// Extension marks the files a workspace scans.
const Extension = ".logic"

const diagnosticSource = "proplog"

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	opts    []parser.Option
	files   map[string]*Document
}

// Document is the last known state of one file. Tree is nil whenever
// ParseErr is set.
type Document struct {
	Path     string
	Content  []byte
	Tree     *parser.Node
	ParseErr error
}

func NewWorkspace(rootDir string, opts ...parser.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*Document),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every .logic file below the root, skipping hidden
// directories. Files that cannot be read are logged and left out.
func (w *Workspace) ScanAll() error {
	return filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("scan %s: %s", path, err)
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Extension {
			if _, err := w.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content), nil
}

func (w *Workspace) UpdateFile(path string, content []byte) *Document {
	opts := append([]parser.Option{parser.WithFile(filepath.Base(path))}, w.opts...)
	tree, err := parser.ParseFile(bytes.NewReader(content), opts...).Finish()

	doc := &Document{
		Path:     path,
		Content:  content,
		Tree:     tree,
		ParseErr: err,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = doc
	return doc
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the known documents in sorted order.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for path := range w.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Diagnostics returns the problems of one document: the first parse error,
// or an empty list. Unknown paths yield an empty list as well.
func (w *Workspace) Diagnostics(path string) []protocol.Diagnostic {
	doc := w.GetFile(path)
	if doc == nil || doc.ParseErr == nil {
		return []protocol.Diagnostic{}
	}
	return []protocol.Diagnostic{toDiagnostic(doc.ParseErr)}
}

// Format returns the edits that turn a document into its canonical form.
// Documents that fail to parse produce the parse error and no edits.
func (w *Workspace) Format(path string) ([]protocol.TextEdit, error) {
	doc := w.GetFile(path)
	if doc == nil {
		return nil, nil
	}
	if doc.ParseErr != nil {
		return nil, doc.ParseErr
	}

	formatted, err := format.Source(doc.Content, w.opts...)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(formatted, doc.Content) {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endPosition(doc.Content),
		},
		NewText: string(formatted),
	}}, nil
}

func toDiagnostic(err error) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := diagnosticSource

	var pos parser.Position
	width := 1
	message := err.Error()

	var syntaxErr *parser.SyntaxError
	var depthErr *parser.DepthError
	switch {
	case errors.As(err, &syntaxErr):
		pos = syntaxErr.Pos
		message = syntaxErr.Message
		if syntaxErr.Got != "" {
			width = len(syntaxErr.Got)
		}
	case errors.As(err, &depthErr):
		pos = depthErr.Pos
		message = fmt.Sprintf("%v (limit %d)", parser.ErrMaxDepth, depthErr.Limit)
	}

	start := toPosition(pos)
	end := start
	end.Character += protocol.UInteger(width)

	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   &source,
		Message:  message,
	}
}

// toPosition converts a 1-based parser position to a 0-based protocol one.
func toPosition(pos parser.Position) protocol.Position {
	var p protocol.Position
	if pos.Line > 0 {
		p.Line = protocol.UInteger(pos.Line - 1)
	}
	if pos.Column > 0 {
		p.Character = protocol.UInteger(pos.Column - 1)
	}
	return p
}

func endPosition(content []byte) protocol.Position {
	line := bytes.Count(content, []byte("\n"))
	last := content
	if i := bytes.LastIndexByte(content, '\n'); i >= 0 {
		last = content[i+1:]
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(len(last)),
	}
}
