// Package lsp implements a language server for .logic files. It reports the
// first syntax error of each document as a diagnostic and formats documents
// into canonical form.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/proplog/logic/parser"
)

const lsName = "proplog"

var log = commonlog.GetLogger("proplog.lsp")

// Options configures a Server.
type Options struct {
	MaxDepth int
	Watch    bool
	Debounce time.Duration
}

type Server struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
	options   Options

	mu      sync.Mutex
	notify  glsp.NotifyFunc
	watcher *Watcher
	cancel  context.CancelFunc
}

func NewServer(version string, options Options) *Server {
	ls := &Server{
		version: version,
		options: options,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

// Workspace returns the documents known to the server. It is nil until the
// client has sent initialize.
func (ls *Server) Workspace() *Workspace {
	return ls.workspace
}

func (ls *Server) parserOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(ls.options.MaxDepth)}
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = NewWorkspace(rootDir, ls.parserOptions()...)
	log.Infof("initialize: root %s", rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentFormattingProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	if err := ls.workspace.ScanAll(); err != nil {
		log.Warningf("scan %s: %s", ls.workspace.RootDir(), err)
	}
	for _, path := range ls.workspace.Paths() {
		ls.publishDiagnostics(path)
	}

	if ls.options.Watch {
		ls.startWatcher()
	}
	return nil
}

func (ls *Server) startWatcher() {
	watcher, err := NewWatcher(ls.workspace, ls.options.Debounce)
	if err != nil {
		log.Errorf("start watcher: %s", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ls.mu.Lock()
	ls.watcher = watcher
	ls.cancel = cancel
	ls.mu.Unlock()

	go func() {
		err := watcher.Watch(ctx, func(changes []Change) {
			for _, change := range changes {
				ls.publishDiagnostics(change.Path)
			}
		})
		if err != nil {
			log.Errorf("watcher: %s", err)
		}
	}()
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	watcher, cancel := ls.watcher, ls.cancel
	ls.watcher, ls.cancel = nil, nil
	ls.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			log.Warningf("stop watcher: %s", err)
		}
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publishDiagnosticsWith(ctx.Notify, path)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.UpdateFile(path, []byte(textChange.Text))
			ls.publishDiagnosticsWith(ctx.Notify, path)
		}
	}
	return nil
}

// textDocumentDidClose falls back to the file on disk, or forgets the
// document if it was never saved.
func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if _, err := ls.workspace.ScanFile(path); err != nil {
		ls.workspace.RemoveFile(path)
	}
	ls.publishDiagnosticsWith(ctx.Notify, path)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if _, err := ls.workspace.ScanFile(path); err != nil {
		log.Warningf("reload %s: %s", path, err)
		ls.workspace.RemoveFile(path)
	}
	ls.publishDiagnosticsWith(ctx.Notify, path)
	return nil
}

// textDocumentFormatting replaces the whole document with its canonical
// form. Documents with syntax errors are left alone; the diagnostic already
// reports the problem.
func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	edits, err := ls.workspace.Format(path)
	if err != nil {
		log.Debugf("format %s: %s", path, err)
		return nil, nil
	}
	return edits, nil
}

func (ls *Server) publishDiagnostics(path string) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	ls.publishDiagnosticsWith(notify, path)
}

func (ls *Server) publishDiagnosticsWith(notify glsp.NotifyFunc, path string) {
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: ls.workspace.Diagnostics(path),
	})
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
