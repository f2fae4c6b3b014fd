// Package ui serves a small web playground for canonicalizing expressions,
// together with a JSON API and Prometheus metrics.
package ui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/proplog/format"
	"github.com/dhamidi/proplog/logic/parser"
)

//go:embed static templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("proplog.ui")

// maxSourceBytes bounds the size of a submitted document.
const maxSourceBytes = 1 << 20

const (
	endpointForm = "form"
	endpointAPI  = "api"
)

type Server struct {
	staticFS   fs.FS
	templateFS fs.FS
	mux        *http.ServeMux
	registry   *prometheus.Registry
	metrics    *Metrics
	opts       []parser.Option
}

// NewServer builds the playground. Parser options such as the depth limit
// apply to every request.
func NewServer(opts ...parser.Option) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	if _, err := template.ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	registry := prometheus.NewRegistry()

	s := &Server{
		staticFS:   staticFS,
		templateFS: templateFS,
		mux:        http.NewServeMux(),
		registry:   registry,
		metrics:    NewMetrics(registry),
		opts:       opts,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	}))
	s.mux.HandleFunc("POST /canonicalize", s.handleCanonicalize)
	s.mux.HandleFunc("POST /api/canonicalize", s.handleAPICanonicalize)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Registry exposes the collectors served on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	tmpl, err := template.ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

// ErrorInfo locates a syntax error for API clients.
type ErrorInfo struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

type canonicalizeRequest struct {
	Source string `json:"source"`
}

type canonicalizeResponse struct {
	Lines []string   `json:"lines,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

type pageData struct {
	Source string
	Lines  []string
	Error  *ErrorInfo
}

// canonicalize parses source as a file of expressions and returns one
// canonical line per expression.
func (s *Server) canonicalize(endpoint, source string) ([]string, *ErrorInfo) {
	start := time.Now()
	s.metrics.RecordRequest(endpoint)
	defer func() {
		s.metrics.ObserveDuration(endpoint, time.Since(start).Seconds())
	}()

	tree, err := parser.ParseFile(strings.NewReader(source), s.opts...).Finish()
	if err != nil {
		s.metrics.RecordParseFailure(endpoint)
		log.Debugf("%s: %s", endpoint, err)
		return nil, toErrorInfo(err)
	}

	lines := format.CanonicalLines(tree)
	s.metrics.RecordLines(endpoint, len(lines))
	return lines, nil
}

func toErrorInfo(err error) *ErrorInfo {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ErrorInfo{Line: syntaxErr.Pos.Line, Column: syntaxErr.Pos.Column, Message: syntaxErr.Message}
	}
	var depthErr *parser.DepthError
	if errors.As(err, &depthErr) {
		return &ErrorInfo{
			Line:    depthErr.Pos.Line,
			Column:  depthErr.Pos.Column,
			Message: fmt.Sprintf("%v (limit %d)", parser.ErrMaxDepth, depthErr.Limit),
		}
	}
	return &ErrorInfo{Message: err.Error()}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", pageData{})
}

func (s *Server) handleCanonicalize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}

	data := pageData{Source: r.FormValue("source")}
	data.Lines, data.Error = s.canonicalize(endpointForm, data.Source)

	status := http.StatusOK
	if data.Error != nil {
		status = http.StatusUnprocessableEntity
	}
	s.render(w, status, "index.html", data)
}

func (s *Server) handleAPICanonicalize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBytes)

	var req canonicalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	var resp canonicalizeResponse
	resp.Lines, resp.Error = s.canonicalize(endpointAPI, req.Source)

	status := http.StatusOK
	if resp.Error != nil {
		status = http.StatusUnprocessableEntity
	} else if resp.Lines == nil {
		resp.Lines = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("encode response: %s", err)
	}
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// overlayFS prefers files on disk under primaryPath so templates can be
// edited without rebuilding.
type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
