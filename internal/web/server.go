// Package web serves the browser surface: a single page that renders the
// current pair and talks to the session over a websocket.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/command"
	"github.com/atomicstack/caption-pair-manager/internal/logging"
	"github.com/atomicstack/caption-pair-manager/internal/pairs"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

// Commander runs host commands, usually a *command.Bus.
type Commander interface {
	Execute(ctx context.Context, req command.Request) error
}

// Config holds the listen address and the folder whose images are served.
type Config struct {
	Addr string
	Root string
}

// Server serves the page, its assets, the websocket and the folder images.
type Server struct {
	cfg      Config
	tmpl     *template.Template
	bridge   *bridge.Bridge
	commands Commander
}

// NewServer parses the embedded templates. commands may be nil, in which case
// the command routes return 404.
func NewServer(cfg Config, b *bridge.Bridge, commands Commander) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("web: missing addr")
	}
	if b == nil {
		return nil, errors.New("web: missing bridge")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{cfg: cfg, tmpl: tmpl, bridge: b, commands: commands}, nil
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

// URL is the address users open in a browser.
func (s *Server) URL() string {
	return "http://" + s.Addr() + "/"
}

// ImageURL rewrites an absolute image path into the URL this server serves it
// from. It is installed as the bridge rewriter.
func ImageURL(path string) string {
	if path == "" {
		return ""
	}
	return "/images/" + url.PathEscape(filepath.Base(path))
}

// Handler returns the routes on a fresh ServeMux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /images/{name}", s.handleImage)
	mux.HandleFunc("POST /commands/{id}", s.handleCommand)

	mux.HandleFunc("GET /static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8"))
	mux.HandleFunc("GET /static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8"))

	return mux
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type indexVM struct {
	Root  string
	Title string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	vm := indexVM{Root: s.cfg.Root, Title: filepath.Base(s.cfg.Root)}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		logging.Error(fmt.Errorf("render index: %w", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleImage serves supported image files that sit directly inside the root
// folder. Everything else is a 404.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !safeImageName(name) || s.cfg.Root == "" {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.cfg.Root, name)
	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func safeImageName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "\x00") {
		return false
	}
	return pairs.IsImage(name)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if s.commands == nil {
		http.NotFound(w, r)
		return
	}
	req := command.Request{ID: r.PathValue("id")}
	if raw := strings.TrimSpace(r.URL.Query().Get("step")); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "step must be a number", http.StatusBadRequest)
			return
		}
		req.Step = step
	}
	err := s.commands.Execute(r.Context(), req)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, command.ErrUnknownCommand):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, command.ErrInvalidStep):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		logging.Error(fmt.Errorf("command %s: %w", req.ID, err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
