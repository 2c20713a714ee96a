// Package site serves the statically exported dashboard under the base path.
package site

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/wtstats/wtstats/pkg/logger"
)

// Error constants
var (
	ErrNoSiteDir = errors.New("site directory not found")
)

// Register serves dir for every route not claimed by another handler.
// basePath is stripped before the file lookup.
func Register(ctx context.Context, r chi.Router, dir, basePath string) error {
	if r == nil {
		panic("router is nil")
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errors.Join(ErrNoSiteDir, err)
	}
	h := NewRootHandler(http.Dir(dir))
	r.Handle("/*", http.StripPrefix(basePath, h))
	logger.Get().Info(ctx, "serving static export",
		logger.String("dir", dir),
		logger.String("basePath", basePath))
	return nil
}

// RootHandler serves the export. Extensionless routes fall back to the
// exported <route>.html page, unknown paths to 404.html when present.
type RootHandler struct {
	root  http.FileSystem
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler(root http.FileSystem) *RootHandler {
	return &RootHandler{root: root, files: http.FileServer(root)}
}

// ServeHTTP implements http.Handler.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)
	if h.exists(p) {
		h.files.ServeHTTP(w, r)
		return
	}
	if path.Ext(p) == "" && h.exists(p+".html") {
		r2 := r.Clone(r.Context())
		r2.URL.Path = p + ".html"
		h.files.ServeHTTP(w, r2)
		return
	}
	h.notFound(w, r)
}

func (h *RootHandler) exists(name string) bool {
	f, err := h.root.Open(name)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	_, err = f.Stat()
	return err == nil
}

func (h *RootHandler) notFound(w http.ResponseWriter, r *http.Request) {
	f, err := h.root.Open("/404.html")
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Get().Warn(r.Context(), "failed to open 404 page", logger.Error(err))
		}
		http.NotFound(w, r)
		return
	}
	defer func() { _ = f.Close() }()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.Copy(w, f)
}
