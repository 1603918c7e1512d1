// Package site serves the embedded landing page.
package site

import (
	"net/http"
)

// Register attaches the landing page and its static assets to mux.
func Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
	mux.Handle("GET /{$}", NewRootHandler())
}

// RootHandler serves index.html for the exact root path.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP handles GET /.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
