package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// HandleStatic serves the browser client from the static directory, falling
// back to index.html for client-side routes.
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	if h.staticDir == "" {
		http.NotFound(w, r)
		return
	}

	// unknown API routes must not fall back to the client
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		h.writeError(w, "Not found", http.StatusNotFound)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" {
		path = "index.html"
	}

	// Prevent directory traversal attacks
	if strings.Contains(path, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Set appropriate content type based on file extension
	switch {
	case strings.HasSuffix(path, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(path, ".html"):
		w.Header().Set("Content-Type", "text/html")
	}

	fullPath := filepath.Join(h.staticDir, filepath.FromSlash(path))
	if info, err := os.Stat(fullPath); err != nil || info.IsDir() {
		w.Header().Set("Content-Type", "text/html")
		fullPath = filepath.Join(h.staticDir, "index.html")
	}
	http.ServeFile(w, r, fullPath)
}
