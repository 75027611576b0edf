package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/brickbuilder/internal/catalog"
	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
)

// MaxRequestBytes caps identify request bodies. It leaves room for the
// base64 overhead of a maximum size image.
const MaxRequestBytes = 15 << 20

type Handler struct {
	identifier *identify.Service
	catalog    *catalog.Service
	staticDir  string
}

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func New(identifier *identify.Service, catalogService *catalog.Service, staticDir string) *Handler {
	return &Handler{
		identifier: identifier,
		catalog:    catalogService,
		staticDir:  staticDir,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(body, '\n')); err != nil {
		slog.Error("Unable to write JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeErrorDetails(w, message, "", code)
}

func (h *Handler) writeErrorDetails(w http.ResponseWriter, message, details string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "details", details, "status", code)
	} else {
		slog.Warn(message, "details", details, "status", code)
	}
	h.writeJSONStatus(w, code, ErrorResponse{Error: message, Details: details})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{
		"status":  "ok",
		"message": "Brick Builder is running! 🧱",
	})
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}
