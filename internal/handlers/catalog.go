package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/catalog"
)

func (h *Handler) HandlePartsSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		h.writeError(w, "Search query is required", http.StatusBadRequest)
		return
	}

	page := queryInt(r, "page")
	pageSize := queryInt(r, "pageSize")
	h.writeJSON(w, h.catalog.SearchParts(r.Context(), query, page, pageSize))
}

func (h *Handler) HandlePartDetail(w http.ResponseWriter, r *http.Request) {
	details := h.catalog.GetPartDetails(r.Context(), r.PathValue("partNum"))
	if details.Failed() {
		h.writeJSONStatus(w, http.StatusBadGateway, details)
		return
	}
	h.writeJSON(w, details)
}

// HandlePartSets answers 200 even when the catalog failed; the error field
// tells an empty list apart from a failed lookup.
func (h *Handler) HandlePartSets(w http.ResponseWriter, r *http.Request) {
	sets := h.catalog.GetSetsWithPart(r.Context(), r.PathValue("partNum"), catalog.SetsQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
		Color:    r.URL.Query().Get("color"),
	})
	h.writeJSON(w, sets)
}

func (h *Handler) HandleSetDetail(w http.ResponseWriter, r *http.Request) {
	set := h.catalog.GetSetInstructions(r.Context(), r.PathValue("setNum"))
	if set.Failed() {
		h.writeJSONStatus(w, http.StatusBadGateway, set)
		return
	}
	h.writeJSON(w, set)
}

// queryInt returns 0 for missing or malformed values so service defaults apply
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
