package handlers

import "net/http"

// Routes registers every endpoint and wraps the mux in the middleware chain
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /healthcheck", h.HandleHealthcheck)
	mux.HandleFunc("POST /api/identify", h.HandleIdentify)
	mux.HandleFunc("GET /api/parts/search", h.HandlePartsSearch)
	mux.HandleFunc("GET /api/parts/{partNum}", h.HandlePartDetail)
	mux.HandleFunc("GET /api/parts/{partNum}/sets", h.HandlePartSets)
	mux.HandleFunc("GET /api/sets/{setNum}", h.HandleSetDetail)
	if h.staticDir != "" {
		mux.HandleFunc("GET /", h.HandleStatic)
	}

	return WithRequestID(WithAccessLog(WithCORS(mux)))
}
