package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ServePreview handles GET /previews/{name}. Only previews still held by a draft are served.
func (h *Handler) ServePreview(w http.ResponseWriter, r *http.Request) {
	if h.previews == nil {
		http.NotFound(w, r)
		return
	}

	path, ok := h.previews.Lookup(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, path)
}
