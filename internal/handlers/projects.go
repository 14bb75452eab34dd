package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bokul-dev/folio/internal/listing"
	"github.com/bokul-dev/folio/internal/models"
	"github.com/bokul-dev/folio/internal/report"
)

type pageResponse struct {
	listing.PageView
	Window []int `json:"window"`
}

// ListProjects handles GET /api/projects?page=&page_size=&refresh=
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page", 1)
	if err != nil {
		h.writeError(w, "Invalid page: "+err.Error(), http.StatusBadRequest)
		return
	}
	size, err := intParam(r, "page_size", listing.DefaultPageSize)
	if err != nil {
		h.writeError(w, "Invalid page_size: "+err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.projectList(r.Context(), r.URL.Query().Get("refresh") == "true")
	if err != nil {
		h.writeErr(w, err)
		return
	}

	view, err := listing.Paginate(list, page, size)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, pageResponse{
		PageView: view,
		Window:   listing.PageWindow(view.Page, view.TotalPages),
	})
}

// FeaturedProjects handles GET /api/projects/featured
func (h *Handler) FeaturedProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.projectList(r.Context(), false)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing.Featured(list))
}

// ProjectStats handles GET /api/projects/stats
func (h *Handler) ProjectStats(w http.ResponseWriter, r *http.Request) {
	list, err := h.projectList(r.Context(), false)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report.Summarize(list, "api"))
}

// DeleteProject handles DELETE /api/projects/{id}. The list is refetched afterwards.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.api.Delete(r.Context(), id); err != nil {
		h.writeErr(w, err)
		return
	}

	if _, err := h.projectList(r.Context(), true); err != nil {
		// the delete itself succeeded; serve the local list until the next fetch works
		h.projects.Remove(id)
		h.projects.Invalidate()
	}
	w.WriteHeader(http.StatusNoContent)
}

// projectList returns the cached list, fetching it when stale or when refresh is set
func (h *Handler) projectList(ctx context.Context, refresh bool) ([]models.Project, error) {
	if !refresh && h.projects.Loaded() {
		return h.projects.All(), nil
	}

	list, err := h.api.List(ctx)
	if err != nil {
		return nil, err
	}
	h.projects.Set(list)
	return h.projects.All(), nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
