package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bokul-dev/folio/internal/editor"
	"github.com/bokul-dev/folio/internal/models"
)

type draftResponse struct {
	DraftID string `json:"draft_id"`
	editor.DraftView
}

func (h *Handler) respondDraft(w http.ResponseWriter, status int, id string, s *editor.Session) {
	h.writeJSON(w, status, draftResponse{DraftID: id, DraftView: s.Draft()})
}

// CreateDraft handles POST /api/drafts. An optional {"project_id"} opens an existing
// project for editing; otherwise the draft is for a new project.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ProjectID string `json:"project_id"`
	}
	if r.ContentLength != 0 && !h.decodeJSON(w, r, &request) {
		return
	}

	s := editor.New(h.api, h.previews, h.limits)

	if request.ProjectID == "" {
		if err := s.Start(); err != nil {
			h.writeErr(w, err)
			return
		}
	} else {
		project, err := h.findProject(r, request.ProjectID)
		if err != nil {
			h.writeErr(w, err)
			return
		}
		if err := s.Load(project); err != nil {
			h.writeErr(w, err)
			return
		}
	}

	id := uuid.NewString()
	h.sessions.Set(id, s)
	slog.Info("Draft opened", "draft", id, "project", request.ProjectID)
	h.respondDraft(w, http.StatusCreated, id, s)
}

func (h *Handler) findProject(r *http.Request, id string) (*models.Project, error) {
	if p, ok := h.projects.Get(id); ok {
		return &p, nil
	}
	return h.api.Get(r.Context(), id)
}

// GetDraft handles GET /api/drafts/{id}
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}
	h.respondDraft(w, http.StatusOK, id, s)
}

// CancelDraft handles DELETE /api/drafts/{id}
func (h *Handler) CancelDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}
	s.Cancel()
	h.sessions.Delete(id)
	slog.Info("Draft cancelled", "draft", id)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateFields handles PUT /api/drafts/{id}/fields. The platform may be given as its
// label or a short alias.
func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	var request struct {
		editor.Fields
		Platform string `json:"platform"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	fields := request.Fields
	if request.Platform != "" {
		p, err := models.ParsePlatform(request.Platform)
		if err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		fields.Platform = p
	}

	if err := s.SetFields(fields); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondDraft(w, http.StatusOK, id, s)
}

// AddTechnology handles POST /api/drafts/{id}/technologies
func (h *Handler) AddTechnology(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	var request struct {
		Name string `json:"name"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.Name == "" {
		h.writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	if _, err := s.AddTechnology(request.Name); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondDraft(w, http.StatusOK, id, s)
}

// RemoveTechnology handles DELETE /api/drafts/{id}/technologies/{name}
func (h *Handler) RemoveTechnology(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	if _, err := s.RemoveTechnology(chi.URLParam(r, "name")); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondDraft(w, http.StatusOK, id, s)
}

// MoveImage handles POST /api/drafts/{id}/images/move with {"from","to"}
func (h *Handler) MoveImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	var request struct {
		From *int `json:"from"`
		To   *int `json:"to"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if request.From == nil || request.To == nil {
		h.writeError(w, "from and to are required", http.StatusBadRequest)
		return
	}

	if err := s.Move(*request.From, *request.To); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondDraft(w, http.StatusOK, id, s)
}

// RemoveImage handles DELETE /api/drafts/{id}/images/{position}. Stored images of an
// existing project are deleted on the server immediately.
func (h *Handler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	pos, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		h.writeError(w, "Invalid position: "+err.Error(), http.StatusBadRequest)
		return
	}

	_, project, err := s.RemoveAt(r.Context(), pos)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	// the server answers an image delete with the updated project
	if project != nil {
		h.projects.ReplaceByID(*project)
	}
	h.respondDraft(w, http.StatusOK, id, s)
}

// SubmitDraft handles POST /api/drafts/{id}/submit. On success the draft is closed and
// the confirmed project is returned; on failure the draft stays open for a retry.
func (h *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	isNew := s.Draft().New
	project, err := s.Submit(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}

	h.sessions.Delete(id)
	if isNew || !h.projects.ReplaceByID(*project) {
		h.projects.Invalidate()
	}

	slog.Info("Draft submitted", "draft", id, "project", project.ID, "images", len(project.Images))
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, project)
}
