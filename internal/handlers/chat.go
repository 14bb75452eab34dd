package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bokul-dev/folio/internal/chat"
	"github.com/bokul-dev/folio/internal/providers"
)

type chatListResponse struct {
	Current  string         `json:"current"`
	Sessions []chat.Session `json:"sessions"`
}

// ListChats handles GET /api/chat/sessions
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, chatListResponse{
		Current:  h.chat.Current(),
		Sessions: h.chat.List(),
	})
}

// CreateChat handles POST /api/chat/sessions
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	s, err := h.chat.Create()
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, s)
}

// RenameChat handles PUT /api/chat/sessions/{id} with {"name"}
func (h *Handler) RenameChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var request struct {
		Name string `json:"name"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}
	if err := h.chat.Rename(id, request.Name); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondChat(w, id)
}

// DeleteChat handles DELETE /api/chat/sessions/{id}
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	if _, err := h.chat.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeErr(w, err)
		return
	}
	h.ListChats(w, r)
}

// SelectChat handles POST /api/chat/sessions/{id}/select
func (h *Handler) SelectChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.chat.Select(id); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondChat(w, id)
}

// ClearChat handles POST /api/chat/sessions/{id}/clear
func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.chat.Clear(id); err != nil {
		h.writeErr(w, err)
		return
	}
	h.respondChat(w, id)
}

// SendChat handles POST /api/chat/sessions/{id}/messages with {"content"}. A provider
// failure still returns the recorded apology alongside the error.
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var request struct {
		Content string `json:"content"`
	}
	if !h.decodeJSON(w, r, &request) {
		return
	}

	reply, err := h.chat.Send(r.Context(), id, request.Content)
	if err != nil {
		if errors.Is(err, chat.ErrNotFound) || errors.Is(err, chat.ErrEmptyMessage) {
			h.writeErr(w, err)
			return
		}
		h.writeJSON(w, http.StatusBadGateway, struct {
			Error string            `json:"error"`
			Reply providers.Message `json:"reply"`
		}{
			Error: "Failed to get response from AI. Please try again.",
			Reply: reply,
		})
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

func (h *Handler) respondChat(w http.ResponseWriter, id string) {
	s, err := h.chat.Get(id)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, s)
}
