// Package handlers serves the dashboard API: the project list, edit drafts, image
// staging, previews and the chat assistant.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bokul-dev/folio/internal/chat"
	"github.com/bokul-dev/folio/internal/editor"
	"github.com/bokul-dev/folio/internal/listing"
	"github.com/bokul-dev/folio/internal/media"
	"github.com/bokul-dev/folio/internal/models"
	"github.com/bokul-dev/folio/internal/portfolio"
	"github.com/bokul-dev/folio/internal/storage"
)

var errDraftNotFound = errors.New("draft not found")

// PortfolioAPI is what the handlers need from the portfolio API client
type PortfolioAPI interface {
	editor.API
	List(ctx context.Context) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

// Options wires a Handler. Fetcher and Chat are optional.
type Options struct {
	API      PortfolioAPI
	Previews *media.PreviewStore
	Fetcher  *media.Fetcher
	Chat     *chat.Manager
	Limits   media.Limits
}

type Handler struct {
	api      PortfolioAPI
	sessions *storage.SessionStore
	projects *storage.ProjectStore
	previews *media.PreviewStore
	fetcher  *media.Fetcher
	chat     *chat.Manager
	limits   media.Limits
}

func New(opts Options) *Handler {
	limits := opts.Limits
	if limits.MaxCount <= 0 {
		limits = media.DefaultLimits()
	}
	return &Handler{
		api:      opts.API,
		sessions: storage.New(),
		projects: storage.NewProjectStore(),
		previews: opts.Previews,
		fetcher:  opts.Fetcher,
		chat:     opts.Chat,
		limits:   limits,
	}
}

// Close cancels every open draft so its previews are released
func (h *Handler) Close() {
	for id, s := range h.sessions.GetAll() {
		s.Cancel()
		h.sessions.Delete(id)
	}
}

// MapHTTPStatus maps domain errors to HTTP status codes
func MapHTTPStatus(err error) int {
	var failed *portfolio.RequestFailed
	switch {
	case errors.Is(err, errDraftNotFound), errors.Is(err, chat.ErrNotFound), errors.Is(err, media.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, editor.ErrSubmitInProgress), errors.Is(err, editor.ErrState), errors.Is(err, media.ErrCapacity):
		return http.StatusConflict
	case errors.Is(err, media.ErrIndex), errors.Is(err, editor.ErrNotPersisted),
		errors.Is(err, listing.ErrPageOutOfRange), errors.Is(err, listing.ErrInvalidPageSize),
		errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.As(err, &failed):
		// the remote API's client errors are the caller's; anything else is a bad gateway
		if failed.StatusCode >= 400 && failed.StatusCode < 500 {
			return failed.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

type errorResponse struct {
	Error    string   `json:"error"`
	Missing  []string `json:"missing,omitempty"`
	NoImages bool     `json:"no_images,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	h.writeJSON(w, code, errorResponse{Error: message})
}

// writeErr reports err with the status MapHTTPStatus picks
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var verr *editor.ValidationError
	if errors.As(err, &verr) {
		resp.Missing = verr.Missing
		resp.NoImages = verr.NoImages
	}

	code := MapHTTPStatus(err)
	if code >= http.StatusInternalServerError {
		slog.Error("Request failed", "status", code, "error", err)
	} else {
		slog.Warn("Request rejected", "status", code, "error", err)
	}
	h.writeJSON(w, code, resp)
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// Session helpers
func (h *Handler) getSessionOrError(w http.ResponseWriter, sessionID string) (*editor.Session, bool) {
	session, exists := h.sessions.Get(sessionID)
	if !exists {
		h.writeErr(w, errDraftNotFound)
		return nil, false
	}
	return session, true
}
