package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bokul-dev/folio/internal/editor"
	"github.com/bokul-dev/folio/internal/media"
)

type rejectionResponse struct {
	Name    string       `json:"name"`
	Reason  media.Reason `json:"reason"`
	Message string       `json:"message"`
}

type uploadResponse struct {
	DraftID    string              `json:"draft_id"`
	Accepted   int                 `json:"accepted"`
	Rejections []rejectionResponse `json:"rejections"`
	Draft      editor.DraftView    `json:"draft"`
}

// UploadImages handles POST /api/drafts/{id}/images. The body is either a multipart
// form with "images" files or JSON {"image_url"} naming a remote image to stage.
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.getSessionOrError(w, id)
	if !ok {
		return
	}

	var (
		files []media.FileDescriptor
		err   error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		files, err = h.readURLUpload(r)
	} else {
		files, err = h.readFileUpload(r)
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.StageFiles(files)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	rejections := make([]rejectionResponse, len(result.Rejections))
	for i, rej := range result.Rejections {
		rejections[i] = rejectionResponse{Name: rej.File.Name, Reason: rej.Reason, Message: rej.Message}
	}

	h.writeJSON(w, http.StatusOK, uploadResponse{
		DraftID:    id,
		Accepted:   len(result.Accepted),
		Rejections: rejections,
		Draft:      s.Draft(),
	})
}

func (h *Handler) readURLUpload(r *http.Request) ([]media.FileDescriptor, error) {
	var request struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if request.ImageURL == "" {
		return nil, fmt.Errorf("image_url is required")
	}
	if h.fetcher == nil {
		return nil, fmt.Errorf("image URLs are not supported")
	}

	fd, err := h.fetcher.Fetch(r.Context(), request.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to process image URL: %w", err)
	}
	return []media.FileDescriptor{fd}, nil
}

// readFileUpload streams the multipart body part by part. Each part keeps at most one
// byte past the size limit and the rest is counted and discarded, so oversized files
// still reach the validator with their real size.
func (h *Handler) readFileUpload(r *http.Request) ([]media.FileDescriptor, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("failed to read form: %w", err)
	}

	var files []media.FileDescriptor
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read form: %w", err)
		}
		if part.FormName() != "images" || part.FileName() == "" {
			part.Close()
			continue
		}

		// past the count limit the batch is rejected whole, so only sizes matter
		keep := len(files) < h.limits.MaxCount
		fd, err := h.readPart(part, keep)
		part.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, fd)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no images in request")
	}
	return files, nil
}

func (h *Handler) readPart(part *multipart.Part, keep bool) (media.FileDescriptor, error) {
	name := part.FileName()
	var data []byte
	if keep {
		var err error
		data, err = io.ReadAll(io.LimitReader(part, h.limits.MaxSizeBytes+1))
		if err != nil {
			return media.FileDescriptor{}, fmt.Errorf("failed to read file %s: %w", name, err)
		}
	}
	rest, err := io.Copy(io.Discard, part)
	if err != nil {
		return media.FileDescriptor{}, fmt.Errorf("failed to read file %s: %w", name, err)
	}

	fd := media.DetectFile(name, part.Header.Get("Content-Type"), data)
	fd.SizeBytes = int64(len(data)) + rest
	slog.Debug("Image received", "name", fd.Name, "type", fd.MimeType, "size", fd.SizeBytes)
	return fd, nil
}
