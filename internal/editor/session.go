// Package editor coordinates one editing session over a project draft: field edits,
// technology tags, staged and persisted images, and the submit round trip to the
// portfolio API.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bokul-dev/folio/internal/media"
	"github.com/bokul-dev/folio/internal/models"
	"github.com/bokul-dev/folio/internal/portfolio"
)

// State is where a session is in its lifecycle
type State int

const (
	Idle State = iota
	Editing
	Submitting
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// API is the part of the portfolio API a session talks to
type API interface {
	Create(ctx context.Context, form portfolio.ProjectForm) (*models.Project, error)
	Update(ctx context.Context, id string, form portfolio.ProjectForm) (*models.Project, error)
	DeleteImage(ctx context.Context, id, imageURL string) (*models.Project, error)
}

// Session owns a single draft. Its methods may be called from several goroutines;
// network calls run without holding the lock so an image delete can overlap a submit.
type Session struct {
	api      API
	previews *media.PreviewStore
	limits   media.Limits

	mu    sync.Mutex
	state State
	draft *Draft
}

// New creates an idle session. previews may be nil when staged files need no
// local preview.
func New(api API, previews *media.PreviewStore, limits media.Limits) *Session {
	if limits.MaxCount <= 0 {
		limits = media.DefaultLimits()
	}
	return &Session{
		api:      api,
		previews: previews,
		limits:   limits,
	}
}

// Start opens an empty draft for a new project
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return fmt.Errorf("%w: session is %s", ErrState, s.state)
	}
	s.draft = newDraft(s.limits.MaxCount)
	s.state = Editing
	return nil
}

// Load opens a draft hydrated from an existing project
func (s *Session) Load(p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return fmt.Errorf("%w: session is %s", ErrState, s.state)
	}

	d := newDraft(s.limits.MaxCount)
	d.ID = p.ID
	d.Fields = Fields{
		Title:       p.Title,
		Platform:    p.Platform,
		Description: p.Description,
		GithubLink:  p.GithubLink,
		LivePreview: p.LivePreview,
	}
	for _, t := range p.Technologies {
		d.Technologies.Add(t)
	}

	items := make([]media.Item, 0, len(p.Images))
	for _, url := range p.Images {
		items = append(items, media.NewPersisted(url))
	}
	if err := d.Images.Append(items...); err != nil {
		return fmt.Errorf("project %s: %w", p.ID, err)
	}

	s.draft = d
	s.state = Editing
	return nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a snapshot of the draft. The zero view is returned for an idle session.
func (s *Session) Draft() DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft == nil {
		return DraftView{State: s.state}
	}
	return s.draft.view(s.state)
}

// SetFields replaces the scalar fields of the draft
func (s *Session) SetFields(f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	s.draft.Fields = f
	return nil
}

// AddTechnology adds a tag, reporting false when it was already present
func (s *Session) AddTechnology(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return false, err
	}
	return s.draft.Technologies.Add(name), nil
}

// RemoveTechnology drops a tag. Removing an absent tag is a no-op.
func (s *Session) RemoveTechnology(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return false, err
	}
	return s.draft.Technologies.Remove(name), nil
}

// StageFiles validates a batch of files and appends the accepted ones after the
// current images, allocating a preview for each.
func (s *Session) StageFiles(files []media.FileDescriptor) (media.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return media.Result{}, err
	}

	result := media.Validate(files, s.draft.Images.Len(), s.limits)
	for _, rej := range result.Rejections {
		slog.Warn("Image rejected", "name", rej.File.Name, "reason", rej.Reason, "size", rej.File.SizeBytes)
	}
	if len(result.Accepted) == 0 {
		return result, nil
	}

	items := make([]media.Item, 0, len(result.Accepted))
	for _, f := range result.Accepted {
		st := media.NewStaged(f)
		if s.previews != nil {
			if _, err := s.previews.Allocate(st); err != nil {
				_ = s.previews.ReleaseItems(items)
				return result, err
			}
		}
		items = append(items, st)
	}

	if err := s.draft.Images.Append(items...); err != nil {
		if s.previews != nil {
			_ = s.previews.ReleaseItems(items)
		}
		return result, err
	}

	slog.Info("Images staged", "accepted", len(result.Accepted), "rejected", len(result.Rejections), "total", s.draft.Images.Len())
	return result, nil
}

// Move reorders the combined image sequence
func (s *Session) Move(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.Images.Move(from, to)
}

// RemoveAt removes the image at pos. A persisted image of an existing project is
// deleted on the server first and the project the server returns is passed back;
// a staged image only has its preview released and the project is nil.
func (s *Session) RemoveAt(ctx context.Context, pos int) (media.Item, *models.Project, error) {
	s.mu.Lock()
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	item, err := s.draft.Images.At(pos)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}

	if p, ok := item.(*media.Persisted); ok && !s.draft.IsNew() {
		s.mu.Unlock()
		project, err := s.RemoveExistingImage(ctx, p.URL)
		if err != nil {
			return nil, nil, err
		}
		return p, project, nil
	}
	defer s.mu.Unlock()

	removed, err := s.draft.Images.RemoveAt(pos)
	if err != nil {
		return nil, nil, err
	}
	if s.previews != nil {
		if err := s.previews.ReleaseItems([]media.Item{removed}); err != nil {
			slog.Warn("Failed to release preview", "key", removed.Key(), "error", err)
		}
	}
	return removed, nil, nil
}

// RemoveExistingImage deletes a stored image on the server right away, independent of
// submit, and returns the project as the server now has it. The image leaves the
// draft only when the server confirms the delete.
func (s *Session) RemoveExistingImage(ctx context.Context, imageURL string) (*models.Project, error) {
	s.mu.Lock()
	if s.state != Editing && s.state != Submitting {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: session is %s", ErrState, state)
	}
	pos := s.draft.Images.IndexOf(imageURL)
	if pos < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", media.ErrUnknownItem, imageURL)
	}
	if s.draft.IsNew() {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotPersisted, imageURL)
	}
	id := s.draft.ID
	s.mu.Unlock()

	project, err := s.api.DeleteImage(ctx, id, imageURL)
	if err != nil {
		slog.Error("Failed to delete image", "project", id, "url", imageURL, "error", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft != nil {
		// a concurrent edit may already have dropped it
		if _, err := s.draft.Images.Remove(imageURL); err != nil {
			slog.Debug("Deleted image already gone from draft", "url", imageURL)
		}
	}
	slog.Info("Image deleted", "project", id, "url", imageURL, "remaining", len(project.Images))
	return project, nil
}

// Submit sends the draft to the portfolio API. On failure the session returns to
// Editing with the draft untouched; on success it closes and returns the project
// the server confirmed.
func (s *Session) Submit(ctx context.Context) (*models.Project, error) {
	s.mu.Lock()
	if s.state == Submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	if err := s.editable(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.draft.validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	id := s.draft.ID
	form := s.form()
	s.state = Submitting
	s.mu.Unlock()

	var (
		project *models.Project
		err     error
	)
	if id == "" {
		project, err = s.api.Create(ctx, form)
	} else {
		project, err = s.api.Update(ctx, id, form)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if s.state == Submitting {
			s.state = Editing
		}
		return nil, err
	}

	if s.state == Submitting {
		s.closeLocked()
	}
	return project, nil
}

// Cancel discards the draft and releases every preview it holds
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.draft != nil && s.previews != nil {
		if err := s.previews.ReleaseItems(s.draft.Images.Items()); err != nil {
			slog.Warn("Failed to release previews", "error", err)
		}
	}
	s.state = Closed
}

func (s *Session) editable() error {
	switch s.state {
	case Editing:
		return nil
	case Submitting:
		return ErrSubmitInProgress
	default:
		return fmt.Errorf("%w: session is %s", ErrState, s.state)
	}
}

// form builds the request body from the current order. Persisted and staged images
// go to separate fields, each in the order it has in the combined sequence.
func (s *Session) form() portfolio.ProjectForm {
	items := s.draft.Images.Items()
	existing, staged := media.Partition(items)

	if len(existing) > 0 && len(staged) > 0 {
		if _, ok := items[0].(*media.Staged); ok {
			slog.Warn("New image placed before stored images; server keeps stored images first",
				"project", s.draft.ID, "cover", items[0].Key())
		}
	}

	images := make([]portfolio.Image, len(staged))
	for i, st := range staged {
		images[i] = portfolio.Image{
			Name:        st.File.Name,
			ContentType: st.File.MimeType,
			Data:        st.File.Data,
		}
	}

	f := s.draft.Fields
	form := portfolio.ProjectForm{
		Title:        f.Title,
		Platform:     f.Platform,
		Description:  f.Description,
		Technologies: s.draft.Technologies.Values(),
		GithubLink:   f.GithubLink,
		LivePreview:  f.LivePreview,
		Images:       images,
	}
	if !s.draft.IsNew() {
		form.ExistingImages = existing
	}
	return form
}
