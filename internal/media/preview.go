package media

import (
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Preview is a locally renderable copy of a staged file.
// It must be released once its staged item leaves the draft.
type Preview struct {
	Name string
	Path string
	URL  string
}

// PreviewStore writes previews into a directory and tracks the ones still held
type PreviewStore struct {
	dir       string
	urlPrefix string

	mu   sync.Mutex
	open map[string]*Preview
}

// NewPreviewStore creates dir if needed. Preview URLs are urlPrefix + "/" + name.
func NewPreviewStore(dir, urlPrefix string) (*PreviewStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}
	return &PreviewStore{
		dir:       dir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		open:      make(map[string]*Preview),
	}, nil
}

// Allocate writes the staged file's bytes and attaches the handle to it
func (s *PreviewStore) Allocate(item *Staged) (*Preview, error) {
	name := item.ID + extensionFor(item.File)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, item.File.Data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write preview: %w", err)
	}

	p := &Preview{Name: name, Path: path, URL: s.urlPrefix + "/" + name}

	s.mu.Lock()
	s.open[name] = p
	s.mu.Unlock()

	item.Preview = p
	slog.Debug("Preview allocated", "name", name, "size", item.File.SizeBytes)
	return p, nil
}

// Release removes a preview. Releasing nil or an already released preview is a no-op.
func (s *PreviewStore) Release(p *Preview) error {
	if p == nil {
		return nil
	}

	s.mu.Lock()
	_, held := s.open[p.Name]
	delete(s.open, p.Name)
	s.mu.Unlock()

	if !held {
		return nil
	}

	if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove preview %s: %w", p.Name, err)
	}
	slog.Debug("Preview released", "name", p.Name)
	return nil
}

// ReleaseItems releases the previews of every staged item in items
func (s *PreviewStore) ReleaseItems(items []Item) error {
	var firstErr error
	for _, it := range items {
		st, ok := it.(*Staged)
		if !ok {
			continue
		}
		if err := s.Release(st.Preview); err != nil && firstErr == nil {
			firstErr = err
		}
		st.Preview = nil
	}
	return firstErr
}

// Lookup returns the on-disk path for a held preview name
func (s *PreviewStore) Lookup(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.open[name]
	if !ok {
		return "", false
	}
	return p.Path, true
}

// Held is the number of previews not yet released
func (s *PreviewStore) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.open)
}

func extensionFor(f FileDescriptor) string {
	if ext := filepath.Ext(f.Name); ext != "" {
		return strings.ToLower(ext)
	}
	switch f.MimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(f.MimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
