package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Item is one image of a draft, either *Persisted or *Staged.
// Positions are owned by the Collection holding the item.
type Item interface {
	Key() string
	Position() int
	setPosition(int)
}

// Persisted references an image the portfolio API already stores
type Persisted struct {
	URL      string
	position int
}

func NewPersisted(url string) *Persisted {
	return &Persisted{URL: url}
}

func (p *Persisted) Key() string         { return p.URL }
func (p *Persisted) Position() int       { return p.position }
func (p *Persisted) setPosition(pos int) { p.position = pos }

// Staged is a locally selected file that has not been uploaded yet
type Staged struct {
	ID       string
	File     FileDescriptor
	Preview  *Preview
	position int
}

// NewStaged wraps an accepted file with a fresh identity
func NewStaged(file FileDescriptor) *Staged {
	return &Staged{ID: uuid.NewString(), File: file}
}

func (s *Staged) Key() string         { return "staged:" + s.ID }
func (s *Staged) Position() int       { return s.position }
func (s *Staged) setPosition(pos int) { s.position = pos }

// FileDescriptor describes a candidate upload
type FileDescriptor struct {
	Name      string
	SizeBytes int64
	MimeType  string
	Width     int
	Height    int
	Data      []byte
}

// DetectFile builds a descriptor for data. The declared content type is kept when
// present, otherwise the type is sniffed from the bytes.
func DetectFile(name, declaredType string, data []byte) FileDescriptor {
	mimeType := strings.TrimSpace(strings.Split(declaredType, ";")[0])
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = strings.Split(http.DetectContentType(data), ";")[0]
	}

	fd := FileDescriptor{
		Name:      name,
		SizeBytes: int64(len(data)),
		MimeType:  mimeType,
		Data:      data,
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		fd.Width, fd.Height = cfg.Width, cfg.Height
	}

	return fd
}

// View is the JSON shape of an item as shown to the dashboard
type View struct {
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	Position   int    `json:"position"`
	Cover      bool   `json:"cover"`
	URL        string `json:"url,omitempty"`
	Name       string `json:"name,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// Describe renders item for display
func Describe(item Item) View {
	v := View{
		Key:      item.Key(),
		Position: item.Position(),
		Cover:    item.Position() == 0,
	}

	switch it := item.(type) {
	case *Persisted:
		v.Kind = "persisted"
		v.URL = it.URL
	case *Staged:
		v.Kind = "staged"
		v.Name = it.File.Name
		v.MimeType = it.File.MimeType
		v.SizeBytes = it.File.SizeBytes
		v.Width = it.File.Width
		v.Height = it.File.Height
		if it.Preview != nil {
			v.PreviewURL = it.Preview.URL
		}
	}

	return v
}
