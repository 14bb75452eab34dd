package editor

import (
	"strings"

	"github.com/bokul-dev/folio/internal/media"
	"github.com/bokul-dev/folio/internal/models"
)

// Fields are the scalar form fields of a draft
type Fields struct {
	Title       string          `json:"title"`
	Platform    models.Platform `json:"platform"`
	Description string          `json:"description"`
	GithubLink  string          `json:"githubLink"`
	LivePreview string          `json:"livePreview"`
}

// Draft is the working copy of a project. ID is empty for a project that has not
// been created yet.
type Draft struct {
	ID           string
	Fields       Fields
	Technologies *models.TagSet
	Images       *media.Collection
}

func newDraft(capacity int) *Draft {
	return &Draft{
		Technologies: models.NewTagSet(),
		Images:       media.NewCollection(capacity),
	}
}

func (d *Draft) IsNew() bool {
	return d.ID == ""
}

// validate checks the fields required before any request is made
func (d *Draft) validate() error {
	var missing []string
	required := []struct {
		name string
		ok   bool
	}{
		{"title", strings.TrimSpace(d.Fields.Title) != ""},
		{"platform", d.Fields.Platform.Valid()},
		{"description", strings.TrimSpace(d.Fields.Description) != ""},
		{"githubLink", strings.TrimSpace(d.Fields.GithubLink) != ""},
		{"livePreview", strings.TrimSpace(d.Fields.LivePreview) != ""},
	}
	for _, r := range required {
		if !r.ok {
			missing = append(missing, r.name)
		}
	}

	noImages := d.IsNew() && d.Images.Len() == 0
	if len(missing) == 0 && !noImages {
		return nil
	}
	return &ValidationError{Missing: missing, NoImages: noImages}
}

// DraftView is a read-only snapshot of a session for display
type DraftView struct {
	ID           string       `json:"id,omitempty"`
	New          bool         `json:"new"`
	State        State        `json:"state"`
	Fields       Fields       `json:"fields"`
	Technologies []string     `json:"technologies"`
	Images       []media.View `json:"images"`
	Remaining    int          `json:"remaining"`
	Capacity     int          `json:"capacity"`
}

func (d *Draft) view(state State) DraftView {
	items := d.Images.Items()
	views := make([]media.View, len(items))
	for i, it := range items {
		views[i] = media.Describe(it)
	}
	return DraftView{
		ID:           d.ID,
		New:          d.IsNew(),
		State:        state,
		Fields:       d.Fields,
		Technologies: d.Technologies.Values(),
		Images:       views,
		Remaining:    d.Images.Remaining(),
		Capacity:     d.Images.Capacity(),
	}
}
