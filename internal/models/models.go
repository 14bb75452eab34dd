package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Project is a portfolio entry as confirmed by the portfolio API
type Project struct {
	ID           string    `json:"_id" parquet:"id"`
	Title        string    `json:"title" parquet:"title"`
	Platform     Platform  `json:"platform" parquet:"platform"`
	Description  string    `json:"description" parquet:"description"`
	Technologies []string  `json:"technologies" parquet:"technologies,list"`
	Images       []string  `json:"images" parquet:"images,list"`
	GithubLink   string    `json:"githubLink" parquet:"github_link"`
	LivePreview  string    `json:"livePreview" parquet:"live_preview"`
	CreatedAt    time.Time `json:"createdAt" parquet:"created_at"`
}

// Cover returns the primary image URL, or "" when the project has none
func (p *Project) Cover() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Platform is the kind of product a project was built for.
// The string value is what the portfolio API stores.
type Platform string

const (
	PlatformWeb             Platform = "Web Application"
	PlatformMobile          Platform = "Mobile Application"
	PlatformDesktop         Platform = "Desktop Application"
	PlatformChromeExtension Platform = "Chrome Extension"
	PlatformWordPress       Platform = "WordPress Theme/Plugin"
	PlatformOther           Platform = "Other"
)

// Platforms lists every platform in display order
var Platforms = []Platform{
	PlatformWeb,
	PlatformMobile,
	PlatformDesktop,
	PlatformChromeExtension,
	PlatformWordPress,
	PlatformOther,
}

var platformAliases = map[string]Platform{
	"web":              PlatformWeb,
	"mobile":           PlatformMobile,
	"desktop":          PlatformDesktop,
	"chrome-extension": PlatformChromeExtension,
	"chromeextension":  PlatformChromeExtension,
	"wordpress":        PlatformWordPress,
	"other":            PlatformOther,
}

// ParsePlatform accepts either the stored label ("Web Application") or a short alias ("web")
func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	if p, ok := platformAliases[s]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown platform: %q", s)
}

// Valid reports whether p is one of the known platforms
func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// TagSet is an insertion-ordered set of strings
type TagSet struct {
	tags []string
}

// NewTagSet builds a set from tags, dropping empty values and duplicates
func NewTagSet(tags ...string) *TagSet {
	s := &TagSet{}
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add appends tag if it is not empty and not already present.
// It reports whether the set changed.
func (s *TagSet) Add(tag string) bool {
	if tag == "" || s.Contains(tag) {
		return false
	}
	s.tags = append(s.tags, tag)
	return true
}

// Remove deletes tag, reporting whether it was present
func (s *TagSet) Remove(tag string) bool {
	for i, t := range s.tags {
		if t == tag {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return true
		}
	}
	return false
}

func (s *TagSet) Contains(tag string) bool {
	for _, t := range s.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (s *TagSet) Len() int {
	return len(s.tags)
}

// Values returns a copy of the tags in insertion order
func (s *TagSet) Values() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s *TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	s.tags = nil
	for _, t := range tags {
		s.Add(t)
	}
	return nil
}

// Technologies offered by the dashboard's technology picker
var Technologies = []string{
	"React", "Node.js", "MongoDB", "Express.js", "Firebase",
	"Tailwind CSS", "JavaScript", "TypeScript", "Next.js",
	"HTML5", "CSS3", "Material UI", "Bootstrap", "Redux",
}
