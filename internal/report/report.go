// Package report summarizes a project list: how projects spread over platforms and
// technologies, how many images they carry and which ones are missing details.
package report

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bokul-dev/folio/internal/models"
)

// PlatformStats counts the projects built for one platform
type PlatformStats struct {
	Platform models.Platform `json:"platform" yaml:"platform"`
	Count    int             `json:"count" yaml:"count"`
	Share    float64         `json:"share" yaml:"share"`
}

// TechnologyStats counts the projects tagged with one technology
type TechnologyStats struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Gap names a project and the details it lacks
type Gap struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Missing []string `json:"missing" yaml:"missing"`
}

// Summary is the aggregate view of a project list
type Summary struct {
	GeneratedAt   time.Time         `json:"generated_at" yaml:"generatedat"`
	Source        string            `json:"source" yaml:"source"`
	TotalProjects int               `json:"total_projects" yaml:"totalprojects"`
	TotalImages   int               `json:"total_images" yaml:"totalimages"`
	AverageImages float64           `json:"average_images" yaml:"averageimages"`
	WithoutImages int               `json:"without_images" yaml:"withoutimages"`
	Platforms     []PlatformStats   `json:"platforms" yaml:"platforms"`
	Technologies  []TechnologyStats `json:"technologies" yaml:"technologies"`
	Gaps          []Gap             `json:"gaps" yaml:"gaps"`
}

// Summarize aggregates projects. Platforms follow the order of models.Platforms with
// unknown labels last; technologies are sorted by count, then name.
func Summarize(projects []models.Project, source string) *Summary {
	s := &Summary{
		GeneratedAt:   time.Now(),
		Source:        source,
		TotalProjects: len(projects),
		Platforms:     []PlatformStats{},
		Technologies:  []TechnologyStats{},
		Gaps:          []Gap{},
	}

	platforms := make(map[models.Platform]int)
	techs := make(map[string]int)

	for _, p := range projects {
		s.TotalImages += len(p.Images)
		if len(p.Images) == 0 {
			s.WithoutImages++
		}
		platforms[p.Platform]++
		for _, t := range p.Technologies {
			techs[t]++
		}
		if missing := missingFields(p); len(missing) > 0 {
			s.Gaps = append(s.Gaps, Gap{ID: p.ID, Title: p.Title, Missing: missing})
		}
	}

	if s.TotalProjects > 0 {
		s.AverageImages = float64(s.TotalImages) / float64(s.TotalProjects)
	}

	for _, known := range models.Platforms {
		if n := platforms[known]; n > 0 {
			s.Platforms = append(s.Platforms, s.platformStats(known, n))
			delete(platforms, known)
		}
	}
	var unknown []models.Platform
	for p := range platforms {
		unknown = append(unknown, p)
	}
	slices.Sort(unknown)
	for _, p := range unknown {
		s.Platforms = append(s.Platforms, s.platformStats(p, platforms[p]))
	}

	for name, n := range techs {
		s.Technologies = append(s.Technologies, TechnologyStats{Name: name, Count: n})
	}
	slices.SortFunc(s.Technologies, func(a, b TechnologyStats) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	return s
}

func (s *Summary) platformStats(p models.Platform, n int) PlatformStats {
	return PlatformStats{Platform: p, Count: n, Share: float64(n) / float64(s.TotalProjects)}
}

// missingFields lists what a project would fail an edit submit on
func missingFields(p models.Project) []string {
	var missing []string
	if strings.TrimSpace(p.Title) == "" {
		missing = append(missing, "title")
	}
	if !p.Platform.Valid() {
		missing = append(missing, "platform")
	}
	if strings.TrimSpace(p.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(p.GithubLink) == "" {
		missing = append(missing, "githubLink")
	}
	if strings.TrimSpace(p.LivePreview) == "" {
		missing = append(missing, "livePreview")
	}
	if len(p.Images) == 0 {
		missing = append(missing, "images")
	}
	return missing
}

// Print writes a human-readable summary
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, "PORTFOLIO SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "Generated: %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Source: %s\n", s.Source)
	fmt.Fprintf(w, "Projects: %d\n", s.TotalProjects)
	fmt.Fprintf(w, "Images: %d (%.1f per project, %d projects without any)\n", s.TotalImages, s.AverageImages, s.WithoutImages)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PLATFORMS")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, p := range s.Platforms {
		fmt.Fprintf(w, "%-20s %4d  (%.1f%%)\n", p.Platform, p.Count, p.Share*100)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "TECHNOLOGIES")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, t := range s.Technologies {
		fmt.Fprintf(w, "%-20s %4d\n", t.Name, t.Count)
	}

	if len(s.Gaps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "INCOMPLETE PROJECTS")
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for _, g := range s.Gaps {
			fmt.Fprintf(w, "%s %q: missing %s\n", g.ID, g.Title, strings.Join(g.Missing, ", "))
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

// SaveToYAML writes the summary to dir as a timestamped file and returns its path
func SaveToYAML(dir string, s *Summary) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("portfolio_%s.yaml", s.GeneratedAt.Format("2006-01-02_15-04-05")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
