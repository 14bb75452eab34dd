// Package listing derives the views the site shows over the fetched project list.
package listing

import (
	"errors"
	"fmt"

	"github.com/bokul-dev/folio/internal/models"
)

const (
	// DefaultPageSize is the gallery page size
	DefaultPageSize = 6
	// FeaturedCount is how many projects the home page shows
	FeaturedCount = 6
	// WindowSize is the most page numbers a pager shows at once
	WindowSize = 5
)

var (
	ErrPageOutOfRange  = errors.New("page out of range")
	ErrInvalidPageSize = errors.New("page size must be positive")
)

// PageView is one page of the project list
type PageView struct {
	Items      []models.Project `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// TotalPages is ceil(total/size), and at least 1 so an empty list still has a page.
// A non-positive size counts as a single page.
func TotalPages(total, size int) int {
	if size < 1 {
		return 1
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Paginate returns page (1-based) of list. Callers clamp page themselves; an out of
// range page is an error rather than being corrected here.
func Paginate(list []models.Project, page, size int) (PageView, error) {
	if size < 1 {
		return PageView{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}

	totalPages := TotalPages(len(list), size)
	if page < 1 || page > totalPages {
		return PageView{}, fmt.Errorf("%w: %d not in [1,%d]", ErrPageOutOfRange, page, totalPages)
	}

	start := (page - 1) * size
	end := min(start+size, len(list))

	items := make([]models.Project, end-start)
	copy(items, list[start:end])

	return PageView{
		Items:      items,
		Page:       page,
		PageSize:   size,
		Total:      len(list),
		TotalPages: totalPages,
	}, nil
}

// Clamp pulls page into [1,totalPages]
func Clamp(page, totalPages int) int {
	return max(1, min(page, totalPages))
}

// Featured is the fixed home page projection: the first FeaturedCount projects
func Featured(list []models.Project) []models.Project {
	n := min(len(list), FeaturedCount)
	out := make([]models.Project, n)
	copy(out, list[:n])
	return out
}

// PageWindow lists the page numbers a pager shows around current, keeping current
// centered where possible and always showing WindowSize pages when there are enough.
func PageWindow(current, totalPages int) []int {
	if totalPages < 1 {
		return nil
	}

	start := max(1, current-2)
	end := min(totalPages, start+WindowSize-1)
	if end-start+1 < WindowSize {
		start = max(1, end-WindowSize+1)
	}

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
