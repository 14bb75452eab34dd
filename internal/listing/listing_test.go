package listing

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/bokul-dev/folio/internal/models"
)

func projects(n int) []models.Project {
	list := make([]models.Project, n)
	for i := range list {
		list[i] = models.Project{ID: fmt.Sprint(i)}
	}
	return list
}

func ids(list []models.Project) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		page       int
		size       int
		expected   []string
		totalPages int
	}{
		{name: "first page", n: 13, page: 1, size: 6, expected: []string{"0", "1", "2", "3", "4", "5"}, totalPages: 3},
		{name: "short last page", n: 13, page: 3, size: 6, expected: []string{"12"}, totalPages: 3},
		{name: "exact fit", n: 12, page: 2, size: 6, expected: []string{"6", "7", "8", "9", "10", "11"}, totalPages: 2},
		{name: "empty list", n: 0, page: 1, size: 6, expected: []string{}, totalPages: 1},
		{name: "size one", n: 3, page: 2, size: 1, expected: []string{"1"}, totalPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := Paginate(projects(tt.n), tt.page, tt.size)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := ids(view.Items); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected items %v, got %v", tt.expected, got)
			}
			if view.TotalPages != tt.totalPages {
				t.Errorf("Expected %d pages, got %d", tt.totalPages, view.TotalPages)
			}
			if view.Page != tt.page || view.PageSize != tt.size || view.Total != tt.n {
				t.Errorf("Unexpected metadata %+v", view)
			}
		})
	}
}

func TestPaginateErrors(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		page     int
		size     int
		expected error
	}{
		{name: "page zero", n: 5, page: 0, size: 6, expected: ErrPageOutOfRange},
		{name: "past last page", n: 13, page: 4, size: 6, expected: ErrPageOutOfRange},
		{name: "page two of empty list", n: 0, page: 2, size: 6, expected: ErrPageOutOfRange},
		{name: "zero size", n: 5, page: 1, size: 0, expected: ErrInvalidPageSize},
		{name: "negative size", n: 5, page: 1, size: -1, expected: ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Paginate(projects(tt.n), tt.page, tt.size); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestPagesCoverList(t *testing.T) {
	for n := 0; n <= 20; n++ {
		for size := 1; size <= 7; size++ {
			list := projects(n)
			var seen []string
			for page := 1; page <= TotalPages(n, size); page++ {
				view, err := Paginate(list, page, size)
				if err != nil {
					t.Fatalf("n=%d size=%d page=%d: %v", n, size, page, err)
				}
				seen = append(seen, ids(view.Items)...)
			}
			if len(seen) != n {
				t.Errorf("n=%d size=%d: pages cover %d items", n, size, len(seen))
			}
			for i, id := range seen {
				if id != fmt.Sprint(i) {
					t.Errorf("n=%d size=%d: item %d is %s", n, size, i, id)
					break
				}
			}
		}
	}
}

func TestFeatured(t *testing.T) {
	if got := ids(Featured(projects(13))); !reflect.DeepEqual(got, []string{"0", "1", "2", "3", "4", "5"}) {
		t.Errorf("Expected first six, got %v", got)
	}
	if got := Featured(projects(2)); len(got) != 2 {
		t.Errorf("Expected both projects, got %d", len(got))
	}
	if got := Featured(nil); got == nil || len(got) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", got)
	}
}

func TestPageWindow(t *testing.T) {
	tests := []struct {
		current  int
		total    int
		expected []int
	}{
		{current: 1, total: 1, expected: []int{1}},
		{current: 1, total: 3, expected: []int{1, 2, 3}},
		{current: 1, total: 10, expected: []int{1, 2, 3, 4, 5}},
		{current: 5, total: 10, expected: []int{3, 4, 5, 6, 7}},
		{current: 10, total: 10, expected: []int{6, 7, 8, 9, 10}},
		{current: 9, total: 10, expected: []int{6, 7, 8, 9, 10}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.current, tt.total), func(t *testing.T) {
			if got := PageWindow(tt.current, tt.total); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if Clamp(0, 3) != 1 || Clamp(9, 3) != 3 || Clamp(2, 3) != 2 {
		t.Error("Clamp did not pull page into range")
	}
}
