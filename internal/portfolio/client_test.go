package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/bokul-dev/folio/internal/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", "secret", 5*time.Second)
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/portfolio" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Expected bearer token, got %q", got)
		}
		_, _ = io.WriteString(w, `[{"_id":"1","title":"A"},{"_id":"2","title":"B"}]`)
	})

	projects, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(projects) != 2 || projects[0].ID != "1" || projects[1].Title != "B" {
		t.Errorf("Unexpected projects %+v", projects)
	}
}

func TestCreateSendsMultipartInOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/portfolio" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse multipart: %v", err)
			return
		}

		if got := r.FormValue("title"); got != "Shop" {
			t.Errorf("Expected title Shop, got %q", got)
		}
		if got := r.FormValue("platform"); got != "Web Application" {
			t.Errorf("Expected platform label, got %q", got)
		}
		if got := r.FormValue("technologies"); got != `["React","Go"]` {
			t.Errorf("Expected technologies JSON, got %q", got)
		}
		if _, ok := r.MultipartForm.Value["existingImages"]; ok {
			t.Error("Did not expect existingImages on create")
		}

		files := r.MultipartForm.File["images"]
		if len(files) != 2 || files[0].Filename != "cover.png" || files[1].Filename != "two.jpg" {
			t.Errorf("Expected images in order [cover.png two.jpg], got %v", files)
			return
		}
		if ct := files[0].Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("Expected image/png part, got %s", ct)
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"_id":"new","title":"Shop","images":["https://cdn/1.png","https://cdn/2.jpg"]}`)
	})

	project, err := c.Create(context.Background(), ProjectForm{
		Title:        "Shop",
		Platform:     models.PlatformWeb,
		Description:  "A shop",
		Technologies: []string{"React", "Go"},
		GithubLink:   "https://github.com/x/shop",
		LivePreview:  "https://shop.example",
		Images: []Image{
			{Name: "cover.png", ContentType: "image/png", Data: []byte("1")},
			{Name: "two.jpg", ContentType: "image/jpeg", Data: []byte("2")},
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if project.ID != "new" || len(project.Images) != 2 {
		t.Errorf("Unexpected project %+v", project)
	}
}

func TestUpdateAlwaysSendsExistingImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/portfolio/abc" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse multipart: %v", err)
			return
		}
		if got := r.FormValue("existingImages"); got != `[]` {
			t.Errorf("Expected empty existingImages array, got %q", got)
		}
		if got := r.FormValue("technologies"); got != `[]` {
			t.Errorf("Expected empty technologies array, got %q", got)
		}
		_, _ = io.WriteString(w, `{"_id":"abc"}`)
	})

	if _, err := c.Update(context.Background(), "abc", ProjectForm{Title: "T"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestDeleteImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/portfolio/abc/images" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode body: %v", err)
			return
		}
		if body["imageUrl"] != "https://cdn/a.png" {
			t.Errorf("Unexpected body %v", body)
		}
		_, _ = io.WriteString(w, `{"_id":"abc","images":["https://cdn/b.png"]}`)
	})

	project, err := c.DeleteImage(context.Background(), "abc", "https://cdn/a.png")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(project.Images, []string{"https://cdn/b.png"}) {
		t.Errorf("Unexpected images %v", project.Images)
	}
}

func TestDeleteNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.Delete(context.Background(), "abc"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestRequestFailed(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{name: "server message", status: http.StatusBadRequest, body: `{"message":"Title already used"}`, expected: "Title already used"},
		{name: "server error field", status: http.StatusUnauthorized, body: `{"error":"token expired"}`, expected: "token expired"},
		{name: "no body", status: http.StatusInternalServerError, body: ``, expected: "500: Internal Server Error"},
		{name: "html body", status: http.StatusBadGateway, body: `<html>bad</html>`, expected: "502: Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Create(context.Background(), ProjectForm{Title: "x"})
			var failed *RequestFailed
			if !errors.As(err, &failed) {
				t.Fatalf("Expected *RequestFailed, got %T: %v", err, err)
			}
			if failed.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, failed.StatusCode)
			}
			if failed.Message != tt.expected {
				t.Errorf("Expected message %q, got %q", tt.expected, failed.Message)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "", time.Second)
	_, err := c.List(context.Background())

	var failed *RequestFailed
	if !errors.As(err, &failed) {
		t.Fatalf("Expected *RequestFailed, got %T", err)
	}
	if failed.StatusCode != 0 || failed.Err == nil {
		t.Errorf("Expected transport failure with cause, got %+v", failed)
	}
}

func TestGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/portfolio/abc" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"_id":"abc","platform":"Chrome Extension","technologies":["Go"]}`)
	})

	project, err := c.Get(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if project.Platform != models.PlatformChromeExtension || len(project.Technologies) != 1 {
		t.Errorf("Unexpected project %+v", project)
	}
}
