// Package portfolio is a client for the remote portfolio API that stores projects
// and their images.
package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/bokul-dev/folio/internal/models"
)

const DefaultBaseURL = "https://server-three-brown.vercel.app/api"

// Client talks to the portfolio API. Token, when set, is sent as a bearer token.
type Client struct {
	BaseURL    string
	Token      string
	httpClient *http.Client
}

// Image is a new file to upload with a create or update request
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ProjectForm is the multipart body of a create or update request.
// ExistingImages is only sent on update and is always sent there, even when empty.
type ProjectForm struct {
	Title          string
	Platform       models.Platform
	Description    string
	Technologies   []string
	GithubLink     string
	LivePreview    string
	ExistingImages []string
	Images         []Image
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// List fetches every project in the order the API returns them
func (c *Client) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.doJSON(ctx, http.MethodGet, "/portfolio", nil, &projects, "fetch projects"); err != nil {
		return nil, err
	}
	slog.Debug("Fetched projects", "count", len(projects))
	return projects, nil
}

// Get fetches a single project
func (c *Client) Get(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := c.doJSON(ctx, http.MethodGet, "/portfolio/"+url.PathEscape(id), nil, &project, "fetch project"); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create posts a new project
func (c *Client) Create(ctx context.Context, form ProjectForm) (*models.Project, error) {
	return c.sendForm(ctx, http.MethodPost, "/portfolio", form, false, "add project")
}

// Update replaces project id with form. Images not listed in ExistingImages are dropped
// by the server.
func (c *Client) Update(ctx context.Context, id string, form ProjectForm) (*models.Project, error) {
	return c.sendForm(ctx, http.MethodPut, "/portfolio/"+url.PathEscape(id), form, true, "update project")
}

// Delete removes a project
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/portfolio/"+url.PathEscape(id), nil, nil, "delete project")
}

// DeleteImage removes one stored image from a project and returns the updated project
func (c *Client) DeleteImage(ctx context.Context, id, imageURL string) (*models.Project, error) {
	body := map[string]string{"imageUrl": imageURL}
	var project models.Project
	if err := c.doJSON(ctx, http.MethodDelete, "/portfolio/"+url.PathEscape(id)+"/images", body, &project, "delete image"); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, action string) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out, action)
}

func (c *Client) sendForm(ctx context.Context, method, path string, form ProjectForm, update bool, action string) (*models.Project, error) {
	body, contentType, err := encodeForm(form, update)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var project models.Project
	if err := c.do(req, &project, action); err != nil {
		return nil, err
	}
	slog.Info("Project saved", "id", project.ID, "method", method, "images", len(project.Images))
	return &project, nil
}

func (c *Client) do(req *http.Request, out any, action string) error {
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failed := failure(resp, "Failed to "+action)
		slog.Error("Portfolio API request failed", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "message", failed.Message)
		return failed
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestFailed{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			Err:        err,
		}
	}
	return nil
}

func encodeForm(form ProjectForm, update bool) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	technologies := form.Technologies
	if technologies == nil {
		technologies = []string{}
	}
	techJSON, err := json.Marshal(technologies)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode technologies: %w", err)
	}

	fields := [][2]string{
		{"title", form.Title},
		{"platform", string(form.Platform)},
		{"description", form.Description},
		{"technologies", string(techJSON)},
		{"githubLink", form.GithubLink},
		{"livePreview", form.LivePreview},
	}

	if update {
		existing := form.ExistingImages
		if existing == nil {
			existing = []string{}
		}
		existingJSON, err := json.Marshal(existing)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode existing images: %w", err)
		}
		fields = append(fields, [2]string{"existingImages", string(existingJSON)})
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	for _, img := range form.Images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="%s"`, escapeQuotes(img.Name)))
		contentType := img.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write image %s: %w", img.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
