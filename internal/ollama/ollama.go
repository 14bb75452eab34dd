package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bokul-dev/folio/internal/providers"
)

// Ollama is a provider for a local Ollama server
type Ollama struct {
	url    string
	client *http.Client
}

// New returns a new Ollama provider. OLLAMA_URL overrides http://localhost:11434.
func New() *Ollama {
	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	return &Ollama{
		url:    ollamaURL + "/api/chat",
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends the history followed by the prompt
func (o *Ollama) Chat(ctx context.Context, config providers.Config) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	messages := make([]message, 0, len(config.History)+1)
	for _, m := range config.History {
		messages = append(messages, message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, message{Role: "user", Content: config.Prompt})

	requestBody, err := json.Marshal(map[string]any{
		"model":    config.Model,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"temperature": config.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Message message `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Message.Content, nil
}
