package openai

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

const defaultURL = "https://api.openai.com/v1/chat/completions"

// OpenAI is a provider for the OpenAI chat completions API
type OpenAI struct {
	url    string
	client *http.Client
}

// New returns a new OpenAI provider. OPENAI_URL overrides the endpoint.
func New() *OpenAI {
	url := os.Getenv("OPENAI_URL")
	if url == "" {
		url = defaultURL
	}
	return &OpenAI{
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends the history followed by the prompt
func (o *OpenAI) Chat(ctx context.Context, config providers.Config) (string, error) {
	if err := config.Validate(); err != nil {
		return "", err
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	messages := make([]message, 0, len(config.History)+1)
	for _, m := range config.History {
		messages = append(messages, message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, message{Role: "user", Content: config.Prompt})

	requestBody, err := json.Marshal(map[string]any{
		"model":       config.Model,
		"messages":    messages,
		"temperature": config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

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
		Choices []struct {
			Message message `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}
