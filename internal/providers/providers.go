package providers

import (
	"context"
	"fmt"
	"time"
)

// Role is who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role      Role      `json:"role" yaml:"role"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Config represents the configuration for a single chat request
type Config struct {
	Model       string
	Temperature float64
	// History holds the earlier turns, oldest first. Prompt is not part of it.
	History []Message
	Prompt  string
}

// Provider defines the interface for a chat provider
type Provider interface {
	Chat(ctx context.Context, config Config) (string, error)
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "ollama":
		return "llama3.2"
	default:
		return "gemini-1.5-flash-latest"
	}
}

// Validate checks that a request can be sent
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Prompt == "" {
		return fmt.Errorf("prompt is required")
	}
	return nil
}
