package gemini

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/bokul-dev/folio/internal/providers"
)

func TestHistory(t *testing.T) {
	contents := history([]providers.Message{
		{Role: providers.RoleUser, Content: "hi"},
		{Role: providers.RoleAssistant, Content: "hello"},
	})

	if len(contents) != 2 {
		t.Fatalf("Expected 2 contents, got %d", len(contents))
	}
	if contents[0].Role != "user" || contents[1].Role != "model" {
		t.Errorf("Unexpected roles %s, %s", contents[0].Role, contents[1].Role)
	}
	if txt, ok := contents[1].Parts[0].(genai.Text); !ok || string(txt) != "hello" {
		t.Errorf("Unexpected part %v", contents[1].Parts[0])
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := New().Chat(context.Background(), providers.Config{Model: "gemini-1.5-flash-latest", Prompt: "hi"})
	if err == nil {
		t.Error("Expected error without API key")
	}
}
