package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bokul-dev/folio/internal/providers"
)

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body struct {
			Stream   bool      `json:"stream"`
			Messages []message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if body.Stream || len(body.Messages) != 1 || body.Messages[0].Content != "hi" {
			t.Errorf("Unexpected request %+v", body)
		}
		_, _ = io.WriteString(w, `{"message":{"role":"assistant","content":"hey"}}`)
	}))
	defer srv.Close()

	t.Setenv("OLLAMA_URL", srv.URL)

	reply, err := New().Chat(context.Background(), providers.Config{Model: "llama3.2", Prompt: "hi"})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "hey" {
		t.Errorf("Expected hey, got %q", reply)
	}
}

func TestChatRequiresPrompt(t *testing.T) {
	if _, err := New().Chat(context.Background(), providers.Config{Model: "llama3.2"}); err == nil {
		t.Error("Expected error for empty prompt")
	}
}
