package openai

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
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Unexpected auth header %q", got)
		}
		var body struct {
			Model    string    `json:"model"`
			Messages []message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		if len(body.Messages) != 3 || body.Messages[1].Role != "assistant" || body.Messages[2].Content != "and now?" {
			t.Errorf("Unexpected messages %+v", body.Messages)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"done"}}]}`)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("OPENAI_URL", srv.URL)

	reply, err := New().Chat(context.Background(), providers.Config{
		Model: "gpt-4o-mini",
		History: []providers.Message{
			{Role: providers.RoleUser, Content: "hi"},
			{Role: providers.RoleAssistant, Content: "hello"},
		},
		Prompt: "and now?",
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "done" {
		t.Errorf("Expected reply done, got %q", reply)
	}
}

func TestChatNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("OPENAI_URL", srv.URL)

	if _, err := New().Chat(context.Background(), providers.Config{Model: "m", Prompt: "p"}); err == nil {
		t.Error("Expected error for 429")
	}
}
