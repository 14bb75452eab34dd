// Package chat keeps named conversations with a chat provider and saves them to YAML.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bokul-dev/folio/internal/providers"
)

const (
	DefaultName = "New Chat"
	// FailureReply is recorded as the assistant turn when the provider fails
	FailureReply = "Sorry, I encountered an error. Please try again."
)

var (
	ErrNotFound     = errors.New("chat session not found")
	ErrEmptyMessage = errors.New("message is empty")
)

// Session is one named conversation
type Session struct {
	ID        string              `json:"id" yaml:"id"`
	Name      string              `json:"name" yaml:"name"`
	Messages  []providers.Message `json:"messages" yaml:"messages"`
	CreatedAt time.Time           `json:"created_at" yaml:"createdat"`
}

// state is the file layout
type state struct {
	Current  string     `yaml:"current"`
	Sessions []*Session `yaml:"sessions"`
}

// Options configure the requests a Manager sends
type Options struct {
	Model       string
	Temperature float64
	// Path is the YAML file sessions are saved to. Empty disables saving.
	Path string
}

// Manager owns the chat sessions. There is always at least one session.
type Manager struct {
	provider providers.Provider
	opts     Options

	mu       sync.Mutex
	sessions []*Session
	current  string
}

// NewManager loads sessions from opts.Path when it exists
func NewManager(provider providers.Provider, opts Options) (*Manager, error) {
	m := &Manager{provider: provider, opts: opts}

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		switch {
		case err == nil:
			var st state
			if err := yaml.Unmarshal(data, &st); err != nil {
				return nil, fmt.Errorf("failed to parse chat sessions: %w", err)
			}
			m.sessions = st.Sessions
			m.current = st.Current
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read chat sessions: %w", err)
		}
	}

	if len(m.sessions) == 0 {
		m.sessions = []*Session{{ID: "default", Name: DefaultName, CreatedAt: time.Now()}}
	}
	if m.index(m.current) < 0 {
		m.current = m.sessions[0].ID
	}

	slog.Debug("Chat sessions loaded", "count", len(m.sessions), "current", m.current)
	return m, nil
}

// List returns copies of every session in creation order
func (m *Manager) List() []Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Session, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = copySession(s)
	}
	return out
}

func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copySession(m.sessions[i]), nil
}

// Current is the id of the selected session
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Manager) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.current = id
	return m.save()
}

// Create adds an empty session and selects it
func (m *Manager) Create() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.create()
	return copySession(s), m.save()
}

func (m *Manager) create() *Session {
	s := &Session{ID: uuid.NewString(), Name: DefaultName, CreatedAt: time.Now()}
	m.sessions = append(m.sessions, s)
	m.current = s.ID
	return s
}

// Rename sets a session's name. A blank name resets it to DefaultName.
func (m *Manager) Rename(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	m.sessions[i].Name = name
	return m.save()
}

// Clear drops a session's messages
func (m *Manager) Clear(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.sessions[i].Messages = nil
	return m.save()
}

// Delete removes a session. Deleting the last one leaves a fresh empty session;
// deleting the selected one selects the session before it, or after it when it
// was first. The returned id is the session selected afterwards.
func (m *Manager) Delete(id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	switch {
	case len(m.sessions) == 1:
		m.create()
	case id == m.current:
		next := i + 1
		if i > 0 {
			next = i - 1
		}
		m.current = m.sessions[next].ID
	}
	m.sessions = slices.Delete(m.sessions, i, i+1)

	return m.current, m.save()
}

// Send appends text to a session and asks the provider for a reply using the earlier
// turns as history. When the provider fails an apology is recorded as the reply and
// the provider's error is returned.
func (m *Manager) Send(ctx context.Context, id, text string) (providers.Message, error) {
	if strings.TrimSpace(text) == "" {
		return providers.Message{}, ErrEmptyMessage
	}

	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return providers.Message{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s := m.sessions[i]
	history := slices.Clone(s.Messages)
	s.Messages = append(s.Messages, providers.Message{Role: providers.RoleUser, Content: text, Timestamp: time.Now()})
	m.mu.Unlock()

	start := time.Now()
	reply, err := m.provider.Chat(ctx, providers.Config{
		Model:       m.opts.Model,
		Temperature: m.opts.Temperature,
		History:     history,
		Prompt:      text,
	})

	msg := providers.Message{Role: providers.RoleAssistant, Content: reply, Timestamp: time.Now()}
	if err != nil {
		slog.Error("Chat provider failed", "session", id, "model", m.opts.Model, "error", err)
		msg.Content = FailureReply
	} else {
		slog.Info("Chat reply received", "session", id, "model", m.opts.Model, "duration", time.Since(start))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// the session may have been deleted while waiting
	if m.index(id) >= 0 {
		s.Messages = append(s.Messages, msg)
	}
	if saveErr := m.save(); saveErr != nil && err == nil {
		err = saveErr
	}
	return msg, err
}

func (m *Manager) index(id string) int {
	return slices.IndexFunc(m.sessions, func(s *Session) bool { return s.ID == id })
}

func (m *Manager) save() error {
	if m.opts.Path == "" {
		return nil
	}

	data, err := yaml.Marshal(&state{Current: m.current, Sessions: m.sessions})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	if err := os.WriteFile(m.opts.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write chat sessions: %w", err)
	}
	return nil
}

func copySession(s *Session) Session {
	c := *s
	c.Messages = slices.Clone(s.Messages)
	return c
}
