package storage

import (
	"slices"
	"sync"

	"github.com/bokul-dev/folio/internal/editor"
	"github.com/bokul-dev/folio/internal/models"
)

// SessionStore holds the open edit sessions of the dashboard, keyed by draft id
type SessionStore struct {
	sessions map[string]*editor.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*editor.Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*editor.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *editor.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

func (s *SessionStore) GetAll() map[string]*editor.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*editor.Session, len(s.sessions))
	for k, v := range s.sessions {
		result[k] = v
	}
	return result
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// ProjectStore is the fetched project list the gallery and dashboard page over.
// It is replaced wholesale on fetch and patched locally after a successful edit.
type ProjectStore struct {
	projects []models.Project
	loaded   bool
	mu       sync.RWMutex
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{}
}

// Set replaces the list with a freshly fetched one
func (s *ProjectStore) Set(projects []models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = slices.Clone(projects)
	s.loaded = true
}

// All returns a copy of the list in fetch order
func (s *ProjectStore) All() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Loaded reports whether Set has been called since the store was created or invalidated
func (s *ProjectStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Invalidate marks the list stale so the next reader refetches
func (s *ProjectStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = false
}

func (s *ProjectStore) Get(id string) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// ReplaceByID swaps in a server-confirmed project at its current index, keeping the
// list order. It reports false when no project has that id.
func (s *ProjectStore) ReplaceByID(p models.Project) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			s.projects[i] = p
			return true
		}
	}
	return false
}

func (s *ProjectStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects = slices.Delete(s.projects, i, i+1)
			return true
		}
	}
	return false
}
