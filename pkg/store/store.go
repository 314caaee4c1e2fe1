package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNotFound is returned when no session exists for an ID
var ErrNotFound = errors.New("session not found")

// Session is one browser session and the API token it holds
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Store provides JSON file-based storage for browser sessions
type Store struct {
	dataDir  string
	mu       sync.RWMutex
	sessions map[string]Session
}

// New creates a new Store instance
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	s := &Store{
		dataDir:  dataDir,
		sessions: make(map[string]Session),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) sessionsFile() string {
	return filepath.Join(s.dataDir, "sessions.json")
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.sessionsFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return err
	}
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
	}
	return nil
}

// save must be called with the write lock held.
func (s *Store) save() error {
	sessions := make([]Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.sessionsFile() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.sessionsFile())
}

// GetSession returns a session by ID
func (s *Store) GetSession(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// PutSession adds or replaces a session
func (s *Store) PutSession(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.sessions[sess.ID]
	s.sessions[sess.ID] = sess
	if err := s.save(); err != nil {
		if existed {
			s.sessions[sess.ID] = prev
		} else {
			delete(s.sessions, sess.ID)
		}
		return err
	}
	return nil
}

// DeleteSession deletes a session by ID. Deleting a missing session is not an error.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return nil
	}
	delete(s.sessions, id)
	return s.save()
}

// Len returns the number of stored sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
