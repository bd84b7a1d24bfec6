package storage

import (
	"sync"
	"time"

	"github.com/SewarRihani/OnlineLabelingApp/internal/labeling"
)

// entry serializes requests for one browser session
type entry struct {
	mu       sync.Mutex
	session  *labeling.Session
	lastSeen time.Time
}

// SessionStore keeps live browser sessions in memory, keyed by session id
type SessionStore struct {
	sessions map[string]*entry
	mu       sync.RWMutex
	now      func() time.Time
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Do runs fn with exclusive access to the session. It reports false when
// no session has that id.
func (s *SessionStore) Do(sessionID string, fn func(*labeling.Session)) bool {
	s.mu.RLock()
	e, exists := s.sessions[sessionID]
	s.mu.RUnlock()
	if !exists {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()
	fn(e.session)
	return true
}

func (s *SessionStore) Set(sessionID string, session *labeling.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &entry{session: session, lastSeen: s.now()}
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep drops sessions idle for longer than ttl and returns how many.
// A session with a request in flight is not idle and is skipped.
func (s *SessionStore) Sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
