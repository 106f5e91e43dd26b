package store

import (
	"sync"
	"time"

	"github.com/aaronzipp/holiday-wishes/internal/celebration"
	"github.com/aaronzipp/holiday-wishes/internal/scheduler"
	"github.com/aaronzipp/holiday-wishes/internal/sse"
)

// Session ties a mounted celebration to the hub and bridge of its viewer
type Session struct {
	ID      string
	Flow    *celebration.Flow
	Hub     *sse.Hub
	Bridge  *sse.Bridge
	Created time.Time

	mu        sync.Mutex
	connected bool
	grace     scheduler.Cancel
}

// SetGrace stores the cancel func of the connect grace timer
func (s *Session) SetGrace(cancel scheduler.Cancel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grace = cancel
}

// MarkConnected records that a viewer attached and stops the grace timer.
// It reports whether this was the first connection.
func (s *Session) MarkConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	first := !s.connected
	s.connected = true
	s.stopGrace()
	return first
}

// Connected reports whether a viewer ever attached
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// StopGrace cancels a pending grace timer
func (s *Session) StopGrace() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopGrace()
}

func (s *Session) stopGrace() {
	if s.grace != nil {
		s.grace()
		s.grace = nil
	}
}

// FlowStore manages mounted celebrations
type FlowStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewFlowStore creates a new flow store
func NewFlowStore() *FlowStore {
	return &FlowStore{
		sessions: make(map[string]*Session),
	}
}

// Get retrieves a session by id
func (s *FlowStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[id]
	return session, exists
}

// Set stores a session
func (s *FlowStore) Set(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Take removes and returns a session. Only one caller gets it.
func (s *FlowStore) Take(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, exists := s.sessions[id]
	delete(s.sessions, id)
	return session, exists
}

// Drain removes and returns every session
func (s *FlowStore) Drain() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for id, session := range s.sessions {
		out = append(out, session)
		delete(s.sessions, id)
	}
	return out
}

// Exists checks if a session id exists
func (s *FlowStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.sessions[id]
	return exists
}

// Len returns the number of stored sessions
func (s *FlowStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
