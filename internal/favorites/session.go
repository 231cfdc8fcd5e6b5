package favorites

import (
	"context"
	"fmt"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	sessionIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	sessionIDLength   = 21
)

// Session is one dashboard user's state: the selected brand and the
// checkbox value per brand.
type Session struct {
	ID       string
	Selected string

	mu       sync.Mutex
	toggles  map[string]bool
	lastSeen time.Time
}

func newSession(id string) *Session {
	return &Session{ID: id, toggles: make(map[string]bool), lastSeen: time.Now()}
}

// SetToggle records the checkbox value for brand.
func (s *Session) SetToggle(brand string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggles[brand] = on
}

// Toggle returns the checkbox value for brand. When the session has not
// seen the brand yet, the value is seeded from isLiked.
func (s *Session) Toggle(ctx context.Context, brand string, isLiked func(context.Context, string) (bool, error)) (bool, error) {
	s.mu.Lock()
	on, ok := s.toggles[brand]
	s.mu.Unlock()
	if ok {
		return on, nil
	}

	liked, err := isLiked(ctx, brand)
	if err != nil {
		return false, err
	}
	s.SetToggle(brand, liked)
	return liked, nil
}

// Sessions is an in-memory session registry.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessions creates a registry. Sessions idle for longer than ttl are
// dropped by Sweep; a zero ttl keeps them forever.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{sessions: make(map[string]*Session), ttl: ttl}
}

// Get returns the session for id, creating a new one when id is empty or
// unknown. created reports whether a new session was made.
func (r *Sessions) Get(id string) (sess *Session, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok && id != "" {
		s.lastSeen = time.Now()
		return s, false, nil
	}

	newID, err := nanoid.Generate(sessionIDAlphabet, sessionIDLength)
	if err != nil {
		return nil, false, fmt.Errorf("generating session id: %w", err)
	}
	s := newSession(newID)
	r.sessions[newID] = s
	return s, true, nil
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle longer than the ttl and returns how many it
// removed.
func (r *Sessions) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
