package service

import (
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sumanshinde/cloth-pos/internal/cart"
	"github.com/sumanshinde/cloth-pos/internal/repository"
	"github.com/sumanshinde/cloth-pos/internal/returns"
	"github.com/sumanshinde/cloth-pos/internal/search"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// Session is one logged-in cashier at the till. All mutable state is guarded by mu.
type Session struct {
	ID        string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
	Backend   *repository.Backend

	mu          sync.Mutex
	cart        *cart.Ledger
	catalog     *search.Index
	catalogAt   time.Time
	draft       *returns.Draft
	checkoutKey pendingKey
	returnKey   pendingKey
}

// pendingKey remembers the idempotency key of the last failed submission.
// A retry of the same payload reuses it; any other payload gets a fresh key.
type pendingKey struct {
	key     string
	payload interface{}
}

func (p *pendingKey) For(payload interface{}) string {
	if p.key == "" || !reflect.DeepEqual(p.payload, payload) {
		p.key = uuid.NewString()
		p.payload = payload
	}
	return p.key
}

func (p *pendingKey) Reset() {
	p.key = ""
	p.payload = nil
}

type SessionStore interface {
	Create(username string, backend *repository.Backend) *Session
	Get(id string) (*Session, error)
	Delete(id string) bool
	// Sweep drops expired sessions and returns how many were removed
	Sweep() int
	Count() int
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) SessionStore {
	return newSessionStore(ttl, time.Now)
}

func newSessionStore(ttl time.Duration, now func() time.Time) *memorySessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &memorySessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      now,
	}
}

func (s *memorySessionStore) Create(username string, backend *repository.Backend) *Session {
	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Backend:   backend,
		cart:      cart.NewLedger(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	activeSessions.Inc()
	return sess
}

func (s *memorySessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, id)
		activeSessions.Dec()
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *memorySessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	activeSessions.Dec()
	return true
}

func (s *memorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	activeSessions.Sub(float64(removed))
	return removed
}

func (s *memorySessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
