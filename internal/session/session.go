package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/gdg-garage/maitri-passes/internal/models"
	"github.com/gdg-garage/maitri-passes/internal/registration"
	"github.com/google/uuid"
)

const CookieName = "maitri_session"

// Factory builds a fresh form instance for a variant.
type Factory func(kind models.Kind) (*registration.Flow, bool)

type entry struct {
	flows    map[models.Kind]*registration.Flow
	lastSeen time.Time
}

// Store keeps the form instances of each browser in memory.
type Store struct {
	factory Factory
	ttl     time.Duration
	secure  bool
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewStore(factory Factory, ttl time.Duration, secureCookies bool) *Store {
	return &Store{
		factory:  factory,
		ttl:      ttl,
		secure:   secureCookies,
		now:      time.Now,
		sessions: map[string]*entry{},
	}
}

// ID returns the session id of the request, issuing a cookie when there is none.
func (s *Store) ID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Flow returns the current form instance of kind for the session.
func (s *Store) Flow(id string, kind models.Kind) (*registration.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(id)
	if f, ok := e.flows[kind]; ok {
		return f, true
	}
	return s.replace(e, kind)
}

// Fresh discards the form instance of kind and starts a new one, as a page reload does.
func (s *Store) Fresh(id string, kind models.Kind) (*registration.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replace(s.touch(id), kind)
}

func (s *Store) touch(id string) *entry {
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{flows: map[models.Kind]*registration.Flow{}}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e
}

func (s *Store) replace(e *entry, kind models.Kind) (*registration.Flow, bool) {
	f, ok := s.factory(kind)
	if !ok {
		return nil, false
	}
	e.flows[kind] = f
	return f, true
}

// Sweep drops sessions idle for longer than the ttl and reports how many went.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps every interval until stop is closed.
func (s *Store) Run(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.Sweep()
		case <-stop:
			return
		}
	}
}
