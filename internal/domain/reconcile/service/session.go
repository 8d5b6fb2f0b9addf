package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/engine"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/parser"
)

// Session is one document's review state. The catalog snapshot is pinned at
// session start and never re-validated; a product deleted elsewhere between
// mapping and import surfaces as a per-item failure in the run summary.
// Items and Mappings stay index-aligned: one mapping per item.
type Session struct {
	ID             uuid.UUID         `json:"id"`
	DocumentName   string            `json:"documentName"`
	CreatedAt      time.Time         `json:"createdAt"`
	AutoMapEnabled bool              `json:"autoMapEnabled"`
	Items          []parser.LineItem `json:"items"`
	Mappings       []engine.Mapping  `json:"mappings"`
	Snapshot       *catalog.Snapshot `json:"-"`
}

func (s *Session) item(extractedID uuid.UUID) *parser.LineItem {
	for i := range s.Items {
		if s.Items[i].ID == extractedID {
			return &s.Items[i]
		}
	}
	return nil
}

func (s *Session) mapping(extractedID uuid.UUID) *engine.Mapping {
	for i := range s.Mappings {
		if s.Mappings[i].ExtractedID == extractedID {
			return &s.Mappings[i]
		}
	}
	return nil
}

func (s *Session) remove(extractedID uuid.UUID) bool {
	found := false
	for i := range s.Items {
		if s.Items[i].ID == extractedID {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for i := range s.Mappings {
		if s.Mappings[i].ExtractedID == extractedID {
			s.Mappings = append(s.Mappings[:i], s.Mappings[i+1:]...)
			break
		}
	}
	return true
}

// clone returns a snapshot of the session safe to hand to callers while the
// stored session keeps mutating under the store lock.
func (s *Session) clone() *Session {
	out := *s
	out.Items = append([]parser.LineItem(nil), s.Items...)
	out.Mappings = append([]engine.Mapping(nil), s.Mappings...)
	return &out
}

// sessionStore is the in-memory session registry. All access to a stored
// session's Items and Mappings goes through with(), which holds the lock for
// the duration of the callback; only cloned sessions leave the store.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[uuid.UUID]*Session)}
}

func (st *sessionStore) put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

func (st *sessionStore) get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// with runs fn on the stored session while holding the store lock, so
// concurrent requests against the same session serialize. fn must not block
// on anything slower than the session itself.
func (st *sessionStore) with(id uuid.UUID, fn func(*Session) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(s)
}

func (st *sessionStore) delete(id uuid.UUID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
