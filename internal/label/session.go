package label

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chemlabel/backend/internal/compound"
	"github.com/chemlabel/backend/internal/metrics"
	"github.com/chemlabel/backend/pkg/logger"
)

// Session wraps one user's presenter state. All mutation goes through
// the pure State update functions under the session lock.
type Session struct {
	ID string

	mu      sync.Mutex
	state   State
	touched time.Time
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()
	return s.state
}

// Submit runs the presenter's submit(): a non-empty CID triggers a
// lookup; on failure the previous summary stays on screen. An empty
// CID is a no-op.
func (s *Session) Submit(ctx context.Context, svc *compound.Service, cid string) State {
	if cid == "" {
		return s.Snapshot()
	}

	s.mu.Lock()
	s.state = s.state.WithCID(cid).StartLookup()
	s.mu.Unlock()

	summary, err := svc.Lookup(ctx, cid)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.FinishLookup(summary, err)
	s.touched = time.Now()
	return s.state
}

// ToggleEdit flips a field's edit-mode flag.
func (s *Session) ToggleEdit(key FieldKey) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.ToggleEdit(key)
	s.touched = time.Now()
	return s.state
}

// SetField overwrites a field's value.
func (s *Session) SetField(key FieldKey, value string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.SetField(key, value)
	s.touched = time.Now()
	return s.state
}

// Store holds live sessions in memory, keyed by UUID. Sessions idle
// past the TTL are swept out; nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	done     chan struct{}
}

func NewStore(ttl, sweepEvery time.Duration) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if sweepEvery > 0 {
		go st.sweep(sweepEvery)
	}
	return st
}

// Create registers a fresh session with default placeholder fields.
func (st *Store) Create() *Session {
	session := &Session{
		ID:      uuid.NewString(),
		state:   NewState(),
		touched: time.Now(),
	}

	st.mu.Lock()
	st.sessions[session.ID] = session
	metrics.ActiveSessions.Set(float64(len(st.sessions)))
	st.mu.Unlock()

	logger.Debug("Label session created", zap.String("session_id", session.ID))
	return session
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	return session, ok
}

// Stop halts the background sweeper.
func (st *Store) Stop() {
	close(st.done)
}

func (st *Store) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-st.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-st.ttl)
			st.mu.Lock()
			for id, session := range st.sessions {
				session.mu.Lock()
				idle := session.touched.Before(cutoff)
				session.mu.Unlock()
				if idle {
					delete(st.sessions, id)
				}
			}
			metrics.ActiveSessions.Set(float64(len(st.sessions)))
			st.mu.Unlock()
		}
	}
}
