// Package session keeps the in-progress wizards of signed-in designers in
// memory and serializes access to each one.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vestahome/designer-hub/internal/form"
	"github.com/vestahome/designer-hub/internal/project"
	"github.com/vestahome/designer-hub/internal/wizard"
)

// DefaultIdleTTL is how long an untouched session survives.
const DefaultIdleTTL = 12 * time.Hour

var (
	ErrNotFound  = eris.New("session: not found")
	ErrForbidden = eris.New("session: owned by another user")
)

type entry struct {
	mu       sync.Mutex
	owner    string
	wiz      *wizard.Wizard
	lastSeen time.Time
}

// Manager is a concurrent-safe registry of wizards keyed by session id.
type Manager struct {
	schema *form.Schema
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*entry
}

// Stats summarizes the registry.
type Stats struct {
	Active  int           `json:"active"`
	IdleTTL time.Duration `json:"idle_ttl"`
}

// NewManager creates a Manager that builds every wizard from schema. A
// non-positive ttl uses DefaultIdleTTL.
func NewManager(schema *form.Schema, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	return &Manager{
		schema:  schema,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Create starts a fresh wizard for owner and returns its id and first view.
func (m *Manager) Create(owner string) (string, wizard.View) {
	id := uuid.NewString()
	e := &entry{
		owner:    normalizeOwner(owner),
		wiz:      wizard.New(m.schema),
		lastSeen: m.now(),
	}
	view := e.wiz.Snapshot()

	m.mu.Lock()
	m.entries[id] = e
	m.mu.Unlock()

	zap.L().Debug("session created", zap.String("session_id", id), zap.String("owner", e.owner))
	return id, view
}

// Do runs fn with exclusive access to the session's wizard. Only the owner
// may touch a session.
func (m *Manager) Do(id, owner string, fn func(w *wizard.Wizard) error) error {
	e, err := m.lookup(id, owner)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = m.now()
	return fn(e.wiz)
}

// View returns a snapshot of the session's wizard.
func (m *Manager) View(id, owner string) (wizard.View, error) {
	var v wizard.View
	err := m.Do(id, owner, func(w *wizard.Wizard) error {
		v = w.Snapshot()
		return nil
	})
	return v, err
}

// Locker adapts a session for project.Autofill.
func (m *Manager) Locker(id, owner string) project.Locker {
	return func(fn func(w *wizard.Wizard) error) error {
		return m.Do(id, owner, fn)
	}
}

// Delete drops a session. Deleting an unknown id is not an error; deleting
// a session whose submit is still being written fails with
// wizard.ErrSubmitInFlight.
func (m *Manager) Delete(id, owner string) error {
	e, err := m.lookup(id, owner)
	if err != nil {
		if eris.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wiz.Phase() == wizard.PhaseSubmitting {
		return wizard.ErrSubmitInFlight
	}

	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Sweep evicts sessions idle longer than the TTL and reports how many were
// removed. Sessions mid-submit are kept.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		if !e.mu.TryLock() {
			continue
		}
		idle := e.lastSeen.Before(cutoff) && e.wiz.Phase() != wizard.PhaseSubmitting
		e.mu.Unlock()
		if idle {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	log := zap.L().With(zap.String("component", "session.sweeper"))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// Stats returns registry statistics.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{Active: len(m.entries), IdleTTL: m.ttl}
}

func (m *Manager) lookup(id, owner string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if e.owner != normalizeOwner(owner) {
		return nil, ErrForbidden
	}
	return e, nil
}

func normalizeOwner(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
