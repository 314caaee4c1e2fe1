package products

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

type entry struct {
	ws       *Workspace
	lastUsed atomic.Int64
}

// Registry holds one workspace per browser session
type Registry struct {
	mu         sync.RWMutex
	workspaces map[string]*entry
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(log logrus.FieldLogger) *Registry {
	return &Registry{
		workspaces: make(map[string]*entry),
		log:        log,
		now:        time.Now,
	}
}

// Workspace returns the session's workspace, creating it with newService on first use
func (r *Registry) Workspace(sessionID string, newService func() Service) *Workspace {
	now := r.now().UnixNano()

	r.mu.RLock()
	e, exists := r.workspaces[sessionID]
	r.mu.RUnlock()

	if exists {
		e.lastUsed.Store(now)
		return e.ws
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, exists := r.workspaces[sessionID]; exists {
		e.lastUsed.Store(now)
		return e.ws
	}
	e = &entry{ws: NewWorkspace(newService(), r.log.WithField("session", shortID(sessionID)))}
	e.lastUsed.Store(now)
	r.workspaces[sessionID] = e
	return e.ws
}

// Reset drops the session's workspace. Calls still in flight against it are discarded.
func (r *Registry) Reset(sessionID string) {
	r.mu.Lock()
	e, exists := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()

	if exists {
		e.ws.Reset()
	}
}

// Prune drops workspaces not used for longer than idle and returns how many
// were dropped. The sessions stay valid; their next request mounts a new
// workspace. A non-positive idle prunes nothing.
func (r *Registry) Prune(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-idle).UnixNano()

	r.mu.Lock()
	var dropped []*Workspace
	for id, e := range r.workspaces {
		if e.lastUsed.Load() < cutoff {
			dropped = append(dropped, e.ws)
			delete(r.workspaces, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range dropped {
		ws.Reset()
	}
	if len(dropped) > 0 {
		r.log.WithField("count", len(dropped)).Debug("pruned idle workspaces")
	}
	return len(dropped)
}

// Len returns the number of live workspaces
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
