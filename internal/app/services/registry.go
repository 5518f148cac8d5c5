package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

// NodeFactory builds the controller for a freshly created node
type NodeFactory func(id string) *session.Controller

// Registry keeps the live session nodes. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	nodes    map[string]*session.Controller
	factory  NodeFactory
	maxNodes int
	newID    func() string
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry; maxNodes <= 0 means unlimited
func NewRegistry(factory NodeFactory, maxNodes int, logger zerolog.Logger) *Registry {
	return &Registry{
		nodes:    make(map[string]*session.Controller),
		factory:  factory,
		maxNodes: maxNodes,
		newID:    func() string { return uuid.New().String() },
		logger:   logger,
	}
}

// Create starts a new node in the unauthenticated state
func (r *Registry) Create() (*session.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxNodes > 0 && len(r.nodes) >= r.maxNodes {
		r.logger.Warn().Int("maxNodes", r.maxNodes).Msg("Session node limit reached")
		return nil, apperrors.ErrSessionLimitReached
	}

	id := r.newID()
	for r.nodes[id] != nil {
		id = r.newID()
	}

	ctrl := r.factory(id)
	r.nodes[id] = ctrl
	r.logger.Debug().Str("sessionID", id).Int("nodes", len(r.nodes)).Msg("Session node created")
	return ctrl, nil
}

// Get looks up a node by id
func (r *Registry) Get(id string) (*session.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctrl, ok := r.nodes[id]
	return ctrl, ok
}

// Remove drops a node and stops its timers
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	ctrl, ok := r.nodes[id]
	delete(r.nodes, id)
	r.mu.Unlock()

	if ok {
		ctrl.Close()
	}
	return ok
}

// Len returns the number of live nodes
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}

// EvictIdle removes every node whose last activity is older than idle and
// returns their ids
func (r *Registry) EvictIdle(now time.Time, idle time.Duration) []string {
	r.mu.Lock()
	var evicted []*session.Controller
	for id, ctrl := range r.nodes {
		if now.Sub(ctrl.LastActive()) >= idle {
			evicted = append(evicted, ctrl)
			delete(r.nodes, id)
		}
	}
	r.mu.Unlock()

	ids := make([]string, 0, len(evicted))
	for _, ctrl := range evicted {
		ctrl.Close()
		ids = append(ids, ctrl.ID())
	}
	return ids
}
