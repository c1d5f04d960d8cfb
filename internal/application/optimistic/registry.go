package optimistic

import "sync"

// Registry tracks which (relation, subject, user) keys have a request in flight.
// Toggles sharing a registry are serialized per key even across views.
type Registry struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{inflight: make(map[string]struct{})}
}

// InFlight reports whether key currently has a request outstanding
func (r *Registry) InFlight(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[key]
	return ok
}

func (r *Registry) acquire(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inflight[key]; ok {
		return false
	}
	r.inflight[key] = struct{}{}
	return true
}

func (r *Registry) release(key string) {
	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
}

// Key builds the single-flight key for a relation instance
func Key(relation, subjectID, userID string) string {
	return relation + "|" + subjectID + "|" + userID
}
