package history

import (
	"strings"
	"sync"
)

// TeamRegistry maps club names to opaque integer IDs. IDs are assigned in
// first-seen order starting at 1 and never reused. Safe for concurrent use.
type TeamRegistry struct {
	mu    sync.RWMutex
	ids   map[string]int
	names []string
}

// NewTeamRegistry returns an empty registry.
func NewTeamRegistry() *TeamRegistry {
	return &TeamRegistry{ids: make(map[string]int)}
}

// ID returns the ID for name, assigning one if needed. Names are matched
// after trimming surrounding space.
func (r *TeamRegistry) ID(name string) int {
	name = strings.TrimSpace(name)
	r.mu.RLock()
	id, ok := r.ids[name]
	r.mu.RUnlock()
	if ok {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[name]; ok {
		return id
	}
	r.names = append(r.names, name)
	id = len(r.names)
	r.ids[name] = id
	return id
}

// Name returns the club name registered under id.
func (r *TeamRegistry) Name(id int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id < 1 || id > len(r.names) {
		return "", false
	}
	return r.names[id-1], true
}

// Len returns how many clubs are registered.
func (r *TeamRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
