package resilience

import (
	"sort"
	"sync"
)

// LoadingEvent is broadcast on every SetLoading
type LoadingEvent struct {
	Key       string `json:"key"`
	IsLoading bool   `json:"isLoading"`
}

// LoadingRegistry tracks which keyed operations are in flight.
// One flag per key, last writer wins; it is not a mutual exclusion mechanism.
type LoadingRegistry struct {
	mu        sync.RWMutex
	states    map[string]bool
	observers map[int]func(LoadingEvent)
	nextID    int
}

// NewLoadingRegistry creates an empty registry
func NewLoadingRegistry() *LoadingRegistry {
	return &LoadingRegistry{
		states:    make(map[string]bool),
		observers: make(map[int]func(LoadingEvent)),
	}
}

// SetLoading records the flag for key and notifies observers
func (r *LoadingRegistry) SetLoading(key string, loading bool) {
	r.mu.Lock()
	r.states[key] = loading
	observers := make([]func(LoadingEvent), 0, len(r.observers))
	ids := make([]int, 0, len(r.observers))
	for id := range r.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		observers = append(observers, r.observers[id])
	}
	r.mu.Unlock()

	event := LoadingEvent{Key: key, IsLoading: loading}
	for _, fn := range observers {
		fn(event)
	}
}

// IsLoading returns the last recorded flag, false if never set
func (r *LoadingRegistry) IsLoading(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[key]
}

// ClearAll empties the registry
func (r *LoadingRegistry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = make(map[string]bool)
}

// Active returns the keys currently flagged as loading, sorted
func (r *LoadingRegistry) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []string
	for key, loading := range r.states {
		if loading {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Subscribe registers fn for every state change and returns its cancel func
func (r *LoadingRegistry) Subscribe(fn func(LoadingEvent)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.observers, id)
			r.mu.Unlock()
		})
	}
}
