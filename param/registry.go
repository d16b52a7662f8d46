package param

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrUnknownParameter is returned for IDs that were never added.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrDuplicateParameter is returned when an ID is added twice.
	ErrDuplicateParameter = errors.New("duplicate parameter")
)

// Listener is called with the ID of a parameter after its value changed.
type Listener func(id ID)

// Registry holds parameters in registration order.
type Registry struct {
	mu        sync.RWMutex
	params    map[ID]*Parameter
	order     []ID
	listeners []Listener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{params: make(map[ID]*Parameter)}
}

// Add registers parameters. Adding an ID twice fails and leaves the
// registry unchanged for that parameter.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if p == nil {
			continue
		}

		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("%w: %d (%s)", ErrDuplicateParameter, p.ID, p.Name)
		}

		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// Get returns the parameter with id, or nil.
func (r *Registry) Get(id ID) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// Lookup returns the parameter with id or ErrUnknownParameter.
func (r *Registry) Lookup(id ID) (*Parameter, error) {
	if p := r.Get(id); p != nil {
		return p, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownParameter, id)
}

// Set stores v in parameter id and notifies listeners.
func (r *Registry) Set(id ID, v float64) error {
	p, err := r.Lookup(id)
	if err != nil {
		return err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parameter %q value must be finite: %v", p.Name, v)
	}

	p.Set(v)
	r.notify(id)

	return nil
}

// ResetAll restores every parameter's default and notifies listeners once
// per parameter.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
		r.notify(p.ID)
	}
}

// All returns parameters in registration order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		out[i] = r.params[id]
	}

	return out
}

// Count returns the number of registered parameters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// Subscribe adds a change listener.
func (r *Registry) Subscribe(l Listener) {
	if l == nil {
		return
	}

	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

// Listeners run outside the registry lock so they may read parameters.
func (r *Registry) notify(id ID) {
	r.mu.RLock()
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	for _, l := range listeners {
		l(id)
	}
}
