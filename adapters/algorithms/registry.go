// Package algorithms holds the algorithm registry and the built-in algorithms.
package algorithms

import (
	"fmt"
	"strings"
	"sync"

	"mlprep/domain/core"
	"mlprep/ports"
)

// Registry is a name to algorithm mapping that remembers registration order
type Registry struct {
	mu         sync.RWMutex
	algorithms map[string]ports.Algorithm
	order      []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{algorithms: make(map[string]ports.Algorithm)}
}

// Register adds an algorithm under its Name. Empty and repeated names are rejected.
func (r *Registry) Register(algo ports.Algorithm) error {
	if algo == nil {
		return fmt.Errorf("cannot register nil algorithm")
	}
	name := strings.TrimSpace(algo.Name())
	if name == "" {
		return fmt.Errorf("algorithm name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.algorithms[name]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateAlgorithm, name)
	}
	r.algorithms[name] = algo
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register for static setup; it panics on error
func (r *Registry) MustRegister(algo ports.Algorithm) {
	if err := r.Register(algo); err != nil {
		panic(err)
	}
}

// Get returns the algorithm registered under name
func (r *Registry) Get(name string) (ports.Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	algo, ok := r.algorithms[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAlgorithm, name)
	}
	return algo, nil
}

// Names returns the registered names in registration order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len returns the number of registered algorithms
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}

// NewDefaultRegistry registers the built-in algorithms
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, algo := range Builtins() {
		r.MustRegister(algo)
	}
	return r
}
