// Package source defines the contract every quote source implements and a
// registry the CLI uses to look sources up by name.
package source

import (
	"context"
	"fmt"
	"sync"

	"stockcollector/internal/quote"
)

// Source fetches and extracts one symbol's quote from one remote source.
type Source interface {
	Name() string
	Quote(ctx context.Context, symbol string) (quote.Record, error)
}

type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]Source),
	}
}

func (r *Registry) Register(s Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name()] = s
}

func (r *Registry) Get(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("source not found: %s", name)
	}
	return s, nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	return names
}
