// Package repository stores the effects a user can apply while recording:
// configured defaults plus presets saved at runtime.
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/syamnaths/Action-cam/internal/domain/effect"
	"github.com/syamnaths/Action-cam/pkg/metrics"
)

// Store provides read/write access to effects by name.
type Store interface {
	// Save validates and stores a preset, replacing any preset with the same
	// name. Presets shadow configured defaults of the same name.
	Save(ctx context.Context, e effect.Effect) error

	// Get returns the effect with the given name, preferring a saved preset.
	// Returns ErrNotFound if neither exists.
	Get(ctx context.Context, name string) (effect.Effect, error)

	// List returns every effect ordered by name.
	List(ctx context.Context) []effect.Effect

	// Count returns the number of saved presets.
	Count(ctx context.Context) int
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	defaults map[string]effect.Effect
	presets  map[string]effect.Effect
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		defaults: make(map[string]effect.Effect),
		presets:  make(map[string]effect.Effect),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, e effect.Effect) error {
	if err := e.Validate(); err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_preset")
		return fmt.Errorf("%w: %w", ErrInvalidPreset, err)
	}

	s.mu.Lock()
	s.presets[e.Name] = e
	total := len(s.presets)
	s.mu.Unlock()

	metrics.RecordPresetSaved(total)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, name string) (effect.Effect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.presets[name]; ok {
		return e, nil
	}
	if e, ok := s.defaults[name]; ok {
		return e, nil
	}
	return effect.Effect{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) []effect.Effect {
	s.mu.RLock()
	merged := make(map[string]effect.Effect, len(s.defaults)+len(s.presets))
	for name, e := range s.defaults {
		merged[name] = e
	}
	for name, e := range s.presets {
		merged[name] = e
	}
	s.mu.RUnlock()

	out := make([]effect.Effect, 0, len(merged))
	for _, e := range merged {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.presets)
}
