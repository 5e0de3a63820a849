package repository

import "github.com/syamnaths/Action-cam/internal/domain/effect"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithSeed preloads effects, typically the defaults read from the app
// config. Invalid effects are skipped.
func WithSeed(effects ...effect.Effect) Option {
	return func(s *MemoryStore) {
		for _, e := range effects {
			if e.Validate() == nil {
				s.defaults[e.Name] = e
			}
		}
	}
}
