package repository

import "github.com/maratona/rating/pkg/logger"

// Option applies a configuration option to the JSONStore.
type Option func(*JSONStore)

// WithPretty indents the saved document for hand inspection.
func WithPretty() Option {
	return func(s *JSONStore) {
		s.pretty = true
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *JSONStore) {
		if l != nil {
			s.log = l
		}
	}
}
