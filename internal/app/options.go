package app

import (
	"github.com/maratona/rating/internal/adapters/repository"
	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/internal/processor"
	"github.com/maratona/rating/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence boundary used by Load and Save.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithProcessor replaces the default ingestion processor, e.g. to inject a
// fixed clock or lenient row handling.
func WithProcessor(p *processor.Processor) Option {
	return func(s *Service) {
		if p != nil {
			s.proc = p
		}
	}
}

// WithScoringConfig seeds the config a fresh ledger starts with. A loaded
// ledger keeps its own persisted config.
func WithScoringConfig(cfg model.ScoringConfig) Option {
	return func(s *Service) {
		s.ledger.Config = cfg
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
