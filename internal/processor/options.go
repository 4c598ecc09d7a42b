package processor

import (
	"time"

	"github.com/maratona/rating/pkg/logger"
)

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithClock overrides the time source used for processed/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// WithLenientRows accepts scoreboards with malformed rows: good rows are
// applied and the skips are reported instead of failing the ingestion.
func WithLenientRows() Option {
	return func(p *Processor) {
		p.lenient = true
	}
}

// WithLogger sets a custom logger for the processor.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}
