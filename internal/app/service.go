// Package app provides the rating system service: the single owner of the
// ledger and the only component callers interact with.
//
// All mutating operations serialize on one mutex; ingestion touches the
// whole ledger, so nothing finer-grained would buy anything.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/maratona/rating/internal/adapters/repository"
	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/internal/processor"
	"github.com/maratona/rating/pkg/logger"
	"github.com/maratona/rating/pkg/metrics"
)

// Service owns the in-memory ledger and coordinates ingestion, aggregation,
// chronology and persistence.
type Service struct {
	mu     sync.RWMutex
	ledger *model.Ledger
	store  repository.Store
	proc   *processor.Processor
	log    logger.Logger
}

// New constructs a Service over an empty ledger with default scoring config.
func New(opts ...Option) *Service {
	s := &Service{
		ledger: model.NewLedger(model.DefaultScoringConfig()),
		log:    logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.proc == nil {
		s.proc = processor.New(processor.WithLogger(s.log))
	}
	return s
}

// Load replaces the ledger with the persisted document, then fixes
// chronology and re-aggregates. A missing or corrupt file degrades to the
// current (empty) ledger with a warning rather than aborting; the store
// quarantines a corrupt document before this returns.
func (s *Service) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	ledger, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.log.Warn(ctx, "no ledger file yet, starting empty", logger.Error(err))
		return nil
	case errors.Is(err, repository.ErrCorrupt):
		s.log.Warn(ctx, "corrupt ledger file, starting empty", logger.Error(err))
		return nil
	case err != nil:
		return err
	}
	if err := ledger.Config.Validate(); err != nil {
		return fmt.Errorf("loaded ledger: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = ledger
	s.reassignOrderIndicesLocked()
	s.recalculateLocked()
	return nil
}

// Save persists the current ledger through the store.
func (s *Service) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx, s.ledger)
}

// ProcessScoreboardFile reads a scoreboard file and ingests it. An
// unreadable file is an input error with no ledger mutation.
func (s *Service) ProcessScoreboardFile(ctx context.Context, eventID, path string, kind model.Kind, durationMinutes int) (*processor.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scoreboard: %w", err)
	}
	return s.ProcessScoreboard(ctx, eventID, data, kind, durationMinutes)
}

// ProcessScoreboard ingests one raw scoreboard document. The chronological
// index for a first-time event is the count of already-processed same-kind
// events; a successful ingestion triggers a full re-aggregation.
func (s *Service) ProcessScoreboard(ctx context.Context, eventID string, data []byte, kind model.Kind, durationMinutes int) (*processor.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := processor.Request{
		EventID:         eventID,
		Kind:            kind,
		DurationMinutes: durationMinutes,
		OrderIndex:      s.ledger.CountByKind(kind),
		Data:            data,
	}
	report, err := s.proc.Ingest(ctx, req, s.ledger.Config, s.ledger)
	if err != nil {
		return report, err
	}
	s.recalculateLocked()
	return report, nil
}

// RecalculateAllScores rebuilds every competitor's subtotals and final score
// from the stored per-event points and upsolving totals. Idempotent and
// always safe; must run after any manual edit to competitors, status, or
// configuration.
func (s *Service) RecalculateAllScores() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculateLocked()
}

func (s *Service) recalculateLocked() {
	start := time.Now()
	for _, comp := range s.ledger.Competitors {
		comp.TotalContestPoints = 0
		for _, perf := range comp.Contests {
			comp.TotalContestPoints += perf.PointsEarned
		}
		comp.TotalHomeworkPoints = 0
		for _, perf := range comp.Homeworks {
			comp.TotalHomeworkPoints += perf.PointsEarned
		}
		comp.TotalUpsolvingPoints = float64(comp.TotalUpsolving) * s.ledger.Config.UpsolvingPointsPerProblem
		comp.FinalScore = comp.TotalContestPoints + comp.TotalHomeworkPoints + comp.TotalUpsolvingPoints
	}
	metrics.ObserveRecalculate(time.Since(start).Seconds())
	metrics.UpdateLedgerSize(len(s.ledger.Competitors), len(s.ledger.Events))
}

// ReassignOrderIndices re-derives each event's chronological index from its
// first-processed date, separately per kind, with registration order
// breaking date ties. Run after a bulk load, before new ingestion, so
// indices reflect calendar order rather than ingestion order.
func (s *Service) ReassignOrderIndices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reassignOrderIndicesLocked()
}

func (s *Service) reassignOrderIndicesLocked() {
	byKind := make(map[model.Kind][]*model.ProcessedEvent)
	for _, ev := range s.ledger.Events {
		byKind[ev.Kind] = append(byKind[ev.Kind], ev)
	}
	for _, events := range byKind {
		sortEventsChronologically(events)
		for i, ev := range events {
			ev.OrderIndex = i
		}
	}
}

// sortEventsChronologically orders events by first-processed date, with the
// registration sequence breaking ties so reindexing stays deterministic and
// idempotent.
func sortEventsChronologically(events []*model.ProcessedEvent) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].FirstProcessed.Equal(events[j].FirstProcessed) {
			return events[i].FirstProcessed.Before(events[j].FirstProcessed)
		}
		return events[i].Seq < events[j].Seq
	})
}

// Config returns a copy of the current scoring configuration.
func (s *Service) Config() model.ScoringConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Config
}

// Competitor returns a deep copy of one competitor's record. Mutating the
// copy never touches the ledger.
func (s *Service) Competitor(user string) (model.Competitor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	comp, ok := s.ledger.Competitors[user]
	if !ok {
		return model.Competitor{}, false
	}
	return comp.Clone(), true
}

// Event returns a deep copy of one registry entry.
func (s *Service) Event(id string) (model.ProcessedEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.ledger.Events[id]
	if !ok {
		return model.ProcessedEvent{}, false
	}
	return ev.Clone(), true
}

// Events returns deep copies of all registry entries.
func (s *Service) Events() map[string]model.ProcessedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.ProcessedEvent, len(s.ledger.Events))
	for id, ev := range s.ledger.Events {
		out[id] = ev.Clone()
	}
	return out
}
