// Package processor ingests one raw scoreboard into the ledger.
//
// Ingestion is atomic per call: parsing and every validation run before the
// first ledger write, so a failed call leaves the ledger exactly as it was.
// A first-time event id freezes ranks and points; a re-submission only
// recomputes the upsolving delta.
package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/internal/domain/scoreboard"
	"github.com/maratona/rating/internal/domain/scoring"
	"github.com/maratona/rating/pkg/logger"
	"github.com/maratona/rating/pkg/metrics"
)

// Request names one scoreboard to ingest. OrderIndex is the chronological
// index the event will score under if this is its first ingestion.
type Request struct {
	EventID         string
	Kind            model.Kind
	DurationMinutes int
	OrderIndex      int
	Data            []byte
}

// Report summarizes one ingestion call. ID is the correlation id carried by
// the log line and the CLI output for this call.
type Report struct {
	ID                uuid.UUID
	EventID           string
	Kind              model.Kind
	FirstTime         bool
	Applied           int
	Skipped           []scoreboard.Skip
	TotalParticipants int
	MaxOnTimeSolved   int
}

// Processor applies scoreboards to a ledger. Zero state of its own beyond
// configuration; the ledger is always passed in.
type Processor struct {
	now     func() time.Time
	lenient bool
	log     logger.Logger
}

// New constructs a Processor with default configuration: strict rows,
// wall-clock stamps.
func New(opts ...Option) *Processor {
	p := &Processor{
		now: time.Now,
		log: logger.Get(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest applies one scoreboard to the ledger and reports what happened.
// On error the ledger is untouched; the report is still returned when the
// failure is row-level so the caller can show the skip reasons.
func (p *Processor) Ingest(ctx context.Context, req Request, cfg model.ScoringConfig, ledger *model.Ledger) (*Report, error) {
	if req.EventID == "" {
		return nil, ErrEmptyEventID
	}
	if _, err := model.ParseKind(string(req.Kind)); err != nil {
		return nil, err
	}

	existing, seen := ledger.Event(req.EventID)
	if seen && existing.Kind != req.Kind {
		return nil, fmt.Errorf("%w: %s is %s, got %s", ErrKindMismatch, req.EventID, existing.Kind, req.Kind)
	}

	rows, skips, err := scoreboard.Decode(req.Data, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	rows, skips = dedupeIdentities(rows, skips)

	report := &Report{
		ID:        uuid.New(),
		EventID:   req.EventID,
		Kind:      req.Kind,
		FirstTime: !seen,
		Skipped:   skips,
	}
	if len(skips) > 0 && !p.lenient {
		metrics.RecordRowsSkipped(len(skips))
		return report, fmt.Errorf("%w: %d skipped", ErrRowsSkipped, len(skips))
	}

	scoreboard.Rank(rows)
	maxSolved := scoreboard.MaxOnTimeSolved(rows)
	total := len(rows)

	// Everything below is the apply phase; no failure paths past this point.
	now := p.now()
	ev := existing
	if !seen {
		ev = model.NewProcessedEvent(req.EventID, req.Kind)
		ev.Seq = ledger.NextSeq()
		ev.OrderIndex = req.OrderIndex
		ev.FirstProcessed = now
		ledger.Events[req.EventID] = ev
	} else {
		ev.Participants.Clear()
	}
	ev.DurationMinutes = req.DurationMinutes
	ev.LastUpdated = now
	ev.TotalParticipants = total
	ev.MaxProblemsSolved = maxSolved

	for _, row := range rows {
		ev.Participants.Add(row.UserName)
		comp := ledger.EnsureCompetitor(row.UserName, row.TeamName)

		if !seen {
			perf := model.Performance{
				ProblemsSolved:    row.OnTimeSolved,
				Rank:              row.Rank,
				TotalParticipants: total,
				MaxProblemsSolved: maxSolved,
				PointsEarned:      scoring.Points(cfg, req.Kind, row.OnTimeSolved, row.Rank, total, maxSolved, ev.OrderIndex),
			}
			comp.Performances(req.Kind)[req.EventID] = perf
			if req.Kind == model.KindHomework {
				comp.HomeworksParticipated++
			} else {
				comp.ContestsParticipated++
			}
			comp.UpsolvingByEvent[req.EventID] = row.UpsolvingCount
			comp.TotalUpsolving += row.UpsolvingCount
			continue
		}

		// Update path: ranks, points, and participation stay frozen; only
		// the upsolving delta for this event moves.
		old := comp.UpsolvingByEvent[req.EventID]
		comp.TotalUpsolving += row.UpsolvingCount - old
		comp.UpsolvingByEvent[req.EventID] = row.UpsolvingCount
	}

	report.Applied = len(rows)
	report.TotalParticipants = total
	report.MaxOnTimeSolved = maxSolved

	metrics.RecordIngestion(string(req.Kind), report.FirstTime)
	if len(skips) > 0 {
		metrics.RecordRowsSkipped(len(skips))
	}
	p.log.Info(ctx, "scoreboard ingested",
		logger.String("report", report.ID.String()),
		logger.String("event", req.EventID),
		logger.String("kind", string(req.Kind)),
		logger.Any("firstTime", report.FirstTime),
		logger.Int("applied", report.Applied),
		logger.Int("skipped", len(skips)),
		logger.Int("maxOnTimeSolved", maxSolved),
	)
	return report, nil
}

// dedupeIdentities drops repeated identities within one scoreboard so a
// single ingestion can never double-count a competitor. The first occurrence
// wins; later ones become skips.
func dedupeIdentities(rows []scoreboard.Row, skips []scoreboard.Skip) ([]scoreboard.Row, []scoreboard.Skip) {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for i, row := range rows {
		if seen[row.UserName] {
			skips = append(skips, scoreboard.Skip{Index: i, Identity: row.UserName, Reason: "duplicate identity"})
			continue
		}
		seen[row.UserName] = true
		out = append(out, row)
	}
	return out, skips
}
