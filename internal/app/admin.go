package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/pkg/logger"
)

// SetConfig replaces the scoring configuration and re-aggregates. Frozen
// per-event points are untouched; only the upsolving term and eligibility
// react to the new values.
func (s *Service) SetConfig(cfg model.ScoringConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Config = cfg
	s.recalculateLocked()
	return nil
}

// SetConfigValue edits one named scoring parameter from its string form, the
// shape the config edit interface supplies. The edit validates and
// re-aggregates before returning.
func (s *Service) SetConfigValue(ctx context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.ledger.Config
	if err := applyConfigValue(&cfg, name, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.ledger.Config = cfg
	s.recalculateLocked()
	s.log.Info(ctx, "config updated", logger.String("name", name), logger.String("value", value))
	return nil
}

func applyConfigValue(cfg *model.ScoringConfig, name, value string) error {
	setFloat := func(dst *float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s needs a number, got %q", model.ErrInvalidConfig, name, value)
		}
		*dst = v
		return nil
	}
	setInt := func(dst *int) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s needs an integer, got %q", model.ErrInvalidConfig, name, value)
		}
		*dst = v
		return nil
	}

	switch name {
	case "bonus_model":
		switch model.BonusModel(value) {
		case model.BonusModelHybrid, model.BonusModelLegacy:
			cfg.BonusModel = model.BonusModel(value)
			return nil
		default:
			return fmt.Errorf("%w: unknown bonus_model %q", model.ErrInvalidConfig, value)
		}
	case "contest_base_weight":
		return setFloat(&cfg.ContestBaseWeight)
	case "contest_growth_period":
		return setInt(&cfg.ContestGrowthPeriod)
	case "contest_bonus_top_n":
		return setInt(&cfg.ContestBonusTopN)
	case "contest_bonus_max":
		return setFloat(&cfg.ContestBonusMax)
	case "homework_base_weight":
		return setFloat(&cfg.HomeworkBaseWeight)
	case "homework_growth_period":
		return setInt(&cfg.HomeworkGrowthPeriod)
	case "homework_bonus_top_n":
		return setInt(&cfg.HomeworkBonusTopN)
	case "homework_bonus_max":
		return setFloat(&cfg.HomeworkBonusMax)
	case "upsolving_points_per_problem":
		return setFloat(&cfg.UpsolvingPointsPerProblem)
	case "min_contests_required":
		return setInt(&cfg.MinContestsRequired)
	case "min_homeworks_required":
		return setInt(&cfg.MinHomeworksRequired)
	default:
		return fmt.Errorf("%w: unknown parameter %q", model.ErrInvalidConfig, name)
	}
}

// SetStatus changes a competitor's standing status and re-aggregates.
func (s *Service) SetStatus(ctx context.Context, user string, status model.Status) error {
	if _, err := model.ParseStatus(string(status)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, ok := s.ledger.Competitors[user]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCompetitor, user)
	}
	comp.Status = status
	s.recalculateLocked()
	s.log.Info(ctx, "status changed", logger.String("user", user), logger.String("status", string(status)))
	return nil
}

// RemoveCompetitor deletes a competitor and purges them from every event's
// participant set, then re-aggregates.
func (s *Service) RemoveCompetitor(ctx context.Context, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ledger.RemoveCompetitor(user) {
		return fmt.Errorf("%w: %s", ErrUnknownCompetitor, user)
	}
	s.recalculateLocked()
	s.log.Info(ctx, "competitor removed", logger.String("user", user))
	return nil
}

// RemoveEvent deletes an event and every trace of it from the competitors,
// then re-aggregates. Remaining events keep their frozen points; run
// ReassignOrderIndices if future ingestions should reuse the freed index.
func (s *Service) RemoveEvent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ledger.RemoveEvent(id) {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}
	s.recalculateLocked()
	s.log.Info(ctx, "event removed", logger.String("event", id))
	return nil
}
