// Package model contains the ledger data model passed between layers.
//
// The shapes here double as the persisted document: json tags follow the
// on-disk ledger format (config / competitors / processed_contests).
package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// Kind distinguishes the two scored activity types.
type Kind string

const (
	// KindContest is a timed on-site contest.
	KindContest Kind = "contest"
	// KindHomework is a weekly homework set.
	KindHomework Kind = "homework"
)

// ParseKind validates a user-supplied kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindContest, KindHomework:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Status classifies a competitor for standings purposes.
type Status string

const (
	StatusActive      Status = "active"
	StatusBlacklisted Status = "blacklisted"
	StatusGuest       Status = "guest"
)

// ParseStatus validates a user-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusBlacklisted, StatusGuest:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// BonusModel selects which rank-bonus formula a config activates.
type BonusModel string

const (
	// BonusModelHybrid is the canonical model: growth multiplier on the
	// solved fraction plus a top-N bonus decaying linearly to zero.
	BonusModelHybrid BonusModel = "hybrid"
	// BonusModelLegacy decays the bonus across the whole field instead of a
	// top-N cohort and applies no growth multiplier. Kept selectable for
	// ledgers migrated from the older pipeline.
	BonusModelLegacy BonusModel = "legacy"
)

// ScoringConfig holds every tunable of the point formulas. One instance per
// ledger; always passed explicitly into calculations, never read from a
// global.
type ScoringConfig struct {
	BonusModel BonusModel `json:"bonus_model"`

	ContestBaseWeight   float64 `json:"contest_base_weight"`
	ContestGrowthPeriod int     `json:"contest_growth_period"`
	ContestBonusTopN    int     `json:"contest_bonus_top_n"`
	ContestBonusMax     float64 `json:"contest_bonus_max"`

	HomeworkBaseWeight   float64 `json:"homework_base_weight"`
	HomeworkGrowthPeriod int     `json:"homework_growth_period"`
	HomeworkBonusTopN    int     `json:"homework_bonus_top_n"`
	HomeworkBonusMax     float64 `json:"homework_bonus_max"`

	UpsolvingPointsPerProblem float64 `json:"upsolving_points_per_problem"`

	// Minimum participation for standings eligibility. Zero means no minimum.
	MinContestsRequired  int `json:"min_contests_required"`
	MinHomeworksRequired int `json:"min_homeworks_required"`
}

// DefaultScoringConfig returns the weights used for a fresh ledger.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		BonusModel:                BonusModelHybrid,
		ContestBaseWeight:         100.0,
		ContestGrowthPeriod:       11,
		ContestBonusTopN:          10,
		ContestBonusMax:           20.0,
		HomeworkBaseWeight:        50.0,
		HomeworkGrowthPeriod:      11,
		HomeworkBonusTopN:         5,
		HomeworkBonusMax:          10.0,
		UpsolvingPointsPerProblem: 5.0,
	}
}

// Validate checks the config invariants: weights non-negative, cohort sizes
// and periods non-negative, bonus model known.
func (c ScoringConfig) Validate() error {
	switch c.BonusModel {
	case BonusModelHybrid, BonusModelLegacy:
	default:
		return fmt.Errorf("%w: unknown bonus_model %q", ErrInvalidConfig, c.BonusModel)
	}
	nonNegative := map[string]float64{
		"contest_base_weight":          c.ContestBaseWeight,
		"contest_bonus_max":            c.ContestBonusMax,
		"homework_base_weight":         c.HomeworkBaseWeight,
		"homework_bonus_max":           c.HomeworkBonusMax,
		"upsolving_points_per_problem": c.UpsolvingPointsPerProblem,
	}
	for name, v := range nonNegative {
		if v < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidConfig, name, v)
		}
	}
	nonNegativeInts := map[string]int{
		"contest_growth_period":  c.ContestGrowthPeriod,
		"contest_bonus_top_n":    c.ContestBonusTopN,
		"homework_growth_period": c.HomeworkGrowthPeriod,
		"homework_bonus_top_n":   c.HomeworkBonusTopN,
		"min_contests_required":  c.MinContestsRequired,
		"min_homeworks_required": c.MinHomeworksRequired,
	}
	for name, v := range nonNegativeInts {
		if v < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalidConfig, name, v)
		}
	}
	return nil
}

// KindParams is the per-kind slice of a ScoringConfig fed into the formulas.
type KindParams struct {
	BaseWeight   float64
	GrowthPeriod int
	BonusTopN    int
	BonusMax     float64
}

// Params returns the parameter block matching the event kind.
func (c ScoringConfig) Params(k Kind) KindParams {
	if k == KindHomework {
		return KindParams{
			BaseWeight:   c.HomeworkBaseWeight,
			GrowthPeriod: c.HomeworkGrowthPeriod,
			BonusTopN:    c.HomeworkBonusTopN,
			BonusMax:     c.HomeworkBonusMax,
		}
	}
	return KindParams{
		BaseWeight:   c.ContestBaseWeight,
		GrowthPeriod: c.ContestGrowthPeriod,
		BonusTopN:    c.ContestBonusTopN,
		BonusMax:     c.ContestBonusMax,
	}
}

// Performance records one (competitor, event) result. Value type on purpose:
// copies live in the competitor's own maps, never shared by pointer with the
// event registry. Frozen after first ingestion.
type Performance struct {
	ProblemsSolved    int     `json:"problems_solved"`
	Rank              int     `json:"rank"`
	TotalParticipants int     `json:"total_participants"`
	MaxProblemsSolved int     `json:"max_problems_solved"`
	PointsEarned      float64 `json:"points_earned"`
}

// ProcessedEvent is the registry entry for one ingested event id.
type ProcessedEvent struct {
	EventID           string             `json:"-"`
	Kind              Kind               `json:"type"`
	DurationMinutes   int                `json:"duration_minutes"`
	FirstProcessed    time.Time          `json:"first_processed_date"`
	LastUpdated       time.Time          `json:"last_updated_date"`
	Participants      mapset.Set[string] `json:"participants"`
	TotalParticipants int                `json:"total_participants"`
	MaxProblemsSolved int                `json:"max_problems_solved"`

	// OrderIndex is the 0-based chronological position among same-kind
	// events; it drives the growth multiplier.
	OrderIndex int `json:"chronological_index"`
	// Seq is assigned once at first ingestion and breaks date ties when
	// indices are reassigned.
	Seq int `json:"registration_seq"`
}

// NewProcessedEvent creates a registry entry with an allocated participant set.
func NewProcessedEvent(id string, kind Kind) *ProcessedEvent {
	return &ProcessedEvent{
		EventID:      id,
		Kind:         kind,
		Participants: mapset.NewSet[string](),
	}
}

// Clone returns a deep copy detached from the registry's participant set.
func (e *ProcessedEvent) Clone() ProcessedEvent {
	out := *e
	out.Participants = e.Participants.Clone()
	return out
}

// UnmarshalJSON allocates the participant set before decoding so loads of
// older documents without a participants array still produce a usable entry.
func (e *ProcessedEvent) UnmarshalJSON(b []byte) error {
	type alias ProcessedEvent
	tmp := alias{Participants: mapset.NewSet[string]()}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*e = ProcessedEvent(tmp)
	return nil
}

// Competitor aggregates everything known about one participant identity.
type Competitor struct {
	UserName string `json:"-"`
	TeamName string `json:"team_name"`
	Status   Status `json:"status"`

	Contests  map[string]Performance `json:"contests"`
	Homeworks map[string]Performance `json:"homeworks"`

	// UpsolvingByEvent tracks post-window solves per event id; TotalUpsolving
	// is the running sum kept in step by the processor.
	UpsolvingByEvent map[string]int `json:"upsolving_by_contest"`
	TotalUpsolving   int            `json:"total_upsolving"`

	// Derived totals, rebuilt by RecalculateAllScores.
	TotalContestPoints   float64 `json:"total_contest_points"`
	TotalHomeworkPoints  float64 `json:"total_homework_points"`
	TotalUpsolvingPoints float64 `json:"total_upsolving_points"`
	FinalScore           float64 `json:"final_score"`

	ContestsParticipated  int `json:"contests_participated"`
	HomeworksParticipated int `json:"homeworks_participated"`
}

// NewCompetitor creates an active competitor with allocated maps.
func NewCompetitor(user, team string) *Competitor {
	return &Competitor{
		UserName:         user,
		TeamName:         team,
		Status:           StatusActive,
		Contests:         make(map[string]Performance),
		Homeworks:        make(map[string]Performance),
		UpsolvingByEvent: make(map[string]int),
	}
}

// Clone returns a deep copy whose maps no longer alias the ledger's.
func (c *Competitor) Clone() Competitor {
	out := *c
	out.Contests = maps.Clone(c.Contests)
	out.Homeworks = maps.Clone(c.Homeworks)
	out.UpsolvingByEvent = maps.Clone(c.UpsolvingByEvent)
	return out
}

// UnmarshalJSON allocates the maps before decoding so partially populated
// documents never leave nil maps behind.
func (c *Competitor) UnmarshalJSON(b []byte) error {
	type alias Competitor
	tmp := alias{
		Status:           StatusActive,
		Contests:         make(map[string]Performance),
		Homeworks:        make(map[string]Performance),
		UpsolvingByEvent: make(map[string]int),
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*c = Competitor(tmp)
	return nil
}

// Performances returns the per-kind performance map.
func (c *Competitor) Performances(k Kind) map[string]Performance {
	if k == KindHomework {
		return c.Homeworks
	}
	return c.Contests
}

// Participated returns the per-kind participation counter.
func (c *Competitor) Participated(k Kind) int {
	if k == KindHomework {
		return c.HomeworksParticipated
	}
	return c.ContestsParticipated
}
