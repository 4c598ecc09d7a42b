// Package scoring implements the point formulas. Everything here is a pure
// function of its arguments: the config slice is passed in explicitly and no
// state is read from anywhere else.
package scoring

import (
	"math"

	"github.com/maratona/rating/internal/domain/model"
)

// GrowthMultiplier returns the exponential scaling factor for an event at
// the given 0-based chronological index.
//
// Formula: 2^(index / period). index=0 yields 1.0; an event `period` steps
// later is worth exactly double. A non-positive period disables growth.
func GrowthMultiplier(index, period int) float64 {
	if period <= 0 {
		return 1.0
	}
	return math.Pow(2.0, float64(index)/float64(period))
}

// RankBonus returns the bonus for a 1-based rank under the top-N model:
// rank 1 earns maxBonus, rank topN earns maxBonus/topN, anything past the
// cohort earns nothing.
func RankBonus(rank, topN int, maxBonus float64) float64 {
	if topN <= 0 || rank > topN {
		return 0.0
	}
	step := maxBonus / float64(topN)
	return maxBonus - step*float64(rank-1)
}

// HybridPoints is the canonical score for one performance:
//
//	(solved/maxSolved) × baseWeight × GrowthMultiplier(index, period) + RankBonus(rank, topN, maxBonus)
//
// The solved fraction is zero when nobody solved anything on time.
func HybridPoints(solved, rank, maxSolved int, baseWeight float64, index, period, topN int, maxBonus float64) float64 {
	base := 0.0
	if maxSolved > 0 {
		base = baseWeight * float64(solved) / float64(maxSolved)
	}
	return base*GrowthMultiplier(index, period) + RankBonus(rank, topN, maxBonus)
}

// LegacyPoints is the superseded field-relative model: the same solved
// fraction term without growth, plus a bonus that decays linearly across the
// entire field rather than a top-N cohort. The bonus term is zero for a
// field of one.
func LegacyPoints(solved, rank, totalParticipants, maxSolved int, weight, bonus float64) float64 {
	points := 0.0
	if maxSolved > 0 {
		points = weight * float64(solved) / float64(maxSolved)
	}
	if totalParticipants > 1 {
		points += bonus * (1.0 - float64(rank-1)/float64(totalParticipants-1))
	}
	return points
}

// Points dispatches on the config's bonus model. The hybrid model uses every
// parameter; legacy reuses BaseWeight and BonusMax and ignores the growth
// and cohort parameters.
func Points(cfg model.ScoringConfig, kind model.Kind, solved, rank, totalParticipants, maxSolved, index int) float64 {
	p := cfg.Params(kind)
	if cfg.BonusModel == model.BonusModelLegacy {
		return LegacyPoints(solved, rank, totalParticipants, maxSolved, p.BaseWeight, p.BonusMax)
	}
	return HybridPoints(solved, rank, maxSolved, p.BaseWeight, index, p.GrowthPeriod, p.BonusTopN, p.BonusMax)
}
