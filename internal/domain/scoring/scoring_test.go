package scoring_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/internal/domain/scoring"
)

func TestGrowthMultiplier(t *testing.T) {
	Convey("Given the growth multiplier", t, func() {
		Convey("Then index zero is always 1.0", func() {
			So(scoring.GrowthMultiplier(0, 11), ShouldEqual, 1.0)
			So(scoring.GrowthMultiplier(0, 1), ShouldEqual, 1.0)
			So(scoring.GrowthMultiplier(0, 100), ShouldEqual, 1.0)
		})

		Convey("Then a non-positive period degenerates to a constant 1.0", func() {
			So(scoring.GrowthMultiplier(5, 0), ShouldEqual, 1.0)
			So(scoring.GrowthMultiplier(42, -3), ShouldEqual, 1.0)
		})

		Convey("Then it doubles exactly after one period", func() {
			So(scoring.GrowthMultiplier(11, 11), ShouldAlmostEqual, 2.0)
			So(scoring.GrowthMultiplier(22, 11), ShouldAlmostEqual, 4.0)
		})

		Convey("Then it is monotonically non-decreasing in the index", func() {
			prev := 0.0
			for i := 0; i <= 40; i++ {
				cur := scoring.GrowthMultiplier(i, 11)
				So(cur, ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
		})
	})
}

func TestRankBonus(t *testing.T) {
	Convey("Given the top-N rank bonus", t, func() {
		Convey("Then rank 1 earns the full bonus", func() {
			So(scoring.RankBonus(1, 10, 20), ShouldAlmostEqual, 20.0)
		})

		Convey("Then it decays linearly inside the cohort", func() {
			So(scoring.RankBonus(2, 10, 20), ShouldAlmostEqual, 18.0)
			So(scoring.RankBonus(5, 10, 20), ShouldAlmostEqual, 12.0)
			So(scoring.RankBonus(10, 10, 20), ShouldAlmostEqual, 2.0)
		})

		Convey("Then anything past the cohort earns nothing", func() {
			So(scoring.RankBonus(11, 10, 20), ShouldEqual, 0.0)
			So(scoring.RankBonus(100, 10, 20), ShouldEqual, 0.0)
		})

		Convey("Then a non-positive cohort disables the bonus entirely", func() {
			So(scoring.RankBonus(1, 0, 20), ShouldEqual, 0.0)
			So(scoring.RankBonus(1, -1, 20), ShouldEqual, 0.0)
		})

		Convey("Then the decay is continuous across the cohort boundary", func() {
			// Step between consecutive ranks is maxBonus/topN everywhere,
			// including the drop from rank topN to topN+1.
			atEdge := scoring.RankBonus(10, 10, 20)
			pastEdge := scoring.RankBonus(11, 10, 20)
			So(atEdge-pastEdge, ShouldAlmostEqual, 20.0/10.0)
		})
	})
}

func TestHybridPoints(t *testing.T) {
	Convey("Given the hybrid formula with the reference weights", t, func() {
		// base_weight=100, growth_period=11, bonus_top_n=2, bonus_max=20, index=0
		points := func(solved, rank int) float64 {
			return scoring.HybridPoints(solved, rank, 2, 100, 0, 11, 2, 20)
		}

		Convey("Then a full solve at rank 1 earns 120", func() {
			So(points(2, 1), ShouldAlmostEqual, 120.0)
		})

		Convey("Then half the solves at rank 2 earn 60", func() {
			So(points(1, 2), ShouldAlmostEqual, 60.0)
		})

		Convey("Then zero solves past the cohort earn 0", func() {
			So(points(0, 3), ShouldEqual, 0.0)
		})

		Convey("Then a later event is worth more through the multiplier", func() {
			early := scoring.HybridPoints(2, 3, 2, 100, 0, 11, 2, 20)
			late := scoring.HybridPoints(2, 3, 2, 100, 11, 11, 2, 20)
			So(late, ShouldAlmostEqual, early*2)
		})

		Convey("Then an empty field contributes no fraction term", func() {
			So(scoring.HybridPoints(0, 1, 0, 100, 0, 11, 2, 20), ShouldAlmostEqual, 20.0)
		})
	})
}

func TestLegacyPoints(t *testing.T) {
	Convey("Given the legacy field-relative formula", t, func() {
		Convey("Then the bonus decays across the whole field", func() {
			So(scoring.LegacyPoints(2, 1, 3, 2, 100, 20), ShouldAlmostEqual, 120.0)
			So(scoring.LegacyPoints(1, 2, 3, 2, 100, 20), ShouldAlmostEqual, 60.0)
			So(scoring.LegacyPoints(0, 3, 3, 2, 100, 20), ShouldAlmostEqual, 0.0)
		})

		Convey("Then a field of one earns no bonus", func() {
			So(scoring.LegacyPoints(1, 1, 1, 1, 100, 20), ShouldAlmostEqual, 100.0)
		})

		Convey("Then an empty scoreboard is worth nothing", func() {
			So(scoring.LegacyPoints(0, 1, 0, 0, 100, 20), ShouldEqual, 0.0)
		})
	})
}

func TestPointsDispatch(t *testing.T) {
	Convey("Given a scoring config", t, func() {
		cfg := model.DefaultScoringConfig()
		cfg.ContestBonusTopN = 2

		Convey("When the model is hybrid", func() {
			cfg.BonusModel = model.BonusModelHybrid

			Convey("Then the top-N cohort bounds the bonus", func() {
				So(scoring.Points(cfg, model.KindContest, 0, 3, 3, 2, 0), ShouldEqual, 0.0)
			})
		})

		Convey("When the model is legacy", func() {
			cfg.BonusModel = model.BonusModelLegacy

			Convey("Then the last rank of a large field still gets nothing extra", func() {
				So(scoring.Points(cfg, model.KindContest, 0, 3, 3, 2, 0), ShouldEqual, 0.0)
			})

			Convey("Then middle ranks outside any cohort still earn a bonus share", func() {
				// rank 2 of 3: bonus × (1 − 1/2) = half the max bonus.
				So(scoring.Points(cfg, model.KindContest, 0, 2, 3, 2, 0), ShouldAlmostEqual, cfg.ContestBonusMax/2)
			})
		})

		Convey("Then homework events use the homework parameter block", func() {
			cfg.BonusModel = model.BonusModelHybrid
			got := scoring.Points(cfg, model.KindHomework, 2, 1, 10, 2, 0)
			want := scoring.HybridPoints(2, 1, 2, cfg.HomeworkBaseWeight, 0, cfg.HomeworkGrowthPeriod, cfg.HomeworkBonusTopN, cfg.HomeworkBonusMax)
			So(got, ShouldAlmostEqual, want)
		})
	})
}
