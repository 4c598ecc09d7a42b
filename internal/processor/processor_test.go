package processor_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/maratona/rating/internal/domain/model"
	"github.com/maratona/rating/internal/processor"
)

const contestDoc = `[
	{"user_name": "alice", "team_name": "Alpha", "score": 2, "penalty": 180,
	 "problems": {
		"A": {"solved": true, "time": "1:00:00"},
		"B": {"solved": true, "time": "2:30:00"}
	 }},
	{"user_name": "bob", "team_name": "Beta", "score": 1, "penalty": 60,
	 "problems": {
		"A": {"solved": true, "time": "0:45:00"},
		"B": {"solved": false, "time": null}
	 }},
	{"user_name": "carol", "team_name": "Gamma", "score": 0, "penalty": 0,
	 "problems": {
		"A": {"solved": false, "time": null},
		"B": {"solved": false, "time": null}
	 }}
]`

// Same event re-submitted after bob upsolved problem B.
const contestDocUpsolved = `[
	{"user_name": "alice", "team_name": "Alpha", "score": 2, "penalty": 180,
	 "problems": {
		"A": {"solved": true, "time": "1:00:00"},
		"B": {"solved": true, "time": "2:30:00"}
	 }},
	{"user_name": "bob", "team_name": "Beta", "score": 2, "penalty": 60,
	 "problems": {
		"A": {"solved": true, "time": "0:45:00"},
		"B": {"solved": true, "time": null}
	 }},
	{"user_name": "carol", "team_name": "Gamma", "score": 0, "penalty": 0,
	 "problems": {
		"A": {"solved": false, "time": null},
		"B": {"solved": false, "time": null}
	 }}
]`

func referenceConfig() model.ScoringConfig {
	cfg := model.DefaultScoringConfig()
	cfg.ContestBaseWeight = 100
	cfg.ContestGrowthPeriod = 11
	cfg.ContestBonusTopN = 2
	cfg.ContestBonusMax = 20
	return cfg
}

func TestIngestFirstTime(t *testing.T) {
	Convey("Given an empty ledger and the reference config", t, func() {
		ctx := context.Background()
		cfg := referenceConfig()
		ledger := model.NewLedger(cfg)
		proc := processor.New(processor.WithClock(func() time.Time {
			return time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
		}))

		Convey("When a 3-participant contest is ingested at index 0", func() {
			report, err := proc.Ingest(ctx, processor.Request{
				EventID:         "week1",
				Kind:            model.KindContest,
				DurationMinutes: 300,
				OrderIndex:      0,
				Data:            []byte(contestDoc),
			}, cfg, ledger)

			Convey("Then the report describes a first-time ingestion", func() {
				So(err, ShouldBeNil)
				So(report.ID, ShouldNotEqual, uuid.Nil)
				So(report.FirstTime, ShouldBeTrue)
				So(report.Applied, ShouldEqual, 3)
				So(report.Skipped, ShouldBeEmpty)
				So(report.TotalParticipants, ShouldEqual, 3)
				So(report.MaxOnTimeSolved, ShouldEqual, 2)
			})

			Convey("Then points follow the hybrid formula exactly", func() {
				So(err, ShouldBeNil)
				So(ledger.Competitors["alice"].Contests["week1"].PointsEarned, ShouldAlmostEqual, 120.0)
				So(ledger.Competitors["bob"].Contests["week1"].PointsEarned, ShouldAlmostEqual, 60.0)
				So(ledger.Competitors["carol"].Contests["week1"].PointsEarned, ShouldAlmostEqual, 0.0)
			})

			Convey("Then ranks, counters and upsolving are recorded", func() {
				So(err, ShouldBeNil)
				bob := ledger.Competitors["bob"]
				So(bob.Contests["week1"].Rank, ShouldEqual, 2)
				So(bob.ContestsParticipated, ShouldEqual, 1)
				So(bob.TotalUpsolving, ShouldEqual, 0)
				So(bob.TeamName, ShouldEqual, "Beta")
			})

			Convey("Then the registry entry is complete", func() {
				So(err, ShouldBeNil)
				ev, ok := ledger.Event("week1")
				So(ok, ShouldBeTrue)
				So(ev.Kind, ShouldEqual, model.KindContest)
				So(ev.TotalParticipants, ShouldEqual, 3)
				So(ev.MaxProblemsSolved, ShouldEqual, 2)
				So(ev.Participants.Contains("alice", "bob", "carol"), ShouldBeTrue)
				So(ev.FirstProcessed.Equal(ev.LastUpdated), ShouldBeTrue)
			})
		})
	})
}

func TestIngestUpdatePath(t *testing.T) {
	Convey("Given a ledger with week1 already processed", t, func() {
		ctx := context.Background()
		cfg := referenceConfig()
		ledger := model.NewLedger(cfg)
		firstDay := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
		now := firstDay
		proc := processor.New(processor.WithClock(func() time.Time { return now }))

		req := processor.Request{
			EventID:         "week1",
			Kind:            model.KindContest,
			DurationMinutes: 300,
			OrderIndex:      0,
			Data:            []byte(contestDoc),
		}
		_, err := proc.Ingest(ctx, req, cfg, ledger)
		So(err, ShouldBeNil)

		Convey("When the identical scoreboard is re-ingested", func() {
			now = firstDay.Add(48 * time.Hour)
			report, err := proc.Ingest(ctx, req, cfg, ledger)

			Convey("Then nothing score-relevant changes", func() {
				So(err, ShouldBeNil)
				So(report.FirstTime, ShouldBeFalse)
				bob := ledger.Competitors["bob"]
				So(bob.Contests["week1"].PointsEarned, ShouldAlmostEqual, 60.0)
				So(bob.Contests["week1"].Rank, ShouldEqual, 2)
				So(bob.ContestsParticipated, ShouldEqual, 1)
				So(bob.TotalUpsolving, ShouldEqual, 0)
			})

			Convey("Then only the update stamp moves", func() {
				So(err, ShouldBeNil)
				ev, _ := ledger.Event("week1")
				So(ev.FirstProcessed.Equal(firstDay), ShouldBeTrue)
				So(ev.LastUpdated.Equal(firstDay.Add(48*time.Hour)), ShouldBeTrue)
			})
		})

		Convey("When bob's upsolving count goes from 0 to 1", func() {
			req.Data = []byte(contestDocUpsolved)
			_, err := proc.Ingest(ctx, req, cfg, ledger)

			Convey("Then bob's points stay frozen and upsolving moves", func() {
				So(err, ShouldBeNil)
				bob := ledger.Competitors["bob"]
				So(bob.Contests["week1"].PointsEarned, ShouldAlmostEqual, 60.0)
				So(bob.UpsolvingByEvent["week1"], ShouldEqual, 1)
				So(bob.TotalUpsolving, ShouldEqual, 1)
			})

			Convey("Then alice and carol are unaffected", func() {
				So(err, ShouldBeNil)
				So(ledger.Competitors["alice"].TotalUpsolving, ShouldEqual, 0)
				So(ledger.Competitors["carol"].TotalUpsolving, ShouldEqual, 0)
			})

			Convey("Then repeating the same update is a no-op", func() {
				So(err, ShouldBeNil)
				_, err := proc.Ingest(ctx, req, cfg, ledger)
				So(err, ShouldBeNil)
				So(ledger.Competitors["bob"].TotalUpsolving, ShouldEqual, 1)
			})
		})

		Convey("When the same id arrives with a different kind", func() {
			req.Kind = model.KindHomework
			_, err := proc.Ingest(ctx, req, cfg, ledger)

			Convey("Then the call is rejected and history untouched", func() {
				So(err, ShouldWrap, processor.ErrKindMismatch)
				ev, _ := ledger.Event("week1")
				So(ev.Kind, ShouldEqual, model.KindContest)
			})
		})
	})
}

func TestIngestFailureSemantics(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		ctx := context.Background()
		cfg := referenceConfig()
		ledger := model.NewLedger(cfg)

		badRowDoc := `[
			{"user_name": "alice", "team_name": "Alpha", "score": 1, "penalty": 10,
			 "problems": {"A": {"solved": true, "time": "0:10:00"}}},
			{"user_name": "broken", "team_name": "Beta", "penalty": 10, "problems": {}}
		]`

		Convey("When a strict processor sees a malformed row", func() {
			proc := processor.New()
			report, err := proc.Ingest(ctx, processor.Request{
				EventID: "week1", Kind: model.KindContest, DurationMinutes: 300,
				Data: []byte(badRowDoc),
			}, cfg, ledger)

			Convey("Then the whole ingestion fails with the skips reported", func() {
				So(err, ShouldWrap, processor.ErrRowsSkipped)
				So(report, ShouldNotBeNil)
				So(report.Skipped, ShouldHaveLength, 1)
			})

			Convey("Then the ledger is untouched", func() {
				So(err, ShouldNotBeNil)
				So(ledger.Competitors, ShouldBeEmpty)
				So(ledger.Events, ShouldBeEmpty)
			})
		})

		Convey("When a lenient processor sees the same document", func() {
			proc := processor.New(processor.WithLenientRows())
			report, err := proc.Ingest(ctx, processor.Request{
				EventID: "week1", Kind: model.KindContest, DurationMinutes: 300,
				Data: []byte(badRowDoc),
			}, cfg, ledger)

			Convey("Then the good rows apply and the skips are reported", func() {
				So(err, ShouldBeNil)
				So(report.Applied, ShouldEqual, 1)
				So(report.Skipped, ShouldHaveLength, 1)
				So(ledger.Competitors, ShouldContainKey, "alice")
				So(ledger.Competitors, ShouldNotContainKey, "broken")
			})
		})

		Convey("When the document repeats an identity", func() {
			dupDoc := `[
				{"user_name": "alice", "team_name": "Alpha", "score": 1, "penalty": 10,
				 "problems": {"A": {"solved": true, "time": "0:10:00"}}},
				{"user_name": "alice", "team_name": "Alpha", "score": 1, "penalty": 20,
				 "problems": {"A": {"solved": true, "time": "0:20:00"}}}
			]`
			proc := processor.New(processor.WithLenientRows())
			report, err := proc.Ingest(ctx, processor.Request{
				EventID: "week1", Kind: model.KindContest, DurationMinutes: 300,
				Data: []byte(dupDoc),
			}, cfg, ledger)

			Convey("Then only the first occurrence counts", func() {
				So(err, ShouldBeNil)
				So(report.Applied, ShouldEqual, 1)
				So(report.Skipped, ShouldHaveLength, 1)
				So(report.Skipped[0].Reason, ShouldEqual, "duplicate identity")
				So(ledger.Competitors["alice"].ContestsParticipated, ShouldEqual, 1)
			})
		})

		Convey("When the event id is empty", func() {
			proc := processor.New()
			_, err := proc.Ingest(ctx, processor.Request{
				Kind: model.KindContest, Data: []byte(`[]`),
			}, cfg, ledger)

			So(err, ShouldWrap, processor.ErrEmptyEventID)
		})

		Convey("When the kind is invalid", func() {
			proc := processor.New()
			_, err := proc.Ingest(ctx, processor.Request{
				EventID: "week1", Kind: model.Kind("exam"), Data: []byte(`[]`),
			}, cfg, ledger)

			So(err, ShouldWrap, model.ErrInvalidKind)
			So(ledger.Events, ShouldBeEmpty)
		})
	})
}
