package app

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/woolshed/flockmark/internal/domain/model"
	"github.com/woolshed/flockmark/internal/domain/scoring"
	"github.com/woolshed/flockmark/pkg/logger"
)

func startedService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	s := New(opts...)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(s.Stop)
	return s
}

func testRubric() scoring.Rubric {
	lo2, lo, hi, hi2 := 2.0, 2.5, 3.5, 4.0
	micron := 19.0
	return scoring.Rubric{
		ClassificationPoints: scoring.Thresholds{Stud: 2, Flock: 1.5, SecondFlock: 1},
		Criteria: []scoring.Criterion{
			{ID: "bcs", Name: "BCS", Enabled: true, Operator: scoring.OpBetween,
				LowerLimit2: &lo2, LowerLimit: &lo, UpperLimit: &hi, UpperLimit2: &hi2},
			{ID: "woolMicron", Name: "Wool Micron", Enabled: true, Operator: scoring.OpLess,
				UpperLimit: &micron, CullIfFailed: true},
		},
	}
}

func TestServiceCalculate(t *testing.T) {
	Convey("Given a service with batches loaded", t, func() {
		ctx := context.Background()
		s := startedService(t, WithWorkerCount(2), WithRubric(testRubric()))

		So(s.LoadBatch(ctx, model.BatchRegistrations, []model.Record{
			{"eid": "E-GOOD", "sex": "F"},
			{"eid": "E-CULL", "sex": "F"},
		}), ShouldBeNil)
		So(s.LoadBatch(ctx, model.BatchMarks, []model.Record{
			{"eid": "E-GOOD", "bcs": 3.0},
			{"eid": "E-CULL", "bcs": 3.0},
		}), ShouldBeNil)
		So(s.LoadBatch(ctx, model.BatchOFDA, []model.Record{
			{"eid": "E-GOOD", "micAve": 18.0},
			{"eid": "E-CULL", "micAve": 24.0},
		}), ShouldBeNil)

		Convey("When calculate runs", func() {
			stats, err := s.Calculate(ctx)
			So(err, ShouldBeNil)

			Convey("Run stats cover all records and animals", func() {
				So(stats.Records, ShouldEqual, 6)
				So(stats.Animals, ShouldEqual, 2)
				So(stats.Dropped, ShouldEqual, 0)
				So(s.LastRun(ctx), ShouldResemble, stats)
			})

			Convey("Animals are scored and classified", func() {
				good, err := s.Animal(ctx, "E-GOOD")
				So(err, ShouldBeNil)
				So(good.Mark, ShouldEqual, 2)
				So(good.Classification, ShouldEqual, scoring.ClassStud)
				So(good.CullReason, ShouldBeEmpty)

				cull, err := s.Animal(ctx, "E-CULL")
				So(err, ShouldBeNil)
				So(cull.Classification, ShouldEqual, scoring.ClassCull)
				So(cull.CullReason, ShouldEqual, "Failed cull criterion: Wool Micron")
			})

			Convey("TopN ranks by mark", func() {
				top, err := s.TopN(ctx, 1)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
				So(top[0].EID, ShouldEqual, "E-GOOD")
			})

			Convey("The summary reflects the herd", func() {
				summary := s.Summary(ctx)
				So(summary.Total, ShouldEqual, 2)
				So(summary.ByClassification[scoring.ClassStud], ShouldEqual, 1)
				So(summary.ByClassification[scoring.ClassCull], ShouldEqual, 1)

				averages := s.CriteriaAverages(ctx)
				So(averages["bcs"].Count, ShouldEqual, 2)
			})
		})
	})
}

func TestServiceBatches(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		s := startedService(t)

		Convey("An unknown batch type is rejected", func() {
			err := s.LoadBatch(ctx, "shearing", nil)
			So(err, ShouldWrap, ErrUnknownBatch)
		})

		Convey("Loading a batch replaces its predecessor", func() {
			So(s.LoadBatch(ctx, model.BatchW1, []model.Record{{"eid": "E1", "w1": 30.0}}), ShouldBeNil)
			So(s.LoadBatch(ctx, model.BatchW1, []model.Record{
				{"eid": "E1", "w1": 31.0},
				{"eid": "E2", "w1": 29.0},
			}), ShouldBeNil)

			So(s.BatchCounts(ctx), ShouldResemble, map[model.BatchType]int{model.BatchW1: 2})
		})

		Convey("ClearBatches empties everything", func() {
			So(s.LoadBatch(ctx, model.BatchW1, []model.Record{{"eid": "E1"}}), ShouldBeNil)
			s.ClearBatches(ctx)
			So(s.BatchCounts(ctx), ShouldBeEmpty)
		})
	})
}

func TestServiceRubric(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		s := startedService(t)

		Convey("The default rubric is active until replaced", func() {
			So(s.Rubric(ctx).Criteria, ShouldNotBeEmpty)

			So(s.SetRubric(ctx, testRubric()), ShouldBeNil)
			So(s.Rubric(ctx).Criteria, ShouldHaveLength, 2)
		})

		Convey("An invalid rubric is rejected and the active one kept", func() {
			active := s.Rubric(ctx)
			bad := scoring.Rubric{Criteria: []scoring.Criterion{{ID: "bcs", Operator: "around"}}}

			So(s.SetRubric(ctx, bad), ShouldWrap, scoring.ErrInvalidRubric)
			So(s.Rubric(ctx), ShouldResemble, active)
		})

		Convey("Saved-rubric operations fail without a rubric database", func() {
			So(s.SaveRubric(ctx, "x", testRubric()), ShouldWrap, ErrRubricStoreDisabled)
			_, err := s.ListRubrics(ctx)
			So(err, ShouldWrap, ErrRubricStoreDisabled)
		})
	})

	Convey("Given a service with a rubric database", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "rubrics.db")
		s := startedService(t, WithRubricDB(path))

		Convey("Rubrics persist under their names", func() {
			So(s.SaveRubric(ctx, "trial", testRubric()), ShouldBeNil)

			names, err := s.ListRubrics(ctx)
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"trial"})

			got, err := s.SavedRubric(ctx, "trial")
			So(err, ShouldBeNil)
			So(got.Criteria, ShouldHaveLength, 2)

			So(s.DeleteRubric(ctx, "trial"), ShouldBeNil)
		})
	})
}
