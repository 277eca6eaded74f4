package scoring

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/woolshed/flockmark/internal/domain/model"
)

func betweenCriterion(id string, lo2, lo, hi, hi2 float64) Criterion {
	return Criterion{
		ID: id, Name: id, Enabled: true, Operator: OpBetween,
		LowerLimit2: f(lo2), LowerLimit: f(lo), UpperLimit: f(hi), UpperLimit2: f(hi2),
	}
}

func animalWith(id string, v float64) *model.Animal {
	a := &model.Animal{}
	switch id {
	case "bcs":
		a.BCS = &v
	case "woolMicron":
		a.WoolMicron = &v
	case "adg":
		a.ADG = &v
	case "conformationScore":
		a.ConformationScore = &v
	}
	return a
}

func TestScoreBetween(t *testing.T) {
	Convey("Given a between criterion 2 / 2.5 / 3.5 / 4", t, func() {
		rubric := Rubric{Criteria: []Criterion{betweenCriterion("bcs", 2, 2.5, 3.5, 4)}}

		cases := []struct {
			value  float64
			points float64
			status model.BreakdownStatus
		}{
			{3.0, 1, model.StatusOptimal},
			{2.5, 1, model.StatusOptimal},
			{3.5, 1, model.StatusOptimal},
			{2.2, 0.5, model.StatusAcceptable},
			{2.0, 0.5, model.StatusAcceptable},
			{3.8, 0.5, model.StatusAcceptable},
			{4.0, 0.5, model.StatusAcceptable},
			{1.9, 0, model.StatusFail},
			{4.1, 0, model.StatusFail},
		}

		for _, c := range cases {
			res := Score(animalWith("bcs", c.value), rubric)
			So(res.Mark, ShouldEqual, c.points)
			So(res.Breakdown, ShouldHaveLength, 1)
			So(res.Breakdown[0].Status, ShouldEqual, c.status)
		}
	})
}

func TestScoreGreaterAndLess(t *testing.T) {
	Convey("Given a greater criterion with both limits", t, func() {
		rubric := Rubric{Criteria: []Criterion{{
			ID: "adg", Name: "adg", Enabled: true, Operator: OpGreater,
			LowerLimit2: f(0.2), LowerLimit: f(0.3),
		}}}

		Convey("At or above the optimal limit scores full points", func() {
			So(Score(animalWith("adg", 0.3), rubric).Mark, ShouldEqual, 1)
			So(Score(animalWith("adg", 0.5), rubric).Mark, ShouldEqual, 1)
		})

		Convey("Between the limits scores half points", func() {
			So(Score(animalWith("adg", 0.25), rubric).Mark, ShouldEqual, 0.5)
		})

		Convey("Below both limits fails", func() {
			So(Score(animalWith("adg", 0.1), rubric).Mark, ShouldEqual, 0)
		})
	})

	Convey("Given a less criterion with both limits", t, func() {
		rubric := Rubric{Criteria: []Criterion{{
			ID: "woolMicron", Name: "woolMicron", Enabled: true, Operator: OpLess,
			UpperLimit: f(19), UpperLimit2: f(21),
		}}}

		Convey("At or under the optimal limit scores full points", func() {
			So(Score(animalWith("woolMicron", 18.5), rubric).Mark, ShouldEqual, 1)
			So(Score(animalWith("woolMicron", 19), rubric).Mark, ShouldEqual, 1)
		})

		Convey("Between the limits scores half points", func() {
			So(Score(animalWith("woolMicron", 20), rubric).Mark, ShouldEqual, 0.5)
		})

		Convey("Over both limits fails", func() {
			So(Score(animalWith("woolMicron", 22), rubric).Mark, ShouldEqual, 0)
		})
	})
}

func TestScoreMissingValues(t *testing.T) {
	Convey("Given an animal missing a criterion's metric", t, func() {
		rubric := Rubric{Criteria: []Criterion{
			betweenCriterion("bcs", 2, 2.5, 3.5, 4),
		}}

		Convey("The breakdown carries a zero-point missing entry", func() {
			res := Score(&model.Animal{}, rubric)
			So(res.Mark, ShouldEqual, 0)
			So(res.Breakdown, ShouldHaveLength, 1)
			So(res.Breakdown[0].Status, ShouldEqual, model.StatusMissing)
			So(res.Breakdown[0].Value, ShouldBeNil)
			So(res.CullReason, ShouldBeEmpty)
		})
	})

	Convey("Given a missing metric on a cull-marked criterion", t, func() {
		c := betweenCriterion("bcs", 2, 2.5, 3.5, 4)
		c.CullIfFailed = true
		rubric := Rubric{Criteria: []Criterion{c}}

		Convey("The missing value triggers the cull reason", func() {
			res := Score(&model.Animal{}, rubric)
			So(res.CullReason, ShouldEqual, "Failed cull criterion: bcs")
		})
	})
}

func TestScoreCullReason(t *testing.T) {
	Convey("Given two cull-marked criteria that both fail", t, func() {
		first := betweenCriterion("bcs", 2, 2.5, 3.5, 4)
		first.CullIfFailed = true
		second := Criterion{
			ID: "woolMicron", Name: "woolMicron", Enabled: true, Operator: OpLess,
			UpperLimit: f(19), CullIfFailed: true,
		}
		rubric := Rubric{Criteria: []Criterion{first, second}}

		a := &model.Animal{}
		bcs, micron := 1.0, 25.0
		a.BCS = &bcs
		a.WoolMicron = &micron

		Convey("The first failure in configured order sets the reason", func() {
			res := Score(a, rubric)
			So(res.CullReason, ShouldEqual, "Failed cull criterion: bcs")
			So(res.Breakdown, ShouldHaveLength, 2)
			So(res.Breakdown[1].Status, ShouldEqual, model.StatusFail)
		})
	})

	Convey("Given a cull-marked criterion that only drops to acceptable", t, func() {
		c := betweenCriterion("bcs", 2, 2.5, 3.5, 4)
		c.CullIfFailed = true
		rubric := Rubric{Criteria: []Criterion{c}}

		Convey("Half points never trigger a cull", func() {
			res := Score(animalWith("bcs", 2.2), rubric)
			So(res.Mark, ShouldEqual, 0.5)
			So(res.CullReason, ShouldBeEmpty)
		})
	})
}

func TestScoreDisabledCriteria(t *testing.T) {
	Convey("Given a disabled criterion", t, func() {
		c := betweenCriterion("bcs", 2, 2.5, 3.5, 4)
		c.Enabled = false
		rubric := Rubric{Criteria: []Criterion{c}}

		Convey("It contributes neither points nor a breakdown entry", func() {
			res := Score(animalWith("bcs", 3.0), rubric)
			So(res.Mark, ShouldEqual, 0)
			So(res.Breakdown, ShouldBeEmpty)
		})
	})
}

func TestScoreMarkIsSumOfPoints(t *testing.T) {
	Convey("Given several criteria", t, func() {
		rubric := Rubric{Criteria: []Criterion{
			betweenCriterion("bcs", 2, 2.5, 3.5, 4),
			{ID: "woolMicron", Name: "woolMicron", Enabled: true, Operator: OpLess,
				UpperLimit: f(19), UpperLimit2: f(21)},
			{ID: "conformationScore", Name: "conformationScore", Enabled: true,
				Operator: OpGreater, LowerLimit: f(6)},
		}}

		bcs, micron, conf := 3.0, 20.0, 7.0
		a := &model.Animal{BCS: &bcs, WoolMicron: &micron, ConformationScore: &conf}

		Convey("The mark equals the sum of the breakdown points", func() {
			res := Score(a, rubric)
			So(res.Mark, ShouldEqual, 2.5)

			var sum float64
			for _, entry := range res.Breakdown {
				sum += entry.Points
			}
			So(res.Mark, ShouldEqual, sum)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given an animal and thresholds 8/6/4", t, func() {
		rubric := Rubric{
			ClassificationPoints: Thresholds{Stud: 8, Flock: 6, SecondFlock: 4},
			Criteria: []Criterion{
				betweenCriterion("bcs", 2, 2.5, 3.5, 4),
			},
		}
		a := animalWith("bcs", 3.0)

		Convey("Apply attaches mark, classification and breakdown", func() {
			scored := Apply(a, rubric)
			So(scored.Mark, ShouldEqual, 1)
			So(scored.Classification, ShouldEqual, ClassCull)
			So(scored.Breakdown, ShouldHaveLength, 1)
			So(scored.BCS, ShouldNotBeNil)
		})
	})
}
