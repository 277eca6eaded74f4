package scoring

import (
	"fmt"
	"math"

	"github.com/woolshed/flockmark/internal/domain/model"
)

// Points awarded per criterion outcome.
const (
	pointsOptimal    = 1.0
	pointsAcceptable = 0.5
)

// Result is the outcome of scoring one animal.
type Result struct {
	Mark       float64
	CullReason string
	Breakdown  []model.BreakdownEntry
}

// Score evaluates an animal against the rubric. It is a pure function: no
// shared state between calls, safe to run concurrently across animals.
//
// Disabled criteria are skipped entirely. A missing or non-numeric value
// contributes a zero-point "missing" entry and, on a cull-marked criterion,
// triggers the cull reason just like a failure. Only the first zero-point
// cull criterion in configured order sets the reason; later ones are still
// visible in the breakdown but never overwrite it.
func Score(a *model.Animal, rubric Rubric) Result {
	var res Result
	for _, c := range rubric.Criteria {
		if !c.Enabled {
			continue
		}

		value, ok := a.Metric(c.ID)
		if !ok || math.IsNaN(value) {
			res.Breakdown = append(res.Breakdown, model.BreakdownEntry{
				Criterion: c.Name,
				Status:    model.StatusMissing,
			})
			recordCull(&res, c, 0)
			continue
		}

		points, status := evaluate(c, value)
		recordCull(&res, c, points)
		res.Mark += points

		v := value
		res.Breakdown = append(res.Breakdown, model.BreakdownEntry{
			Criterion: c.Name,
			Value:     &v,
			Points:    points,
			Status:    status,
		})
	}
	return res
}

// Apply scores and classifies an animal, attaching the audit breakdown.
func Apply(a *model.Animal, rubric Rubric) model.ScoredAnimal {
	res := Score(a, rubric)
	return model.ScoredAnimal{
		Animal:         *a,
		Mark:           res.Mark,
		Classification: Classify(res.Mark, res.CullReason, rubric.ClassificationPoints),
		CullReason:     res.CullReason,
		Breakdown:      res.Breakdown,
	}
}

// evaluate scores one value against a criterion's operator and limits.
// Between bounds are inclusive on the optimal band; the acceptable bands are
// half-open toward it so a value exactly on lowerLimit or upperLimit is
// optimal, never acceptable.
func evaluate(c Criterion, v float64) (float64, model.BreakdownStatus) {
	switch c.Operator {
	case OpBetween:
		if c.LowerLimit != nil && c.UpperLimit != nil && v >= *c.LowerLimit && v <= *c.UpperLimit {
			return pointsOptimal, model.StatusOptimal
		}
		if c.LowerLimit2 != nil && c.LowerLimit != nil && v >= *c.LowerLimit2 && v < *c.LowerLimit {
			return pointsAcceptable, model.StatusAcceptable
		}
		if c.UpperLimit != nil && c.UpperLimit2 != nil && v > *c.UpperLimit && v <= *c.UpperLimit2 {
			return pointsAcceptable, model.StatusAcceptable
		}
	case OpGreater:
		if c.LowerLimit != nil && v >= *c.LowerLimit {
			return pointsOptimal, model.StatusOptimal
		}
		if c.LowerLimit2 != nil && v >= *c.LowerLimit2 {
			return pointsAcceptable, model.StatusAcceptable
		}
	case OpLess:
		if c.UpperLimit != nil && v <= *c.UpperLimit {
			return pointsOptimal, model.StatusOptimal
		}
		if c.UpperLimit2 != nil && v <= *c.UpperLimit2 {
			return pointsAcceptable, model.StatusAcceptable
		}
	}
	return 0, model.StatusFail
}

// recordCull sets the cull reason for the first zero-point cull criterion.
func recordCull(res *Result, c Criterion, points float64) {
	if c.CullIfFailed && points == 0 && res.CullReason == "" {
		res.CullReason = fmt.Sprintf("Failed cull criterion: %s", c.Name)
	}
}
