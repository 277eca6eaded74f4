// Package scoring evaluates fused animal records against a configurable
// rubric, producing a mark, an optional cull reason and an auditable
// per-criterion breakdown.
package scoring

import "fmt"

// Operator selects how a criterion's limits are interpreted.
type Operator string

const (
	OpBetween Operator = "between"
	OpGreater Operator = "greater"
	OpLess    Operator = "less"
)

// Criterion configures one scoring rule. Limits are independently nullable;
// when present they must satisfy lowerLimit2 <= lowerLimit <= upperLimit <=
// upperLimit2.
type Criterion struct {
	ID           string   `json:"id" koanf:"id"`
	Name         string   `json:"name" koanf:"name"`
	Enabled      bool     `json:"enabled" koanf:"enabled"`
	Operator     Operator `json:"operator" koanf:"operator"`
	LowerLimit2  *float64 `json:"lowerLimit2" koanf:"lower_limit2"`
	LowerLimit   *float64 `json:"lowerLimit" koanf:"lower_limit"`
	UpperLimit   *float64 `json:"upperLimit" koanf:"upper_limit"`
	UpperLimit2  *float64 `json:"upperLimit2" koanf:"upper_limit2"`
	CullIfFailed bool     `json:"cullIfFailed" koanf:"cull_if_failed"`
}

// Thresholds are the descending minimum marks for each classification tier.
type Thresholds struct {
	Stud        float64 `json:"stud" koanf:"stud"`
	Flock       float64 `json:"flock" koanf:"flock"`
	SecondFlock float64 `json:"secondFlock" koanf:"second_flock"`
	Cull        float64 `json:"cull" koanf:"cull"`
}

// Rubric is the full scoring configuration. Criteria order is evaluation
// order: it fixes the breakdown sequence and which cull failure sets the
// externally visible reason.
type Rubric struct {
	ClassificationPoints Thresholds  `json:"classificationPoints" koanf:"classification_points"`
	Criteria             []Criterion `json:"criteria" koanf:"criteria"`
}

// Validate checks operators and limit ordering.
func (r Rubric) Validate() error {
	for _, c := range r.Criteria {
		if c.ID == "" {
			return fmt.Errorf("%w: criterion with empty id", ErrInvalidRubric)
		}
		switch c.Operator {
		case OpBetween, OpGreater, OpLess:
		default:
			return fmt.Errorf("%w: criterion %q has unknown operator %q", ErrInvalidRubric, c.ID, c.Operator)
		}
		if err := checkOrder(c.LowerLimit2, c.LowerLimit, c.ID); err != nil {
			return err
		}
		if err := checkOrder(c.LowerLimit, c.UpperLimit, c.ID); err != nil {
			return err
		}
		if err := checkOrder(c.UpperLimit, c.UpperLimit2, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func checkOrder(lo, hi *float64, id string) error {
	if lo != nil && hi != nil && *lo > *hi {
		return fmt.Errorf("%w: criterion %q limits out of order (%v > %v)", ErrInvalidRubric, id, *lo, *hi)
	}
	return nil
}
