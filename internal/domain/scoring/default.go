package scoring

// DefaultRubric returns the stock configuration: fourteen criteria over the
// growth, fiber, score and reproduction metrics, with classification
// thresholds stud 8 / flock 6 / 2nd flock 4. Limits left nil are meant to be
// filled in per flock before use; criteria with nil limits score as fail for
// any present value, so operators typically adjust or disable them.
func DefaultRubric() Rubric {
	return Rubric{
		ClassificationPoints: Thresholds{Stud: 8, Flock: 6, SecondFlock: 4, Cull: 0},
		Criteria: []Criterion{
			{ID: "w1", Name: "W1 (First Weight)", Enabled: true, Operator: OpBetween},
			{ID: "w2", Name: "W2 (Second Weight)", Enabled: true, Operator: OpBetween},
			{ID: "adg", Name: "ADG (Average Daily Gain)", Enabled: true, Operator: OpGreater},
			{ID: "fleeceWeight", Name: "Fleece Weight", Enabled: true, Operator: OpGreater},
			{ID: "cleanYield", Name: "Clean Yield", Enabled: true, Operator: OpGreater},
			{ID: "percentShornOff", Name: "% Shorn Off BW", Enabled: true, Operator: OpBetween},
			{ID: "bcs", Name: "BCS (Body Condition Score)", Enabled: true, Operator: OpBetween,
				LowerLimit2: f(2), LowerLimit: f(2.5), UpperLimit: f(3.5), UpperLimit2: f(4)},
			{ID: "conformationScore", Name: "Conformation Score", Enabled: true, Operator: OpGreater,
				LowerLimit: f(6)},
			{ID: "woolScore", Name: "Wool Score", Enabled: true, Operator: OpGreater,
				LowerLimit: f(6)},
			{ID: "motherRepro", Name: "Mother Reproduction", Enabled: true, Operator: OpGreater},
			{ID: "comfortFactor", Name: "Comfort Factor", Enabled: true, Operator: OpGreater,
				LowerLimit: f(98)},
			{ID: "woolMicron", Name: "Wool Micron", Enabled: true, Operator: OpLess,
				UpperLimit: f(19)},
			{ID: "cvDifference", Name: "CV Difference", Enabled: true, Operator: OpLess,
				UpperLimit: f(5)},
			{ID: "fiberLength", Name: "Fiber/Staple Length (mm)", Enabled: true, Operator: OpGreater,
				LowerLimit: f(80)},
		},
	}
}

func f(v float64) *float64 { return &v }
