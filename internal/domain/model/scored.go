package model

// BreakdownStatus labels the outcome of one criterion evaluation.
type BreakdownStatus string

const (
	StatusOptimal    BreakdownStatus = "optimal"
	StatusAcceptable BreakdownStatus = "acceptable"
	StatusFail       BreakdownStatus = "fail"
	StatusMissing    BreakdownStatus = "missing"
)

// BreakdownEntry is the audit record for one evaluated criterion. Value is
// nil when the animal had no usable measurement.
type BreakdownEntry struct {
	Criterion string          `json:"criterion"`
	Value     *float64        `json:"value"`
	Points    float64         `json:"points"`
	Status    BreakdownStatus `json:"status"`
}

// ScoredAnimal is a fused animal augmented with its mark, classification and
// per-criterion breakdown. Immutable once produced.
type ScoredAnimal struct {
	Animal
	Mark           float64          `json:"dssmark"`
	Classification string           `json:"classification"`
	CullReason     string           `json:"cullReason,omitempty"`
	Breakdown      []BreakdownEntry `json:"breakdown"`
}
