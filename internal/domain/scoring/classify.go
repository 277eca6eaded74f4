package scoring

// Classification tier names.
const (
	ClassStud        = "Stud"
	ClassFlock       = "Flock"
	ClassSecondFlock = "2nd Flock"
	ClassCull        = "Cull"
)

// Classify maps a mark to its tier by descending thresholds, first match
// wins, with Cull as the floor. A cull reason forces Cull regardless of the
// mark.
func Classify(mark float64, cullReason string, t Thresholds) string {
	if cullReason != "" {
		return ClassCull
	}
	switch {
	case mark >= t.Stud:
		return ClassStud
	case mark >= t.Flock:
		return ClassFlock
	case mark >= t.SecondFlock:
		return ClassSecondFlock
	}
	return ClassCull
}
