// Package stats computes herd-level summaries over scored animals for
// dashboard and report consumers.
package stats

import (
	"math"

	"github.com/woolshed/flockmark/internal/domain/model"
)

// summaryMetrics are the headline metrics averaged in a Summary.
var summaryMetrics = []string{"w1", "w2", "adg", "fleeceWeight", "woolMicron", "bcs"}

// Summary aggregates a scored herd.
type Summary struct {
	Total            int                `json:"total"`
	ByClassification map[string]int     `json:"byClassification"`
	Averages         map[string]float64 `json:"averages"`
	MarkDistribution map[int]int        `json:"markDistribution"`
}

// FieldStats describes the spread of one metric across the herd.
type FieldStats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Summarize computes classification counts, headline metric averages and the
// integer mark distribution. Absent metric values are excluded from averages;
// a metric with no values averages to zero.
func Summarize(animals []model.ScoredAnimal) Summary {
	s := Summary{
		ByClassification: make(map[string]int),
		Averages:         make(map[string]float64),
		MarkDistribution: make(map[int]int),
	}
	if len(animals) == 0 {
		return s
	}
	s.Total = len(animals)

	for _, a := range animals {
		s.ByClassification[a.Classification]++
		s.MarkDistribution[int(math.Floor(a.Mark))]++
	}

	for _, metric := range summaryMetrics {
		var sum float64
		var n int
		for i := range animals {
			if v, ok := animals[i].Metric(metric); ok && !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n > 0 {
			s.Averages[metric] = sum / float64(n)
		} else {
			s.Averages[metric] = 0
		}
	}

	var markSum float64
	for _, a := range animals {
		markSum += a.Mark
	}
	s.Averages["dssmark"] = markSum / float64(len(animals))

	return s
}

// CriteriaAverages computes avg/min/max/count for every criterion metric.
// Metrics with no values across the herd are omitted.
func CriteriaAverages(animals []model.ScoredAnimal) map[string]FieldStats {
	out := make(map[string]FieldStats)
	for _, metric := range model.MetricIDs {
		var sum, minV, maxV float64
		var n int
		for i := range animals {
			v, ok := animals[i].Metric(metric)
			if !ok || math.IsNaN(v) {
				continue
			}
			if n == 0 {
				minV, maxV = v, v
			} else {
				minV = math.Min(minV, v)
				maxV = math.Max(maxV, v)
			}
			sum += v
			n++
		}
		if n > 0 {
			out[metric] = FieldStats{Avg: sum / float64(n), Min: minV, Max: maxV, Count: n}
		}
	}
	return out
}
