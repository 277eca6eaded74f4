package fusion

import (
	"time"

	"github.com/woolshed/flockmark/internal/domain/model"
)

// The merge rules below are applied in the canonical batch order; later rules
// depend on state set by earlier ones.

// mergeRegistration applies birth, grouping and sex fields. A registration
// field overwrites only when the incoming record carries it, so a later
// registration can overwrite an earlier one but never blanks a field out.
// A record flagged with the first-weigh process marker also sets w1, giving
// registration-sourced first weights priority over the dedicated w1 batch.
func mergeRegistration(a *model.Animal, rec model.Record) {
	setString(&a.BirthDate, rec, "dob")
	setString(&a.BirthStatus, rec, "birthStatus")
	setString(&a.Sex, rec, "sex")
	setString(&a.Dam, rec, "dam")
	setString(&a.Sire, rec, "sire")
	setString(&a.RegGroup, rec, "dssRegGroup")
	setString(&a.MgmtGroup, rec, "dssMGroup")

	if rec.String("processId") == model.FirstWeighMarker {
		if w, ok := rec.Float("weight"); ok {
			a.W1 = &w
			a.W1Date = recordDate(rec)
		}
	}
}

// mergeFirstWeight sets w1 only when still unset, preserving a
// registration-sourced value.
func mergeFirstWeight(a *model.Animal, rec model.Record) {
	if a.W1 != nil {
		return
	}
	if w, ok := rec.Float("w1"); ok {
		a.W1 = &w
		a.W1Date = recordDate(rec)
	}
}

// mergeSecondWeight sets w2 unconditionally; the final body weight used by
// the fleece pass is the second weight.
func mergeSecondWeight(a *model.Animal, rec model.Record) {
	if w, ok := rec.Float("w2"); ok {
		a.W2 = &w
		a.W2Date = recordDate(rec)
		fbw := w
		a.FinalBodyWeight = &fbw
	}
}

// mergeFleeceWeight sets the fleece weight and, when the final body weight is
// already known, the percentage of body weight shorn off.
func mergeFleeceWeight(a *model.Animal, rec model.Record) {
	fw, ok := rec.Float("fw")
	if !ok {
		return
	}
	a.FleeceWeight = &fw
	a.FleeceWeightDate = recordDate(rec)
	if a.FinalBodyWeight != nil && *a.FinalBodyWeight != 0 {
		pct := fw / *a.FinalBodyWeight * 100
		a.PercentShornOff = &pct
	}
}

// mergeWoolTestBureau overwrites all five fiber test fields with the bureau
// format. The two wool test formats are never merged field by field: each
// record replaces the full set, clearing fields its row does not carry.
func mergeWoolTestBureau(a *model.Animal, rec model.Record) {
	assignOrClear(&a.WoolMicron, rec, "mfd")
	assignOrClear(&a.CVDifference, rec, "cvDifference")
	assignOrClear(&a.ComfortFactor, rec, "comfortFactorPct")
	assignOrClear(&a.CleanYield, rec, "yieldPct")
	assignOrClear(&a.FiberLength, rec, "manualLength")
}

// mergeWoolTestOFDA overwrites the same five fields with the OFDA format.
// Processed after the bureau batch, so when both are uploaded the OFDA
// results win outright.
func mergeWoolTestOFDA(a *model.Animal, rec model.Record) {
	assignOrClear(&a.WoolMicron, rec, "micAve")
	assignOrClear(&a.CVDifference, rec, "cvDifference")
	assignOrClear(&a.ComfortFactor, rec, "cfPercent")
	assignOrClear(&a.CleanYield, rec, "yieldPercent")
	assignOrClear(&a.FiberLength, rec, "slMm")
}

// mergeVisualScores sets conformation, wool score and body condition score.
func mergeVisualScores(a *model.Animal, rec model.Record) {
	assignOrClear(&a.ConformationScore, rec, "conformation")
	assignOrClear(&a.WoolScore, rec, "woolMark")
	assignOrClear(&a.BCS, rec, "bcs")
}

// mergeBCSFallback sets the body condition score only when the visual score
// batch left it unset.
func mergeBCSFallback(a *model.Animal, rec model.Record) {
	if a.BCS != nil {
		return
	}
	if v, ok := rec.Float("bcs"); ok {
		a.BCS = &v
		a.BCSDate = recordDate(rec)
	}
}

// mergeMotherRepro applies the dam's reproduction value and group. The dam id
// may override one sourced from a registration.
func mergeMotherRepro(a *model.Animal, rec model.Record) {
	setString(&a.Dam, rec, "damId")
	assignOrClear(&a.MotherRepro, rec, "dssValue")
	group := rec.String("group")
	if group == "" {
		group = rec.String("dssGroup")
	}
	a.MotherReproGroup = group
}

// setString writes the record field when present; absent fields never blank
// out an earlier value.
func setString(dst *string, rec model.Record, key string) {
	if v := rec.String(key); v != "" {
		*dst = v
	}
}

// assignOrClear overwrites dst with the record's value, clearing it when the
// field is absent or fails numeric coercion.
func assignOrClear(dst **float64, rec model.Record, key string) {
	if v, ok := rec.Float(key); ok {
		*dst = &v
		return
	}
	*dst = nil
}

// recordDate returns the record's date field, or nil when absent/unparseable.
func recordDate(rec model.Record) *time.Time {
	if d, ok := rec.Date("date"); ok {
		return &d
	}
	return nil
}
